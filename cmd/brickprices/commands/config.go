package commands

import (
	"brickprices/internal/aggregator"
	"brickprices/internal/components/telemetry"
	"brickprices/internal/pricecache"
	"brickprices/internal/scrapers/bricklink"
	"brickprices/lib/configutil"
	"brickprices/lib/otelutil"
	"brickprices/lib/restyutil"
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	// ColorsPath is the Rebrickable color catalog dump.
	ColorsPath  string `json:"colors_path"`
	BaseUrl     string `json:"base_url"`
	ItemID      string `json:"item_id"`
	DryRun      bool   `json:"dry_run"`
	DryRunLimit int    `json:"dry_run_limit"`
	// TimeoutSeconds bounds every request, 0 or less means no timeout.
	TimeoutSeconds   int  `json:"timeout_seconds"`
	CloudflareBypass bool `json:"cloudflare_bypass"`
	// CacheSize is the amount of price guides kept in memory during a run,
	// 0 or less disables the cache.
	//
	// zero values in a .local override are ignored, a local file turns the
	// timeout or the cache off with a negative value.
	CacheSize int `json:"cache_size"`
	// HistoryDb is the sqlite database every run is recorded to, empty disables it.
	HistoryDb string `json:"history_db"`
	// ResponseDir is where fetched price guides are written to, empty disables it.
	ResponseDir string `json:"response_dir"`
	// Timezone is the IANA location run timestamps and cron specs are in,
	// empty means UTC.
	Timezone  string          `json:"timezone"`
	Telemetry otelutil.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		ColorsPath:  "data/lego-colors.json",
		BaseUrl:     bricklink.DefaultBaseUrl,
		ItemID:      bricklink.DefaultItemID,
		DryRunLimit: aggregator.DefaultDryRunLimit,
	}
}

// scrapeFlags are the flags shared by every command that scrapes.
type scrapeFlags struct {
	colors    *string
	dryRun    *bool
	only      *[]string
	db        *string
	responses *string
}

func registerScrapeFlags(flags *pflag.FlagSet) scrapeFlags {
	return scrapeFlags{
		colors:    flags.String("colors", "", "The color catalog to read, overrides colors_path in the config."),
		dryRun:    flags.Bool("dry-run", false, "Only process the first dry_run_limit colors (10 by default), overrides dry_run in the config."),
		only:      flags.StringArray("only", nil, "Only process colors whose name matches, may be repeated."),
		db:        flags.String("db", "", "Record the run to this sqlite database, overrides history_db in the config."),
		responses: flags.String("responses", "", "Write every fetched price guide to this directory, overrides response_dir in the config."),
	}
}

// loadConfig merges defaults, the config files and the flags that were set,
// in increasing priority.
func loadConfig(flags *pflag.FlagSet, sf scrapeFlags) (Config, error) {
	cfg, err := configutil.ReadConfig(*configPath, defaultConfig(), flags.Changed("config"))
	if err != nil {
		return Config{}, err
	}
	if flags.Changed("colors") {
		cfg.ColorsPath = *sf.colors
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = *sf.dryRun
	}
	if flags.Changed("db") {
		cfg.HistoryDb = *sf.db
	}
	if flags.Changed("responses") {
		cfg.ResponseDir = *sf.responses
	}
	return cfg, nil
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) aggregatorOptions(only []string) aggregator.Options {
	return aggregator.Options{
		DryRun:      c.DryRun,
		DryRunLimit: c.DryRunLimit,
		Only:        only,
	}
}

func (c Config) newClient(tel telemetry.API) (*bricklink.Client, error) {
	cache, err := pricecache.New(c.CacheSize)
	if err != nil {
		return nil, err
	}
	options := bricklink.Options{
		BaseUrl:          c.BaseUrl,
		ItemID:           c.ItemID,
		Timeout:          c.timeout(),
		CloudflareBypass: c.CloudflareBypass,
		Cache:            cache,
	}
	if c.ResponseDir != "" {
		output, err := restyutil.NewFilesystemOutput(c.ResponseDir)
		if err != nil {
			return nil, err
		}
		options.Output = output
	}
	return bricklink.NewClient(options, tel), nil
}
