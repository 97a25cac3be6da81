package commands

import (
	"brickprices/internal/aggregator"
	"brickprices/internal/catalog"
	"brickprices/internal/components/assert"
	"brickprices/internal/components/chrono"
	"brickprices/internal/components/telemetry"
	"brickprices/internal/pricing"
	"brickprices/internal/store"
	"brickprices/lib/otelutil"
	"brickprices/lib/util/serviceutil"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	scrapeOptions scrapeFlags
	scrapeSummary *bool
)

func init() {
	scrapeOptions = registerScrapeFlags(scrapeCmd.Flags())
	scrapeSummary = scrapeCmd.Flags().Bool("summary", false, "Render a table of the average prices to stderr.")
	rootCmd.AddCommand(scrapeCmd)
}

// job is everything a scrape needs that outlives a single run.
type job struct {
	cfg    Config
	only   []string
	colors []catalog.ColorRecord
	tel    telemetry.API
	time   chrono.API
}

func newJob(cfg Config, only []string, tel telemetry.API) job {
	assert.NotEmptyStr(cfg.ColorsPath)

	colors, err := catalog.LoadColors(cfg.ColorsPath)
	if err != nil {
		serviceutil.Fatal("failed to load color catalog", err)
	}
	_, err = cfg.newClient(tel)
	if err != nil {
		serviceutil.Fatal("failed to create bricklink client", err)
	}
	loc, err := cfg.location()
	if err != nil {
		serviceutil.Fatal("unknown timezone", err)
	}
	return job{
		cfg:    cfg,
		only:   only,
		colors: colors,
		tel:    tel,
		time:   chrono.NewStandardImpl(loc),
	}
}

// run scrapes the selected colors once and records the result to `history`
// when it is set. every run gets its own client, and so its own cache.
func (j job) run(ctx context.Context, history *store.Store) ([]pricing.PriceSnapshot, error) {
	client, err := j.cfg.newClient(j.tel)
	if err != nil {
		return nil, fmt.Errorf("create bricklink client: %w", err)
	}
	agg := aggregator.New(client, j.cfg.aggregatorOptions(j.only), j.tel)

	start := j.time.Now()
	results := agg.Run(ctx, j.colors)
	slog.Info(
		"scrape finished",
		"colors", len(j.colors),
		"snapshots", len(results),
		"seconds", time.Since(start).Seconds(),
	)

	if history != nil {
		runId, err := history.RecordRun(ctx, start, j.cfg.ItemID, results)
		if err != nil {
			slog.Error("failed to record run", "err", err)
		} else {
			slog.Info("recorded run", "id", runId, "db", j.cfg.HistoryDb)
		}
	}
	return results, nil
}

// scrape runs `j` once and writes the JSON array to `out`, the summary table
// follows it on `summary` when that is not nil.
func scrape(ctx context.Context, j job, history *store.Store, out, summary io.Writer) error {
	results, err := j.run(ctx, history)
	if err != nil {
		return err
	}
	err = aggregator.Emit(out, results)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if summary != nil {
		renderSummary(summary, results)
	}
	return nil
}

// setupOtel installs the OTLP exporters in the config, the returned function
// flushes them.
func setupOtel(ctx context.Context, cfg Config) func() {
	otelTel, err := otelutil.Setup(ctx, "brickprices", cfg.Telemetry)
	if err != nil {
		serviceutil.Fatal("failed to setup otel", err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := otelTel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush otel", "err", err)
		}
	}
}

func openHistory(cfg Config) *store.Store {
	if cfg.HistoryDb == "" {
		return nil
	}
	history, err := store.Open(cfg.HistoryDb)
	if err != nil {
		serviceutil.Fatal("failed to open history db", err)
	}
	return &history
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--colors <path/to/lego-colors.json>] [--dry-run] [--only <color>]... [--db <path/to/history.db>]",
	Short: "Scrapes the price guide of every color and writes a JSON array to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd.Flags(), scrapeOptions)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		shutdown := setupOtel(cmd.Context(), cfg)
		defer shutdown()

		tel := telemetry.SlogAPI{}
		j := newJob(cfg, *scrapeOptions.only, tel)

		history := openHistory(cfg)
		if history != nil {
			defer history.Close()
		}

		var summary io.Writer
		if *scrapeSummary {
			summary = os.Stderr
		}
		err = scrape(cmd.Context(), j, history, os.Stdout, summary)
		if err != nil {
			slog.Error("scrape failed", "err", err)
		}
	},
}
