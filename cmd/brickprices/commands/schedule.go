package commands

import (
	"brickprices/internal/components/chrono"
	"brickprices/internal/components/telemetry"
	"brickprices/lib/otelutil"
	"brickprices/lib/util/serviceutil"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	scheduleOptions scrapeFlags
	scheduleSpec    *string
)

func init() {
	scheduleOptions = registerScrapeFlags(scheduleCmd.Flags())
	scheduleSpec = scheduleCmd.Flags().String("cron", "@daily", "When to scrape, in cron syntax.")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule --db <path/to/history.db> [--cron <spec>]",
	Short: "Scrapes on a cron schedule and records every run to the history database until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd.Flags(), scheduleOptions)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.HistoryDb == "" {
			serviceutil.Fatal("no history db", fmt.Errorf("schedule needs --db or history_db in the config"))
		}

		shutdown := setupOtel(cmd.Context(), cfg)
		defer shutdown()

		tel := telemetry.SlogAPI{}
		j := newJob(cfg, *scheduleOptions.only, tel)
		history := openHistory(cfg)
		defer history.Close()

		ctx, cancel := serviceutil.SignalContext(cmd.Context())
		defer cancel()

		if cfg.Telemetry.Otlp.Metrics.Enabled() {
			otelutil.InstrumentPerfStats(ctx, 30*time.Second, tel)
		}

		cron := chrono.NewStandardCron(tel, j.time)
		err = cron.Cron(*scheduleSpec, func() {
			_, err := j.run(ctx, history)
			if err != nil {
				slog.Error("scheduled scrape failed", "err", err)
			}
		})
		if err != nil {
			serviceutil.Fatal("invalid cron spec", err)
		}
		slog.Info("scheduled scrape", "cron", *scheduleSpec, "db", cfg.HistoryDb)

		<-ctx.Done()
		slog.Info("stopping, waiting for the current run to finish")
		<-cron.Stop().Done()
	},
}
