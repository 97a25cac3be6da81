// Package aggregator runs the price guide scrape over the color catalog, one
// color at a time, and writes the collected snapshots as a JSON array.
package aggregator

import (
	"brickprices/internal/catalog"
	"brickprices/internal/components/assert"
	"brickprices/internal/components/telemetry"
	"brickprices/internal/pricing"
	"brickprices/lib/textutil"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("brickprices.aggregator")

const (
	report_aggregator_run       = "aggregator.run"
	report_aggregator_collected = "aggregator.collected"
	report_aggregator_skipped   = "aggregator.skipped"
)

const (
	DefaultDryRunLimit = 10
	// fuzzyThreshold is the minimum Jaro-Winkler similarity for a color name to match a filter.
	fuzzyThreshold = 0.9
)

// Fetcher produces the price snapshot of a single color, false with a nil
// error means the color was skipped.
type Fetcher interface {
	FetchColor(ctx context.Context, color catalog.ColorRecord) (pricing.PriceSnapshot, bool, error)
}

type Options struct {
	// DryRun only processes the first DryRunLimit colors.
	DryRun      bool
	DryRunLimit int
	// Only keeps the colors whose name matches one of these, applied before DryRun.
	Only []string
}

type Aggregator struct {
	fetcher Fetcher
	options Options
	tel     telemetry.API
}

func New(fetcher Fetcher, options Options, tel telemetry.API) Aggregator {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	if options.DryRunLimit <= 0 {
		options.DryRunLimit = DefaultDryRunLimit
	}
	return Aggregator{
		fetcher: fetcher,
		options: options,
		tel:     telemetry.NewScopedAPI("aggregator", tel),
	}
}

// Select returns the colors a run will process, in catalog order.
func (a Aggregator) Select(colors []catalog.ColorRecord) []catalog.ColorRecord {
	selected := colors
	if len(a.options.Only) > 0 {
		selected = nil
		for _, color := range colors {
			if textutil.MatchNameFuzzy(color.Name, a.options.Only, fuzzyThreshold) {
				selected = append(selected, color)
			}
		}
	}
	if a.options.DryRun && len(selected) > a.options.DryRunLimit {
		selected = selected[:a.options.DryRunLimit]
	}
	return selected
}

func (a Aggregator) fetchOne(ctx context.Context, color catalog.ColorRecord) (snapshot pricing.PriceSnapshot, ok bool, err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			snapshot, ok = pricing.PriceSnapshot{}, false
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return a.fetcher.FetchColor(ctx, color)
}

// Run fetches every selected color sequentially and returns the snapshots
// that succeeded, in catalog order.
//
// failures never stop the run, they are reported and the color is left out.
// a cancelled context stops the run early with what was collected so far.
func (a Aggregator) Run(ctx context.Context, colors []catalog.ColorRecord) []pricing.PriceSnapshot {
	selected := a.Select(colors)

	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("colors", len(colors)),
		attribute.Int("selected", len(selected)),
	))
	defer span.End()

	a.tel.ReportDebug("processing colors", len(selected), len(colors))

	results := []pricing.PriceSnapshot{}
	skipped := 0
	for _, color := range selected {
		if ctx.Err() != nil {
			a.tel.ReportWarning(report_aggregator_run, fmt.Errorf("run stopped early: %w", ctx.Err()))
			break
		}

		snapshot, ok, err := a.fetchOne(ctx, color)
		if err != nil {
			a.tel.ReportBroken(
				report_aggregator_run,
				fmt.Errorf("failed to fetch data for color %s: %w", color.Name, err),
			)
			skipped++
			continue
		}
		if !ok {
			skipped++
			continue
		}
		results = append(results, snapshot)
	}

	span.SetAttributes(
		attribute.Int("collected", len(results)),
		attribute.Int("skipped", skipped),
	)
	a.tel.ReportCount(report_aggregator_collected, int64(len(results)))
	a.tel.ReportCount(report_aggregator_skipped, int64(skipped))
	return results
}

// Emit writes the snapshots as a single pretty-printed JSON array.
func Emit(w io.Writer, snapshots []pricing.PriceSnapshot) error {
	if snapshots == nil {
		snapshots = []pricing.PriceSnapshot{}
	}
	encoded, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	_, err = w.Write(encoded)
	return err
}
