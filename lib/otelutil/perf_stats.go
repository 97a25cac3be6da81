package otelutil

import (
	"brickprices/internal/components/telemetry"
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const report_perf_stats_cpu = "perf-stats.cpu"

var meter = otel.Meter("brickprices.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// PerfStats is a single sample of the process' resource usage.
type PerfStats struct {
	CpuPercent  float64
	AllocatedMb int64
	LiveObjects int64
	Goroutines  int64
}

// SamplePerfStats measures cpu usage over `window`, a zero window compares
// against the previous call.
func SamplePerfStats(ctx context.Context, window time.Duration) (PerfStats, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		Goroutines:  int64(runtime.NumGoroutine()),
	}

	cpuUsage, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return stats, err
	}
	if len(cpuUsage) > 0 {
		stats.CpuPercent = cpuUsage[0]
	}
	return stats, nil
}

// InstrumentPerfStats records a PerfStats sample to the global meter every
// `interval` until ctx is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration, tel telemetry.API) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats, err := SamplePerfStats(ctx, 0)
				if err != nil {
					tel.ReportWarning(report_perf_stats_cpu, err.Error())
				} else {
					cpuGauge.Record(ctx, stats.CpuPercent)
				}
				memoryGauge.Record(ctx, stats.AllocatedMb)
				liveObjectsGauge.Record(ctx, stats.LiveObjects)
				goroutineGauge.Record(ctx, stats.Goroutines)
			case <-ctx.Done():
				return
			}
		}
	}()
}
