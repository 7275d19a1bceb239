package telemetry

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentPerfStats registers process gauges that are read whenever the
// meter provider collects. cpu usage is sampled every `interval` in the
// background since a sample has to span a window of time.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second * 30
	}
	meter := otel.Meter("toolbox.perf_stats")

	cpuUsage, err1 := meter.Float64ObservableGauge("cpu_usage", metric.WithUnit("%"))
	allocated, err2 := meter.Int64ObservableGauge("allocated_mb", metric.WithUnit("MBy"))
	liveObjects, err3 := meter.Int64ObservableGauge("live_objects")
	goroutines, err4 := meter.Int64ObservableGauge("goroutine_count")
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			slog.WarnContext(ctx, "failed to create perf gauge", "err", err)
			return
		}
	}

	// float64 bits of the last cpu sample
	var lastCpu atomic.Uint64

	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		o.ObserveFloat64(cpuUsage, math.Float64frombits(lastCpu.Load()))
		o.ObserveInt64(allocated, int64(mem.Alloc/1_000_000))
		o.ObserveInt64(liveObjects, int64(mem.Mallocs)-int64(mem.Frees))
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		return nil
	}, cpuUsage, allocated, liveObjects, goroutines)
	if err != nil {
		slog.WarnContext(ctx, "failed to register perf callback", "err", err)
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			percents, err := cpu.PercentWithContext(ctx, time.Second, false)
			if err != nil {
				slog.DebugContext(ctx, "failed to sample cpu usage", "err", err)
				continue
			}
			if len(percents) > 0 {
				lastCpu.Store(math.Float64bits(percents[0]))
			}
		}
	}()
}
