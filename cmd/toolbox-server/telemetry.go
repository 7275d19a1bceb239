package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"
	"toolbox-backend/lib/restyutil"
	"toolbox-backend/lib/serviceutil"
	"toolbox-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "toolbox-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx, time.Second*15)
}

// dumpOutputs hands out per-service directories for http message dumps,
// it returns nil outputs unless verbose is on.
type dumpOutputs struct {
	verbose bool
}

func (d dumpOutputs) For(service string) restyutil.InstrumentOutput {
	if !d.verbose {
		return nil
	}
	output, err := restyutil.NewFilesystemOutput(filepath.Join(".dev/resty", service))
	if err != nil {
		slog.Warn("failed to create resty dump directory", "service", service, "err", err)
		return nil
	}
	return output
}
