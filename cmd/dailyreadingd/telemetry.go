package main

import (
	"context"
	"dailyreading-backend/lib/serviceutil"
	"dailyreading-backend/lib/telemetry"
	"log/slog"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tel, err := telemetry.SetupFromEnv(ctx, "dailyreadingd")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("shutdown telemetry", "err", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx)
}
