package main

import (
	"dailyreading-backend/internal/application"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/configutil"
	"dailyreading-backend/lib/serviceutil"
	"flag"
	"log/slog"
	"net/http"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	initialScrape := flag.Bool("scrape", false, "Scrape today's passage immediately on run.")
	configPath := flag.String("config", "config.json5", "The config file to read.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[application.Config](*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	opts := application.Options{Telemetry: telemetry.SlogAPI{}}
	if *verbose {
		opts.RestyOutputDir = ".dev/resty"
	}
	app, err := application.New(ctx, cfg, opts)
	if err != nil {
		serviceutil.Fatal("init application", err)
	}
	defer app.Close()

	stopPrefetch, err := app.StartPrefetch()
	if err != nil {
		serviceutil.Fatal("schedule prefetch", err)
	}
	defer stopPrefetch()

	if *initialScrape {
		go func() {
			result, err := app.Service.GetPassage(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "initial scrape", "err", err)
				return
			}
			slog.InfoContext(ctx, "initial scrape", "day", result.DayKey, "references", result.References)
		}()
	}

	mux := http.NewServeMux()
	app.Service.Register(mux)

	err = serviceutil.StartHttpServer(ctx, app.Config.Port, serviceutil.NewHandler(mux, app.Config.AllowedOrigins))
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}
