// Package application wires the daily passage service together out of a
// Config, it is shared by the daemon and the CLI.
package application

import (
	"context"
	"dailyreading-backend/internal/chrono"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/restyutil"
	"dailyreading-backend/lib/scraper"
	"dailyreading-backend/lib/scrapers/biblegateway"
	"dailyreading-backend/lib/scrapers/sjcac"
	"dailyreading-backend/services/dailypassage"
	"dailyreading-backend/services/dailypassage/db"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

type Options struct {
	Telemetry telemetry.API
	// RestyOutputDir receives request/response dumps of every upstream
	// request, empty disables dumping.
	RestyOutputDir string
}

type Application struct {
	Config  Config
	DB      *sql.DB
	Clock   chrono.StandardImpl
	Service dailypassage.Service
	tel     telemetry.API
}

func New(ctx context.Context, cfg Config, opts Options) (Application, error) {
	cfg = cfg.withDefaults()
	err := cfg.validate()
	if err != nil {
		return Application{}, err
	}
	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return Application{}, err
	}

	source, err := newSource(cfg, opts, tel)
	if err != nil {
		return Application{}, err
	}
	passages := biblegateway.NewClient(
		newClient(cfg, opts, tel, "biblegateway", 30*time.Second),
		tel,
	)

	database, err := cfg.Database.OpenDB(ctx, db.Schema)
	if err != nil {
		return Application{}, err
	}

	service := dailypassage.NewService(dailypassage.ServiceOptions{
		Database:      database,
		Source:        source,
		Passages:      passages,
		Clock:         clock,
		Telemetry:     tel,
		SkipDateCheck: cfg.SkipDateCheck,
		CacheTTL:      cfg.cacheTTL(),
	})

	return Application{
		Config:  cfg,
		DB:      database,
		Clock:   clock,
		Service: service,
		tel:     tel,
	}, nil
}

func newClient(cfg Config, opts Options, tel telemetry.API, name string, timeout time.Duration) *resty.Client {
	var output restyutil.InstrumentOutput
	if opts.RestyOutputDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(filepath.Join(opts.RestyOutputDir, name))
		if err != nil {
			tel.ReportWarning("application.resty-output", err, name)
		} else {
			output = fsOutput
		}
	}
	return scraper.NewClient(scraper.ClientOptions{
		Name:             name,
		Timeout:          timeout,
		CloudflareBypass: cfg.CloudflareBypass,
		Output:           output,
		Telemetry:        tel,
	})
}

func newSource(cfg Config, opts Options, tel telemetry.API) (dailypassage.SourceExtractor, error) {
	rule := sjcac.LinkRule{Host: cfg.Source.PassageHost, Version: cfg.Source.Version}
	if cfg.Source.Strategy == StrategyRendered {
		rendered, err := sjcac.NewRenderedClient(sjcac.RenderedOptions{
			Url:          cfg.Source.Url,
			DateSelector: cfg.Source.DateSelector,
			LinkSelector: cfg.Source.LinkSelector,
			Link:         &rule,
			BrowserBin:   cfg.Source.BrowserBin,
		}, tel)
		if err != nil {
			return nil, err
		}
		return rendered, nil
	}
	return sjcac.NewWarmupClient(
		newClient(cfg, opts, tel, "sjcac", 10*time.Second),
		sjcac.WarmupOptions{Url: cfg.Source.Url, Link: &rule},
		tel,
	), nil
}

// StartPrefetch schedules the prefetch job when one is configured, the
// returned stop function is a no-op otherwise.
func (a Application) StartPrefetch() (stop func(), err error) {
	if a.Config.PrefetchCron == "" {
		return func() {}, nil
	}
	cron := chrono.NewStandardCron(a.Clock, a.tel)
	err = a.Service.StartPrefetch(cron, a.Config.PrefetchCron)
	if err != nil {
		<-cron.Stop().Done()
		return nil, err
	}
	return func() { <-cron.Stop().Done() }, nil
}

func (a Application) Close() error {
	return a.DB.Close()
}
