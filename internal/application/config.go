package application

import (
	configlibsql "dailyreading-backend/lib/configutil/libsql"
	"dailyreading-backend/lib/scrapers/sjcac"
	"fmt"
	"time"
)

const (
	StrategyWarmup   = "warmup"
	StrategyRendered = "rendered"
)

type SourceConfig struct {
	// Strategy is either "warmup" (default) or "rendered".
	Strategy string `json:"strategy"`
	Url      string `json:"url"`
	// PassageHost and Version decide which link on the page is the passage.
	PassageHost string `json:"passage_host"`
	Version     string `json:"version"`
	// DateSelector and LinkSelector are required by the rendered strategy.
	DateSelector string `json:"date_selector"`
	LinkSelector string `json:"link_selector"`
	BrowserBin   string `json:"browser_bin"`
}

type Config struct {
	Port     int                 `json:"port"`
	Timezone string              `json:"timezone"`
	Database configlibsql.Struct `json:"database"`
	Source   SourceConfig        `json:"source"`
	// CloudflareBypass makes the scraping clients mimic a browser's TLS handshake.
	CloudflareBypass bool `json:"cloudflare_bypass"`
	SkipDateCheck    bool `json:"skip_date_check"`
	// PrefetchCron is a cron spec evaluated in Timezone, empty disables prefetching.
	PrefetchCron    string   `json:"prefetch_cron"`
	CacheTTLMinutes int      `json:"cache_ttl_minutes"`
	AllowedOrigins  []string `json:"allowed_origins"`
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 3001
	}
	if c.Source.Strategy == "" {
		c.Source.Strategy = StrategyWarmup
	}
	if c.Source.Url == "" {
		c.Source.Url = sjcac.DefaultUrl
	}
	rule := sjcac.DefaultLinkRule()
	if c.Source.PassageHost == "" {
		c.Source.PassageHost = rule.Host
	}
	if c.Source.Version == "" {
		c.Source.Version = rule.Version
	}
	if c.CacheTTLMinutes == 0 {
		c.CacheTTLMinutes = 60
	}
	c.Database = c.Database.WithEnv("DAILYREADING_DB")
	return c
}

func (c Config) cacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func (c Config) validate() error {
	switch c.Source.Strategy {
	case StrategyWarmup:
	case StrategyRendered:
		if c.Source.DateSelector == "" || c.Source.LinkSelector == "" {
			return fmt.Errorf("source strategy %q requires date_selector and link_selector", c.Source.Strategy)
		}
	default:
		return fmt.Errorf("unknown source strategy %q", c.Source.Strategy)
	}
	if c.Database.File == "" && c.Database.Url == "" {
		return fmt.Errorf("no database configured")
	}
	return nil
}
