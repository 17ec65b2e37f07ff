package application

import (
	"context"
	"dailyreading-backend/internal/telemetry"
	configlibsql "dailyreading-backend/lib/configutil/libsql"
	"dailyreading-backend/lib/scrapers/sjcac"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("DAILYREADING_DB_FILE", "")
	t.Setenv("DAILYREADING_DB_URL", "")
	t.Setenv("DAILYREADING_DB_AUTH_TOKEN", "")

	cfg := Config{Database: configlibsql.Struct{File: ":memory:"}}.withDefaults()
	expected := Config{
		Port:     3001,
		Database: configlibsql.Struct{File: ":memory:"},
		Source: SourceConfig{
			Strategy:    StrategyWarmup,
			Url:         sjcac.DefaultUrl,
			PassageHost: "biblegateway.com",
			Version:     "NIV",
		},
		CacheTTLMinutes: 60,
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	require.NoError(t, cfg.validate())
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("DAILYREADING_DB_FILE", "")
	t.Setenv("DAILYREADING_DB_URL", "libsql://reading.example.org")
	t.Setenv("DAILYREADING_DB_AUTH_TOKEN", "token")

	cfg := Config{Database: configlibsql.Struct{File: "<dev_state>/reading.db"}}.withDefaults()
	require.Equal(t, "libsql://reading.example.org", cfg.Database.Url)
	require.Equal(t, "token", cfg.Database.AuthToken)
	require.Equal(t, "<dev_state>/reading.db", cfg.Database.File)
}

func TestConfigValidate(t *testing.T) {
	memory := configlibsql.Struct{File: ":memory:"}

	err := Config{Database: memory, Source: SourceConfig{Strategy: "carrier-pigeon"}}.withDefaults().validate()
	require.ErrorContains(t, err, "unknown source strategy")

	err = Config{Database: memory, Source: SourceConfig{Strategy: StrategyRendered}}.withDefaults().validate()
	require.ErrorContains(t, err, "date_selector")

	err = Config{Database: memory, Source: SourceConfig{
		Strategy:     StrategyRendered,
		DateSelector: "#comp-date",
		LinkSelector: "#comp-links",
	}}.withDefaults().validate()
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Setenv("DAILYREADING_DB_FILE", "")
	t.Setenv("DAILYREADING_DB_URL", "")
	t.Setenv("DAILYREADING_DB_AUTH_TOKEN", "")

	recorder := &telemetry.Recorder{}
	app, err := New(context.Background(), Config{
		Timezone: "UTC",
		Database: configlibsql.Struct{File: ":memory:"},
	}, Options{Telemetry: recorder})
	require.NoError(t, err)
	defer app.Close()

	days, err := app.Service.ListDays(context.Background())
	require.NoError(t, err)
	require.Empty(t, days)

	stop, err := app.StartPrefetch()
	require.NoError(t, err)
	stop()

	_, err = New(context.Background(), Config{
		Timezone: "Not/A_Zone",
		Database: configlibsql.Struct{File: ":memory:"},
	}, Options{Telemetry: recorder})
	require.Error(t, err)
}

func TestStartPrefetchInvalidSpec(t *testing.T) {
	t.Setenv("DAILYREADING_DB_FILE", "")
	t.Setenv("DAILYREADING_DB_URL", "")
	t.Setenv("DAILYREADING_DB_AUTH_TOKEN", "")

	app, err := New(context.Background(), Config{
		Timezone:     "UTC",
		Database:     configlibsql.Struct{File: ":memory:"},
		PrefetchCron: "every morning",
	}, Options{Telemetry: &telemetry.Recorder{}})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.StartPrefetch()
	require.Error(t, err)
}
