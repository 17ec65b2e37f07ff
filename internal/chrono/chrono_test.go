package chrono

import (
	"dailyreading-backend/internal/telemetry"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImpl(t *testing.T) {
	clock, err := NewStandardImpl("")
	require.NoError(t, err)
	require.Equal(t, "America/Los_Angeles", clock.Location().String())
	require.Equal(t, clock.Location(), clock.Now().Location())

	_, err = NewStandardImpl("Not/AZone")
	require.Error(t, err)
}

func TestStandardCron(t *testing.T) {
	clock, err := NewStandardImpl("UTC")
	require.NoError(t, err)

	recorder := &telemetry.Recorder{}
	cronner := NewStandardCron(clock, recorder)
	defer cronner.Stop()

	require.Error(t, cronner.Cron("not a spec", func() {}))

	fired := make(chan struct{}, 1)
	err = cronner.Cron("@every 1s", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(time.Second * 5):
		t.Fatal("cron job never fired")
	}
}

func TestCronLogger(t *testing.T) {
	recorder := &telemetry.Recorder{}
	logger := cronLogger{tel: recorder}

	logger.Error(errors.New("boom"), "job panicked", "entry", 1)
	reports := recorder.Find("broken", "cron")
	require.Len(t, reports, 1)
	require.Equal(t, "entry: 1", reports[0].Params[1])
}
