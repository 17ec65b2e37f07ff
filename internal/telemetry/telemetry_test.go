package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recorder := &Recorder{}
	scoped := NewScopedAPI("dailypassage", recorder)

	scoped.ReportBroken("cache.store", "boom")
	scoped.ReportWarning("cache.lookup")
	scoped.ReportCount("cache.hit", 3)

	broken := recorder.Find("broken", "dailypassage:cache.store")
	require.Len(t, broken, 1)
	require.Equal(t, []any{"boom"}, broken[0].Params)
	require.Len(t, recorder.Find("warning", "dailypassage:cache.lookup"), 1)
	require.Equal(t, []any{int64(3)}, recorder.Find("count", "dailypassage:cache.hit")[0].Params)
}
