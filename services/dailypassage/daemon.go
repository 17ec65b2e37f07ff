package dailypassage

import (
	"context"
	"dailyreading-backend/internal/assert"
	"dailyreading-backend/internal/chrono"
)

// StartPrefetch scrapes today's passage on the given cron schedule so the
// first reader of the day is served from the cache.
func (s Service) StartPrefetch(cron chrono.CronAPI, spec string) error {
	assert.NotEmptyStr(spec, "prefetch schedule")
	return cron.Cron(spec, func() {
		ctx := context.Background()
		result, err := s.GetPassage(ctx)
		if err != nil {
			s.tel.ReportBroken("prefetch", err)
			return
		}
		s.tel.ReportDebug("prefetched passage", result.DayKey)
	})
}
