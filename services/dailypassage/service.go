package dailypassage

import (
	"context"
	"dailyreading-backend/internal/assert"
	"dailyreading-backend/internal/chrono"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/daykey"
	"dailyreading-backend/lib/scrapers/biblegateway"
	"dailyreading-backend/lib/scrapers/sjcac"
	"dailyreading-backend/services/dailypassage/db"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SourceExtractor finds today's date and passage link.
type SourceExtractor interface {
	ExtractSource(ctx context.Context) (sjcac.Source, error)
}

// PassageExtractor loads and cleans the passage behind a link.
type PassageExtractor interface {
	ExtractPassage(ctx context.Context, link string) (biblegateway.Passage, error)
}

var ErrNotCached = errors.New("no passage cached for this day")

// Result is what a reader is served.
type Result struct {
	DayKey        string `json:"dayKey"`
	FormattedDate string `json:"formattedDate"`
	PassageHtml   string `json:"passageHtml"`
	References    string `json:"references,omitempty"`
}

type Service struct {
	source        SourceExtractor
	passages      PassageExtractor
	cache         PassageCache
	qry           *db.Queries
	clock         chrono.API
	tel           telemetry.API
	skipDateCheck bool
}

type ServiceOptions struct {
	Database *sql.DB
	Source   SourceExtractor
	Passages PassageExtractor
	Clock    chrono.API
	// Telemetry defaults to the slog implementation.
	Telemetry telemetry.API
	// SkipDateCheck serves whatever day the source page shows even when it
	// does not match the clock.
	SkipDateCheck bool
	// CacheTTL is how long records stay in the in-process cache, defaults
	// to an hour.
	CacheTTL time.Duration
}

func NewService(opts ServiceOptions) Service {
	assert.NotNil(opts.Database, "database")
	assert.NotNil(opts.Source, "source extractor")
	assert.NotNil(opts.Passages, "passage extractor")
	assert.NotNil(opts.Clock, "clock")

	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	tel = telemetry.NewScopedAPI("dailypassage", tel)

	qry := db.New(opts.Database)
	return Service{
		source:        opts.Source,
		passages:      opts.Passages,
		cache:         NewPassageCache(qry, opts.CacheTTL, tel),
		qry:           qry,
		clock:         opts.Clock,
		tel:           tel,
		skipDateCheck: opts.SkipDateCheck,
	}
}

func resultFromRecord(day daykey.Day, record PassageRecord) Result {
	return Result{
		DayKey:        day.Key(),
		FormattedDate: day.Formatted(),
		PassageHtml:   record.Content,
		References:    record.References,
	}
}

// GetPassage serves today's passage from the cache, scraping and caching it
// on a miss.
func (s Service) GetPassage(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "GetPassage")
	defer span.End()

	today := daykey.FromTime(s.clock.Now())
	span.SetAttributes(attribute.String("day_key", today.Key()))

	record, hit := s.cache.Lookup(ctx, today.Key())
	span.SetAttributes(attribute.Bool("cache_hit", hit))
	if hit {
		return resultFromRecord(today, record), nil
	}

	result, err := s.scrape(ctx, today)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	return result, nil
}

func (s Service) scrape(ctx context.Context, today daykey.Day) (Result, error) {
	source, err := s.source.ExtractSource(ctx)
	if err != nil {
		return Result{}, err
	}
	scraped, err := daykey.Parse(source.DateText)
	if err != nil {
		return Result{}, err
	}
	if !s.skipDateCheck {
		err = daykey.Verify(scraped, today)
		if err != nil {
			s.tel.ReportWarning("get-passage.date-mismatch", err)
			return Result{}, err
		}
	}
	// the source page can lag the clock when the date check is skipped
	if scraped != today {
		record, hit := s.cache.Lookup(ctx, scraped.Key())
		if hit {
			return resultFromRecord(scraped, record), nil
		}
	}

	passage, err := s.passages.ExtractPassage(ctx, source.ReferenceUrl)
	if err != nil {
		return Result{}, err
	}

	record := PassageRecord{
		DayKey:     scraped.Key(),
		Content:    passage.Html,
		References: passage.References,
		CreatedAt:  s.clock.Now(),
	}
	// the write outcome is reported by the cache
	_ = s.cache.Store(ctx, record)

	return resultFromRecord(scraped, record), nil
}

// GetArchived serves a previously cached day, it never scrapes.
func (s Service) GetArchived(ctx context.Context, key string) (Result, error) {
	ctx, span := tracer.Start(ctx, "GetArchived")
	defer span.End()

	day, err := daykey.ParseKey(key)
	if err != nil {
		return Result{}, err
	}
	record, hit := s.cache.Lookup(ctx, day.Key())
	if !hit {
		return Result{}, ErrNotCached
	}
	return resultFromRecord(day, record), nil
}

func (s Service) ListDays(ctx context.Context) ([]CachedDay, error) {
	return s.cache.ListDays(ctx)
}
