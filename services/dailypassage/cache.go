package dailypassage

import (
	"context"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/services/dailypassage/db"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	report_cache_lookup    = "cache.lookup"
	report_cache_store     = "cache.store"
	report_cache_list_days = "cache.list-days"
)

// PassageRecord is a cleaned passage as it is cached for a day.
type PassageRecord struct {
	DayKey     string
	Content    string
	References string
	CreatedAt  time.Time
}

// CachedDay is a day that has at least one cached passage.
type CachedDay struct {
	DayKey     string `json:"dayKey"`
	References string `json:"references"`
}

// CacheWriteError means a passage could not be written to the cache, the
// passage itself is still served.
type CacheWriteError struct {
	DayKey string
	Err    error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache passage for %s: %s", e.DayKey, e.Err.Error())
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}

// StoreResult is the outcome of a best-effort Store.
type StoreResult struct {
	// Err is nil when the record was written.
	Err *CacheWriteError
}

func (r StoreResult) OK() bool {
	return r.Err == nil
}

// PassageCache is the day keyed passage store, an in-process LRU sits in
// front of the database.
type PassageCache struct {
	qry *db.Queries
	lru *expirable.LRU[string, PassageRecord]
	tel telemetry.API
}

func NewPassageCache(qry *db.Queries, ttl time.Duration, tel telemetry.API) PassageCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return PassageCache{
		qry: qry,
		lru: expirable.NewLRU[string, PassageRecord](512, nil, ttl),
		tel: tel,
	}
}

// Lookup returns the oldest record cached for key, database failures are
// reported and treated as a miss.
func (c PassageCache) Lookup(ctx context.Context, key string) (PassageRecord, bool) {
	ctx, span := tracer.Start(ctx, "PassageCache.Lookup")
	defer span.End()

	cached, hit := c.lru.Get(key)
	if hit {
		return cached, true
	}

	row, err := c.qry.GetPassage(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return PassageRecord{}, false
	}
	if err != nil {
		span.RecordError(err)
		c.tel.ReportWarning(report_cache_lookup, err, key)
		return PassageRecord{}, false
	}

	record := PassageRecord{
		DayKey:     row.DayKey,
		Content:    row.Content,
		References: row.PassageReferences,
		CreatedAt:  time.UnixMilli(row.CreatedAt),
	}
	c.lru.Add(key, record)
	return record, true
}

// Store inserts record, it never fails the caller. Records are not put into
// the LRU here so that a lost race still serves the oldest row.
func (c PassageCache) Store(ctx context.Context, record PassageRecord) StoreResult {
	ctx, span := tracer.Start(ctx, "PassageCache.Store")
	defer span.End()

	err := c.qry.CreatePassage(ctx, db.CreatePassageParams{
		DayKey:            record.DayKey,
		Content:           record.Content,
		PassageReferences: record.References,
		CreatedAt:         record.CreatedAt.UnixMilli(),
	})
	if err != nil {
		writeErr := &CacheWriteError{DayKey: record.DayKey, Err: err}
		span.RecordError(writeErr)
		c.tel.ReportBroken(report_cache_store, writeErr)
		return StoreResult{Err: writeErr}
	}
	return StoreResult{}
}

// ListDays returns every cached day sorted by key.
func (c PassageCache) ListDays(ctx context.Context) ([]CachedDay, error) {
	ctx, span := tracer.Start(ctx, "PassageCache.ListDays")
	defer span.End()

	rows, err := c.qry.ListCachedDays(ctx)
	if err != nil {
		span.RecordError(err)
		c.tel.ReportBroken(report_cache_list_days, err)
		return nil, err
	}
	days := make([]CachedDay, len(rows))
	for i, row := range rows {
		days[i] = CachedDay{
			DayKey:     row.DayKey,
			References: row.PassageReferences,
		}
	}
	return days, nil
}
