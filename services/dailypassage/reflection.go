package dailypassage

import (
	"context"
	"dailyreading-backend/services/dailypassage/db"
	"errors"
	"strings"
	"time"
)

var ErrEmptyReflection = errors.New("reflection content is empty")

// Reflection is a reader's note on a reading, reflections are never edited.
type Reflection struct {
	ID        int64     `json:"id"`
	ReadingID string    `json:"reading_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func reflectionFromRow(row db.Reflection) Reflection {
	return Reflection{
		ID:        row.ID,
		ReadingID: row.ReadingID,
		Content:   row.Content,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
	}
}

func (s Service) AddReflection(ctx context.Context, readingID, content string) (Reflection, error) {
	ctx, span := tracer.Start(ctx, "AddReflection")
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return Reflection{}, ErrEmptyReflection
	}
	row, err := s.qry.CreateReflection(ctx, db.CreateReflectionParams{
		ReadingID: readingID,
		Content:   content,
		CreatedAt: s.clock.Now().UnixMilli(),
	})
	if err != nil {
		span.RecordError(err)
		s.tel.ReportBroken("reflections.add", err, readingID)
		return Reflection{}, err
	}
	return reflectionFromRow(row), nil
}

// ListReflections returns the reflections on a reading, oldest first.
func (s Service) ListReflections(ctx context.Context, readingID string) ([]Reflection, error) {
	ctx, span := tracer.Start(ctx, "ListReflections")
	defer span.End()

	rows, err := s.qry.ListReflections(ctx, readingID)
	if err != nil {
		span.RecordError(err)
		s.tel.ReportBroken("reflections.list", err, readingID)
		return nil, err
	}
	out := make([]Reflection, len(rows))
	for i, row := range rows {
		out[i] = reflectionFromRow(row)
	}
	return out, nil
}
