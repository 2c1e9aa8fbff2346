// Package agenda fetches the events of one calendar month.
package agenda

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"eaccal/internal/datetime"
	appLog "eaccal/internal/log"
	"eaccal/internal/model"
	"eaccal/internal/normalize"
	"eaccal/internal/source"
)

// Repository turns the source's full raw collection into the sorted events
// of a single month.
type Repository struct {
	transport source.Transport
}

// NewRepository creates a Repository reading from t.
func NewRepository(t source.Transport) *Repository {
	return &Repository{transport: t}
}

// FetchMonth returns the events dated in the given year and month. month0 is
// zero-based (January = 0) while canonical dates are one-based. A transport
// failure fails the whole month; no partial result is returned.
func (r *Repository) FetchMonth(ctx context.Context, year, month0 int) ([]model.CalendarEvent, error) {
	if month0 < 0 || month0 > 11 {
		return nil, fmt.Errorf("agenda: month0 %d out of range", month0)
	}

	raws, err := r.transport.FetchRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %04d-%02d: %w", year, month0+1, err)
	}

	all, dropped := normalize.Batch(raws)
	if dropped > 0 {
		appLog.Debug("dropped malformed records", "dropped", dropped, "total", len(raws))
	}

	events := FilterMonth(all, year, month0)
	SortEvents(events)

	appLog.Debug("month loaded", "year", year, "month", month0+1, "events", len(events))
	return events, nil
}

// FilterMonth keeps the events whose canonical date falls in year/month0+1.
func FilterMonth(events []model.CalendarEvent, year, month0 int) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if datetime.Year(ev.Date) == year && datetime.Month(ev.Date) == month0+1 {
			out = append(out, ev)
		}
	}
	return out
}

// SortEvents orders events in place by date then start time, compared as the
// concatenated string. Events without a start time come first within a day.
func SortEvents(events []model.CalendarEvent) {
	slices.SortStableFunc(events, func(a, b model.CalendarEvent) int {
		return strings.Compare(a.SortKey(), b.SortKey())
	})
}
