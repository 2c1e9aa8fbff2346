// Package grid lays out a month as day cells and groups events for the
// agenda list.
package grid

import (
	"sort"
	"time"

	"eaccal/internal/datetime"
	"eaccal/internal/model"
)

// Builder builds month grids. Now is the clock used to flag today's cell;
// it defaults to time.Now.
type Builder struct {
	Now func() time.Time
}

// NewBuilder returns a Builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// DaysIn returns the number of days in the zero-based month.
func DaysIn(year, month0 int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month0+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns the weekday of day 1 (0 = Sunday), which is also the
// number of empty cells before it.
func LeadingBlanks(year, month0 int) int {
	return int(time.Date(year, time.Month(month0+1), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// Build returns the leading blank cells followed by one cell per day of the
// month. No trailing padding is added. selectedDay marks a cell as selected;
// pass 0 for none.
func (b *Builder) Build(year, month0 int, events []model.CalendarEvent, selectedDay int) []model.DayCell {
	blanks := LeadingBlanks(year, month0)
	days := DaysIn(year, month0)

	now := time.Now
	if b != nil && b.Now != nil {
		now = b.Now
	}
	today := now()
	ty, tm, td := today.Date()

	cells := make([]model.DayCell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, model.DayCell{Blank: true})
	}
	for day := 1; day <= days; day++ {
		date := datetime.FormatDate(year, month0+1, day)
		cells = append(cells, model.DayCell{
			Day:      day,
			Date:     date,
			Events:   EventsOn(events, date),
			Today:    ty == year && int(tm) == month0+1 && td == day,
			Selected: day == selectedDay,
		})
	}
	return cells
}

// EventsOn returns the events whose canonical date equals date, in input
// order.
func EventsOn(events []model.CalendarEvent, date string) []model.CalendarEvent {
	var out []model.CalendarEvent
	for _, ev := range events {
		if ev.Date == date {
			out = append(out, ev)
		}
	}
	return out
}

// DateGroup is one day of the agenda list.
type DateGroup struct {
	Date    string                `json:"date"`
	Weekday time.Weekday          `json:"weekday"`
	Events  []model.CalendarEvent `json:"events"`
}

// GroupByDate groups events by canonical date, dates ascending, keeping the
// input order inside each day.
func GroupByDate(events []model.CalendarEvent) []DateGroup {
	byDate := make(map[string][]model.CalendarEvent)
	for _, ev := range events {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	groups := make([]DateGroup, 0, len(dates))
	for _, d := range dates {
		groups = append(groups, DateGroup{
			Date:    d,
			Weekday: weekdayOf(d),
			Events:  byDate[d],
		})
	}
	return groups
}

// weekdayOf normalizes out-of-range components the way time.Date does, so
// a lenient "2024-01-32" lands on February 1st.
func weekdayOf(date string) time.Weekday {
	y, m, d := datetime.Year(date), datetime.Month(date), datetime.Day(date)
	if y == 0 || m == 0 || d == 0 {
		return time.Sunday
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Weekday()
}
