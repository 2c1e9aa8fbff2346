// Package normalize converts raw spreadsheet records into CalendarEvents.
package normalize

import (
	"strconv"

	"eaccal/internal/category"
	"eaccal/internal/datetime"
	"eaccal/internal/model"
)

// placeholderPrefix prefixes ids generated for records without one.
const placeholderPrefix = "event-"

// Event builds a CalendarEvent from raw. index is the record's position in
// its batch and only feeds the placeholder id. ok is false when the record
// has no title or no parseable start.
func Event(raw model.RawEvent, index int) (ev model.CalendarEvent, ok bool) {
	title := raw.Activity.Trimmed()
	if title == "" {
		return model.CalendarEvent{}, false
	}

	start, ok := datetime.Parse(raw.Start.String())
	if !ok {
		return model.CalendarEvent{}, false
	}

	ev = model.CalendarEvent{
		ID:        raw.ID.Trimmed(),
		Title:     title,
		Date:      start.Date,
		StartTime: start.Time,
		Location:  raw.Location.Trimmed(),
		Status:    raw.Status.Trimmed(),
	}
	if ev.ID == "" {
		ev.ID = Placeholder(index)
	}
	if end, ok := datetime.Parse(raw.End.String()); ok {
		ev.EndTime = end.Time
	}

	typeText := raw.Category.Trimmed()
	if typeText == "" {
		typeText = title
	}
	ev.Type = category.Classify(typeText)

	return ev, true
}

// Placeholder is the id given to the record at index when the source omits one.
func Placeholder(index int) string {
	return placeholderPrefix + strconv.Itoa(index)
}

// Batch normalizes every record and returns the accepted events in input
// order together with the number of dropped records.
func Batch(raws []model.RawEvent) (events []model.CalendarEvent, dropped int) {
	events = make([]model.CalendarEvent, 0, len(raws))
	for i, raw := range raws {
		ev, ok := Event(raw, i)
		if !ok {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}
