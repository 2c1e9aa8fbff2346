// Package ics renders calendar events as an iCalendar feed so the month can
// be subscribed to from phone calendars.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"eaccal/internal/datetime"
	"eaccal/internal/model"
)

const productID = "-//EAC//eaccal//PT"

// Options tune the export.
type Options struct {
	// Name is shown by clients as the calendar title.
	Name string
	// Location interprets the naive wall-clock times of the events.
	Location *time.Location
	// Now stamps DTSTAMP; time.Now when nil.
	Now func() time.Time
}

// Export serializes events as a VCALENDAR. Events starting at 00:00 with no
// end time are exported as all-day entries.
func Export(events []model.CalendarEvent, opts Options) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, ev := range events {
		day, ok := dayOf(ev.Date, loc)
		if !ok {
			continue
		}

		ve := cal.AddEvent(ev.ID + "@eaccal")
		ve.SetDtStampTime(stamp)
		ve.SetSummary(ev.Title)
		ve.AddProperty(ical.ComponentPropertyCategories, ev.Type.Label())
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Status != "" {
			ve.SetDescription("Situação: " + ev.Status)
		}
		switch model.ClassifyStatus(ev.Status) {
		case model.StatusConfirmed:
			ve.SetStatus(ical.ObjectStatusConfirmed)
		case model.StatusCancelled:
			ve.SetStatus(ical.ObjectStatusCancelled)
		case model.StatusPending, model.StatusPostponed:
			ve.SetStatus(ical.ObjectStatusTentative)
		}

		if allDay(ev) {
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}

		start := at(day, ev.StartTime)
		ve.SetStartAt(start)
		if ev.EndTime != "" {
			end := at(day, ev.EndTime)
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			ve.SetEndAt(end)
		}
	}

	return cal.Serialize()
}

func allDay(ev model.CalendarEvent) bool {
	return ev.StartTime == "" || (ev.StartTime == datetime.DefaultTime && ev.EndTime == "")
}

func dayOf(date string, loc *time.Location) (time.Time, bool) {
	y, m, d := datetime.Year(date), datetime.Month(date), datetime.Day(date)
	if y == 0 || m == 0 || d == 0 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}

// at places an HH:MM wall-clock time on day.
func at(day time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}
