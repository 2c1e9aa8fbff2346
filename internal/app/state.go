package app

import (
	"slices"
	"time"

	"eaccal/internal/datetime"
	"eaccal/internal/grid"
	"eaccal/internal/model"
)

// State is a point-in-time copy of the controller.
type State struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	Month0      int               `json:"month0"`
	View        model.ViewMode    `json:"view"`
	SelectedDay int               `json:"selectedDay,omitempty"`
	Filters     []model.EventType `json:"filters"`
	Loading     bool              `json:"loading"`
	Error       string            `json:"error,omitempty"`
	LastUpdated time.Time         `json:"lastUpdated,omitempty"`
	EventCount  int               `json:"eventCount"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := State{
		Year:        c.year,
		Month:       c.month0 + 1,
		Month0:      c.month0,
		View:        c.view,
		SelectedDay: c.selectedDay,
		Filters:     sortedFilters(c.filters),
		Loading:     c.inFlight.Load(),
		LastUpdated: c.lastUpdated,
		EventCount:  len(c.events),
	}
	if c.lastErr != nil {
		s.Error = c.lastErr.Error()
	}
	return s
}

// Month returns the year and zero-based month being shown.
func (c *Controller) Month() (year, month0 int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.year, c.month0
}

// Events returns the loaded events with the type filters applied.
func (c *Controller) Events() []model.CalendarEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visibleLocked()
}

// Grid builds the month grid for the current state.
func (c *Controller) Grid() []model.DayCell {
	c.mu.RLock()
	year, month0, selected := c.year, c.month0, c.selectedDay
	events := c.visibleLocked()
	c.mu.RUnlock()

	return c.grid.Build(year, month0, events, selected)
}

// List groups the visible events by day for the agenda view.
func (c *Controller) List() []grid.DateGroup {
	return grid.GroupByDate(c.Events())
}

// DayEvents returns the visible events of a day in the current month.
func (c *Controller) DayEvents(day int) ([]model.CalendarEvent, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if day < 1 || day > grid.DaysIn(c.year, c.month0) {
		return nil, ErrInvalidDay
	}
	date := datetime.FormatDate(c.year, c.month0+1, day)
	return grid.EventsOn(c.visibleLocked(), date), nil
}

// visibleLocked must be called with c.mu held.
func (c *Controller) visibleLocked() []model.CalendarEvent {
	filters := c.filters
	out := make([]model.CalendarEvent, 0, len(c.events))
	for _, ev := range c.events {
		if len(filters) > 0 {
			if _, ok := filters[ev.Type]; !ok {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// sortedFilters lists the set in model.AllEventTypes order.
func sortedFilters(set map[model.EventType]struct{}) []model.EventType {
	out := make([]model.EventType, 0, len(set))
	for _, t := range model.AllEventTypes {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	// Tags outside the closed set can still be toggled; keep them visible.
	var extra []model.EventType
	for t := range set {
		if !t.Valid() {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
