// Package app holds the calendar's UI state: the month being shown, the view
// mode, the type filters, the selected day and the loaded events. It also
// owns the background refresh schedule.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"eaccal/internal/grid"
	appLog "eaccal/internal/log"
	"eaccal/internal/model"
)

// DefaultSchedule re-fetches the current month every 30 minutes.
const DefaultSchedule = "@every 30m"

var (
	// ErrRefreshInProgress reports a refresh dropped because another one is
	// still running. It is not a failure.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrInvalidDay reports a day outside the current month.
	ErrInvalidDay = errors.New("day outside current month")

	ErrInvalidView = errors.New("unknown view mode")
)

// MonthFetcher loads the sorted events of one month (month0 zero-based).
type MonthFetcher interface {
	FetchMonth(ctx context.Context, year, month0 int) ([]model.CalendarEvent, error)
}

// Trigger tells a refresh who asked for it. Background failures keep the
// events on screen; foreground failures clear them.
type Trigger int

const (
	Foreground Trigger = iota
	Background
)

func (t Trigger) String() string {
	if t == Background {
		return "background"
	}
	return "foreground"
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for the initial month and today.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithSchedule sets the cron spec of the background refresh.
func WithSchedule(spec string) Option {
	return func(c *Controller) {
		c.schedule = spec
	}
}

// WithFetchTimeout bounds each background fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.fetchTimeout = d
	}
}

// Controller is safe for concurrent use. Reads return copies; the filter
// set is replaced on every change and never mutated in place.
type Controller struct {
	repo         MonthFetcher
	grid         *grid.Builder
	now          func() time.Time
	schedule     string
	fetchTimeout time.Duration

	// inFlight drops refreshes that arrive while one is running.
	inFlight atomic.Bool

	mu          sync.RWMutex
	year        int
	month0      int
	view        model.ViewMode
	selectedDay int
	filters     map[model.EventType]struct{}
	events      []model.CalendarEvent
	lastErr     error
	lastUpdated time.Time

	cronMu sync.Mutex
	cron   *cron.Cron
}

// New creates a Controller showing the current month in calendar view. No
// fetch happens until Refresh or Start is called.
func New(repo MonthFetcher, opts ...Option) *Controller {
	c := &Controller{
		repo:         repo,
		now:          time.Now,
		schedule:     DefaultSchedule,
		fetchTimeout: time.Minute,
		view:         model.ViewCalendar,
		filters:      map[model.EventType]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.grid = &grid.Builder{Now: c.now}

	today := c.now()
	c.year, c.month0 = today.Year(), int(today.Month())-1
	return c
}

// Refresh fetches the current month. It returns ErrRefreshInProgress without
// doing anything when a refresh is already running. A result that arrives
// after the user moved to another month is discarded.
func (c *Controller) Refresh(ctx context.Context, trigger Trigger) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		appLog.Debug("refresh dropped; another is in flight", "trigger", trigger)
		return ErrRefreshInProgress
	}
	defer c.inFlight.Store(false)

	c.mu.RLock()
	year, month0 := c.year, c.month0
	c.mu.RUnlock()

	events, err := c.repo.FetchMonth(ctx, year, month0)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.year != year || c.month0 != month0 {
		appLog.Debug("discarding stale month result", "fetched", fmt.Sprintf("%04d-%02d", year, month0+1))
		return nil
	}

	if err != nil {
		c.lastErr = err
		if trigger == Foreground {
			c.events = nil
		}
		appLog.Error("refresh failed", err, "trigger", trigger, "year", year, "month", month0+1)
		return err
	}

	c.events = events
	c.lastErr = nil
	c.lastUpdated = c.now()
	appLog.Info("refresh done", "trigger", trigger, "year", year, "month", month0+1, "events", len(events))
	return nil
}

// Loading reports whether a refresh is running.
func (c *Controller) Loading() bool {
	return c.inFlight.Load()
}

// ChangeMonth moves offset months from the current one, clears the selection
// and the loaded events, then refreshes in the foreground.
func (c *Controller) ChangeMonth(ctx context.Context, offset int) error {
	c.mu.Lock()
	first := time.Date(c.year, time.Month(c.month0+1+offset), 1, 0, 0, 0, 0, time.UTC)
	c.year, c.month0 = first.Year(), int(first.Month())-1
	c.selectedDay = 0
	c.events = nil
	c.lastErr = nil
	c.mu.Unlock()

	return c.Refresh(ctx, Foreground)
}

// SetView switches between calendar and list.
func (c *Controller) SetView(v model.ViewMode) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidView, v)
	}
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
	return nil
}

// SelectDay marks a day of the current month as selected.
func (c *Controller) SelectDay(day int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if day < 1 || day > grid.DaysIn(c.year, c.month0) {
		return fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	c.selectedDay = day
	return nil
}

// ClearSelection closes the day details.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selectedDay = 0
	c.mu.Unlock()
}

// ToggleType adds or removes t from the filter set.
func (c *Controller) ToggleType(t model.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[model.EventType]struct{}, len(c.filters)+1)
	for k := range c.filters {
		next[k] = struct{}{}
	}
	if _, ok := next[t]; ok {
		delete(next, t)
	} else {
		next[t] = struct{}{}
	}
	c.filters = next
}

// ClearFilters shows every type again.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	c.filters = map[model.EventType]struct{}{}
	c.mu.Unlock()
}
