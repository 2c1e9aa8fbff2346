package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaccal/internal/model"
)

type call struct {
	year, month0 int
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []call
	events  map[call][]model.CalendarEvent
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchMonth(_ context.Context, year, month0 int) ([]model.CalendarEvent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{year, month0})
	events, err := f.events[call{year, month0}], f.err
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return events, err
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func january2024() func() time.Time {
	return func() time.Time { return time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC) }
}

func newFixture() (*Controller, *fakeFetcher) {
	f := &fakeFetcher{events: map[call][]model.CalendarEvent{
		{2024, 0}: {
			{ID: "m", Title: "Missa", Date: "2024-01-07", StartTime: "08:00", Type: model.TypeMissa},
			{ID: "c", Title: "Cantina", Date: "2024-01-10", StartTime: "19:00", Type: model.TypeCantina},
			{ID: "o", Title: "Bingo", Date: "2024-01-10", StartTime: "20:00", Type: model.TypeOutro},
		},
		{2023, 11}: {
			{ID: "n", Title: "Natal", Date: "2023-12-25", Type: model.TypeSolenidade},
		},
	}}
	return New(f, WithClock(january2024())), f
}

func TestNewStartsOnCurrentMonth(t *testing.T) {
	c, f := newFixture()

	s := c.Snapshot()
	assert.Equal(t, 2024, s.Year)
	assert.Equal(t, 0, s.Month0)
	assert.Equal(t, 1, s.Month)
	assert.Equal(t, model.ViewCalendar, s.View)
	assert.Empty(t, s.Filters)
	assert.Zero(t, f.callCount())
}

func TestRefreshLoadsEvents(t *testing.T) {
	c, _ := newFixture()

	require.NoError(t, c.Refresh(context.Background(), Foreground))

	s := c.Snapshot()
	assert.Equal(t, 3, s.EventCount)
	assert.Empty(t, s.Error)
	assert.False(t, s.LastUpdated.IsZero())

	cells := c.Grid()
	// January 2024 starts on Monday: one blank, 31 days.
	require.Len(t, cells, 32)
	assert.True(t, cells[10].Today)
	assert.Equal(t, 10, cells[10].Day)
	assert.Len(t, cells[10].Events, 2)
}

func TestRefreshFailurePolicy(t *testing.T) {
	boom := errors.New("boom")

	t.Run("background keeps events", func(t *testing.T) {
		c, f := newFixture()
		require.NoError(t, c.Refresh(context.Background(), Foreground))

		f.setErr(boom)
		err := c.Refresh(context.Background(), Background)
		require.ErrorIs(t, err, boom)

		s := c.Snapshot()
		assert.Equal(t, 3, s.EventCount)
		assert.Equal(t, "boom", s.Error)
	})

	t.Run("foreground clears events", func(t *testing.T) {
		c, f := newFixture()
		require.NoError(t, c.Refresh(context.Background(), Foreground))

		f.setErr(boom)
		require.ErrorIs(t, c.Refresh(context.Background(), Foreground), boom)

		assert.Zero(t, c.Snapshot().EventCount)
		assert.Empty(t, c.Events())
	})
}

func TestRefreshDropsConcurrentRequest(t *testing.T) {
	c, f := newFixture()
	f.entered = make(chan struct{}, 1)
	f.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background(), Foreground) }()
	<-f.entered

	assert.True(t, c.Loading())
	assert.ErrorIs(t, c.Refresh(context.Background(), Background), ErrRefreshInProgress)
	assert.Equal(t, 1, f.callCount())

	close(f.release)
	require.NoError(t, <-done)
	assert.False(t, c.Loading())
	assert.Equal(t, 3, c.Snapshot().EventCount)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	c, f := newFixture()
	f.entered = make(chan struct{}, 1)
	f.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background(), Foreground) }()
	<-f.entered

	// Navigation while January is loading: its own refresh is dropped.
	assert.ErrorIs(t, c.ChangeMonth(context.Background(), -1), ErrRefreshInProgress)

	close(f.release)
	require.NoError(t, <-done)

	s := c.Snapshot()
	assert.Equal(t, 2023, s.Year)
	assert.Equal(t, 11, s.Month0)
	assert.Zero(t, s.EventCount)
}

func TestChangeMonth(t *testing.T) {
	c, f := newFixture()
	require.NoError(t, c.Refresh(context.Background(), Foreground))
	require.NoError(t, c.SelectDay(10))

	require.NoError(t, c.ChangeMonth(context.Background(), -1))

	s := c.Snapshot()
	assert.Equal(t, 2023, s.Year)
	assert.Equal(t, 11, s.Month0)
	assert.Zero(t, s.SelectedDay)
	assert.Equal(t, 1, s.EventCount)
	assert.Equal(t, call{2023, 11}, f.calls[len(f.calls)-1])

	require.NoError(t, c.ChangeMonth(context.Background(), 14))
	year, month0 := c.Month()
	assert.Equal(t, 2025, year)
	assert.Equal(t, 1, month0)
}

func TestFilters(t *testing.T) {
	c, _ := newFixture()
	require.NoError(t, c.Refresh(context.Background(), Foreground))

	c.ToggleType(model.TypeMissa)
	before := c.Snapshot().Filters
	assert.Equal(t, []model.EventType{model.TypeMissa}, before)
	require.Len(t, c.Events(), 1)
	assert.Equal(t, "m", c.Events()[0].ID)

	c.ToggleType(model.TypeCantina)
	assert.Equal(t, []model.EventType{model.TypeMissa}, before)
	assert.Equal(t, []model.EventType{model.TypeCantina, model.TypeMissa}, c.Snapshot().Filters)
	assert.Len(t, c.Events(), 2)

	c.ToggleType(model.TypeMissa)
	assert.Equal(t, []model.EventType{model.TypeCantina}, c.Snapshot().Filters)

	c.ClearFilters()
	assert.Empty(t, c.Snapshot().Filters)
	assert.Len(t, c.Events(), 3)
}

func TestListAndDayEvents(t *testing.T) {
	c, _ := newFixture()
	require.NoError(t, c.Refresh(context.Background(), Foreground))

	groups := c.List()
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-01-07", groups[0].Date)

	day, err := c.DayEvents(10)
	require.NoError(t, err)
	assert.Len(t, day, 2)

	_, err = c.DayEvents(32)
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestSelectionAndView(t *testing.T) {
	c, _ := newFixture()

	assert.ErrorIs(t, c.SelectDay(0), ErrInvalidDay)
	assert.ErrorIs(t, c.SelectDay(32), ErrInvalidDay)
	require.NoError(t, c.SelectDay(31))
	assert.True(t, c.Grid()[31].Selected)

	c.ClearSelection()
	assert.Zero(t, c.Snapshot().SelectedDay)

	require.NoError(t, c.SetView(model.ViewList))
	assert.Equal(t, model.ViewList, c.Snapshot().View)
	assert.ErrorIs(t, c.SetView("agenda"), ErrInvalidView)
}

func TestStartStop(t *testing.T) {
	c, f := newFixture()
	c.schedule = "@every 1h"

	require.NoError(t, c.Start(context.Background()))
	assert.Error(t, c.Start(context.Background()))
	assert.Equal(t, 1, f.callCount())
	assert.Equal(t, 3, c.Snapshot().EventCount)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Stop(ctx)
	c.Stop(ctx)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	f := &fakeFetcher{}
	c := New(f, WithSchedule("whenever"))

	assert.Error(t, c.Start(context.Background()))
	assert.Zero(t, f.callCount())
}
