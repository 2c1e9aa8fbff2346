package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	appLog "eaccal/internal/log"
)

// Start runs an initial foreground refresh and schedules background
// refreshes. It is an error to call Start twice without Stop.
func (c *Controller) Start(ctx context.Context) error {
	c.cronMu.Lock()
	defer c.cronMu.Unlock()

	if c.cron != nil {
		return errors.New("scheduler already started")
	}

	sched := cron.New()
	_, err := sched.AddFunc(c.schedule, func() {
		c.backgroundRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", c.schedule, err)
	}

	if err := c.Refresh(ctx, Foreground); err != nil && !errors.Is(err, ErrRefreshInProgress) {
		// The first load failing is not fatal; the schedule retries later.
		appLog.Error("initial refresh failed", err)
	}

	sched.Start()
	c.cron = sched
	appLog.Info("refresh scheduler started", "schedule", c.schedule)
	return nil
}

// Stop cancels the schedule and waits for a running scheduled refresh to
// finish or ctx to expire.
func (c *Controller) Stop(ctx context.Context) {
	c.cronMu.Lock()
	sched := c.cron
	c.cron = nil
	c.cronMu.Unlock()

	if sched == nil {
		return
	}

	select {
	case <-sched.Stop().Done():
	case <-ctx.Done():
	}
	appLog.Info("refresh scheduler stopped")
}

func (c *Controller) backgroundRefresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}
	// Failures are logged by Refresh and leave the shown events in place.
	_ = c.Refresh(ctx, Background)
}
