package source

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoFetchRaw(t *testing.T) {
	d := &Demo{
		Now:    func() time.Time { return time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC) },
		Months: 1,
	}

	events, err := d.FetchRaw(context.Background())
	require.NoError(t, err)

	var feb []string
	for _, ev := range events {
		if strings.HasPrefix(ev.ID.String(), "demo-2024-02-") {
			feb = append(feb, ev.ID.String())
		}
	}
	// Module meetings on 5, 10, 15, 20, 25 (no 30th in February) and
	// masses on 7, 14, 21, 28.
	assert.Len(t, feb, 9)
	assert.Contains(t, feb, "demo-2024-02-05-1")
	assert.Contains(t, feb, "demo-2024-02-28-2")

	for _, ev := range events {
		assert.True(t, ev.ID.String() >= "demo-2024-01-01" && ev.ID.String() < "demo-2024-04", ev.ID)
	}
}

func TestDemoCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDemo().FetchRaw(ctx)
	assert.ErrorIs(t, err, ErrTransport)
}
