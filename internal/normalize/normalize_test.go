package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaccal/internal/model"
)

func TestEvent(t *testing.T) {
	raw := model.RawEvent{
		ID:       " abc-1 ",
		Activity: "  Missa de Domingo ",
		Category: "",
		Start:    "25/12/2024 19:30",
		End:      "25/12/2024 21:00",
		Location: "  Igreja Matriz ",
		Owner:    "Coordenação",
		Status:   " Confirmado ",
	}

	ev, ok := Event(raw, 7)
	require.True(t, ok)
	assert.Equal(t, model.CalendarEvent{
		ID:        "abc-1",
		Title:     "Missa de Domingo",
		Date:      "2024-12-25",
		StartTime: "19:30",
		EndTime:   "21:00",
		Location:  "Igreja Matriz",
		Status:    "Confirmado",
		Type:      model.TypeMissa,
	}, ev)
}

func TestEventDropsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  model.RawEvent
	}{
		{"missing title", model.RawEvent{Start: "2024-01-05"}},
		{"blank title", model.RawEvent{Activity: "   ", Start: "2024-01-05"}},
		{"missing start", model.RawEvent{Activity: "Missa"}},
		{"unparseable start", model.RawEvent{Activity: "Missa", Start: "amanhã"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Event(tt.raw, 0)
			assert.False(t, ok)
		})
	}
}

func TestEventOptionalFields(t *testing.T) {
	ev, ok := Event(model.RawEvent{
		Activity: "Cantina",
		Start:    "2024-01-05",
		End:      "later",
		Location: "   ",
		Status:   "",
	}, 3)
	require.True(t, ok)

	assert.Equal(t, "event-3", ev.ID)
	assert.Equal(t, "00:00", ev.StartTime)
	assert.Empty(t, ev.EndTime)
	assert.Empty(t, ev.Location)
	assert.Empty(t, ev.Status)
	assert.Equal(t, model.TypeCantina, ev.Type)
}

func TestEventCategoryTakesPrecedenceOverTitle(t *testing.T) {
	ev, ok := Event(model.RawEvent{
		Activity: "Missa de envio",
		Category: "Círculo",
		Start:    "2024-01-05 10:00",
	}, 0)
	require.True(t, ok)
	assert.Equal(t, model.TypeCirculo, ev.Type)
}

func TestEventIdempotent(t *testing.T) {
	raw := model.RawEvent{Activity: "Reunião", Start: "05/01/2024 20:00"}

	a, okA := Event(raw, 4)
	b, okB := Event(raw, 4)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestBatch(t *testing.T) {
	raws := []model.RawEvent{
		{Activity: "Missa", Start: "2024-01-05 08:00"},
		{Activity: "", Start: "2024-01-05"},
		{Activity: "Cantina", Start: "2024-01-06"},
		{Activity: "Bingo", Start: "soon"},
	}

	events, dropped := Batch(raws)
	assert.Equal(t, 2, dropped)
	require.Len(t, events, 2)
	assert.Equal(t, "event-0", events[0].ID)
	assert.Equal(t, "event-2", events[1].ID)
}
