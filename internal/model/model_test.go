package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeLabel(t *testing.T) {
	assert.Equal(t, "Não EAC", TypeOutro.Label())
	assert.Equal(t, "Preparação", TypePreparacao.Label())
	assert.Equal(t, "Missa", TypeMissa.Label())
	assert.Equal(t, "Não EAC", EventType("bogus").Label())
}

func TestParseEventType(t *testing.T) {
	got, err := ParseEventType(" Pós-Encontro ")
	require.NoError(t, err)
	assert.Equal(t, TypePosEncontro, got)

	_, err = ParseEventType("Bingo")
	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestAllEventTypesValid(t *testing.T) {
	require.Len(t, AllEventTypes, 12)
	for _, et := range AllEventTypes {
		assert.True(t, et.Valid(), et)
	}
	for _, et := range FilterableTypes {
		assert.True(t, et.Valid(), et)
	}
}

func TestRawEventDecodesLooseCells(t *testing.T) {
	payload := `{"identifier": 42, "activity": "Missa", "category": null, "start": "25/12/2024 19:30", "status": true, "owner": {"x": 1}}`

	var raw RawEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	assert.Equal(t, "42", raw.ID.String())
	assert.Equal(t, "Missa", raw.Activity.String())
	assert.Equal(t, "", raw.Category.String())
	assert.Equal(t, "25/12/2024 19:30", raw.Start.String())
	assert.Equal(t, "true", raw.Status.String())
	assert.Equal(t, "", raw.Owner.String())
	assert.Equal(t, "", raw.End.String())
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		in   string
		want StatusKind
	}{
		{"Confirmado", StatusConfirmed},
		{"PENDENTE", StatusPending},
		{"Cancelado", StatusCancelled},
		{"Remarcado", StatusPostponed},
		{"adiado p/ março", StatusPostponed},
		{"", StatusUnknown},
		{"talvez", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.in))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, UnsetStatusLabel, StatusLabel("   "))
	assert.Equal(t, "Confirmado", StatusLabel(" Confirmado "))
}

func TestSortKey(t *testing.T) {
	withTime := CalendarEvent{Date: "2024-01-05", StartTime: "08:00"}
	without := CalendarEvent{Date: "2024-01-05"}
	assert.Less(t, without.SortKey(), withTime.SortKey())
}
