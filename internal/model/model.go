package model

import (
	"errors"
	"strings"
)

// EventType is the closed set of event categories shown on the calendar.
// The string value is the tag as it appears in the UI and in the API.
type EventType string

const (
	TypeEncontro      EventType = "Encontro"
	TypeCantina       EventType = "Cantina"
	TypeCirculo       EventType = "Circulo"
	TypePosEncontro   EventType = "Pós-Encontro"
	TypeMissa         EventType = "Missa"
	TypePreparacao    EventType = "Preparação Encontro"
	TypeReuniao       EventType = "Reunião"
	TypeTempoLiturgic EventType = "Tempo Litúrgico"
	TypeSolenidade    EventType = "Solenidade"
	TypeFestaSantos   EventType = "Festa de Santos"
	TypeDatasMarianas EventType = "Datas Marianas"
	TypeOutro         EventType = "Outro"
)

// ErrUnknownEventType is returned by ParseEventType for tags outside the set.
var ErrUnknownEventType = errors.New("unknown event type")

// AllEventTypes lists every tag in display order.
var AllEventTypes = []EventType{
	TypeEncontro,
	TypeCantina,
	TypeCirculo,
	TypePosEncontro,
	TypeMissa,
	TypePreparacao,
	TypeReuniao,
	TypeTempoLiturgic,
	TypeSolenidade,
	TypeFestaSantos,
	TypeDatasMarianas,
	TypeOutro,
}

// FilterableTypes are the EAC module types offered by the filter sidebar.
var FilterableTypes = []EventType{
	TypeEncontro,
	TypeCantina,
	TypeCirculo,
	TypePosEncontro,
	TypeMissa,
	TypePreparacao,
}

var labels = map[EventType]string{
	TypeEncontro:      "Encontro",
	TypeCantina:       "Cantina",
	TypeCirculo:       "Circulo",
	TypePosEncontro:   "Pós-Encontro",
	TypeMissa:         "Missa",
	TypePreparacao:    "Preparação",
	TypeReuniao:       "Reunião",
	TypeTempoLiturgic: "Tempo Litúrgico",
	TypeSolenidade:    "Solenidade",
	TypeFestaSantos:   "Festa de Santos",
	TypeDatasMarianas: "Datas Marianas",
	TypeOutro:         "Não EAC",
}

// Label returns the short human label for the type.
func (t EventType) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return labels[TypeOutro]
}

// Valid reports whether t belongs to the closed set.
func (t EventType) Valid() bool {
	_, ok := labels[t]
	return ok
}

// ParseEventType resolves a tag by exact value, ignoring surrounding spaces.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", ErrUnknownEventType
	}
	return t, nil
}

// RawEvent is a record as returned by the spreadsheet endpoint. Every field
// is loosely typed text and may be empty.
type RawEvent struct {
	ID       FlexString `json:"identifier"`
	Activity FlexString `json:"activity"`
	Category FlexString `json:"category"`
	Start    FlexString `json:"start"`
	End      FlexString `json:"end"`
	Location FlexString `json:"location"`
	Owner    FlexString `json:"owner"`
	Status   FlexString `json:"status"`
}

// CalendarEvent is a normalized event. Date is the canonical YYYY-MM-DD key;
// StartTime and EndTime are HH:MM when present.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	Location  string    `json:"location,omitempty"`
	Status    string    `json:"status,omitempty"`
	Type      EventType `json:"type"`
}

// SortKey is the ordering key used for month listings.
func (e CalendarEvent) SortKey() string {
	return e.Date + e.StartTime
}

// DayCell is one slot of the month grid. Blank cells pad the first week and
// carry no day.
type DayCell struct {
	Blank    bool            `json:"blank"`
	Day      int             `json:"day,omitempty"`
	Date     string          `json:"date,omitempty"`
	Events   []CalendarEvent `json:"events,omitempty"`
	Today    bool            `json:"today,omitempty"`
	Selected bool            `json:"selected,omitempty"`
}

// ViewMode selects between the month grid and the agenda list.
type ViewMode string

const (
	ViewCalendar ViewMode = "calendar"
	ViewList     ViewMode = "list"
)

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	return v == ViewCalendar || v == ViewList
}
