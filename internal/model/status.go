package model

import (
	"strings"

	"eaccal/internal/textnorm"
)

// StatusKind groups free-text status values into the badges the list view
// shows.
type StatusKind string

const (
	StatusConfirmed StatusKind = "confirmed"
	StatusPending   StatusKind = "pending"
	StatusCancelled StatusKind = "cancelled"
	StatusPostponed StatusKind = "postponed"
	StatusUnknown   StatusKind = "unknown"
)

// UnsetStatusLabel is shown when an event carries no status.
const UnsetStatusLabel = "Não informado"

// ClassifyStatus maps status text to a StatusKind, ignoring accents and case.
func ClassifyStatus(status string) StatusKind {
	s := textnorm.Fold(status)
	switch {
	case s == "":
		return StatusUnknown
	case textnorm.ContainsAny(s, "confirmado"):
		return StatusConfirmed
	case textnorm.ContainsAny(s, "pendente"):
		return StatusPending
	case textnorm.ContainsAny(s, "cancelado"):
		return StatusCancelled
	case textnorm.ContainsAny(s, "adiado", "remarcado"):
		return StatusPostponed
	default:
		return StatusUnknown
	}
}

// StatusLabel returns the status text for display.
func StatusLabel(status string) string {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return UnsetStatusLabel
	}
	return trimmed
}
