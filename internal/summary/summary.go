// Package summary builds the shareable monthly agenda: one line per event,
// ordered by day and title, with long texts shortened for a fixed layout.
package summary

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"eaccal/internal/datetime"
	"eaccal/internal/model"
)

const (
	MaxTitleLen = 48
	MaxTypeLen  = 24
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Item is one entry of the agenda.
type Item struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Time  string `json:"time,omitempty"`
}

// Agenda is the month summary.
type Agenda struct {
	Heading string `json:"heading"`
	Month   string `json:"month"`
	Year    int    `json:"year"`
	Items   []Item `json:"items"`
}

// MonthName returns the Portuguese name of the zero-based month.
func MonthName(month0 int) string {
	if month0 < 0 || month0 > 11 {
		return ""
	}
	return monthNames[month0]
}

// Build summarizes events of year/month0. Events from other months are
// ignored.
func Build(year, month0 int, events []model.CalendarEvent) Agenda {
	a := Agenda{
		Month: MonthName(month0),
		Year:  year,
		Items: make([]Item, 0, len(events)),
	}
	a.Heading = "AGENDA " + strings.ToUpper(a.Month) + " " + strconv.Itoa(year)

	for _, ev := range events {
		if datetime.Year(ev.Date) != year || datetime.Month(ev.Date) != month0+1 {
			continue
		}
		item := Item{
			Day:   datetime.Day(ev.Date),
			Title: Truncate(ev.Title, MaxTitleLen),
			Type:  Truncate(ev.Type.Label(), MaxTypeLen),
		}
		if ev.StartTime != "" && ev.StartTime != datetime.DefaultTime {
			item.Time = ev.StartTime
		}
		a.Items = append(a.Items, item)
	}

	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(a.Items, func(i, j int) bool {
		if a.Items[i].Day != a.Items[j].Day {
			return a.Items[i].Day < a.Items[j].Day
		}
		return col.CompareString(a.Items[i].Title, a.Items[j].Title) < 0
	})
	return a
}

// Truncate shortens s to at most max runes, ending in "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return strings.TrimSpace(string(r[:max-3])) + "..."
}
