// Package datetime turns the date/time text found in spreadsheet cells into
// canonical YYYY-MM-DD and HH:MM strings.
//
// Values are naive wall-clock text. No timezone conversion is done and day or
// month ranges are not checked: "32/13/2024" yields "2024-13-32".
package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTime is used when the input only carries a date.
const DefaultTime = "00:00"

// Parsed is a canonical date and time.
type Parsed struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM
}

var (
	// DD/MM/YYYY[ HH:MM[:SS]]
	dayFirst = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

	// YYYY-MM-DD[( |T)HH:MM[:SS]]. Fractions and zone suffixes are rejected:
	// a zoned instant is not a wall-clock time.
	yearFirst = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:(?:\s+|T)(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
)

// Parse reads raw as either a day-first or a year-first date with an optional
// time. ok is false for empty input or any other shape.
func Parse(raw string) (p Parsed, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Parsed{}, false
	}

	if m := dayFirst.FindStringSubmatch(s); m != nil {
		return build(m[3], m[2], m[1], m[4], m[5]), true
	}
	if m := yearFirst.FindStringSubmatch(s); m != nil {
		return build(m[1], m[2], m[3], m[4], m[5]), true
	}
	return Parsed{}, false
}

// MustParse is Parse for fixtures; it panics on invalid input.
func MustParse(raw string) Parsed {
	p, ok := Parse(raw)
	if !ok {
		panic(fmt.Sprintf("datetime: cannot parse %q", raw))
	}
	return p
}

// Year, Month and Day extract the numeric components of a canonical date. They
// return 0 when the date is not canonical.
func Year(date string) int {
	if len(date) < 4 {
		return 0
	}
	n, _ := strconv.Atoi(date[:4])
	return n
}

func Month(date string) int {
	if len(date) < 7 {
		return 0
	}
	n, _ := strconv.Atoi(date[5:7])
	return n
}

func Day(date string) int {
	if len(date) < 10 {
		return 0
	}
	n, _ := strconv.Atoi(date[8:10])
	return n
}

// FormatDate builds the canonical date key for the given components.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func build(year, month, day, hour, minute string) Parsed {
	p := Parsed{
		Date: year + "-" + pad2(month) + "-" + pad2(day),
		Time: DefaultTime,
	}
	if hour != "" {
		p.Time = pad2(hour) + ":" + minute
	}
	return p
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
