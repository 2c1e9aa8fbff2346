package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eaccal/internal/grid"
	"eaccal/internal/model"
	"eaccal/internal/summary"
)

var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

type monthOptions struct {
	year   int
	month  int
	view   string
	asJSON bool
}

func newMonthCmd(root *rootOptions) *cobra.Command {
	var opts monthOptions
	now := time.Now()

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print the events of a month as a grid or a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMonth(cmd, root, opts)
		},
	}
	cmd.Flags().IntVar(&opts.year, "year", now.Year(), "Year to show")
	cmd.Flags().IntVar(&opts.month, "month", int(now.Month()), "Month to show (1-12)")
	cmd.Flags().StringVar(&opts.view, "view", string(model.ViewList), "Output view: calendar or list")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func runMonth(cmd *cobra.Command, root *rootOptions, opts monthOptions) error {
	if opts.month < 1 || opts.month > 12 {
		return fmt.Errorf("invalid month: %d (must be 1-12)", opts.month)
	}
	view := model.ViewMode(strings.ToLower(opts.view))
	if !view.Valid() {
		return fmt.Errorf("invalid view: %s (must be 'calendar' or 'list')", opts.view)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	month0 := opts.month - 1
	anchor := func() time.Time {
		return time.Date(opts.year, time.Month(opts.month), 1, 0, 0, 0, 0, time.UTC)
	}

	events, err := newRepository(cfg, anchor).FetchMonth(cmd.Context(), opts.year, month0)
	if err != nil {
		return fmt.Errorf("fetching month: %w", err)
	}

	out := cmd.OutOrStdout()
	loc := cfg.Location()
	b := &grid.Builder{Now: func() time.Time { return time.Now().In(loc) }}

	if view == model.ViewCalendar {
		cells := b.Build(opts.year, month0, events, 0)
		if opts.asJSON {
			return writeJSON(out, cells)
		}
		printGrid(out, opts.year, month0, cells)
		return nil
	}

	groups := grid.GroupByDate(events)
	if opts.asJSON {
		return writeJSON(out, groups)
	}
	printList(out, opts.year, month0, groups)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printGrid draws a week per line. Days with events are marked with '*',
// today with brackets.
func printGrid(w io.Writer, year, month0 int, cells []model.DayCell) {
	fmt.Fprintf(w, "%s %d\n", summary.MonthName(month0), year)
	for _, name := range weekdayNames {
		fmt.Fprintf(w, "%-5s", name)
	}
	fmt.Fprintln(w)

	for i, c := range cells {
		var cell string
		switch {
		case c.Blank:
			cell = ""
		case c.Today:
			cell = fmt.Sprintf("[%d]", c.Day)
		default:
			cell = fmt.Sprintf("%2d", c.Day)
		}
		if len(c.Events) > 0 {
			cell += "*"
		}
		fmt.Fprintf(w, "%-5s", cell)
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}
	if len(cells)%7 != 0 {
		fmt.Fprintln(w)
	}
}

func printList(w io.Writer, year, month0 int, groups []grid.DateGroup) {
	fmt.Fprintf(w, "%s %d\n", summary.MonthName(month0), year)
	if len(groups) == 0 {
		fmt.Fprintln(w, "Nenhum evento neste mês.")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "\n%s %s\n", weekdayNames[g.Weekday], g.Date)
		for _, ev := range g.Events {
			when := ev.StartTime
			if ev.EndTime != "" {
				when += "-" + ev.EndTime
			}
			fmt.Fprintf(w, "  %-11s  %s [%s]", when, ev.Title, ev.Type.Label())
			if ev.Location != "" {
				fmt.Fprintf(w, " @ %s", ev.Location)
			}
			fmt.Fprintln(w)
		}
	}
}
