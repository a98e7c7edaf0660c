package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

var weekFlags struct {
	year    int
	week    int
	weather bool
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the holidays of one ISO week",
	RunE:  runWeek,
}

func init() {
	f := weekCmd.Flags()
	f.IntVar(&weekFlags.year, "year", 0, "ISO year (default: current)")
	f.IntVar(&weekFlags.week, "week", 0, "ISO week 1-53 (default: current)")
	f.BoolVar(&weekFlags.weather, "weather", false, "Include weather when showing the current week")
}

func runWeek(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()
	curYear, curWeek := now.ISOWeek()

	year, week := weekFlags.year, weekFlags.week
	if year == 0 {
		year = curYear
	}
	if week == 0 {
		week = curWeek
	}
	if weeks := holiday.WeeksInYear(year); week > weeks {
		return fmt.Errorf("%w: %d has only %d ISO weeks", holiday.ErrInvalidInput, year, weeks)
	}

	st, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	records, err := st.FilterByWeek(year, week)
	if err != nil {
		return err
	}

	var conditions map[string]string
	if weekFlags.weather {
		svc := newWeatherService(cfg)
		switch {
		case year != curYear || week != curWeek:
			fmt.Fprintln(cmd.ErrOrStderr(), "Weather is only available for the current week.")
		case svc == nil:
			fmt.Fprintln(cmd.ErrOrStderr(), "Weather is disabled.")
		default:
			conditions, err = svc.Week(ctx, now)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Weather is unavailable right now; showing holidays only.")
				conditions = nil
			}
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "These are the holidays for %d week #%d:\n", year, week)
	for _, line := range holiday.FormatAll(records, conditions) {
		fmt.Fprintln(out, line)
	}
	return nil
}
