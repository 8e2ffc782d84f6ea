package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/smartcal/internal/app"
	"github.com/nhle/smartcal/internal/calendar"
	"github.com/nhle/smartcal/internal/model"
)

var monthJSON bool

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM | next | prev]",
	Short: "Print a month grid",
	Long: `Print a month grid. Days with notes are highlighted, "*" marks a
reminder and "+" a pinned note.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		now := a.Now()
		year, month := now.Year(), now.Month()
		if len(args) == 1 {
			var err error
			year, month, err = parseMonthArg(args[0], year, month)
			if err != nil {
				fatal("Invalid month", err)
			}
		}

		snap := a.Store.Snapshot()
		m := calendar.BuildMonth(year, month, a.WeekStart(), a.Today(), snap.Notes, snap.Reminders)
		if monthJSON {
			printJSON(m)
			return
		}
		fmt.Print(calendar.Render(m, a.Today()))
	},
}

// parseMonthArg reads "2024-06", "next" or "prev" relative to year/month.
func parseMonthArg(s string, year int, month time.Month) (int, time.Month, error) {
	switch strings.ToLower(s) {
	case "next":
		y, m := calendar.Shift(year, month, 1)
		return y, m, nil
	case "prev":
		y, m := calendar.Shift(year, month, -1)
		return y, m, nil
	}
	ys, ms, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%q: want YYYY-MM", s)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: bad year", s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("%q: bad month", s)
	}
	return y, time.Month(m), nil
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show the notes and reminders of a day",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		date, err := resolveDate(a, arg)
		if err != nil {
			fatal("Invalid date", err)
		}

		notes := a.Store.NotesFor(date)
		reminders := a.Store.RemindersOn(date)
		if monthJSON {
			printJSON(map[string]any{"date": date, "notes": notes, "reminders": reminders})
			return
		}

		fmt.Println(date)
		for _, n := range notes {
			printNoteLine(n)
		}
		for _, r := range reminders {
			if r.Derived() {
				continue
			}
			fmt.Printf("%s  %s  ⏰ %s (%s)\n", r.ID, r.Time, r.Title, r.Priority)
		}
		if len(notes) == 0 && len(reminders) == 0 {
			fmt.Println("No notes or reminders")
		}
	},
}

var calcJSON bool

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Date arithmetic",
}

var calcAddCmd = &cobra.Command{
	Use:   "add <date> <days>",
	Short: "Add (or subtract) days to a date",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		from := dateArg(a, args[0])
		days, err := strconv.Atoi(args[1])
		if err != nil {
			fatal("Invalid day count", err)
		}
		fmt.Println(model.FormatDate(calendar.AddDays(from, days)))
	},
}

var calcBetweenCmd = &cobra.Command{
	Use:   "between <from> <to>",
	Short: "Count the days between two dates",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		from := dateArg(a, args[0])
		to := dateArg(a, args[1])
		fmt.Println(calendar.DaysBetween(from, to))
	},
}

var calcAgeCmd = &cobra.Command{
	Use:   "age <birth-date> [on-date]",
	Short: "Age in years, months and days",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := openApp(ctx)
		defer a.Close()

		birth := dateArg(a, args[0])
		on := dateArg(a, "today")
		if len(args) == 2 {
			on = dateArg(a, args[1])
		}

		age, err := calendar.AgeOn(birth, on)
		if err != nil {
			fatal("Invalid dates", err)
		}
		if calcJSON {
			printJSON(age)
			return
		}
		fmt.Printf("%d years, %d months, %d days (%d days total)\n", age.Years, age.Months, age.Days, age.TotalDays)
	},
}

// dateArg resolves a date argument or exits.
func dateArg(a *app.App, s string) time.Time {
	date, err := resolveDate(a, s)
	if err != nil {
		fatal("Invalid date", err)
	}
	t, err := model.ParseDate(date, a.Location())
	if err != nil {
		fatal("Invalid date", err)
	}
	return t
}

func init() {
	rootCmd.AddCommand(monthCmd, dayCmd, calcCmd)
	calcCmd.AddCommand(calcAddCmd, calcBetweenCmd, calcAgeCmd)

	monthCmd.Flags().BoolVar(&monthJSON, "json", false, "Output JSON")
	dayCmd.Flags().BoolVar(&monthJSON, "json", false, "Output JSON")
	calcAgeCmd.Flags().BoolVar(&calcJSON, "json", false, "Output JSON")
}
