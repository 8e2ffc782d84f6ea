// Package calendar builds month grids and does plain date arithmetic.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/smartcal/internal/model"
)

// Cell is one day slot in a month grid. Blank slots have Day == 0.
type Cell struct {
	Date        string `json:"date,omitempty"`
	Day         int    `json:"day"`
	NoteCount   int    `json:"noteCount"`
	HasReminder bool   `json:"hasReminder"`
	Featured    bool   `json:"featured"`
	IsToday     bool   `json:"isToday"`
}

// Blank reports whether the cell pads the grid outside the month.
func (c Cell) Blank() bool { return c.Day == 0 }

// Month is a grid of weeks for one calendar month.
type Month struct {
	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	WeekStart time.Weekday `json:"weekStart"`
	Weeks     [][7]Cell    `json:"weeks"`
}

// Title renders e.g. "June 2024".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Weekdays returns the column headers in grid order.
func (m Month) Weekdays() [7]time.Weekday {
	var out [7]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(m.WeekStart) + i) % 7)
	}
	return out
}

// ParseWeekStart maps "sunday"/"monday" to a weekday.
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("week start %q: want sunday or monday", s)
	}
}

// BuildMonth lays out year/month in weeks starting on weekStart. Notes and
// reminders populate the per-day markers; today is a YYYY-MM-DD date.
func BuildMonth(year int, month time.Month, weekStart time.Weekday, today string, notes []model.Note, reminders []model.Reminder) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	counts := make(map[string]int)
	featured := make(map[string]bool)
	bells := make(map[string]bool)
	for _, n := range notes {
		counts[n.Date]++
		if n.Featured {
			featured[n.Date] = true
		}
		if n.ReminderEnabled {
			bells[n.Date] = true
		}
	}
	for _, r := range reminders {
		bells[r.Date] = true
	}

	m := Month{Year: first.Year(), Month: first.Month(), WeekStart: weekStart}
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7

	var week [7]Cell
	col := lead
	for d := 1; d <= days; d++ {
		date := first.AddDate(0, 0, d-1).Format(model.DateLayout)
		week[col] = Cell{
			Date:        date,
			Day:         d,
			NoteCount:   counts[date],
			HasReminder: bells[date],
			Featured:    featured[date],
			IsToday:     date == today,
		}
		col++
		if col == 7 {
			m.Weeks = append(m.Weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		m.Weeks = append(m.Weeks, week)
	}
	return m
}

// Shift returns the year and month delta months away from year/month.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}
