package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/smartcal/internal/theme"
)

// Render draws the month as a terminal grid. Days with notes are
// highlighted, "*" marks a reminder and "+" a featured note. selected is
// a YYYY-MM-DD date to outline, or empty.
func Render(m Month, selected string) string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render(m.Title()))
	b.WriteString("\n")

	var header []string
	for _, wd := range m.Weekdays() {
		header = append(header, theme.WeekdayHeaderStyle.Render(wd.String()[:2]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for _, week := range m.Weeks {
		var row []string
		for _, c := range week {
			row = append(row, renderCell(c, selected))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(c Cell, selected string) string {
	if c.Blank() {
		return theme.DayStyle.Render("")
	}

	marks := ""
	if c.HasReminder {
		marks += "*"
	}
	if c.Featured {
		marks += "+"
	}
	label := fmt.Sprintf("%s%d", marks, c.Day)

	style := theme.DayStyle
	switch {
	case c.IsToday:
		style = theme.TodayStyle
	case c.NoteCount > 0:
		style = theme.NoteDayStyle
	}
	if c.Date == selected {
		style = style.Underline(true)
	}
	return style.Render(label)
}
