package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/smartcal/internal/scanner"
	"github.com/nhle/smartcal/internal/theme"
)

// Frame lays out the agenda: a one-line header naming the month in view
// and the scanner state, the content area, and a one-line status bar.
type Frame struct {
	Width  int
	Height int
}

// NewFrame returns a Frame for a terminal of the given size.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height}
}

// ContentHeight is the height left between header and status bar.
func (f Frame) ContentHeight() int {
	return max(f.Height-2, 0)
}

// ScanSummary describes the scanner for the header. A nil status means
// no scanner is attached.
func ScanSummary(st *scanner.Status) string {
	switch {
	case st == nil:
		return "scanner off"
	case !st.Running:
		return "scanner stopped"
	case st.LastScan.IsZero():
		return "scanning"
	case st.TotalFired == 1:
		return fmt.Sprintf("scanned %s, 1 alert", st.LastScan.Format("15:04"))
	default:
		return fmt.Sprintf("scanned %s, %d alerts", st.LastScan.Format("15:04"), st.TotalFired)
	}
}

// RenderHeader shows the app name with the selected month on the left and
// the scanner summary on the right.
func (f Frame) RenderHeader(selected time.Time, st *scanner.Status) string {
	title := "smartcal  " + selected.Format("January 2006")
	return f.spread(theme.HeaderStyle, title, ScanSummary(st))
}

// RenderStatusBar shows key hints on the left and the number of agenda
// entries for the selected day on the right.
func (f Frame) RenderStatusBar(hints string, items int) string {
	count := "no entries"
	switch {
	case items == 1:
		count = "1 entry"
	case items > 1:
		count = fmt.Sprintf("%d entries", items)
	}
	return f.spread(theme.StatusBarStyle, hints, count)
}

// Render stacks header, content and status bar, padding the content to
// ContentHeight so the status bar stays on the last line.
func (f Frame) Render(header, content, statusBar string) string {
	body := lipgloss.NewStyle().Height(f.ContentHeight()).MaxHeight(f.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

// spread renders left and right in style across the frame width.
func (f Frame) spread(style lipgloss.Style, left, right string) string {
	l := style.Render(left)
	r := style.Align(lipgloss.Right).Render(right)
	gap := max(f.Width-lipgloss.Width(l)-lipgloss.Width(r), 0)
	filler := lipgloss.NewStyle().Width(gap).Background(style.GetBackground()).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, l, filler, r)
}
