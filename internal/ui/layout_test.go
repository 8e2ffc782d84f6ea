package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/smartcal/internal/scanner"
)

func TestScanSummary(t *testing.T) {
	last := time.Date(2024, 6, 1, 9, 0, 30, 0, time.UTC)

	assert.Equal(t, "scanner off", ScanSummary(nil))
	assert.Equal(t, "scanner stopped", ScanSummary(&scanner.Status{}))
	assert.Equal(t, "scanning", ScanSummary(&scanner.Status{Running: true}))
	assert.Equal(t, "scanned 09:00, 1 alert", ScanSummary(&scanner.Status{Running: true, LastScan: last, TotalFired: 1}))
	assert.Equal(t, "scanned 09:00, 4 alerts", ScanSummary(&scanner.Status{Running: true, LastScan: last, TotalFired: 4}))
}

func TestFrameHeaderAndStatusBar(t *testing.T) {
	f := NewFrame(80, 24)

	header := f.RenderHeader(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)
	assert.Contains(t, header, "smartcal")
	assert.Contains(t, header, "June 2024")
	assert.Contains(t, header, "scanner off")
	assert.Equal(t, 80, lipgloss.Width(header))

	assert.Contains(t, f.RenderStatusBar("q quit", 0), "no entries")
	assert.Contains(t, f.RenderStatusBar("q quit", 1), "1 entry")
	bar := f.RenderStatusBar("q quit", 3)
	assert.Contains(t, bar, "3 entries")
	assert.Equal(t, 80, lipgloss.Width(bar))
}

func TestFrameRenderKeepsStatusBarOnLastLine(t *testing.T) {
	f := NewFrame(40, 10)
	assert.Equal(t, 8, f.ContentHeight())

	out := f.Render("head", "one\ntwo", "foot")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	assert.Equal(t, "head", strings.TrimSpace(lines[0]))
	assert.Equal(t, "foot", strings.TrimSpace(lines[len(lines)-1]))

	assert.Equal(t, 0, NewFrame(40, 1).ContentHeight())
}
