package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ListItemStyle is the base style for agenda rows.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused agenda row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders fired reminders and out-of-month cells.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// Month grid cells.
var (
	DayStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Right)

	TodayStyle = DayStyle.
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorBlue)

	NoteDayStyle = DayStyle.
			Bold(true).
			Foreground(ColorGreen)

	WeekdayHeaderStyle = DayStyle.
				Foreground(ColorGray)
)

// FeaturedBadgeStyle marks pinned notes.
var FeaturedBadgeStyle = lipgloss.NewStyle().
	Foreground(ColorYellow).
	Bold(true)

// ToastStyle returns the box style for a toast of the given variant.
func ToastStyle(variant string) lipgloss.Style {
	base := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	switch variant {
	case "destructive":
		return base.BorderForeground(ColorRed).Foreground(ColorRed)
	default:
		return base.BorderForeground(ColorBlue)
	}
}

// PriorityStyle returns a color-coded style for a reminder priority.
func PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case "high":
		return base.Foreground(ColorRed)
	case "medium":
		return base.Foreground(ColorYellow)
	case "low":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// NoteColorStyle returns the foreground style for a note highlight color.
func NoteColorStyle(color string) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch color {
	case "red":
		return base.Foreground(ColorRed)
	case "green":
		return base.Foreground(ColorGreen)
	case "blue":
		return base.Foreground(ColorBlue)
	case "yellow":
		return base.Foreground(ColorYellow)
	case "purple":
		return base.Foreground(ColorMagenta)
	default:
		return base
	}
}
