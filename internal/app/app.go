package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/smartcal/internal/calendar"
	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/notify"
	"github.com/nhle/smartcal/internal/scanner"
	"github.com/nhle/smartcal/internal/store"
	"github.com/nhle/smartcal/internal/theme"
	"github.com/nhle/smartcal/internal/ui"
	"github.com/nhle/smartcal/internal/ui/noteform"
)

// maxToasts is how many recent toasts the agenda keeps on screen.
const maxToasts = 3

// ToastMsg carries a toast into the running program.
type ToastMsg notify.Toast

// ReloadedMsg is sent after the store re-read its backing files.
type ReloadedMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewForm
)

// Model is the root Bubble Tea model: a month grid, the agenda of the
// selected day and the latest toasts.
type Model struct {
	currentView ViewState
	frame       ui.Frame
	store       *store.Store
	scanner     *scanner.Scanner
	keys        *KeyMap
	help        help.Model
	form        noteform.Model
	now         func() time.Time
	weekStart   time.Weekday

	selected time.Time
	items    []model.AgendaItem
	cursor   int
	toasts   []notify.Toast
	errMsg   string
	ready    bool
}

// NewAgenda creates the agenda model over a built App.
func NewAgenda(a *App) Model {
	m := Model{
		currentView: ViewCalendar,
		store:       a.Store,
		scanner:     a.Scanner,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		form:        noteform.New(80, 24),
		now:         a.Now,
		weekStart:   a.WeekStart(),
	}
	m.selected = civil(m.now())
	m.refresh()
	return m
}

func civil(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Init starts listening for fired alerts.
func (m Model) Init() tea.Cmd {
	if m.scanner == nil {
		return nil
	}
	return m.scanner.WaitForResult()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = ui.NewFrame(msg.Width, msg.Height)
		m.ready = true
		m.help.Width = msg.Width
		m.form.SetSize(m.frame.Width, m.frame.ContentHeight())
		if m.currentView == ViewForm {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		return m, nil

	case ToastMsg:
		m.toasts = append(m.toasts, notify.Toast(msg))
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		return m, nil

	case scanner.ScanResultMsg:
		m.refresh()
		return m, m.scanner.WaitForResult()

	case ReloadedMsg:
		m.refresh()
		return m, nil

	case mutationResultMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		m.refresh()
		return m, nil

	case noteform.NoteSavedMsg:
		m.currentView = ViewCalendar
		return m, m.saveNote(msg.Note)

	case noteform.CancelMsg:
		m.currentView = ViewCalendar
		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewCalendar {
			return m.handleKey(msg)
		}
	}

	if m.currentView == ViewForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.moveDays(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveDays(1)
	case key.Matches(msg, m.keys.Up):
		m.moveDays(-7)
	case key.Matches(msg, m.keys.Down):
		m.moveDays(7)
	case key.Matches(msg, m.keys.PrevMonth):
		m.selected = m.selected.AddDate(0, -1, 0)
		m.refresh()
	case key.Matches(msg, m.keys.NextMonth):
		m.selected = m.selected.AddDate(0, 1, 0)
		m.refresh()
	case key.Matches(msg, m.keys.Today):
		m.selected = civil(m.now())
		m.refresh()
	case key.Matches(msg, m.keys.NextItem):
		if len(m.items) > 0 {
			m.cursor = (m.cursor + 1) % len(m.items)
		}
	case key.Matches(msg, m.keys.PrevItem):
		if len(m.items) > 0 {
			m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
		}
	case key.Matches(msg, m.keys.New):
		m.currentView = ViewForm
		return m, m.form.StartCreate(m.selectedDate())
	case key.Matches(msg, m.keys.Edit):
		if n, ok := m.selectedNote(); ok {
			m.currentView = ViewForm
			return m, m.form.StartEdit(n)
		}
	case key.Matches(msg, m.keys.Pin):
		if n, ok := m.selectedNote(); ok {
			return m, m.togglePin(n.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selectedItem(); ok {
			return m, m.deleteItem(item)
		}
	}
	return m, nil
}

func (m *Model) moveDays(n int) {
	m.selected = calendar.AddDays(m.selected, n)
	m.refresh()
}

// refresh reloads the agenda of the selected day.
func (m *Model) refresh() {
	m.items = agendaItems(m.store, m.selectedDate())
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m Model) selectedDate() string {
	return model.FormatDate(m.selected)
}

func (m Model) selectedItem() (model.AgendaItem, bool) {
	if len(m.items) == 0 {
		return nil, false
	}
	return m.items[m.cursor], true
}

func (m Model) selectedNote() (model.Note, bool) {
	item, ok := m.selectedItem()
	if !ok {
		return model.Note{}, false
	}
	n, ok := item.(model.Note)
	return n, ok
}

// View renders the agenda inside the frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.frame.RenderHeader(m.selected, m.scanStatus())
	statusBar := m.frame.RenderStatusBar(m.keyHints(), len(m.items))

	var content string
	if m.currentView == ViewForm {
		content = m.form.View()
	} else {
		content = m.renderCalendar()
	}
	return m.frame.Render(header, content, statusBar)
}

func (m Model) renderCalendar() string {
	snap := m.store.Snapshot()
	month := calendar.BuildMonth(m.selected.Year(), m.selected.Month(), m.weekStart,
		model.FormatDate(m.now()), snap.Notes, snap.Reminders)
	grid := theme.BorderStyle.Render(calendar.Render(month, m.selectedDate()))

	var agenda strings.Builder
	agenda.WriteString(theme.HeaderStyle.Render(m.selected.Format("Monday, January 2")))
	agenda.WriteString("\n")
	if len(m.items) == 0 {
		agenda.WriteString(theme.DimmedStyle.Render("No notes or reminders"))
	}
	for i, item := range m.items {
		agenda.WriteString(renderItem(item, i == m.cursor))
		agenda.WriteString("\n")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", agenda.String())

	var bottom []string
	for _, t := range m.toasts {
		body := lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(t.Title), t.Description)
		bottom = append(bottom, theme.ToastStyle(string(t.Variant)).Render(body))
	}
	if m.errMsg != "" {
		bottom = append(bottom, theme.ToastStyle(string(notify.VariantDestructive)).Render(m.errMsg))
	}
	if len(bottom) == 0 {
		return top
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, lipgloss.JoinHorizontal(lipgloss.Top, bottom...))
}

func (m Model) scanStatus() *scanner.Status {
	if m.scanner == nil {
		return nil
	}
	st := m.scanner.Status()
	return &st
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.currentView == ViewForm {
		return "enter submit | esc cancel"
	}
	return m.help.View(m.keys)
}
