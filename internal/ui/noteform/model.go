package noteform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/theme"
)

// NoteSavedMsg is dispatched when the form is submitted. Note.ID is empty
// for a new note.
type NoteSavedMsg struct {
	Note model.Note
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title        string
	content      string
	date         string
	emoji        string
	color        string
	category     string
	reminder     bool
	reminderTime string
}

// Model is the Bubble Tea model for the note create/edit form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	base   model.Note
	width  int
	height int
}

// New creates a new note form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new note on date.
func (m *Model) StartCreate(date string) tea.Cmd {
	m.load(model.Note{Date: date})
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing note.
func (m *Model) StartEdit(n model.Note) tea.Cmd {
	m.load(n)
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) load(n model.Note) {
	m.base = n
	m.fb.title = n.Title
	m.fb.content = n.Content
	m.fb.date = n.Date
	m.fb.emoji = n.Emoji
	if m.fb.emoji == "" {
		m.fb.emoji = model.DefaultEmoji
	}
	m.fb.color = n.Color
	m.fb.category = n.CategoryOrDefault()
	m.fb.reminder = n.ReminderEnabled
	m.fb.reminderTime = n.ReminderTime
	if m.fb.reminderTime == "" {
		m.fb.reminderTime = model.DefaultReminderTime
	}
}

// Editing reports whether the form edits an existing note.
func (m Model) Editing() bool { return m.base.ID != "" }

// Update handles messages for the note form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		note := m.Note()
		m.form = nil
		return m, func() tea.Msg { return NoteSavedMsg{Note: note} }
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// Active reports whether a form is being shown.
func (m Model) Active() bool { return m.form != nil }

// View renders the note form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Note"
	if m.Editing() {
		titleText = "Edit Note"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Note builds the note described by the current field values. A disabled
// reminder drops the time and every save re-arms the reminder.
func (m Model) Note() model.Note {
	n := m.base
	n.Title = strings.TrimSpace(m.fb.title)
	n.Content = m.fb.content
	n.Date = strings.TrimSpace(m.fb.date)
	n.Emoji = m.fb.emoji
	n.Color = m.fb.color
	n.Category = m.fb.category
	n.ReminderEnabled = m.fb.reminder
	n.ReminderTime = ""
	if n.ReminderEnabled {
		n.ReminderTime = strings.TrimSpace(m.fb.reminderTime)
	}
	n.ReminderNotified = false
	return n
}

// Run shows the form outside a Bubble Tea program, for the CLI.
func Run(n model.Note) (model.Note, error) {
	m := New(80, 24)
	m.load(n)
	if err := m.buildForm().Run(); err != nil {
		return model.Note{}, err
	}
	return m.Note(), nil
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What is happening?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Content").
				Placeholder("Optional details...").
				Value(&m.fb.content),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(validateDate),
			huh.NewSelect[string]().
				Title("Emoji").
				Options(huh.NewOptions(model.EmojiOptions...)...).
				Value(&m.fb.emoji),
			huh.NewSelect[string]().
				Title("Color").
				Options(append([]huh.Option[string]{huh.NewOption("none", "")}, huh.NewOptions(model.ColorOptions...)...)...).
				Value(&m.fb.color),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(model.CategoryOptions...)...).
				Value(&m.fb.category),
			huh.NewConfirm().
				Title("Reminder").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.reminder),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder time").
				Placeholder("HH:MM").
				Value(&m.fb.reminderTime).
				Validate(validateClock),
		).WithHideFunc(func() bool { return !m.fb.reminder }),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateClock(s string) error {
	if _, _, err := model.ParseClock(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid time, use HH:MM")
	}
	return nil
}
