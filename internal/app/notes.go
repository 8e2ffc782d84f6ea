package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/smartcal/internal/model"
)

// mutationResultMsg is sent after a store mutation issued by the agenda.
type mutationResultMsg struct{ err error }

// saveNote adds a new note or updates an existing one.
func (m *Model) saveNote(n model.Note) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if n.ID == "" {
			_, err = s.AddNote(ctx, n)
		} else {
			_, err = s.UpdateNote(ctx, n)
		}
		return mutationResultMsg{err: err}
	}
}

// togglePin flips the featured flag of a note.
func (m *Model) togglePin(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.ToggleFeatured(context.Background(), id)
		return mutationResultMsg{err: err}
	}
}

// deleteItem removes a note or a standalone reminder.
func (m *Model) deleteItem(item model.AgendaItem) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch item.(type) {
		case model.Note:
			_, err = s.DeleteNote(ctx, item.GetID())
		case model.Reminder:
			_, err = s.DeleteReminder(ctx, item.GetID())
		}
		return mutationResultMsg{err: err}
	}
}
