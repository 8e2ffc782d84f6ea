package store

import (
	"slices"

	"github.com/nhle/smartcal/internal/model"
)

// noteReminderPrefix is prepended to the title of note-derived reminders.
const noteReminderPrefix = "Note Reminder: "

// syncNoteReminder derives, refreshes or removes the reminder owned by n.
// It keeps at most one reminder per note and reports whether the reminder
// collection changed.
func (s *Store) syncNoteReminder(n model.Note) bool {
	if !n.WantsReminder() {
		return s.removeNoteReminders(n.ID)
	}

	first := -1
	for i, r := range s.reminders {
		if r.NoteID == n.ID {
			first = i
			break
		}
	}

	if first < 0 {
		s.reminders = append(s.reminders, model.Reminder{
			ID:                  s.newID(),
			Title:               noteReminderPrefix + n.Title,
			Date:                n.Date,
			Time:                n.ReminderTime,
			Priority:            model.PriorityMedium,
			NotificationEnabled: true,
			SoundEnabled:        true,
			NoteID:              n.ID,
			CreatedAt:           s.now().UTC(),
		})
		return true
	}

	r := &s.reminders[first]
	r.Title = noteReminderPrefix + n.Title
	r.Date = n.Date
	r.Time = n.ReminderTime
	r.Notified = false

	// Collapse duplicates left over from older data.
	keep := r.ID
	s.reminders = slices.DeleteFunc(s.reminders, func(o model.Reminder) bool {
		return o.NoteID == n.ID && o.ID != keep
	})
	return true
}

// removeNoteReminders deletes every reminder owned by noteID.
func (s *Store) removeNoteReminders(noteID string) bool {
	before := len(s.reminders)
	s.reminders = slices.DeleteFunc(s.reminders, func(r model.Reminder) bool {
		return r.NoteID == noteID
	})
	return len(s.reminders) != before
}
