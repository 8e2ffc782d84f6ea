package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nhle/smartcal/internal/model"
)

// prepareNote validates n and applies the save rules: a disabled reminder
// drops its time and every save re-arms reminderNotified.
func prepareNote(n model.Note) (model.Note, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return n, fmt.Errorf("%w: title is required", ErrInvalidNote)
	}
	if _, err := model.ParseDate(n.Date, nil); err != nil {
		return n, fmt.Errorf("%w: %v", ErrInvalidNote, err)
	}

	if !n.ReminderEnabled {
		n.ReminderTime = ""
	} else {
		if n.ReminderTime == "" {
			return n, fmt.Errorf("%w: reminder time is required when the reminder is enabled", ErrInvalidNote)
		}
		t, err := model.NormalizeClock(n.ReminderTime)
		if err != nil {
			return n, fmt.Errorf("%w: %v", ErrInvalidNote, err)
		}
		n.ReminderTime = t
	}
	n.ReminderNotified = false

	return n, nil
}

// AddNote validates and stores a new note, updating the featured set and
// deriving its reminder.
func (s *Store) AddNote(ctx context.Context, n model.Note) (Snapshot, error) {
	n, err := prepareNote(n)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	if n.ID == "" {
		n.ID = s.newID()
	}
	if s.noteIndex(n.ID) >= 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("%w: note %s already exists", ErrInvalidNote, n.ID)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}

	s.notes = append(s.notes, n)
	p := persisted{notes: true}
	p.featured = s.setFeatured(n.ID, n.Featured)
	p.reminders = s.syncNoteReminder(n)

	err = s.persist(ctx, p)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("adding note %s: %w", n.ID, err)
	}
	s.announce("Note added", fmt.Sprintf("Note %q has been added to %s", n.Title, n.Date))
	return snap, nil
}

// UpdateNote replaces the stored note with the same id. ID and CreatedAt
// are kept from the stored copy.
func (s *Store) UpdateNote(ctx context.Context, n model.Note) (Snapshot, error) {
	n, err := prepareNote(n)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	idx := s.noteIndex(n.ID)
	if idx < 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("updating note %s: %w", n.ID, ErrNotFound)
	}
	n.CreatedAt = s.notes[idx].CreatedAt

	s.notes[idx] = n
	p := persisted{notes: true}
	p.featured = s.setFeatured(n.ID, n.Featured)
	p.reminders = s.syncNoteReminder(n)

	err = s.persist(ctx, p)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("updating note %s: %w", n.ID, err)
	}
	s.announce("Note updated", fmt.Sprintf("Note %q has been updated", n.Title))
	return snap, nil
}

// DeleteNote removes a note, its featured entry and its derived reminders.
func (s *Store) DeleteNote(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	idx := s.noteIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("deleting note %s: %w", id, ErrNotFound)
	}
	title := s.notes[idx].Title

	s.notes = slices.Delete(s.notes, idx, idx+1)
	p := persisted{notes: true}
	p.featured = s.setFeatured(id, false)
	p.reminders = s.removeNoteReminders(id)

	err := s.persist(ctx, p)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("deleting note %s: %w", id, err)
	}
	s.announce("Note deleted", fmt.Sprintf("Note %q has been deleted", title))
	return snap, nil
}

// ToggleFeatured flips the featured state of a note.
func (s *Store) ToggleFeatured(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	idx := s.noteIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("toggling featured note %s: %w", id, ErrNotFound)
	}

	featured := !s.notes[idx].Featured
	s.notes[idx].Featured = featured
	s.setFeatured(id, featured)

	err := s.persist(ctx, persisted{notes: true, featured: true})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("toggling featured note %s: %w", id, err)
	}
	if featured {
		s.announce("Note pinned", "Note has been added to featured notes")
	} else {
		s.announce("Note unpinned", "Note has been removed from featured notes")
	}
	return snap, nil
}

// MarkNoteNotified sets reminderNotified on a note. It reports true only
// when the flag changed, so callers can use it to claim a firing.
func (s *Store) MarkNoteNotified(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.noteIndex(id)
	if idx < 0 {
		return false, fmt.Errorf("marking note %s notified: %w", id, ErrNotFound)
	}
	if s.notes[idx].ReminderNotified {
		return false, nil
	}
	s.notes[idx].ReminderNotified = true

	if err := s.persist(ctx, persisted{notes: true}); err != nil {
		return true, fmt.Errorf("marking note %s notified: %w", id, err)
	}
	return true, nil
}

// Note returns the note with id.
func (s *Store) Note(id string) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.noteIndex(id)
	if idx < 0 {
		return model.Note{}, fmt.Errorf("getting note %s: %w", id, ErrNotFound)
	}
	return s.notes[idx], nil
}

// FeaturedNotes returns the featured notes in pin order.
func (s *Store) FeaturedNotes() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Note, 0, len(s.featured))
	for _, id := range s.featured {
		if idx := s.noteIndex(id); idx >= 0 {
			out = append(out, s.notes[idx])
		}
	}
	return out
}

// setFeatured makes set membership for id equal to on. It reports whether
// the set changed.
func (s *Store) setFeatured(id string, on bool) bool {
	has := slices.Contains(s.featured, id)
	switch {
	case on && !has:
		s.featured = append(s.featured, id)
		return true
	case !on && has:
		s.featured = slices.DeleteFunc(s.featured, func(f string) bool { return f == id })
		return true
	}
	return false
}
