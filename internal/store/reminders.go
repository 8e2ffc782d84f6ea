package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nhle/smartcal/internal/model"
)

func prepareReminder(r model.Reminder) (model.Reminder, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || r.Date == "" || r.Time == "" {
		return r, fmt.Errorf("%w: title, date and time are required", ErrInvalidReminder)
	}
	if _, err := model.ParseDate(r.Date, nil); err != nil {
		return r, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}
	t, err := model.NormalizeClock(r.Time)
	if err != nil {
		return r, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}
	r.Time = t

	if r.Priority == "" {
		r.Priority = model.PriorityMedium
	}
	if !r.Priority.Valid() {
		return r, fmt.Errorf("%w: unknown priority %q", ErrInvalidReminder, r.Priority)
	}
	return r, nil
}

// AddReminder stores a standalone reminder. Note-derived reminders are
// created through AddNote and UpdateNote only.
func (s *Store) AddReminder(ctx context.Context, r model.Reminder) (Snapshot, error) {
	r, err := prepareReminder(r)
	if err != nil {
		return s.Snapshot(), err
	}
	if r.NoteID != "" {
		return s.Snapshot(), fmt.Errorf("%w: note reminders are managed through the note", ErrInvalidReminder)
	}

	s.mu.Lock()
	if r.ID == "" {
		r.ID = s.newID()
	}
	if s.reminderIndex(r.ID) >= 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("%w: reminder %s already exists", ErrInvalidReminder, r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	r.Notified = false

	s.reminders = append(s.reminders, r)
	err = s.persist(ctx, persisted{reminders: true})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("adding reminder %s: %w", r.ID, err)
	}
	s.announce("Reminder set", fmt.Sprintf("Reminder %q has been set for %s at %s", r.Title, r.Date, r.Time))
	return snap, nil
}

// UpdateReminder replaces the stored reminder with the same id. Moving its
// date or time re-arms it; NoteID and CreatedAt are kept.
func (s *Store) UpdateReminder(ctx context.Context, r model.Reminder) (Snapshot, error) {
	r, err := prepareReminder(r)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	idx := s.reminderIndex(r.ID)
	if idx < 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("updating reminder %s: %w", r.ID, ErrNotFound)
	}
	old := s.reminders[idx]
	r.NoteID = old.NoteID
	r.CreatedAt = old.CreatedAt
	if r.Date != old.Date || r.Time != old.Time {
		r.Notified = false
	} else {
		r.Notified = old.Notified
	}

	s.reminders[idx] = r
	err = s.persist(ctx, persisted{reminders: true})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("updating reminder %s: %w", r.ID, err)
	}
	return snap, nil
}

// DeleteReminder removes a reminder by id.
func (s *Store) DeleteReminder(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	idx := s.reminderIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("deleting reminder %s: %w", id, ErrNotFound)
	}

	s.reminders = slices.Delete(s.reminders, idx, idx+1)
	err := s.persist(ctx, persisted{reminders: true})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return snap, fmt.Errorf("deleting reminder %s: %w", id, err)
	}
	return snap, nil
}

// MarkReminderNotified sets notified on a reminder. It reports true only
// when the flag changed.
func (s *Store) MarkReminderNotified(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.reminderIndex(id)
	if idx < 0 {
		return false, fmt.Errorf("marking reminder %s notified: %w", id, ErrNotFound)
	}
	if s.reminders[idx].Notified {
		return false, nil
	}
	s.reminders[idx].Notified = true

	if err := s.persist(ctx, persisted{reminders: true}); err != nil {
		return true, fmt.Errorf("marking reminder %s notified: %w", id, err)
	}
	return true, nil
}

// Reminder returns the reminder with id.
func (s *Store) Reminder(id string) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.reminderIndex(id)
	if idx < 0 {
		return model.Reminder{}, fmt.Errorf("getting reminder %s: %w", id, ErrNotFound)
	}
	return s.reminders[idx], nil
}

// RemindersOn returns the reminders scheduled for date sorted by time.
func (s *Store) RemindersOn(date string) []model.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Reminder
	for _, r := range s.reminders {
		if r.Date == date {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Reminder) int { return strings.Compare(a.Time, b.Time) })
	return out
}
