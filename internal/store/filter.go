package store

import (
	"strings"

	"github.com/nhle/smartcal/internal/model"
)

// NoteFilter narrows a note listing. Zero values match everything.
type NoteFilter struct {
	Query         string // case-insensitive match on title and content
	Emoji         string
	Category      string // empty note categories count as "general"
	Date          string
	From, To      string // inclusive YYYY-MM-DD bounds
	RemindersOnly bool
	FeaturedOnly  bool
}

// Match reports whether n passes the filter.
func (f NoteFilter) Match(n model.Note) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			return false
		}
	}
	if f.Emoji != "" && n.Emoji != f.Emoji {
		return false
	}
	if f.Category != "" && n.CategoryOrDefault() != f.Category {
		return false
	}
	if f.Date != "" && n.Date != f.Date {
		return false
	}
	// YYYY-MM-DD compares correctly as a string.
	if f.From != "" && n.Date < f.From {
		return false
	}
	if f.To != "" && n.Date > f.To {
		return false
	}
	if f.RemindersOnly && !n.ReminderEnabled {
		return false
	}
	if f.FeaturedOnly && !n.Featured {
		return false
	}
	return true
}

// Notes returns the notes matching f in insertion order.
func (s *Store) Notes(f NoteFilter) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Note
	for _, n := range s.notes {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// NotesFor returns the notes attached to date.
func (s *Store) NotesFor(date string) []model.Note {
	return s.Notes(NoteFilter{Date: date})
}
