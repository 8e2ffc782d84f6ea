package model

import "time"

// Priority levels for a reminder.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Reminder is a scheduled alert for a date and minute of day.
type Reminder struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title" validate:"required"`
	Date     string   `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Time     string   `json:"time" yaml:"time" validate:"required,datetime=15:04"`
	Priority Priority `json:"priority" yaml:"priority" validate:"omitempty,oneof=low medium high"`

	NotificationEnabled bool `json:"notificationEnabled" yaml:"notification_enabled"`
	SoundEnabled        bool `json:"soundEnabled" yaml:"sound_enabled"`

	// Notified is set once the reminder fired for its date and time.
	Notified bool `json:"notified" yaml:"notified"`

	// NoteID links a reminder derived from a note.
	NoteID    string    `json:"noteId,omitempty" yaml:"note_id,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Derived reports whether the reminder is owned by a note.
func (r Reminder) Derived() bool { return r.NoteID != "" }
