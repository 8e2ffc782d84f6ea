package model

import "time"

// Note defaults applied when the user leaves a field empty.
const (
	DefaultEmoji        = "📝"
	DefaultCategory     = "general"
	DefaultReminderTime = "09:00"
)

// Note is a user entry attached to a single calendar date.
type Note struct {
	ID       string `json:"id" yaml:"id"`
	Date     string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Title    string `json:"title" yaml:"title" validate:"required"`
	Content  string `json:"content" yaml:"content"`
	Emoji    string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	ReminderEnabled  bool   `json:"reminderEnabled" yaml:"reminder_enabled"`
	ReminderTime     string `json:"reminderTime,omitempty" yaml:"reminder_time,omitempty" validate:"required_if=ReminderEnabled true,omitempty,datetime=15:04"`
	ReminderNotified bool   `json:"reminderNotified" yaml:"reminder_notified"`

	// Featured mirrors membership in the featured id set.
	Featured  bool      `json:"featured" yaml:"featured"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// WantsReminder reports whether the note should own a derived reminder.
func (n Note) WantsReminder() bool {
	return n.ReminderEnabled && n.ReminderTime != ""
}

// CategoryOrDefault returns the note category, treating empty as general.
func (n Note) CategoryOrDefault() string {
	if n.Category == "" {
		return DefaultCategory
	}
	return n.Category
}

// EmojiOptions are the emoji tags offered by the note form.
var EmojiOptions = []string{"📝", "🎉", "⚠️", "💼", "🏠", "🍔", "🏋️", "🎮", "💤", "🎓", "🎵", "🎬", "📚", "💻", "🚗"}

// ColorOptions are the note highlight colors.
var ColorOptions = []string{"red", "green", "blue", "yellow", "purple"}

// CategoryOptions are the known note categories.
var CategoryOptions = []string{"general", "work", "personal", "health", "finance", "education", "entertainment"}
