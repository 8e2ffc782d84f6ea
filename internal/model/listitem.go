package model

// AgendaItem is the common interface for entries shown in a day agenda.
// Both Note and Reminder implement it.
type AgendaItem interface {
	GetID() string
	GetTitle() string
	GetDate() string
	GetTime() string
	GetKind() string
	HasAlert() bool
	IsDone() bool
}

// Note implements AgendaItem.

func (n Note) GetID() string    { return n.ID }
func (n Note) GetTitle() string { return n.Title }
func (n Note) GetDate() string  { return n.Date }
func (n Note) GetTime() string  { return n.ReminderTime }
func (n Note) GetKind() string  { return "note" }
func (n Note) HasAlert() bool   { return n.ReminderEnabled }
func (n Note) IsDone() bool     { return n.ReminderEnabled && n.ReminderNotified }

// Reminder implements AgendaItem.

func (r Reminder) GetID() string    { return r.ID }
func (r Reminder) GetTitle() string { return r.Title }
func (r Reminder) GetDate() string  { return r.Date }
func (r Reminder) GetTime() string  { return r.Time }
func (r Reminder) GetKind() string  { return "reminder" }
func (r Reminder) HasAlert() bool   { return true }
func (r Reminder) IsDone() bool     { return r.Notified }
