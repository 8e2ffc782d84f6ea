package model

import "time"

// AlertSource identifies what produced an alert.
type AlertSource string

const (
	AlertFromReminder AlertSource = "reminder"
	AlertFromNote     AlertSource = "note"
)

// Alert is a single notification request handed to the dispatcher.
type Alert struct {
	Title               string      `json:"title"`
	Body                string      `json:"body"`
	NotificationEnabled bool        `json:"notificationEnabled"`
	SoundEnabled        bool        `json:"soundEnabled"`
	Source              AlertSource `json:"source,omitempty"`
	RefID               string      `json:"refId,omitempty"`
	FiredAt             time.Time   `json:"firedAt"`
}
