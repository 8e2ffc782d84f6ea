package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/smartcal/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	notes := []model.Note{
		{ID: "n1", Date: "2024-06-01", Title: "Dentist", Content: "bring card", Emoji: "💼", Category: "health", ReminderEnabled: true, ReminderTime: "09:00"},
		{ID: "n2", Date: "2024-06-03", Title: "Holiday", Color: "green"},
	}
	reminders := []model.Reminder{
		{ID: "r1", Title: "Note Reminder: Dentist", Date: "2024-06-01", Time: "09:00", NoteID: "n1"},
		{ID: "r2", Title: "Standup", Date: "2024-06-02", Time: "10:30", Priority: model.PriorityHigh},
	}

	out, err := Export(notes, reminders, loc, now)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"), "derived reminder is not exported twice")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VALARM"))
	assert.Contains(t, out, "UID:note-n1@smartcal")
	assert.Contains(t, out, "PT9H0M")
	assert.Contains(t, out, "PRIORITY:1")

	got, err := Import(strings.NewReader(out), loc)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := map[string]model.Note{}
	for _, n := range got {
		byID[n.ID] = n
	}

	dentist := byID["n1"]
	assert.Equal(t, "Dentist", dentist.Title)
	assert.Equal(t, "2024-06-01", dentist.Date)
	assert.Equal(t, "bring card", dentist.Content)
	assert.Equal(t, "💼", dentist.Emoji)
	assert.Equal(t, "health", dentist.Category)
	assert.False(t, dentist.ReminderEnabled, "all-day events import as plain notes")

	holiday := byID["n2"]
	assert.Equal(t, "2024-06-03", holiday.Date)
	assert.Equal(t, "green", holiday.Color)
	assert.Equal(t, model.DefaultEmoji, holiday.Emoji)

	standup := byID["r2"]
	assert.Equal(t, "2024-06-02", standup.Date)
	assert.True(t, standup.ReminderEnabled)
	assert.Equal(t, "10:30", standup.ReminderTime)
}

func TestImportForeignCalendar(t *testing.T) {
	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//other//EN",
		"BEGIN:VEVENT",
		"UID:abc-123@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240615T143000Z",
		"SUMMARY:Flight",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:no-summary@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240616",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	notes, err := Import(strings.NewReader(body), time.UTC)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "abc-123@example.com", notes[0].ID)
	assert.Equal(t, "Flight", notes[0].Title)
	assert.Equal(t, "2024-06-15", notes[0].Date)
	assert.Equal(t, "14:30", notes[0].ReminderTime)
	assert.Equal(t, model.DefaultCategory, notes[0].Category)
}

func TestImportEmpty(t *testing.T) {
	_, err := Import(strings.NewReader("  "), nil)
	assert.Error(t, err)
}

func TestExportRejectsBadDates(t *testing.T) {
	_, err := Export([]model.Note{{ID: "x", Date: "soon", Title: "x"}}, nil, time.UTC, time.Now())
	assert.Error(t, err)
}
