// Package ics converts calendar notes and reminders to and from iCalendar.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/nhle/smartcal/internal/model"
)

const (
	productID = "-//smartcal//calendar export//EN"
	uidDomain = "@smartcal"

	propEmoji ical.ComponentProperty = "X-SMARTCAL-EMOJI"
	propColor ical.ComponentProperty = "X-SMARTCAL-COLOR"
)

// reminderLength is the duration given to timed reminder events.
const reminderLength = 15 * time.Minute

// Export renders notes as all-day events and standalone reminders as
// timed events. Note reminders become display alarms on the note event;
// derived Reminder records are skipped so each alert appears once.
func Export(notes []model.Note, reminders []model.Reminder, loc *time.Location, now time.Time) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, n := range notes {
		day, err := model.ParseDate(n.Date, loc)
		if err != nil {
			return "", fmt.Errorf("exporting note %s: %w", n.ID, err)
		}

		ev := cal.AddEvent("note-" + n.ID + uidDomain)
		ev.SetDtStampTime(now.UTC())
		if !n.CreatedAt.IsZero() {
			ev.SetCreatedTime(n.CreatedAt.UTC())
		}
		ev.SetSummary(n.Title)
		if n.Content != "" {
			ev.SetDescription(n.Content)
		}
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetProperty(ical.ComponentPropertyCategories, n.CategoryOrDefault())
		if n.Emoji != "" {
			ev.SetProperty(propEmoji, n.Emoji)
		}
		if n.Color != "" {
			ev.SetProperty(propColor, n.Color)
		}

		if n.WantsReminder() {
			h, m, err := model.ParseClock(n.ReminderTime)
			if err != nil {
				return "", fmt.Errorf("exporting note %s: %w", n.ID, err)
			}
			alarm := ev.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("PT%dH%dM", h, m))
			alarm.SetProperty(ical.ComponentPropertyDescription, "Note Reminder: "+n.Title)
		}
	}

	for _, r := range reminders {
		if r.Derived() {
			continue
		}
		day, err := model.ParseDate(r.Date, loc)
		if err != nil {
			return "", fmt.Errorf("exporting reminder %s: %w", r.ID, err)
		}
		h, m, err := model.ParseClock(r.Time)
		if err != nil {
			return "", fmt.Errorf("exporting reminder %s: %w", r.ID, err)
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)

		ev := cal.AddEvent("reminder-" + r.ID + uidDomain)
		ev.SetDtStampTime(now.UTC())
		if !r.CreatedAt.IsZero() {
			ev.SetCreatedTime(r.CreatedAt.UTC())
		}
		ev.SetSummary(r.Title)
		ev.SetStartAt(start.UTC())
		ev.SetEndAt(start.Add(reminderLength).UTC())
		ev.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(icalPriority(r.Priority)))

		alarm := ev.AddAlarm()
		alarm.SetAction(ical.ActionDisplay)
		alarm.SetTrigger("-PT0M")
		alarm.SetProperty(ical.ComponentPropertyDescription, r.Title)
	}

	return cal.Serialize(), nil
}

// icalPriority maps to RFC 5545 PRIORITY (1 highest, 9 lowest).
func icalPriority(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 1
	case model.PriorityLow:
		return 9
	default:
		return 5
	}
}

// Import reads VEVENTs as notes. All-day events become plain notes; timed
// events become notes with a reminder at their local start time. Notes
// keep the event UID as their id so re-importing can be detected.
func Import(r io.Reader, loc *time.Location) ([]model.Note, error) {
	if loc == nil {
		loc = time.Local
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty calendar")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var notes []model.Note
	for _, ev := range cal.Events() {
		n, err := noteFromEvent(ev, loc)
		if err != nil {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func noteFromEvent(ev *ical.VEvent, loc *time.Location) (model.Note, error) {
	var n model.Note

	summary := ev.GetProperty(ical.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return n, errors.New("event without summary")
	}
	n.Title = strings.TrimSpace(summary.Value)

	if p := ev.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		n.ID = importedID(p.Value)
	}
	if p := ev.GetProperty(ical.ComponentPropertyDescription); p != nil {
		n.Content = p.Value
	}
	if p := ev.GetProperty(ical.ComponentPropertyCategories); p != nil {
		cat := strings.ToLower(strings.TrimSpace(strings.Split(p.Value, ",")[0]))
		if slices.Contains(model.CategoryOptions, cat) {
			n.Category = cat
		}
	}
	if p := ev.GetProperty(propEmoji); p != nil {
		n.Emoji = p.Value
	}
	if p := ev.GetProperty(propColor); p != nil {
		n.Color = p.Value
	}
	if n.Emoji == "" {
		n.Emoji = model.DefaultEmoji
	}
	if n.Category == "" {
		n.Category = model.DefaultCategory
	}

	dtstart := ev.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return n, errors.New("event without DTSTART")
	}

	if !strings.Contains(dtstart.Value, "T") {
		day, err := ev.GetAllDayStartAt()
		if err != nil {
			return n, err
		}
		n.Date = day.Format(model.DateLayout)
		return n, nil
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return n, err
	}
	local := start.In(loc)
	n.Date = local.Format(model.DateLayout)
	n.ReminderEnabled = true
	n.ReminderTime = local.Format(model.TimeLayout)
	return n, nil
}

// importedID strips our own UID decoration so exported notes round-trip
// to their original ids.
func importedID(uid string) string {
	id := strings.TrimSuffix(uid, uidDomain)
	if strings.HasPrefix(id, "note-") && id != uid {
		return strings.TrimPrefix(id, "note-")
	}
	if strings.HasPrefix(id, "reminder-") && id != uid {
		return strings.TrimPrefix(id, "reminder-")
	}
	return uid
}
