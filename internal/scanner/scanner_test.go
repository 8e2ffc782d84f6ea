package scanner_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/scanner"
	"github.com/nhle/smartcal/internal/testutil"
)

type recordingDispatcher struct {
	mu  sync.Mutex
	got []model.Alert
}

func (d *recordingDispatcher) Dispatch(_ context.Context, a model.Alert) {
	d.mu.Lock()
	d.got = append(d.got, a)
	d.mu.Unlock()
}

func (d *recordingDispatcher) alerts() []model.Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Alert(nil), d.got...)
}

func (d *recordingDispatcher) count(source model.AlertSource) int {
	n := 0
	for _, a := range d.alerts() {
		if a.Source == source {
			n++
		}
	}
	return n
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.UTC)
}

func newScanner(t *testing.T, clock *testutil.Clock, d scanner.Dispatcher, src scanner.Source) *scanner.Scanner {
	t.Helper()
	sc, err := scanner.New(src, d, scanner.WithClock(clock.Now), scanner.WithLocation(time.UTC))
	require.NoError(t, err)
	return sc
}

func TestNoteReminderScenario(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(at(8, 0))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "Dentist", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)
	require.Len(t, snap.Reminders, 1)
	rid := snap.Reminders[0].ID

	clock.Set(at(9, 0))
	sc.ScanOnce(ctx)
	assert.Equal(t, 1, d.count(model.AlertFromReminder))
	r, err := s.Reminder(rid)
	require.NoError(t, err)
	assert.True(t, r.Notified)

	// Same minute again: nothing new.
	clock.Set(at(9, 0).Add(20 * time.Second))
	sc.ScanOnce(ctx)
	assert.Equal(t, 1, d.count(model.AlertFromReminder))

	clock.Set(at(9, 1))
	sc.ScanOnce(ctx)
	assert.Equal(t, 1, d.count(model.AlertFromReminder))

	// The note itself also fires once, independently of the reminder.
	assert.Equal(t, 1, d.count(model.AlertFromNote))

	for _, a := range d.alerts() {
		switch a.Source {
		case model.AlertFromReminder:
			assert.Equal(t, "Reminder", a.Title)
			assert.Equal(t, "Note Reminder: Dentist", a.Body)
		case model.AlertFromNote:
			assert.Equal(t, "Note Reminder", a.Title)
			assert.Equal(t, "Dentist", a.Body)
			assert.True(t, a.NotificationEnabled)
			assert.True(t, a.SoundEnabled)
		}
	}
}

func TestEditRearmsReminder(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(at(9, 0))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "Dentist", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)
	sc.ScanOnce(ctx)
	require.Equal(t, 1, d.count(model.AlertFromReminder))

	note := snap.Notes[0]
	note.ReminderTime = "10:00"
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assert.Equal(t, "10:00", snap.Reminders[0].Time)
	assert.False(t, snap.Reminders[0].Notified)

	clock.Set(at(10, 0))
	sc.ScanOnce(ctx)
	assert.Equal(t, 2, d.count(model.AlertFromReminder))
}

func TestTitleEditRearmsNoteAlert(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(at(9, 0))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "Dentist", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)
	sc.ScanOnce(ctx)
	require.Equal(t, 1, d.count(model.AlertFromNote))

	clock.Set(at(9, 5))
	sc.ScanOnce(ctx)
	require.Equal(t, 1, d.count(model.AlertFromNote))

	note := snap.Notes[0]
	note.Title = "Dentist (bring x-rays)"
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assert.False(t, snap.Notes[0].ReminderNotified)

	sc.ScanOnce(ctx)
	assert.Equal(t, 2, d.count(model.AlertFromNote), "any save clears the note's notified flag")
	assert.Equal(t, 1, d.count(model.AlertFromReminder), "derived reminder stays tied to its minute")

	n, err := s.Note(note.ID)
	require.NoError(t, err)
	assert.True(t, n.ReminderNotified)
}

func TestReminderChannelsFollowFlags(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(at(12, 30))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	_, err := s.AddReminder(ctx, model.Reminder{
		Title: "Lunch", Date: "2024-06-01", Time: "12:30", SoundEnabled: true,
	})
	require.NoError(t, err)

	fired := sc.ScanOnce(ctx)
	require.Len(t, fired, 1)
	assert.Equal(t, "Lunch", fired[0].Body)
	assert.False(t, fired[0].NotificationEnabled)
	assert.True(t, fired[0].SoundEnabled)
}

func TestNoCatchUp(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(at(9, 5))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	snap, err := s.AddReminder(ctx, model.Reminder{Title: "Missed", Date: "2024-06-01", Time: "09:00"})
	require.NoError(t, err)

	sc.ScanOnce(ctx)
	assert.Empty(t, d.alerts())
	r, err := s.Reminder(snap.Reminders[0].ID)
	require.NoError(t, err)
	assert.False(t, r.Notified)
}

func TestOtherDaysIgnored(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(at(9, 0))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	_, err := s.AddReminder(ctx, model.Reminder{Title: "Tomorrow", Date: "2024-06-02", Time: "09:00"})
	require.NoError(t, err)
	_, err = s.AddNote(ctx, model.Note{
		Date: "2024-06-02", Title: "Tomorrow note", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)

	assert.Empty(t, sc.ScanOnce(ctx))
}

func TestLocationDefinesToday(t *testing.T) {
	ctx := context.Background()
	// 2024-06-01 23:30 UTC is 2024-06-02 01:30 in UTC+2.
	clock := testutil.NewClock(time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}

	sc, err := scanner.New(s, d,
		scanner.WithClock(clock.Now),
		scanner.WithLocation(time.FixedZone("UTC+2", 2*60*60)),
	)
	require.NoError(t, err)

	_, err = s.AddReminder(ctx, model.Reminder{Title: "Local", Date: "2024-06-02", Time: "01:30"})
	require.NoError(t, err)

	assert.Len(t, sc.ScanOnce(ctx), 1)
}

func TestStartScansImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := testutil.NewClock(at(9, 0))
	s, _ := testutil.NewTestStore(t, clock)
	d := &recordingDispatcher{}
	sc := newScanner(t, clock, d, s)

	_, err := s.AddReminder(ctx, model.Reminder{Title: "Now", Date: "2024-06-01", Time: "09:00"})
	require.NoError(t, err)

	require.NoError(t, sc.Start(ctx))
	assert.True(t, sc.Status().Running)
	assert.Len(t, d.alerts(), 1)
	assert.Equal(t, 1, sc.Status().TotalFired)

	msg := sc.WaitForResult()()
	res, ok := msg.(scanner.ScanResultMsg)
	require.True(t, ok)
	assert.Len(t, res.Alerts, 1)

	sc.Stop()
	assert.False(t, sc.Status().Running)
	sc.Stop()
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, scanner.ValidateSchedule("@every 30s"))
	assert.NoError(t, scanner.ValidateSchedule("@every 1m"))
	assert.NoError(t, scanner.ValidateSchedule("* * * * *"))
	assert.Error(t, scanner.ValidateSchedule("@every 90s"))
	assert.Error(t, scanner.ValidateSchedule("*/5 * * * *"))
	assert.Error(t, scanner.ValidateSchedule("not a schedule"))

	_, err := scanner.New(nil, nil, scanner.WithSchedule("@hourly"))
	assert.Error(t, err)
}
