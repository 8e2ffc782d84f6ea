package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/smartcal/internal/kv"
	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/store"
	"github.com/nhle/smartcal/internal/testutil"
)

var june1 = time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)

// assertInvariants checks the featured and note-reminder linkage rules.
func assertInvariants(t *testing.T, snap store.Snapshot) {
	t.Helper()

	set := map[string]bool{}
	for _, id := range snap.FeaturedIDs {
		assert.False(t, set[id], "duplicate featured id %s", id)
		set[id] = true
	}
	for _, n := range snap.Notes {
		assert.Equal(t, n.Featured, set[n.ID], "featured flag of %s", n.ID)
		delete(set, n.ID)
	}
	assert.Empty(t, set, "featured ids without notes")

	perNote := map[string]int{}
	for _, r := range snap.Reminders {
		if r.NoteID != "" {
			perNote[r.NoteID]++
		}
	}
	for _, n := range snap.Notes {
		if n.WantsReminder() {
			assert.Equal(t, 1, perNote[n.ID], "reminders for note %s", n.ID)
		} else {
			assert.Zero(t, perNote[n.ID], "reminders for note %s", n.ID)
		}
		delete(perNote, n.ID)
	}
	assert.Empty(t, perNote, "orphan note reminders")
}

func persistedNotes(t *testing.T, backend *kv.MemoryStore) []model.Note {
	t.Helper()
	data, ok, err := backend.Get(context.Background(), kv.KeyNotes)
	require.NoError(t, err)
	require.True(t, ok)
	var notes []model.Note
	require.NoError(t, json.Unmarshal(data, &notes))
	return notes
}

func TestAddNoteDerivesReminder(t *testing.T) {
	ctx := context.Background()
	s, backend := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(ctx, model.Note{
		Date:            "2024-06-01",
		Title:           "Dentist",
		ReminderEnabled: true,
		ReminderTime:    "09:00",
	})
	require.NoError(t, err)
	assertInvariants(t, snap)

	require.Len(t, snap.Notes, 1)
	note := snap.Notes[0]
	assert.NotEmpty(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())

	require.Len(t, snap.Reminders, 1)
	r := snap.Reminders[0]
	assert.Equal(t, "Note Reminder: Dentist", r.Title)
	assert.Equal(t, "2024-06-01", r.Date)
	assert.Equal(t, "09:00", r.Time)
	assert.Equal(t, note.ID, r.NoteID)
	assert.Equal(t, model.PriorityMedium, r.Priority)
	assert.True(t, r.NotificationEnabled)
	assert.True(t, r.SoundEnabled)
	assert.False(t, r.Notified)

	assert.Len(t, persistedNotes(t, backend), 1)
	data, ok, err := backend.Get(ctx, kv.KeyReminders)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), `"noteId":"`+note.ID+`"`)
}

func TestAddNoteWithoutReminder(t *testing.T) {
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(context.Background(), model.Note{
		Date:         "2024-06-01",
		Title:        "Plain",
		ReminderTime: "09:00",
	})
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.Empty(t, snap.Reminders)
	assert.Empty(t, snap.Notes[0].ReminderTime, "disabled reminder drops its time")
}

func TestAddNoteValidation(t *testing.T) {
	tests := []struct {
		name string
		note model.Note
	}{
		{"empty title", model.Note{Date: "2024-06-01", Title: "   "}},
		{"bad date", model.Note{Date: "06/01/2024", Title: "x"}},
		{"reminder without time", model.Note{Date: "2024-06-01", Title: "x", ReminderEnabled: true}},
		{"bad reminder time", model.Note{Date: "2024-06-01", Title: "x", ReminderEnabled: true, ReminderTime: "25:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))
			snap, err := s.AddNote(context.Background(), tt.note)
			assert.ErrorIs(t, err, store.ErrInvalidNote)
			assert.Empty(t, snap.Notes)
		})
	}
}

func TestAddNoteDuplicateID(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	_, err := s.AddNote(ctx, model.Note{ID: "n1", Date: "2024-06-01", Title: "a"})
	require.NoError(t, err)
	_, err = s.AddNote(ctx, model.Note{ID: "n1", Date: "2024-06-01", Title: "b"})
	assert.ErrorIs(t, err, store.ErrInvalidNote)
}

func TestUpdateNoteRearmsReminder(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "Dentist", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)
	note := snap.Notes[0]
	rid := snap.Reminders[0].ID

	claimed, err := s.MarkReminderNotified(ctx, rid)
	require.NoError(t, err)
	require.True(t, claimed)

	note.ReminderTime = "10:00"
	note.Title = "Dentist (moved)"
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assertInvariants(t, snap)

	require.Len(t, snap.Reminders, 1)
	r := snap.Reminders[0]
	assert.Equal(t, rid, r.ID, "existing reminder is updated in place")
	assert.Equal(t, "10:00", r.Time)
	assert.Equal(t, "Note Reminder: Dentist (moved)", r.Title)
	assert.False(t, r.Notified)
}

func TestUpdateNoteReminderLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(ctx, model.Note{Date: "2024-06-01", Title: "Call mom"})
	require.NoError(t, err)
	note := snap.Notes[0]
	assert.Empty(t, snap.Reminders)

	note.ReminderEnabled = true
	note.ReminderTime = "7:30"
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assertInvariants(t, snap)
	require.Len(t, snap.Reminders, 1, "enabling synthesizes a reminder")
	assert.Equal(t, "07:30", snap.Reminders[0].Time)

	note.ReminderEnabled = false
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.Empty(t, snap.Reminders, "disabling removes the reminder")
	assert.Empty(t, snap.Notes[0].ReminderTime)
}

func TestUpdateNoteResetsNotifiedAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(june1)
	s, _ := testutil.NewTestStore(t, clock)

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "x", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)
	note := snap.Notes[0]
	created := note.CreatedAt

	_, err = s.MarkNoteNotified(ctx, note.ID)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	note.ReminderNotified = true
	note.CreatedAt = time.Time{}
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assert.False(t, snap.Notes[0].ReminderNotified)
	assert.True(t, created.Equal(snap.Notes[0].CreatedAt))
}

func TestUpdateNoteNotFound(t *testing.T) {
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))
	_, err := s.UpdateNote(context.Background(), model.Note{ID: "ghost", Date: "2024-06-01", Title: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteNoteCascades(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "x", Featured: true, ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)
	id := snap.Notes[0].ID
	require.Equal(t, []string{id}, snap.FeaturedIDs)

	_, err = s.AddReminder(ctx, model.Reminder{Title: "standalone", Date: "2024-06-01", Time: "12:00"})
	require.NoError(t, err)

	snap, err = s.DeleteNote(ctx, id)
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.FeaturedIDs)
	require.Len(t, snap.Reminders, 1)
	assert.Equal(t, "standalone", snap.Reminders[0].Title)

	_, err = s.DeleteNote(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleFeatured(t *testing.T) {
	ctx := context.Background()
	ann := &testutil.Announcer{}
	s, backend := testutil.NewTestStore(t, testutil.NewClock(june1), store.WithAnnouncer(ann))

	snap, err := s.AddNote(ctx, model.Note{Date: "2024-06-01", Title: "a"})
	require.NoError(t, err)
	id := snap.Notes[0].ID

	snap, err = s.ToggleFeatured(ctx, id)
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.True(t, snap.Notes[0].Featured)
	assert.Equal(t, []string{id}, snap.FeaturedIDs)
	assert.True(t, persistedNotes(t, backend)[0].Featured)

	data, _, err := backend.Get(ctx, kv.KeyFeaturedNotes)
	require.NoError(t, err)
	assert.JSONEq(t, `["`+id+`"]`, string(data))

	assert.Len(t, s.FeaturedNotes(), 1)

	snap, err = s.ToggleFeatured(ctx, id)
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.False(t, snap.Notes[0].Featured)
	assert.Empty(t, snap.FeaturedIDs)

	_, err = s.ToggleFeatured(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []string{"Note added", "Note pinned", "Note unpinned"}, ann.Titles())
}

func TestUpdateNoteFeaturedFlagDrivesSet(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(ctx, model.Note{Date: "2024-06-01", Title: "a"})
	require.NoError(t, err)
	note := snap.Notes[0]

	note.Featured = true
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.Len(t, snap.FeaturedIDs, 1)

	note.Featured = false
	snap, err = s.UpdateNote(ctx, note)
	require.NoError(t, err)
	assertInvariants(t, snap)
	assert.Empty(t, snap.FeaturedIDs)
}

func TestLoadInvalidJSON(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, kv.KeyNotes, []byte(`{not json`)))
	require.NoError(t, backend.Put(ctx, kv.KeyReminders, []byte(`[{"id":"r1","title":"t","date":"2024-06-01","time":"09:00"}]`)))

	s := store.New(backend)
	var snap store.Snapshot
	require.NotPanics(t, func() { snap = s.Load(ctx) })

	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.FeaturedIDs)
	assert.Len(t, snap.Reminders, 1, "other keys load independently")
}

func TestLoadDiscardsPartiallyDecodedCollection(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, kv.KeyNotes, []byte(`[{"id":"n1","date":"2024-06-01","title":"ok"},{"id":7}]`)))
	require.NoError(t, backend.Put(ctx, kv.KeyFeaturedNotes, []byte(`["n1",3]`)))

	snap := store.New(backend).Load(ctx)
	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.FeaturedIDs)
}

func TestLoadEmptyBackend(t *testing.T) {
	s := store.New(kv.NewMemoryStore())
	snap := s.Load(context.Background())
	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.FeaturedIDs)
	assert.Empty(t, snap.Reminders)
}

func TestLoadNormalizesFeatured(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, kv.KeyNotes, []byte(`[
		{"id":"a","date":"2024-06-01","title":"a","featured":false},
		{"id":"b","date":"2024-06-01","title":"b","featured":true},
		{"id":"c","date":"2024-06-01","title":"c"}
	]`)))
	require.NoError(t, backend.Put(ctx, kv.KeyFeaturedNotes, []byte(`["a","ghost","a"]`)))

	snap := store.New(backend).Load(ctx)
	assertInvariants(t, snap)
	assert.Equal(t, []string{"a", "b"}, snap.FeaturedIDs)
}

func TestLoadReadsOriginalFormat(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, kv.KeyNotes, []byte(`[{"id":"n1","date":"2024-06-01","title":"t",
		"content":"","emoji":"📝","color":"","category":"general","reminderEnabled":false,
		"reminderTime":null,"reminderNotified":false,"featured":false,
		"createdAt":"2024-05-30T10:11:12.000Z"}]`)))

	snap := store.New(backend).Load(ctx)
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "📝", snap.Notes[0].Emoji)
	assert.Empty(t, snap.Notes[0].ReminderTime)
	assert.Equal(t, 2024, snap.Notes[0].CreatedAt.Year())
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	s, backend := testutil.NewTestStore(t, testutil.NewClock(june1))
	backend.SetFailPut(errors.New("disk full"))

	snap, err := s.AddNote(ctx, model.Note{Date: "2024-06-01", Title: "a"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrInvalidNote)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, snap.Notes, 1)
	assert.Len(t, s.Snapshot().Notes, 1)
}

func TestAddReminder(t *testing.T) {
	ctx := context.Background()
	ann := &testutil.Announcer{}
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1), store.WithAnnouncer(ann))

	snap, err := s.AddReminder(ctx, model.Reminder{Title: "Standup", Date: "2024-06-01", Time: "9:15"})
	require.NoError(t, err)
	require.Len(t, snap.Reminders, 1)
	r := snap.Reminders[0]
	assert.Equal(t, "09:15", r.Time)
	assert.Equal(t, model.PriorityMedium, r.Priority)
	assert.False(t, r.Notified)
	assert.Equal(t, []string{"Reminder set"}, ann.Titles())

	for name, bad := range map[string]model.Reminder{
		"missing title": {Date: "2024-06-01", Time: "09:00"},
		"missing date":  {Title: "x", Time: "09:00"},
		"missing time":  {Title: "x", Date: "2024-06-01"},
		"bad priority":  {Title: "x", Date: "2024-06-01", Time: "09:00", Priority: "urgent"},
		"note owned":    {Title: "x", Date: "2024-06-01", Time: "09:00", NoteID: "n1"},
	} {
		_, err := s.AddReminder(ctx, bad)
		assert.ErrorIs(t, err, store.ErrInvalidReminder, name)
	}
}

func TestUpdateReminder(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddReminder(ctx, model.Reminder{Title: "Standup", Date: "2024-06-01", Time: "09:15"})
	require.NoError(t, err)
	r := snap.Reminders[0]

	_, err = s.MarkReminderNotified(ctx, r.ID)
	require.NoError(t, err)

	r.Priority = model.PriorityHigh
	snap, err = s.UpdateReminder(ctx, r)
	require.NoError(t, err)
	assert.True(t, snap.Reminders[0].Notified, "same slot keeps notified")
	assert.Equal(t, model.PriorityHigh, snap.Reminders[0].Priority)

	r.Time = "09:30"
	snap, err = s.UpdateReminder(ctx, r)
	require.NoError(t, err)
	assert.False(t, snap.Reminders[0].Notified, "moving the slot re-arms")

	_, err = s.UpdateReminder(ctx, model.Reminder{ID: "ghost", Title: "x", Date: "2024-06-01", Time: "09:00"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	snap, err = s.DeleteReminder(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Reminders)
}

func TestMarkNotifiedClaimsOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	snap, err := s.AddNote(ctx, model.Note{
		Date: "2024-06-01", Title: "x", ReminderEnabled: true, ReminderTime: "09:00",
	})
	require.NoError(t, err)

	claimed, err := s.MarkNoteNotified(ctx, snap.Notes[0].ID)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = s.MarkNoteNotified(ctx, snap.Notes[0].ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = s.MarkReminderNotified(ctx, snap.Reminders[0].ID)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = s.MarkReminderNotified(ctx, snap.Reminders[0].ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = s.MarkReminderNotified(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNoteFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, testutil.NewClock(june1))

	for _, n := range []model.Note{
		{Date: "2024-06-01", Title: "Gym", Emoji: "🏋️", Category: "health", ReminderEnabled: true, ReminderTime: "07:00"},
		{Date: "2024-06-02", Title: "Budget", Content: "review the gym membership", Category: "finance"},
		{Date: "2024-06-03", Title: "Untagged", Featured: true},
	} {
		_, err := s.AddNote(ctx, n)
		require.NoError(t, err)
	}

	titles := func(notes []model.Note) []string {
		var out []string
		for _, n := range notes {
			out = append(out, n.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Gym", "Budget"}, titles(s.Notes(store.NoteFilter{Query: "GYM"})))
	assert.Equal(t, []string{"Gym"}, titles(s.Notes(store.NoteFilter{Emoji: "🏋️"})))
	assert.Equal(t, []string{"Untagged"}, titles(s.Notes(store.NoteFilter{Category: "general"})))
	assert.Equal(t, []string{"Gym"}, titles(s.Notes(store.NoteFilter{RemindersOnly: true})))
	assert.Equal(t, []string{"Untagged"}, titles(s.Notes(store.NoteFilter{FeaturedOnly: true})))
	assert.Equal(t, []string{"Budget", "Untagged"}, titles(s.Notes(store.NoteFilter{From: "2024-06-02", To: "2024-06-30"})))
	assert.Equal(t, []string{"Budget"}, titles(s.NotesFor("2024-06-02")))
}
