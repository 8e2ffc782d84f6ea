// Package store owns the calendar state: notes, the featured note set and
// reminders. Every mutation goes through a Store method, which keeps the
// featured flags, the featured set and note-derived reminders consistent
// and mirrors the touched collections to the key/value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/smartcal/internal/kv"
	"github.com/nhle/smartcal/internal/model"
)

var (
	// ErrNotFound is returned when a note or reminder id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidNote is returned when a note fails validation.
	ErrInvalidNote = errors.New("invalid note")

	// ErrInvalidReminder is returned when a reminder fails validation.
	ErrInvalidReminder = errors.New("invalid reminder")
)

// Announcer receives short user-facing messages about completed actions.
type Announcer interface {
	Announce(title, description string)
}

// Snapshot is a copy of the store collections.
type Snapshot struct {
	Notes       []model.Note     `json:"notes" yaml:"notes"`
	FeaturedIDs []string         `json:"featured" yaml:"featured"`
	Reminders   []model.Reminder `json:"reminders" yaml:"reminders"`
}

// Store is the single owner of the calendar collections.
type Store struct {
	mu sync.Mutex

	kv        kv.Store
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	announcer Announcer

	notes     []model.Note
	featured  []string
	reminders []model.Reminder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithAnnouncer sets where action messages are sent.
func WithAnnouncer(a Announcer) Option {
	return func(s *Store) { s.announcer = a }
}

// New returns an empty Store over backend. Call Load to read persisted state.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     backend,
		logger: slog.Default(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAnnouncer replaces the announcer after construction.
func (s *Store) SetAnnouncer(a Announcer) {
	s.mu.Lock()
	s.announcer = a
	s.mu.Unlock()
}

// Load reads the three collections from the backend. Missing or malformed
// data yields an empty collection and a warning; Load never fails.
func (s *Store) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = readCollection[model.Note](ctx, s, kv.KeyNotes)
	s.featured = readCollection[string](ctx, s, kv.KeyFeaturedNotes)
	s.reminders = readCollection[model.Reminder](ctx, s, kv.KeyReminders)
	s.normalizeFeatured()

	return s.snapshotLocked()
}

// Reload re-reads persisted state, discarding in-memory changes.
func (s *Store) Reload(ctx context.Context) Snapshot {
	return s.Load(ctx)
}

// readCollection decodes the array stored under key. Any failure yields
// nil so a malformed value never leaves a partial collection behind.
func readCollection[T any](ctx context.Context, s *Store, key string) []T {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("reading persisted collection", "key", key, "error", err)
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding malformed collection", "key", key, "error", err)
		return nil
	}
	return items
}

// normalizeFeatured makes the featured set equal to the notes flagged
// featured, accepting either side as evidence, and drops unknown ids.
func (s *Store) normalizeFeatured() {
	inSet := make(map[string]bool, len(s.featured))
	for _, id := range s.featured {
		inSet[id] = true
	}

	known := make(map[string]bool, len(s.notes))
	for i := range s.notes {
		n := &s.notes[i]
		known[n.ID] = true
		if inSet[n.ID] {
			n.Featured = true
		}
	}

	set := make([]string, 0, len(s.featured))
	seen := make(map[string]bool, len(s.featured))
	for _, id := range s.featured {
		if known[id] && !seen[id] {
			set = append(set, id)
			seen[id] = true
		}
	}
	for _, n := range s.notes {
		if n.Featured && !seen[n.ID] {
			set = append(set, n.ID)
			seen[n.ID] = true
		}
	}
	s.featured = set
}

// Snapshot returns a copy of the current collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Notes:       slices.Clone(s.notes),
		FeaturedIDs: slices.Clone(s.featured),
		Reminders:   slices.Clone(s.reminders),
	}
}

// persisted lists which keys a mutation touched.
type persisted struct {
	notes, featured, reminders bool
}

func (s *Store) persist(ctx context.Context, p persisted) error {
	var errs []error
	if p.notes {
		errs = append(errs, s.put(ctx, kv.KeyNotes, s.notes))
	}
	if p.featured {
		errs = append(errs, s.put(ctx, kv.KeyFeaturedNotes, s.featured))
	}
	if p.reminders {
		errs = append(errs, s.put(ctx, kv.KeyReminders, s.reminders))
	}
	return errors.Join(errs...)
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(nonNil(v))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	return nil
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil(v any) any {
	switch c := v.(type) {
	case []model.Note:
		if c == nil {
			return []model.Note{}
		}
	case []string:
		if c == nil {
			return []string{}
		}
	case []model.Reminder:
		if c == nil {
			return []model.Reminder{}
		}
	}
	return v
}

func (s *Store) announce(title, description string) {
	s.mu.Lock()
	a := s.announcer
	s.mu.Unlock()
	if a != nil {
		a.Announce(title, description)
	}
}

func (s *Store) noteIndex(id string) int {
	return slices.IndexFunc(s.notes, func(n model.Note) bool { return n.ID == id })
}

func (s *Store) reminderIndex(id string) int {
	return slices.IndexFunc(s.reminders, func(r model.Reminder) bool { return r.ID == id })
}
