package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nhle/smartcal/internal/kv"
	"github.com/nhle/smartcal/internal/store"
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock fixed at t.
func NewClock(t time.Time) *Clock { return &Clock{now: t} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Announcement is one recorded action message.
type Announcement struct {
	Title       string
	Description string
}

// Announcer records action messages.
type Announcer struct {
	mu  sync.Mutex
	Got []Announcement
}

func (a *Announcer) Announce(title, description string) {
	a.mu.Lock()
	a.Got = append(a.Got, Announcement{title, description})
	a.mu.Unlock()
}

// Titles returns the recorded titles in order.
func (a *Announcer) Titles() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.Got))
	for i, g := range a.Got {
		out[i] = g.Title
	}
	return out
}

// NewTestStore creates a loaded Store over an in-memory backend with a
// fake clock and sequential ids. The backend is returned for inspection.
func NewTestStore(t *testing.T, clock *Clock, opts ...store.Option) (*store.Store, *kv.MemoryStore) {
	t.Helper()

	backend := kv.NewMemoryStore()
	t.Cleanup(func() {
		if err := backend.Close(); err != nil {
			t.Errorf("closing test backend: %v", err)
		}
	})

	base := []store.Option{
		store.WithClock(clock.Now),
		store.WithIDGenerator(SequentialIDs("id")),
	}
	s := store.New(backend, append(base, opts...)...)
	s.Load(context.Background())
	return s, backend
}
