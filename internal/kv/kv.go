// Package kv provides the key/value persistence used by the calendar store.
// Each key holds one JSON document that is overwritten as a whole.
package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nhle/smartcal/internal/model"
)

// Keys of the persisted collections.
const (
	KeyNotes         = "calendar-notes"
	KeyFeaturedNotes = "calendar-featured-notes"
	KeyReminders     = "calendar-reminders"
)

// Store is a flat key/value store of JSON documents.
type Store interface {
	// Get returns the value for key. ok is false when the key was never
	// written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put overwrites the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}

// Watchable is implemented by backends whose data can change on disk
// outside this process.
type Watchable interface {
	// WatchDir is the directory to observe.
	WatchDir() string

	// Owns reports whether path belongs to this store.
	Owns(path string) bool
}

// Open returns the backend named by backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case model.BackendFile, "":
		return NewFileStore(dir)
	case model.BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "smartcal.db"))
	case model.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
