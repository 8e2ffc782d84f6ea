package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tempFilePrefix is the prefix used for temporary atomic write files.
const tempFilePrefix = "smartcal-tmp-"

// FileStore keeps each key in <dir>/<key>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a FileStore over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

func (f *FileStore) Put(_ context.Context, key string, value []byte) error {
	if err := writeFileAtomic(f.path(key), value, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// WatchDir implements Watchable.
func (f *FileStore) WatchDir() string { return f.dir }

// Owns implements Watchable. Temp files from atomic writes are ignored.
func (f *FileStore) Owns(path string) bool {
	if filepath.Dir(path) != filepath.Clean(f.dir) {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, tempFilePrefix) {
		return false
	}
	switch strings.TrimSuffix(base, ".json") {
	case KeyNotes, KeyFeaturedNotes, KeyReminders:
		return strings.HasSuffix(base, ".json")
	}
	return false
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", filename, err)
	}
	return nil
}
