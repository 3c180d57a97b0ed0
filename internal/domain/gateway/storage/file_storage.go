package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"weather-client/internal/domain/model"
)

// FileStore keeps every key in one JSON document on disk. Writes go to a temporary file
// that is renamed over the previous document.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

var _ KeyValueStore = (*FileStore)(nil)

// NewFileStore loads path, creating its directory when needed. A missing file is an empty
// store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	store := &FileStore{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &store.values); err != nil {
			return nil, fmt.Errorf("failed to decode storage file %s: %w", path, err)
		}
	}
	return store, nil
}

func (store *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, found := store.values[key]
	return value, found, nil
}

func (store *FileStore) Set(_ context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	previous, existed := store.values[key]
	store.values[key] = value
	if err := store.flush(); err != nil {
		if existed {
			store.values[key] = previous
		} else {
			delete(store.values, key)
		}
		return err
	}
	return nil
}

func (store *FileStore) Remove(ctx context.Context, key string) error {
	return store.MultiRemove(ctx, []string{key})
}

func (store *FileStore) MultiRemove(_ context.Context, keys []string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	removed := make(map[string]string)
	for _, key := range keys {
		if value, found := store.values[key]; found {
			removed[key] = value
			delete(store.values, key)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := store.flush(); err != nil {
		for key, value := range removed {
			store.values[key] = value
		}
		return err
	}
	return nil
}

func (store *FileStore) Health() model.ComponentHealthStatus {
	if _, err := os.Stat(filepath.Dir(store.path)); err != nil {
		return down(err)
	}
	return up(map[string]string{"driver": "file", "path": store.path})
}

// flush must be called with mu held.
func (store *FileStore) flush() error {
	data, err := json.Marshal(store.values)
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(store.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary storage file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), store.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
