package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const stateFileName = "state.json"

// FileStorage keeps all keys in one JSON object file. Writes go through a
// temp file and rename, so a concurrent reader sees either the old or the
// new file and never a partial one. Another process writing the same file
// wins if it writes last.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage stores state in dir/state.json, creating dir (0700) if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("kv.NewFileStorage: %w", err)
	}
	return &FileStorage{path: filepath.Join(dir, stateFileName)}, nil
}

// Path returns the backing file path.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, fmt.Errorf("kv.FileStorage.Get: %w", err)
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return fmt.Errorf("kv.FileStorage.Set: %w", err)
	}
	values[key] = value
	if err := f.store(values); err != nil {
		return fmt.Errorf("kv.FileStorage.Set: %w", err)
	}
	return nil
}

func (f *FileStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return fmt.Errorf("kv.FileStorage.Delete: %w", err)
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if err := f.store(values); err != nil {
		return fmt.Errorf("kv.FileStorage.Delete: %w", err)
	}
	return nil
}

func (f *FileStorage) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileStorage) store(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), stateFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("chmod temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
