// Package file implements a Store that keeps each progress category in one
// JSON file. Writes go through a temp file and rename so a save either
// lands completely or not at all.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/volumetricpixels/questy/store"
)

// Store persists progress documents as JSON files in a directory.
type Store struct {
	currentPath   string
	completedPath string
}

// New creates a file Store rooted at dir. The directory is created on the
// first save.
func New(dir string) *Store {
	return &Store{
		currentPath:   filepath.Join(dir, "current.json"),
		completedPath: filepath.Join(dir, "completed.json"),
	}
}

func (s *Store) SaveCurrent(ctx context.Context, data store.Data) error {
	return s.save(ctx, s.currentPath, data)
}

func (s *Store) LoadCurrent(ctx context.Context) (store.Data, error) {
	return s.load(ctx, s.currentPath)
}

func (s *Store) SaveCompleted(ctx context.Context, data store.Data) error {
	return s.save(ctx, s.completedPath, data)
}

func (s *Store) LoadCompleted(ctx context.Context) (store.Data, error) {
	return s.load(ctx, s.completedPath)
}

func (s *Store) save(ctx context.Context, path string, data store.Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: commit %s: %w", path, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, path string) (store.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// Loading before the first save is a normal first-run state.
		return store.Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var data store.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	if data == nil {
		data = store.Data{}
	}
	return data, nil
}
