package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// FileStore implements a file-based model repository for CLI usage.
// Each snapshot is stored as one JSON file in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Put stores doc as the latest snapshot under name.
func (s *FileStore) Put(ctx context.Context, name string, doc []byte) (Snapshot, error) {
	snap := Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Model:     doc,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, err
	}

	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Snapshot{}, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Get retrieves the latest snapshot under name.
func (s *FileStore) Get(ctx context.Context, name string) (Snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return Snapshot{}, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	return snap, nil
}

// List returns metadata for all stored snapshots, sorted by name.
func (s *FileStore) List(ctx context.Context) ([]Snapshot, error) {
	var snaps []Snapshot
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			// Unreadable entry - skip rather than fail the listing.
			return nil
		}
		snap.Model = nil
		snaps = append(snaps, snap)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })
	return snaps, nil
}

// Delete removes the snapshot under name.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return err
}

// Close does nothing for file stores.
func (s *FileStore) Close() error {
	return nil
}

// path converts a model name to a file path.
// Uses a simple hash-based directory structure to keep names filesystem-safe.
func (s *FileStore) path(name string) string {
	sum := sha256.Sum256([]byte(name))
	hash := hex.EncodeToString(sum[:])
	// Use first 2 chars as subdirectory for distribution
	subdir := hash[:2]
	filename := hash[2:] + ".json"
	return filepath.Join(s.dir, subdir, filename)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
