// Package store persists serialized models under stable names.
//
// A store maps a model name to its latest snapshot: the modelio JSON
// document plus bookkeeping metadata. Backends:
//   - file: JSON files on disk, for CLI usage
//   - redis: Redis-backed storage for shared deployments
//   - mongo: MongoDB-backed storage where documents should be queryable
//   - remote: HTTP client against another process running the models API
//   - null: discards everything, for tests and disabled storage
//
// Put overwrites the previous snapshot under the same name; each write gets
// a fresh snapshot ID. All backends are safe for concurrent use to the
// extent their underlying medium is.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no snapshot exists under the requested name.
var ErrNotFound = errors.New("not found")

// Snapshot is one stored model version. Model holds the modelio JSON
// document; listings omit it to keep responses small.
type Snapshot struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Model     []byte    `json:"model,omitempty" bson:"model,omitempty"`
}

// Store is the interface all model repository backends implement.
type Store interface {
	// Put stores doc as the latest snapshot under name, overwriting any
	// previous one, and returns the stored snapshot metadata.
	Put(ctx context.Context, name string, doc []byte) (Snapshot, error)

	// Get retrieves the latest snapshot under name, including the model
	// payload. Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (Snapshot, error)

	// List returns metadata for all stored snapshots, sorted by name.
	// Model payloads are omitted.
	List(ctx context.Context) ([]Snapshot, error)

	// Delete removes the snapshot under name.
	// Returns ErrNotFound if the name is unknown.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}
