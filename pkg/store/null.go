package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NullStore is a no-op store that never keeps anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Put discards the document and returns synthetic snapshot metadata.
func (s *NullStore) Put(ctx context.Context, name string, doc []byte) (Snapshot, error) {
	return Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Get always reports the model as missing.
func (s *NullStore) Get(ctx context.Context, name string) (Snapshot, error) {
	return Snapshot{}, fmt.Errorf("model %q: %w", name, ErrNotFound)
}

// List always returns an empty listing.
func (s *NullStore) List(ctx context.Context) ([]Snapshot, error) {
	return nil, nil
}

// Delete always reports the model as missing.
func (s *NullStore) Delete(ctx context.Context, name string) error {
	return fmt.Errorf("model %q: %w", name, ErrNotFound)
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
