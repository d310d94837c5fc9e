package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for a Redis-backed store.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string

	// Password is optional.
	Password string

	// DB is the Redis database number.
	DB int

	// Prefix namespaces all keys. Defaults to "portgraph" when empty.
	Prefix string
}

// RedisStore implements a Redis-backed model repository for shared
// deployments. Snapshots are stored as JSON under prefixed keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "portgraph"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Put stores doc as the latest snapshot under name.
func (s *RedisStore) Put(ctx context.Context, name string, doc []byte) (Snapshot, error) {
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
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Get retrieves the latest snapshot under name.
func (s *RedisStore) Get(ctx context.Context, name string) (Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
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
func (s *RedisStore) List(ctx context.Context) ([]Snapshot, error) {
	var snaps []Snapshot
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			// Deleted between scan and get.
			continue
		}
		if err != nil {
			return nil, err
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		snap.Model = nil
		snaps = append(snaps, snap)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })
	return snaps, nil
}

// Delete removes the snapshot under name.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	deleted, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":model:" + name
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
