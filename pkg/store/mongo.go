package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds connection settings for a MongoDB-backed store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "portgraph" when empty.
	Database string

	// Collection is the collection name. Defaults to "models" when empty.
	Collection string
}

// MongoStore implements a MongoDB-backed model repository. Snapshots are
// stored as BSON documents keyed by model name, which keeps them queryable
// by other tooling.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := cfg.Database
	if db == "" {
		db = "portgraph"
	}
	col := cfg.Collection
	if col == "" {
		col = "models"
	}
	return &MongoStore{
		client: client,
		col:    client.Database(db).Collection(col),
	}, nil
}

// Put stores doc as the latest snapshot under name, replacing any
// previous document with the same name.
func (s *MongoStore) Put(ctx context.Context, name string, doc []byte) (Snapshot, error) {
	snap := Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Model:     doc,
	}

	_, err := s.col.ReplaceOne(ctx,
		bson.M{"name": name},
		snap,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Get retrieves the latest snapshot under name.
func (s *MongoStore) Get(ctx context.Context, name string) (Snapshot, error) {
	var snap Snapshot
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{}, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List returns metadata for all stored snapshots, sorted by name.
// Model payloads are excluded from the query projection.
func (s *MongoStore) List(ctx context.Context) ([]Snapshot, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"model": 0}).
			SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snaps []Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Delete removes the snapshot under name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
