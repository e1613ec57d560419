// Package mongodb provides Storage backed by a MongoDB collection.
package mongodb

import (
	"context"
	"time"

	"github.com/itportal/itportal/internal/retries"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type entry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Storage keeps each key as its own document, {_id: key, value: value}.
type Storage struct {
	collection *mongo.Collection
}

// NewStorage returns Storage that uses the specified collection.
func NewStorage(collection *mongo.Collection) *Storage {
	return &Storage{
		collection: collection,
	}
}

// NewStorageFromEnvironment returns Storage configured from MONGODB_*
// environment variables once the database can be reached.
func NewStorageFromEnvironment(ctx context.Context) (*Storage, error) {
	collection, err := Collection(ctx)
	if err != nil {
		return nil, err
	}
	storage := NewStorage(collection)
	policy := retries.Policy{
		Backend:        "mongodb",
		Attempts:       5,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
	}
	if err := policy.WaitFor(ctx, storage.CheckHealth); err != nil {
		storage.Close(context.Background()) // nolint: errcheck
		return nil, err
	}
	return storage, nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	e := entry{}
	res := s.collection.FindOne(ctx, bson.M{"_id": key})
	err := res.Decode(&e)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "error finding %q in mongo", key)
	}
	return e.Value, true, nil
}

func (s *Storage) Set(ctx context.Context, key string, value string) error {
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": key},
		entry{
			Key:   key,
			Value: value,
		},
		options.Replace().SetUpsert(true),
	)
	return errors.Wrapf(err, "error upserting %q in mongo", key)
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	return errors.Wrapf(err, "error deleting %q from mongo", key)
}

// CheckHealth pings the database.
func (s *Storage) CheckHealth(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.collection.Database().Client().Ping(
		pingCtx,
		readpref.Primary(),
	); err != nil {
		return errors.Wrap(err, "error pinging mongodb database")
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Storage) Close(ctx context.Context) error {
	return s.collection.Database().Client().Disconnect(ctx)
}
