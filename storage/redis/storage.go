// Package redis provides Storage backed by Redis, for sessions shared by
// several processes or hosts.
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/itportal/itportal/internal/retries"
	"github.com/pkg/errors"
)

// Storage keeps each key as a plain Redis string under a common prefix.
type Storage struct {
	client *redis.Client
	prefix string
}

// NewStorage returns Storage that uses the specified client and key prefix.
func NewStorage(client *redis.Client, prefix string) *Storage {
	return &Storage{
		client: client,
		prefix: prefix,
	}
}

// NewStorageFromEnvironment returns Storage configured from REDIS_*
// environment variables once the server can be reached.
func NewStorageFromEnvironment(ctx context.Context) (*Storage, error) {
	client, prefix, err := Client()
	if err != nil {
		return nil, err
	}
	storage := NewStorage(client, prefix)
	policy := retries.Policy{
		Backend:        "redis",
		Attempts:       5,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
	}
	if err := policy.WaitFor(ctx, storage.CheckHealth); err != nil {
		storage.Close() // nolint: errcheck
		return nil, err
	}
	return storage, nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.WithContext(ctx).Get(s.prefix + key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "error getting %q from redis", key)
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key string, value string) error {
	return errors.Wrapf(
		s.client.WithContext(ctx).Set(s.prefix+key, value, 0).Err(),
		"error setting %q in redis",
		key,
	)
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	return errors.Wrapf(
		s.client.WithContext(ctx).Del(s.prefix+key).Err(),
		"error deleting %q from redis",
		key,
	)
}

// CheckHealth pings the server.
func (s *Storage) CheckHealth(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return errors.Wrap(
		s.client.WithContext(pingCtx).Ping().Err(),
		"error pinging redis",
	)
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}
