// Package kvstore stores notification preferences in Redis.
package kvstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Client is the subset of the go-redis client used by RedisStore.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Settings describes how to reach the Redis server.
type Settings struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies that the server responds.
func NewClient(ctx context.Context, settings Settings) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Addr,
		Password: settings.Password,
		DB:       settings.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "unable to connect to redis at %s", settings.Addr)
	}
	return client, nil
}

// RedisStore keeps serialized preferences in Redis. Values never expire.
type RedisStore struct {
	client Client
}

// NewRedisStore returns a store that uses the given client.
func NewRedisStore(client Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the serialized preferences stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "unable to read `%s` from redis", key)
	}
	return value, true, nil
}

// Set stores serialized preferences under key.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "unable to write `%s` to redis", key)
	}
	return nil
}
