// Package redis provides a Redis-backed implementation of driven.KeyValueStore.
//
// Every write also publishes on a per-key channel, so other processes can
// follow changes through Watch.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

// DefaultPrefix namespaces every key this store writes.
const DefaultPrefix = "quire:"

// Ensure Store implements the interfaces.
var (
	_ driven.KeyValueStore  = (*Store)(nil)
	_ driven.ChangeNotifier = (*Store)(nil)
)

// Store implements key-value storage using Redis.
type Store struct {
	client *redis.Client
	prefix string
}

// connectTimeout bounds the reachability check in NewStore.
const connectTimeout = 5 * time.Second

// NewStore connects to the server at redisURL and checks it is reachable.
func NewStore(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewStoreWithClient(client, DefaultPrefix), nil
}

// NewStoreWithClient creates a store from an existing Redis client.
func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) channel(k string) string {
	return s.prefix + "changed:" + k
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key and announces the change.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(key), value, 0)
		pipe.Publish(ctx, s.channel(key), "set")
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key and announces the change. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(key))
		pipe.Publish(ctx, s.channel(key), "del")
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Watch calls onChange for every change announced on key until ctx is done.
// It returns once the subscription fails or ctx is cancelled.
func (s *Store) Watch(ctx context.Context, key string, onChange func()) error {
	pubsub := s.client.Subscribe(ctx, s.channel(key))
	defer pubsub.Close()

	// Wait for the subscription to be confirmed so no change is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", key, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			onChange()
		}
	}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
