// Package redis implements Store on Redis string keys.
package redis

import (
	"context"
	"errors"
	"fmt"

	"refill-ledger/internal/store"

	goredis "github.com/redis/go-redis/v9"
)

// Store keeps each key as a Redis string under a common prefix.
type Store struct {
	client *goredis.Client
	prefix string
}

var _ store.Store = (*Store)(nil)

// New builds a client for addr. Call Ping to check connectivity.
func New(addr, password string, db int, prefix string) *Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return val, nil
}

// Save stores the value without expiry.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
