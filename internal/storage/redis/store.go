// Package redis stores snapshots as JSON strings in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/questkit/internal/platform/timeouts"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by the store.
const DefaultNamespace = "questkit"

// Store provides a Redis-backed snapshot store. It is safe for concurrent
// use.
type Store struct {
	rdb       *goredis.Client
	namespace string
}

// Open connects to addr and verifies connectivity.
func Open(ctx context.Context, addr string, db int) (*Store, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	store, err := New(&goredis.Options{Addr: addr, DB: db, DialTimeout: timeouts.RedisDial}, DefaultNamespace)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.RedisDial)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return store, nil
}

// New creates a store without contacting the server.
func New(opts *goredis.Options, namespace string) (*Store, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis options are required")
	}
	if strings.TrimSpace(namespace) == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}
	return &Store{rdb: goredis.NewClient(opts), namespace: namespace}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// SnapshotKey returns the namespaced Redis key for key.
func SnapshotKey(namespace, key string) string {
	return namespace + ":snapshot:" + key
}

// Put writes the snapshot under key.
func (s *Store) Put(ctx context.Context, key string, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.rdb == nil {
		return fmt.Errorf("storage is not configured")
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return err
	}
	payload, err := storage.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, SnapshotKey(s.namespace, key), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot to Redis: %w", err)
	}
	return nil
}

// Get reads the snapshot under key.
func (s *Store) Get(ctx context.Context, key string) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	if s == nil || s.rdb == nil {
		return snapshot.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	payload, err := s.rdb.Get(ctx, SnapshotKey(s.namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return snapshot.Snapshot{}, storage.ErrNotFound
		}
		return snapshot.Snapshot{}, fmt.Errorf("failed to read snapshot from Redis: %w", err)
	}
	return storage.Unmarshal(payload)
}
