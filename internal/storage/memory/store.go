// Package memory keeps snapshots in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
)

// Store is a thread-safe in-memory snapshot store. Values are cloned on the
// way in and out.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]snapshot.Snapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{snapshots: make(map[string]snapshot.Snapshot)}
}

// Put stores a copy of s under key.
func (s *Store) Put(ctx context.Context, key string, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshots[key] = snap.Clone()
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the snapshot under key.
func (s *Store) Get(ctx context.Context, key string) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	s.mu.RLock()
	snap, ok := s.snapshots[key]
	s.mu.RUnlock()
	if !ok {
		return snapshot.Snapshot{}, storage.ErrNotFound
	}
	return snap.Clone(), nil
}
