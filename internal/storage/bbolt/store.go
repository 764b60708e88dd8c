// Package bbolt stores snapshots in a BoltDB file.
package bbolt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/louisbranch/questkit/internal/platform/timeouts"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
	"go.etcd.io/bbolt"
)

const snapshotBucket = "snapshots"

// Store provides a BoltDB-backed snapshot store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: timeouts.StorageOpen})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put persists a snapshot under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
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

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

// Get fetches the snapshot stored under key.
func (s *Store) Get(ctx context.Context, key string) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	if s == nil || s.db == nil {
		return snapshot.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	var payload []byte
	err = s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		value := bucket.Get([]byte(key))
		if value == nil {
			return storage.ErrNotFound
		}
		// Bolt values are only valid inside the transaction.
		payload = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return snapshot.Snapshot{}, storage.ErrNotFound
		}
		return snapshot.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return storage.Unmarshal(payload)
}

// Delete removes the snapshot stored under key. Missing keys are not an
// error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		if err != nil {
			return fmt.Errorf("create snapshot bucket: %w", err)
		}
		return nil
	})
}
