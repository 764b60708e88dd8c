// Package sqlite stores snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/questkit/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
	"github.com/louisbranch/questkit/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Entry is one stored snapshot summary.
type Entry struct {
	Key        string
	Name       string
	TotalLevel int
	Revision   int
	UpdatedAt  time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite snapshot store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put upserts the snapshot under key.
func (s *Store) Put(ctx context.Context, key string, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
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
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO snapshots (snapshot_key, payload, revision, updated_at, name, total_level)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(snapshot_key) DO UPDATE SET
		   payload = excluded.payload,
		   revision = excluded.revision,
		   updated_at = excluded.updated_at,
		   name = excluded.name,
		   total_level = excluded.total_level`,
		key,
		string(payload),
		snap.Revision,
		toMillis(updatedAt),
		strings.TrimSpace(snap.Data.Name),
		snap.Data.TotalLevel(),
	)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot under key.
func (s *Store) Get(ctx context.Context, key string) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return snapshot.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	key, err := storage.ValidateKey(key)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	var payload string
	err = s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE snapshot_key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot.Snapshot{}, storage.ErrNotFound
		}
		return snapshot.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return storage.Unmarshal([]byte(payload))
}

// List returns stored snapshot summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT snapshot_key, name, total_level, revision, updated_at FROM snapshots ORDER BY updated_at DESC, snapshot_key`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			updatedAt int64
		)
		if err := rows.Scan(&entry.Key, &entry.Name, &entry.TotalLevel, &entry.Revision, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		entry.UpdatedAt = fromMillis(updatedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
