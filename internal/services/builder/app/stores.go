package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/louisbranch/questkit/internal/storage/bbolt"
	"github.com/louisbranch/questkit/internal/storage/fallback"
	"github.com/louisbranch/questkit/internal/storage/redis"
	"github.com/louisbranch/questkit/internal/storage/sqlite"
)

// Stores owns the backends opened for a configuration.
type Stores struct {
	Snapshots *fallback.Store
	// SQLite is set when QUESTKIT_SQLITE_PATH names a database.
	SQLite  *sqlite.Store
	closers []io.Closer
}

// OpenStores opens the SQLite object store and the configured key-value
// backend. A backend that fails to open is logged and left out, so the
// returned Stores may hold no backend at all.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	stores := &Stores{}
	var backends []fallback.Backend

	if path := strings.TrimSpace(cfg.SQLitePath); path != "" {
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			logger.WarnContext(ctx, "open storage backend", "backend", "sqlite", "error", err)
		} else {
			stores.SQLite = store
			stores.closers = append(stores.closers, store)
			backends = append(backends, fallback.Backend{Name: "sqlite", Store: store})
		}
	}

	switch cfg.backend() {
	case BackendBolt:
		store, err := bbolt.Open(cfg.BoltPath)
		if err != nil {
			logger.WarnContext(ctx, "open storage backend", "backend", BackendBolt, "error", err)
			break
		}
		stores.closers = append(stores.closers, store)
		backends = append(backends, fallback.Backend{Name: BackendBolt, Store: store})
	case BackendRedis:
		store, err := redis.Open(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.WarnContext(ctx, "open storage backend", "backend", BackendRedis, "error", err)
			break
		}
		stores.closers = append(stores.closers, store)
		backends = append(backends, fallback.Backend{Name: BackendRedis, Store: store})
	}

	stores.Snapshots = fallback.New(backends, fallback.WithLogger(logger))
	return stores, nil
}

// Close releases every opened backend.
func (s *Stores) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
