// Package fallback spreads snapshot persistence across several backends.
//
// Writes go to every backend; reads return the first backend that has the
// key. A backend failure is logged and skipped so one unavailable store
// never blocks the others.
package fallback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/platform/timeouts"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/questkit/internal/storage/fallback"

// ErrUnavailable is returned when every backend failed.
var ErrUnavailable = apperrors.New(apperrors.CodeStorageUnavailable, "no storage backend is available")

// Backend is a named store.
type Backend struct {
	Name  string
	Store storage.SnapshotStore
}

// Store fans out to its backends in order.
type Store struct {
	backends []Backend
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-backend warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracerProvider sets the provider spans are recorded with.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Store) {
		if provider != nil {
			s.tracer = provider.Tracer(tracerName)
		}
	}
}

// New returns a store over backends. Backends with a nil store are skipped.
func New(backends []Backend, opts ...Option) *Store {
	s := &Store{
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, backend := range backends {
		if backend.Store != nil {
			s.backends = append(s.backends, backend)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backends returns the configured backend names in order.
func (s *Store) Backends() []string {
	names := make([]string, 0, len(s.backends))
	for _, backend := range s.backends {
		names = append(names, backend.Name)
	}
	return names
}

// Put writes to every backend. It succeeds when at least one backend
// accepted the write, or when no backend is configured.
func (s *Store) Put(ctx context.Context, key string, snap snapshot.Snapshot) error {
	if len(s.backends) == 0 {
		return nil
	}
	written := 0
	var errs []error
	for _, backend := range s.backends {
		err := s.call(ctx, "put", backend, key, timeouts.StorageWrite, func(ctx context.Context) error {
			return backend.Store.Put(ctx, key, snap)
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}
	if written == 0 {
		return apperrors.Wrap(ErrUnavailable.Code, ErrUnavailable.Message, errors.Join(errs...))
	}
	return nil
}

// Get reads from the first backend holding key.
func (s *Store) Get(ctx context.Context, key string) (snapshot.Snapshot, error) {
	answered := false
	var errs []error
	for _, backend := range s.backends {
		var found snapshot.Snapshot
		err := s.call(ctx, "get", backend, key, timeouts.StorageRead, func(ctx context.Context) error {
			var err error
			found, err = backend.Store.Get(ctx, key)
			return err
		})
		switch {
		case err == nil:
			return found, nil
		case errors.Is(err, storage.ErrNotFound):
			answered = true
		default:
			errs = append(errs, err)
		}
	}
	if answered || len(s.backends) == 0 {
		return snapshot.Snapshot{}, storage.ErrNotFound
	}
	return snapshot.Snapshot{}, apperrors.Wrap(ErrUnavailable.Code, ErrUnavailable.Message, errors.Join(errs...))
}

func (s *Store) call(ctx context.Context, op string, backend Backend, key string, timeout time.Duration, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "storage."+op, trace.WithAttributes(
		attribute.String("storage.backend", backend.Name),
		attribute.String("storage.key", key),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(callCtx)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.WarnContext(ctx, "storage backend failed",
		slog.String("op", op),
		slog.String("backend", backend.Name),
		slog.String("key", key),
		slog.Any("error", err),
	)
	return err
}
