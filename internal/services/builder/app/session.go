// Package app hosts the builder session: the single owner of a build's
// history, derived state and persistence.
package app

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/platform/id"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/derive"
	"github.com/louisbranch/questkit/internal/services/builder/domain/history"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
	"github.com/louisbranch/questkit/internal/services/builder/domain/sharecode"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
)

// ErrNoStorage is returned by Save and Load on a session without a store.
var ErrNoStorage = apperrors.New(apperrors.CodeStorageUnavailable, "session has no storage")

// Session is one build being edited. It is not safe for concurrent use.
type Session struct {
	id       string
	dataset  *rules.Dataset
	history  *history.Manager
	current  snapshot.Snapshot
	state    derive.State
	store    storage.SnapshotStore
	key      string
	logger   *slog.Logger
	now      func() time.Time
	capacity int
}

// Option configures a Session.
type Option func(*Session)

// WithStore persists every committed snapshot under key. An empty key uses
// storage.DefaultKey.
func WithStore(store storage.SnapshotStore, key string) Option {
	return func(s *Session) {
		s.store = store
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHistoryCapacity bounds the undo stack. Zero keeps the default.
func WithHistoryCapacity(capacity int) Option {
	return func(s *Session) {
		s.capacity = capacity
	}
}

// NewSession starts an empty build against ds. A nil ds is an empty
// dataset.
func NewSession(ds *rules.Dataset, opts ...Option) (*Session, error) {
	if ds == nil {
		ds = &rules.Dataset{}
	}
	s := &Session{
		dataset: ds,
		key:     storage.DefaultKey,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	manager, err := history.New(s.capacity)
	if err != nil {
		return nil, err
	}
	sessionID, err := id.NewID()
	if err != nil {
		return nil, err
	}
	s.id = sessionID
	s.history = manager
	s.logger = s.logger.With("session", sessionID)

	s.current = snapshot.Snapshot{
		Data:      build.Normalize(build.RawInput{}, ds),
		StepID:    snapshot.StepID(0),
		UpdatedAt: s.now().UTC(),
	}
	s.history.Reset(&s.current)
	s.state = derive.Compose(s.current.Data, s.dataset)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Dataset returns the rules the session derives against.
func (s *Session) Dataset() *rules.Dataset { return s.dataset }

// Snapshot returns a copy of the current snapshot.
func (s *Session) Snapshot() snapshot.Snapshot { return s.current.Clone() }

// Derived returns the state derived from the current snapshot.
func (s *Session) Derived() derive.State { return s.state }

// CanUndo reports whether Undo would change the snapshot.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the snapshot.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// History returns copies of the undo stack, oldest first.
func (s *Session) History() []snapshot.Snapshot { return s.history.Entries() }

// Apply normalizes raw form input and commits it as the new build data.
func (s *Session) Apply(ctx context.Context, raw build.RawInput) derive.State {
	next := s.current.Clone()
	next.Data = build.Normalize(raw, s.dataset)
	return s.commit(ctx, next)
}

// AdjustEquipment changes the quantity of one equipment line by delta. Lines
// falling to zero are removed.
func (s *Session) AdjustEquipment(ctx context.Context, category build.Category, ref string, delta int) derive.State {
	adjusted := build.AdjustQuantity(s.current.Data, category, ref, delta)
	next := s.current.Clone()
	next.Data = build.Normalize(adjusted.Raw(), s.dataset)
	return s.commit(ctx, next)
}

// SetStep moves to step i, clamped to the known steps.
func (s *Session) SetStep(ctx context.Context, i int) derive.State {
	next := s.current.Clone()
	next.Step = clampStep(i)
	return s.commit(ctx, next)
}

// CompleteStep marks the step with the given id as done. Unknown ids are
// ignored.
func (s *Session) CompleteStep(ctx context.Context, stepID string) derive.State {
	if snapshot.StepIndex(stepID) < 0 {
		return s.state
	}
	return s.commit(ctx, s.current.Complete(stepID))
}

// GoToStep moves to step i. Moving forward completes the step being left.
func (s *Session) GoToStep(ctx context.Context, i int) derive.State {
	target := clampStep(i)
	next := s.current.Clone()
	if target > next.Step {
		next = next.Complete(snapshot.StepID(next.Step))
	}
	next.Step = target
	return s.commit(ctx, next)
}

// Undo steps back in history. It reports false at the oldest entry.
func (s *Session) Undo(ctx context.Context) (derive.State, bool) {
	snap, ok := s.history.Undo()
	if !ok {
		return s.state, false
	}
	s.settle(ctx, snap)
	return s.state, true
}

// Redo steps forward in history. It reports false at the newest entry.
func (s *Session) Redo(ctx context.Context) (derive.State, bool) {
	snap, ok := s.history.Redo()
	if !ok {
		return s.state, false
	}
	s.settle(ctx, snap)
	return s.state, true
}

// Restore replaces the session with snap and starts a fresh history from it.
// The build data is normalized against the current dataset.
func (s *Session) Restore(ctx context.Context, snap snapshot.Snapshot) derive.State {
	next := snap.Clone()
	next.Data = build.Normalize(next.Data.Raw(), s.dataset)
	next.Step = clampStep(next.Step)
	next.StepID = snapshot.StepID(next.Step)
	s.history.Reset(&next)
	s.settle(ctx, next)
	return s.state
}

// ReplaceDataset swaps the rules and re-derives the current build. History is
// left untouched.
func (s *Session) ReplaceDataset(ds *rules.Dataset) derive.State {
	if ds == nil {
		ds = &rules.Dataset{}
	}
	s.dataset = ds
	s.current.Data = build.Normalize(s.current.Data.Raw(), ds)
	s.state = derive.Compose(s.current.Data, ds)
	return s.state
}

// Save writes the current snapshot to the session store.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStorage
	}
	return s.store.Put(ctx, s.key, s.current)
}

// Load restores the snapshot saved under the session key.
func (s *Session) Load(ctx context.Context) (derive.State, error) {
	if s.store == nil {
		return s.state, ErrNoStorage
	}
	snap, err := s.store.Get(ctx, s.key)
	if err != nil {
		return s.state, err
	}
	return s.Restore(ctx, snap), nil
}

// ExportToken encodes the current snapshot as a share token.
func (s *Session) ExportToken() (string, error) {
	return sharecode.Encode(s.current, sharecode.Summary{})
}

// PreviewToken returns the summary carried by token without applying it.
func (s *Session) PreviewToken(token string) (sharecode.Summary, error) {
	payload, err := sharecode.Decode(token)
	if err != nil {
		return sharecode.Summary{}, err
	}
	return payload.Summary, nil
}

// ImportToken commits the snapshot carried by token as the next revision.
// A rejected token leaves the session unchanged.
func (s *Session) ImportToken(ctx context.Context, token string) (derive.State, error) {
	payload, err := sharecode.Decode(token)
	if err != nil {
		return s.state, err
	}
	next := payload.Snapshot.Clone()
	next.Data = build.Normalize(next.Data.Raw(), s.dataset)
	next.Step = clampStep(next.Step)
	return s.commit(ctx, next), nil
}

// commit stamps next, records it in history, re-derives and persists.
func (s *Session) commit(ctx context.Context, next snapshot.Snapshot) derive.State {
	next.StepID = snapshot.StepID(next.Step)
	next.Revision = s.current.Revision + 1
	next.UpdatedAt = s.now().UTC()
	if !s.history.Push(next) {
		s.logger.DebugContext(ctx, "snapshot unchanged", "revision", next.Revision)
	}
	s.settle(ctx, next)
	return s.state
}

// settle makes snap current and writes it through. Storage failures are
// logged and never undo the in-memory change.
func (s *Session) settle(ctx context.Context, snap snapshot.Snapshot) {
	s.current = snap
	s.state = derive.Compose(snap.Data, s.dataset)
	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, s.key, s.current); err != nil {
		s.logger.WarnContext(ctx, "persist snapshot", "key", s.key, "revision", s.current.Revision, "error", err)
	}
}

func clampStep(i int) int {
	if i < 0 {
		return 0
	}
	if last := len(snapshot.Steps) - 1; i > last {
		return last
	}
	return i
}
