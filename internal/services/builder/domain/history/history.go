// Package history keeps a bounded undo/redo stack of snapshots.
//
// A Manager is owned by a single session and is not safe for concurrent use.
package history

import (
	"bytes"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/services/builder/domain/core/encoding"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 50

// ErrInvalidCapacity is returned for negative capacities.
var ErrInvalidCapacity = apperrors.New(apperrors.CodeHistoryInvalidCapacity, "history capacity must not be negative")

type entry struct {
	snapshot snapshot.Snapshot
	key      []byte
}

// Manager is the undo/redo stack. The cursor is -1 when empty and otherwise
// indexes the current entry.
type Manager struct {
	capacity int
	entries  []entry
	cursor   int
}

// New returns an empty manager. A zero capacity selects DefaultCapacity.
func New(capacity int) (*Manager, error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity, cursor: -1}, nil
}

// Capacity returns the maximum number of entries.
func (m *Manager) Capacity() int { return m.capacity }

// Len returns the number of entries.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor returns the index of the current entry, or -1.
func (m *Manager) Cursor() int { return m.cursor }

// CanUndo reports whether Undo would move the cursor.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (m *Manager) CanRedo() bool { return m.cursor >= 0 && m.cursor < len(m.entries)-1 }

// Push records a deep copy of s. Entries after the cursor are discarded and
// the oldest entries are evicted beyond capacity. When s projects to the same
// state as the current entry, the current entry is refreshed in place and
// Push returns false.
func (m *Manager) Push(s snapshot.Snapshot) bool {
	key := projectionKey(s)
	if m.cursor >= 0 && key != nil && bytes.Equal(m.entries[m.cursor].key, key) {
		m.entries[m.cursor].snapshot = s.Clone()
		return false
	}
	m.entries = append(m.entries[:m.cursor+1], entry{snapshot: s.Clone(), key: key})
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append([]entry(nil), m.entries[over:]...)
	}
	m.cursor = len(m.entries) - 1
	return true
}

// Current returns a copy of the entry at the cursor.
func (m *Manager) Current() (snapshot.Snapshot, bool) {
	if m.cursor < 0 {
		return snapshot.Snapshot{}, false
	}
	return m.entries[m.cursor].snapshot.Clone(), true
}

// Undo moves the cursor back and returns a copy of that entry. At the oldest
// entry it reports false and leaves the cursor unchanged.
func (m *Manager) Undo() (snapshot.Snapshot, bool) {
	if !m.CanUndo() {
		return snapshot.Snapshot{}, false
	}
	m.cursor--
	return m.entries[m.cursor].snapshot.Clone(), true
}

// Redo moves the cursor forward and returns a copy of that entry.
func (m *Manager) Redo() (snapshot.Snapshot, bool) {
	if !m.CanRedo() {
		return snapshot.Snapshot{}, false
	}
	m.cursor++
	return m.entries[m.cursor].snapshot.Clone(), true
}

// Reset clears the stack, seeding it with s when s is not nil.
func (m *Manager) Reset(s *snapshot.Snapshot) {
	m.entries = nil
	m.cursor = -1
	if s != nil {
		m.Push(*s)
	}
}

// Entries returns copies of every entry, oldest first.
func (m *Manager) Entries() []snapshot.Snapshot {
	out := make([]snapshot.Snapshot, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.snapshot.Clone())
	}
	return out
}

func projectionKey(s snapshot.Snapshot) []byte {
	key, err := encoding.CanonicalJSON(s.Projection())
	if err != nil {
		return nil
	}
	return key
}
