package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
)

// DefaultKey is the key the builder session state is saved under.
const DefaultKey = "dndBuilderState"

var (
	// ErrNotFound indicates no snapshot is stored under the key.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "snapshot not found")
	// ErrCorrupt indicates a stored payload could not be decoded.
	ErrCorrupt = apperrors.New(apperrors.CodeStorageCorrupt, "stored snapshot is corrupt")
)

// SnapshotStore persists whole snapshots by key.
type SnapshotStore interface {
	Put(ctx context.Context, key string, s snapshot.Snapshot) error
	Get(ctx context.Context, key string) (snapshot.Snapshot, error)
}

// ValidateKey trims key and rejects empty keys.
func ValidateKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("snapshot key is required")
	}
	return trimmed, nil
}

// Marshal encodes s as a stored payload.
func Marshal(s snapshot.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return payload, nil
}

// Unmarshal decodes a stored payload. Decode failures wrap ErrCorrupt.
func Unmarshal(payload []byte) (snapshot.Snapshot, error) {
	var s snapshot.Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return snapshot.Snapshot{}, apperrors.Wrap(apperrors.CodeStorageCorrupt, "unmarshal snapshot", err)
	}
	return s, nil
}
