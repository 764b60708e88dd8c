package id

import (
	"encoding/base32"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func decodeID(t *testing.T, value string) uuid.UUID {
	t.Helper()
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(value))
	if err != nil {
		t.Fatalf("decode %q: %v", value, err)
	}
	parsed, err := uuid.FromBytes(raw)
	if err != nil {
		t.Fatalf("uuid from bytes: %v", err)
	}
	return parsed
}

func TestNewIDIsLowercaseBase32(t *testing.T) {
	value, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(value) != 26 {
		t.Fatalf("len = %d, want 26", len(value))
	}
	if strings.Trim(value, "abcdefghijklmnopqrstuvwxyz234567") != "" {
		t.Fatalf("id %q has characters outside lowercase base32", value)
	}
}

func TestNewIDWrapsRandomUUID(t *testing.T) {
	parsed := decodeID(t, mustID(t))
	if parsed.Version() != 4 {
		t.Fatalf("version = %d, want 4", parsed.Version())
	}
	if parsed.Variant() != uuid.RFC4122 {
		t.Fatalf("variant = %v, want RFC4122", parsed.Variant())
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 256; i++ {
		value := mustID(t)
		if seen[value] {
			t.Fatalf("duplicate id %q after %d draws", value, i)
		}
		seen[value] = true
	}
}

func mustID(t *testing.T) string {
	t.Helper()
	value, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	return value
}
