package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
)

func TestValidateKey(t *testing.T) {
	if _, err := ValidateKey("  "); err == nil {
		t.Fatal("expected empty key error")
	}
	got, err := ValidateKey(" state ")
	if err != nil || got != "state" {
		t.Fatalf("ValidateKey = %q, %v", got, err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	in := snapshot.Snapshot{
		Data:      build.Data{Name: "Ila", Classes: []build.ClassEntry{{Ref: "wizard", Level: 2}}},
		Step:      3,
		UpdatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Revision:  2,
	}
	payload, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(payload)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Data.Name != "Ila" || out.Step != 3 || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Fatalf("round trip = %+v", out)
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	_, err := Unmarshal([]byte("{not json"))
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}
