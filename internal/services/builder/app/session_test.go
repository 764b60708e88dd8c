package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/services/builder/domain/ability"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules/testkit"
	"github.com/louisbranch/questkit/internal/services/builder/domain/sharecode"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
	"github.com/louisbranch/questkit/internal/storage"
	"github.com/louisbranch/questkit/internal/storage/memory"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	s, err := NewSession(testkit.Dataset(), opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func bromInput() build.RawInput {
	return build.RawInput{
		"name":    "Brom",
		"race":    "Half-Orc",
		"str":     "15",
		"con":     float64(14),
		"classes": "Fighter 3",
		"weapons": "Greataxe, 2x Dagger",
		"feats":   "Alert, Lucky Charm",
	}
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, snapshot.Snapshot) error {
	return errors.New("disk full")
}

func (failingStore) Get(context.Context, string) (snapshot.Snapshot, error) {
	return snapshot.Snapshot{}, errors.New("disk full")
}

func TestNewSessionStartsEmpty(t *testing.T) {
	s := newTestSession(t)
	if s.ID() == "" {
		t.Fatal("expected session id")
	}
	snap := s.Snapshot()
	if snap.Revision != 0 || snap.Step != 0 || snap.StepID != "basics" {
		t.Fatalf("snapshot = %+v, want revision 0 at basics", snap)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh session should have nothing to undo or redo")
	}
	if got := len(s.History()); got != 1 {
		t.Fatalf("history len = %d, want 1", got)
	}
}

func TestNewSessionRejectsNegativeCapacity(t *testing.T) {
	_, err := NewSession(testkit.Dataset(), WithHistoryCapacity(-1))
	if got := apperrors.CodeOf(err); got != apperrors.CodeHistoryInvalidCapacity {
		t.Fatalf("code = %q, want %q", got, apperrors.CodeHistoryInvalidCapacity)
	}
}

func TestSessionApplyDerives(t *testing.T) {
	s := newTestSession(t)
	state := s.Apply(context.Background(), bromInput())

	if got := state.Abilities.Total(ability.Strength); got != 17 {
		t.Fatalf("str total = %d, want 17", got)
	}
	if got := state.Progression.TotalLevel; got != 3 {
		t.Fatalf("total level = %d, want 3", got)
	}
	snap := s.Snapshot()
	if snap.Revision != 1 {
		t.Fatalf("revision = %d, want 1", snap.Revision)
	}
	if !snap.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("updated at = %v, want %v", snap.UpdatedAt, fixedNow)
	}
	if snap.Data.Ancestry != "half-orc" {
		t.Fatalf("ancestry = %q, want half-orc", snap.Data.Ancestry)
	}
	if !reflect.DeepEqual(s.Derived(), state) {
		t.Fatal("derived state differs from the state Apply returned")
	}
}

func TestSessionUndoRedo(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.Apply(ctx, build.RawInput{"name": "First"})
	s.Apply(ctx, build.RawInput{"name": "Second"})

	if _, ok := s.Undo(ctx); !ok {
		t.Fatal("expected undo")
	}
	if got := s.Snapshot().Data.Name; got != "First" {
		t.Fatalf("name after undo = %q, want First", got)
	}
	if _, ok := s.Redo(ctx); !ok {
		t.Fatal("expected redo")
	}
	if got := s.Snapshot().Data.Name; got != "Second" {
		t.Fatalf("name after redo = %q, want Second", got)
	}
	if _, ok := s.Redo(ctx); ok {
		t.Fatal("redo past newest entry should report false")
	}

	s.Undo(ctx)
	s.Undo(ctx)
	if _, ok := s.Undo(ctx); ok {
		t.Fatal("undo past oldest entry should report false")
	}
	if got := s.Snapshot().Data.Name; got != "" {
		t.Fatalf("name at oldest = %q, want empty", got)
	}

	s.Apply(ctx, build.RawInput{"name": "Branch"})
	if s.CanRedo() {
		t.Fatal("new commit should discard redo entries")
	}
}

func TestSessionDuplicateApplyKeepsHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.Apply(ctx, bromInput())
	s.Apply(ctx, bromInput())
	if got := len(s.History()); got != 2 {
		t.Fatalf("history len = %d, want 2", got)
	}
}

func TestSessionHistoryCapacity(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, WithHistoryCapacity(3))
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		s.Apply(ctx, build.RawInput{"name": name})
	}
	entries := s.History()
	if len(entries) != 3 {
		t.Fatalf("history len = %d, want 3", len(entries))
	}
	if entries[0].Data.Name != "c" {
		t.Fatalf("oldest = %q, want c", entries[0].Data.Name)
	}
}

func TestSessionPersistsThroughStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := newTestSession(t, WithStore(store, "campaign"))
	s.Apply(ctx, bromInput())

	saved, err := store.Get(ctx, "campaign")
	if err != nil {
		t.Fatalf("get saved: %v", err)
	}
	if saved.Revision != 1 || saved.Data.Name != "Brom" {
		t.Fatalf("saved = %+v, want revision 1 for Brom", saved)
	}

	restored := newTestSession(t, WithStore(store, "campaign"))
	state, err := restored.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := restored.Snapshot().Data.Name; got != "Brom" {
		t.Fatalf("loaded name = %q, want Brom", got)
	}
	if got := state.Progression.TotalLevel; got != 3 {
		t.Fatalf("loaded level = %d, want 3", got)
	}
	if restored.CanUndo() {
		t.Fatal("load should start a fresh history")
	}
}

func TestSessionLoadMissing(t *testing.T) {
	s := newTestSession(t, WithStore(memory.New(), ""))
	_, err := s.Load(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSessionStorageFailureKeepsUpdate(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s := newTestSession(t, WithStore(failingStore{}, ""), WithLogger(logger))

	s.Apply(context.Background(), build.RawInput{"name": "Kept"})
	if got := s.Snapshot().Data.Name; got != "Kept" {
		t.Fatalf("name = %q, want Kept", got)
	}
	if !strings.Contains(logs.String(), "persist snapshot") {
		t.Fatalf("logs = %q, want persist warning", logs.String())
	}
	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
}

func TestSessionWithoutStore(t *testing.T) {
	s := newTestSession(t)
	if err := s.Save(context.Background()); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("save err = %v, want %v", err, ErrNoStorage)
	}
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("load err = %v, want %v", err, ErrNoStorage)
	}
}

func TestSessionStepNavigation(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	s.GoToStep(ctx, 2)
	snap := s.Snapshot()
	if snap.Step != 2 || snap.StepID != "background" {
		t.Fatalf("step = %d %q, want 2 background", snap.Step, snap.StepID)
	}
	if !reflect.DeepEqual(snap.CompletedSteps, []string{"basics"}) {
		t.Fatalf("completed = %v, want [basics]", snap.CompletedSteps)
	}

	s.GoToStep(ctx, 0)
	if got := s.Snapshot().CompletedSteps; !reflect.DeepEqual(got, []string{"basics"}) {
		t.Fatalf("completed after going back = %v, want [basics]", got)
	}

	s.SetStep(ctx, 99)
	if got := s.Snapshot().StepID; got != "finalize" {
		t.Fatalf("step id = %q, want finalize", got)
	}

	revision := s.Snapshot().Revision
	s.CompleteStep(ctx, "nope")
	if got := s.Snapshot().Revision; got != revision {
		t.Fatalf("unknown step changed revision to %d", got)
	}
	s.CompleteStep(ctx, "feats")
	if !s.Snapshot().IsComplete("feats") {
		t.Fatal("expected feats to be complete")
	}
}

func TestSessionAdjustEquipment(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.Apply(ctx, build.RawInput{"weapons": "Dagger"})

	s.AdjustEquipment(ctx, build.CategoryWeapons, "dagger", 2)
	weapons := s.Snapshot().Data.Equipment.Weapons
	if len(weapons) != 1 || weapons[0].Quantity != 3 {
		t.Fatalf("weapons = %+v, want 3 daggers", weapons)
	}

	state := s.AdjustEquipment(ctx, build.CategoryWeapons, "dagger", -3)
	if got := s.Snapshot().Data.Equipment.Weapons; len(got) != 0 {
		t.Fatalf("weapons = %+v, want none", got)
	}
	if state.Equipment.TotalWeight != 0 {
		t.Fatalf("total weight = %v, want 0", state.Equipment.TotalWeight)
	}
}

func TestSessionReplaceDataset(t *testing.T) {
	ctx := context.Background()
	s, err := NewSession(nil, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	state := s.Apply(ctx, build.RawInput{"race": "Elf", "dex": "14"})
	if state.Ancestry == nil || state.Ancestry.Resolved {
		t.Fatalf("ancestry = %+v, want unresolved", state.Ancestry)
	}

	state = s.ReplaceDataset(testkit.Dataset())
	if got := s.Snapshot().Data.Ancestry; got != "elf" {
		t.Fatalf("ancestry ref = %q, want elf", got)
	}
	if state.Ancestry == nil || !state.Ancestry.Resolved {
		t.Fatalf("ancestry = %+v, want resolved", state.Ancestry)
	}
	if got := state.Abilities.Total(ability.Dexterity); got != 16 {
		t.Fatalf("dex total = %d, want 16", got)
	}
}

func TestSessionShareTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestSession(t)
	source.Apply(ctx, bromInput())
	source.GoToStep(ctx, 3)

	token, err := source.ExportToken()
	if err != nil {
		t.Fatalf("export token: %v", err)
	}

	target := newTestSession(t)
	summary, err := target.PreviewToken(token)
	if err != nil {
		t.Fatalf("preview token: %v", err)
	}
	want := sharecode.Summary{Name: "Brom", Class: "fighter", Level: 3}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if target.Snapshot().Revision != 0 {
		t.Fatal("preview should not change the session")
	}

	if _, err := target.ImportToken(ctx, token); err != nil {
		t.Fatalf("import token: %v", err)
	}
	got := target.Snapshot()
	if !reflect.DeepEqual(got.Data, source.Snapshot().Data) {
		t.Fatalf("data = %+v, want %+v", got.Data, source.Snapshot().Data)
	}
	if got.Step != 3 || !got.IsComplete("basics") {
		t.Fatalf("snapshot = %+v, want step 3 with basics complete", got)
	}
	if !target.CanUndo() {
		t.Fatal("import should be undoable")
	}
}

func TestSessionImportTokenRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.Apply(ctx, build.RawInput{"name": "Unchanged"})
	tests := []struct {
		token string
		want  apperrors.Code
	}{
		{token: "", want: apperrors.CodeShareTokenEmpty},
		{token: "not a token!", want: apperrors.CodeShareTokenEncoding},
	}
	for _, tt := range tests {
		_, err := s.ImportToken(ctx, tt.token)
		if got := apperrors.CodeOf(err); got != tt.want {
			t.Fatalf("ImportToken(%q) code = %q, want %q", tt.token, got, tt.want)
		}
	}
	if got := s.Snapshot().Data.Name; got != "Unchanged" {
		t.Fatalf("name = %q, want Unchanged", got)
	}
}
