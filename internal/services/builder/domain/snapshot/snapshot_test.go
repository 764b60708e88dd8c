package snapshot

import (
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
)

func TestCloneIsDeep(t *testing.T) {
	s := Snapshot{
		Data:           build.Data{Name: "Ila", Abilities: map[string]int{"str": 10}},
		CompletedSteps: []string{"basics"},
		UpdatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Revision:       4,
	}
	clone := s.Clone()
	clone.Data.Abilities["str"] = 18
	clone.CompletedSteps[0] = "class"
	if s.Data.Abilities["str"] != 10 || s.CompletedSteps[0] != "basics" {
		t.Fatalf("clone shares state with original: %+v", s)
	}
}

func TestProjectionIgnoresTimestampAndRevision(t *testing.T) {
	a := Snapshot{Data: build.Data{Name: "Ila"}, Step: 2, UpdatedAt: time.Unix(1, 0), Revision: 1}
	b := Snapshot{Data: build.Data{Name: "Ila"}, Step: 2, UpdatedAt: time.Unix(99, 0), Revision: 7, CompletedSteps: []string{}}
	if !reflect.DeepEqual(a.Projection(), b.Projection()) {
		t.Fatalf("projections differ: %+v vs %+v", a.Projection(), b.Projection())
	}
}

func TestComplete(t *testing.T) {
	s := Snapshot{}.Complete("basics").Complete("class").Complete("basics").Complete("")
	want := []string{"basics", "class"}
	if !reflect.DeepEqual(s.CompletedSteps, want) {
		t.Fatalf("completed = %v, want %v", s.CompletedSteps, want)
	}
	if !s.IsComplete("class") || s.IsComplete("feats") {
		t.Fatalf("IsComplete mismatch for %v", s.CompletedSteps)
	}
}

func TestStepLookup(t *testing.T) {
	if StepID(0) != "basics" || StepID(-1) != "" || StepID(len(Steps)) != "" {
		t.Fatal("StepID bounds")
	}
	if StepIndex("finalize") != len(Steps)-1 || StepIndex("nope") != -1 {
		t.Fatal("StepIndex lookup")
	}
}
