// Package snapshot defines the committed state of a build session.
package snapshot

import (
	"slices"
	"time"

	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
)

// Steps lists the builder steps in order.
var Steps = []string{"basics", "ancestry", "background", "class", "abilities", "feats", "equipment", "familiar", "finalize"}

// StepID returns the id of step index i, or "" when out of range.
func StepID(i int) string {
	if i < 0 || i >= len(Steps) {
		return ""
	}
	return Steps[i]
}

// StepIndex returns the index of id, or -1.
func StepIndex(id string) int {
	return slices.Index(Steps, id)
}

// Snapshot is one committed state.
type Snapshot struct {
	Data           build.Data `json:"data"`
	CompletedSteps []string   `json:"completedSteps,omitempty"`
	Step           int        `json:"step"`
	StepID         string     `json:"stepId,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Revision       int        `json:"revision"`
}

// Projection is the part of a snapshot compared for equality. Timestamps and
// revision counters are excluded.
type Projection struct {
	Data           build.Data `json:"data"`
	Step           int        `json:"step"`
	CompletedSteps []string   `json:"completedSteps"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Data = s.Data.Clone()
	out.CompletedSteps = slices.Clone(s.CompletedSteps)
	return out
}

// Projection returns the reduced view used for de-duplication.
func (s Snapshot) Projection() Projection {
	completed := slices.Clone(s.CompletedSteps)
	if completed == nil {
		completed = []string{}
	}
	return Projection{Data: s.Data.Clone(), Step: s.Step, CompletedSteps: completed}
}

// Complete returns a copy with id added to the completed steps.
func (s Snapshot) Complete(id string) Snapshot {
	out := s.Clone()
	if id != "" && !slices.Contains(out.CompletedSteps, id) {
		out.CompletedSteps = append(out.CompletedSteps, id)
	}
	return out
}

// IsComplete reports whether id has been completed.
func (s Snapshot) IsComplete(id string) bool {
	return slices.Contains(s.CompletedSteps, id)
}
