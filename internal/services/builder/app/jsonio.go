package app

import (
	"context"
	"encoding/json"
	"math"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/derive"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
)

// ExportJSON renders the current snapshot as indented JSON.
func (s *Session) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.current, "", "  ")
}

// ImportJSON commits a previously exported snapshot, or a bare map of build
// fields, as the next revision. Anything that is not a JSON object fails with
// IMPORT_MALFORMED and leaves the session unchanged.
func (s *Session) ImportJSON(ctx context.Context, payload []byte) (derive.State, error) {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return s.state, apperrors.Wrap(apperrors.CodeImportMalformed, "import is not valid JSON", err)
	}
	if fields == nil {
		return s.state, apperrors.New(apperrors.CodeImportMalformed, "import must be a JSON object")
	}

	next := s.current.Clone()
	raw := fields
	if value, ok := fields["data"]; ok {
		data, ok := value.(map[string]any)
		if !ok {
			return s.state, apperrors.New(apperrors.CodeImportMalformed, "import data must be an object")
		}
		raw = data
		if step, ok := wholeNumber(fields["step"]); ok {
			next.Step = clampStep(step)
		} else if step := snapshot.StepIndex(stringValue(fields["stepId"])); step >= 0 {
			next.Step = step
		}
		next.CompletedSteps = stepList(fields["completedSteps"])
	}
	next.Data = build.Normalize(flattenEquipment(raw), s.dataset)
	return s.commit(ctx, next), nil
}

// flattenEquipment lifts categories out of an exported "equipment" object so
// the normalizer sees them as top-level lists.
func flattenEquipment(raw map[string]any) build.RawInput {
	out := make(build.RawInput, len(raw))
	for key, value := range raw {
		out[key] = value
	}
	grouped, ok := out["equipment"].(map[string]any)
	if !ok {
		return out
	}
	delete(out, "equipment")
	for _, category := range build.Categories {
		name := string(category)
		if _, exists := out[name]; exists {
			continue
		}
		if list, ok := grouped[name]; ok {
			out[name] = list
		}
	}
	return out
}

// stepList keeps known step ids. Numeric entries are read as step indexes.
func stepList(value any) []string {
	items, _ := value.([]any)
	var out []string
	seen := map[string]bool{}
	for _, item := range items {
		stepID := stringValue(item)
		if index, ok := wholeNumber(item); ok {
			stepID = snapshot.StepID(index)
		}
		if snapshot.StepIndex(stepID) < 0 || seen[stepID] {
			continue
		}
		seen[stepID] = true
		out = append(out, stepID)
	}
	return out
}

func wholeNumber(value any) (int, bool) {
	number, ok := value.(float64)
	if !ok || number != math.Trunc(number) {
		return 0, false
	}
	return int(number), true
}

func stringValue(value any) string {
	text, _ := value.(string)
	return text
}
