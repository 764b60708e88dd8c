// Package resolve maps loosely typed references onto dataset entries.
//
// A reference may be a bare string, a record carrying id, slug or name, or a
// single-element list wrapping either. Matching is case-insensitive under
// Unicode case folding and never fails loudly: an unusable reference simply
// resolves to nothing.
package resolve

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// recordFields lists the record keys consulted, in order, for a lookup value.
var recordFields = []string{"slug", "id", "name", "key", "ref"}

// Reference extracts the lookup text from ref.
func Reference(ref any) (string, bool) {
	switch v := ref.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	case map[string]any:
		for _, field := range recordFields {
			if text, ok := v[field].(string); ok {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					return trimmed, true
				}
			}
		}
		return "", false
	case map[string]string:
		for _, field := range recordFields {
			if trimmed := strings.TrimSpace(v[field]); trimmed != "" {
				return trimmed, true
			}
		}
		return "", false
	case []any:
		if len(v) == 1 {
			return Reference(v[0])
		}
		return "", false
	case []string:
		if len(v) == 1 {
			return Reference(v[0])
		}
		return "", false
	default:
		return "", false
	}
}

// Fold returns the case-folded form used for comparisons.
func Fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// Find returns the first entry whose slug, id or name matches ref.
func Find[T rules.Identified](ref any, entries []T) (T, bool) {
	var zero T
	text, ok := Reference(ref)
	if !ok {
		return zero, false
	}
	target := Fold(text)
	for _, entry := range entries {
		id := entry.Identity()
		if matches(target, id.Slug) || matches(target, id.ID) || matches(target, id.Name) {
			return entry, true
		}
	}
	return zero, false
}

// FindOrdered resolves by slug across all entries, then by id, then by name.
// A name shared with another entry's slug therefore loses to the slug.
func FindOrdered[T rules.Identified](ref any, entries []T) (T, bool) {
	var zero T
	text, ok := Reference(ref)
	if !ok {
		return zero, false
	}
	target := Fold(text)
	fields := []func(rules.Entry) string{
		func(e rules.Entry) string { return e.Slug },
		func(e rules.Entry) string { return e.ID },
		func(e rules.Entry) string { return e.Name },
	}
	for _, field := range fields {
		for _, entry := range entries {
			if matches(target, field(entry.Identity())) {
				return entry, true
			}
		}
	}
	return zero, false
}

// Key returns the canonical key of the entry ref resolves to.
func Key[T rules.Identified](ref any, entries []T) (string, bool) {
	entry, ok := Find(ref, entries)
	if !ok {
		return "", false
	}
	key := entry.Identity().Key()
	return key, key != ""
}

func matches(target, candidate string) bool {
	if candidate == "" {
		return false
	}
	return Fold(candidate) == target
}
