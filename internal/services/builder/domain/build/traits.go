package build

import (
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

type rawTrait struct {
	ref  string
	name string
}

// normalizeTraits merges the list fields with the legacy single-value
// fields and removes duplicates by canonical key, keeping first-seen order.
func normalizeTraits(raw RawInput, traits []rules.Trait) []TraitSelection {
	var found []rawTrait
	for _, field := range traitFields {
		for _, value := range raw.values(field) {
			found = append(found, collectTraits(value)...)
		}
	}
	for _, field := range legacyTraitField {
		for _, value := range raw.values(field) {
			found = append(found, collectTraits(value)...)
		}
	}

	seen := map[string]bool{}
	var out []TraitSelection
	for _, item := range found {
		selection, ok := canonicalTrait(item, traits)
		if !ok || seen[selection.Key] {
			continue
		}
		seen[selection.Key] = true
		out = append(out, selection)
	}
	return out
}

func collectTraits(value any) []rawTrait {
	switch v := value.(type) {
	case string:
		if decoded, ok := decodeJSONText(v); ok {
			return collectTraits(decoded)
		}
		var out []rawTrait
		for _, fragment := range splitList(v) {
			out = append(out, rawTrait{ref: fragment})
		}
		return out
	case []any:
		var out []rawTrait
		for _, item := range v {
			out = append(out, collectTraits(item)...)
		}
		return out
	case []string:
		var out []rawTrait
		for _, item := range v {
			out = append(out, collectTraits(item)...)
		}
		return out
	case map[string]any:
		name, _ := v["name"].(string)
		// The stored key wins so custom selections keep their identity.
		if key, ok := v["key"].(string); ok && strings.TrimSpace(key) != "" {
			return []rawTrait{{ref: strings.TrimSpace(key), name: strings.TrimSpace(name)}}
		}
		if ref, ok := resolve.Reference(v); ok {
			return []rawTrait{{ref: ref, name: strings.TrimSpace(name)}}
		}
		return nil
	default:
		return nil
	}
}

// canonicalTrait resolves item by its text, then by its slug, so text that
// slugifies to a catalog key resolves the same way its stored key does.
func canonicalTrait(item rawTrait, traits []rules.Trait) (TraitSelection, bool) {
	if entry, ok := resolve.Find(item.ref, traits); ok {
		return TraitSelection{Key: entry.Key(), Name: entry.DisplayName()}, true
	}
	key := rules.Slugify(item.ref)
	if key == "" {
		return TraitSelection{}, false
	}
	if entry, ok := resolve.Find(key, traits); ok {
		return TraitSelection{Key: entry.Key(), Name: entry.DisplayName()}, true
	}
	name := item.name
	if name == "" {
		name = item.ref
	}
	return TraitSelection{Key: key, Name: name, Custom: true}, true
}
