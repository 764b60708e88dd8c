package build

import (
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/ability"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// Field aliases accepted by the normalizer.
var (
	ancestryFields   = []string{"race", "ancestry"}
	backgroundFields = []string{"background"}
	allyFields       = []string{"familiarType", "companion", "ally"}
	traitFields      = []string{"feats", "traits"}
	legacyTraitField = []string{"signatureFeat", "feat"}
	bonusSlotFields  = []string{"bonusFeats", "bonusSlots"}
	equipmentFields  = map[Category][]string{
		CategoryWeapons: {"weapons"},
		CategoryArmor:   {"armor"},
		CategoryGear:    {"gear", "equipment"},
		CategoryAttuned: {"attuned", "attunedItems"},
	}
)

// Normalize converts form input into canonical Data. A nil dataset leaves
// every reference unresolved.
func Normalize(raw RawInput, ds *rules.Dataset) Data {
	if ds == nil {
		ds = &rules.Dataset{}
	}
	data := Data{
		Name:          raw.text("name"),
		Notes:         raw.text("notes"),
		Abilities:     normalizeAbilities(raw),
		AbilityMethod: strings.ToLower(raw.text("abilityMethod")),
		Ancestry:      canonicalRef(refText(raw, ancestryFields...), ds.Ancestries),
		Background:    canonicalRef(refText(raw, backgroundFields...), ds.Backgrounds),
		Ally:          canonicalRef(refText(raw, allyFields...), ds.Allies),
		Classes:       normalizeClasses(raw, ds.Classes),
		Traits:        normalizeTraits(raw, ds.Traits),
	}
	if pool, ok := intField(raw, "scorePool"); ok && pool > 0 {
		data.ScorePool = pool
	}
	if slots, ok := intField(raw, bonusSlotFields...); ok && slots > 0 {
		data.BonusSlots = slots
	}
	for _, category := range Categories {
		data.Equipment = data.Equipment.WithList(category, normalizeEquipment(raw, equipmentFields[category], ds.Items))
	}
	return data
}

func intField(raw RawInput, names ...string) (int, bool) {
	value, ok := raw.first(names...)
	if !ok {
		return 0, false
	}
	return parseInt(value)
}

// normalizeAbilities keeps only parseable base scores. Scores may arrive as
// top-level fields keyed by id or full name, or inside an "abilities" map.
func normalizeAbilities(raw RawInput) map[string]int {
	scores := map[string]int{}
	nested, _ := raw["abilities"].(map[string]any)
	for _, id := range ability.All {
		candidates := []any{raw[string(id)], raw[strings.ToLower(id.Name())]}
		if nested != nil {
			candidates = append(candidates, nested[string(id)], nested[strings.ToLower(id.Name())], nested[id.Name()])
		}
		for _, candidate := range candidates {
			if candidate == nil {
				continue
			}
			if score, ok := parseInt(candidate); ok {
				scores[string(id)] = score
				break
			}
		}
	}
	if len(scores) == 0 {
		return nil
	}
	return scores
}

// canonicalRef returns the dataset key for value, or the trimmed literal
// when nothing matches.
func canonicalRef[T rules.Identified](value string, entries []T) string {
	if value == "" {
		return ""
	}
	if key, ok := resolve.Key(value, entries); ok {
		return key
	}
	return value
}

// refText reads a single reference that may be text or a record.
func refText(raw RawInput, names ...string) string {
	value, ok := raw.first(names...)
	if !ok {
		return ""
	}
	if text, ok := resolve.Reference(value); ok {
		return text
	}
	return raw.text(names...)
}
