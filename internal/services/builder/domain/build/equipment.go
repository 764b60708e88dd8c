package build

import (
	"regexp"
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

var (
	// "Dagger (silvered)"
	notesPattern = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)
	// "2x Dagger", "2 × Dagger", "2 Daggers"
	prefixQuantityPattern = regexp.MustCompile(`(?i)^(\d+)\s*[x×]?\s+(.+)$`)
	// "Dagger x2", "Dagger ×2"
	suffixQuantityPattern = regexp.MustCompile(`(?i)^(.+?)\s*[x×]\s*(\d+)$`)
)

type rawEquipment struct {
	ref      string
	quantity any
	notes    string
	custom   bool
}

func normalizeEquipment(raw RawInput, fields []string, items []rules.Item) []EquipmentEntry {
	var found []rawEquipment
	for _, field := range fields {
		for _, value := range raw.values(field) {
			found = append(found, collectEquipment(value)...)
		}
	}
	entries := make([]EquipmentEntry, 0, len(found))
	for _, item := range found {
		if entry, ok := canonicalEquipment(item, items); ok {
			entries = append(entries, entry)
		}
	}
	return MergeEquipment(entries)
}

func collectEquipment(value any) []rawEquipment {
	switch v := value.(type) {
	case string:
		if decoded, ok := decodeJSONText(v); ok {
			return collectEquipment(decoded)
		}
		var out []rawEquipment
		for _, fragment := range splitList(v) {
			out = append(out, parseEquipmentText(fragment))
		}
		return out
	case []any:
		var out []rawEquipment
		for _, item := range v {
			out = append(out, collectEquipment(item)...)
		}
		return out
	case []string:
		var out []rawEquipment
		for _, item := range v {
			out = append(out, collectEquipment(item)...)
		}
		return out
	case map[string]any:
		ref, ok := resolve.Reference(v["item"])
		if !ok {
			ref, ok = resolve.Reference(v)
		}
		if !ok {
			return nil
		}
		quantity := v["quantity"]
		for _, key := range []string{"qty", "count"} {
			if quantity == nil {
				quantity = v[key]
			}
		}
		notes, _ := v["notes"].(string)
		custom, _ := v["custom"].(bool)
		return []rawEquipment{{ref: ref, quantity: quantity, notes: strings.TrimSpace(notes), custom: custom}}
	default:
		return nil
	}
}

func parseEquipmentText(fragment string) rawEquipment {
	item := rawEquipment{ref: strings.TrimSpace(fragment)}
	if match := notesPattern.FindStringSubmatch(item.ref); match != nil && strings.TrimSpace(match[1]) != "" {
		item.ref = strings.TrimSpace(match[1])
		item.notes = strings.TrimSpace(match[2])
	}
	if match := prefixQuantityPattern.FindStringSubmatch(item.ref); match != nil {
		item.quantity = match[1]
		item.ref = strings.TrimSpace(match[2])
	} else if match := suffixQuantityPattern.FindStringSubmatch(item.ref); match != nil {
		item.ref = strings.TrimSpace(match[1])
		item.quantity = match[2]
	}
	return item
}

func canonicalEquipment(item rawEquipment, items []rules.Item) (EquipmentEntry, bool) {
	ref := strings.TrimSpace(item.ref)
	if ref == "" {
		return EquipmentEntry{}, false
	}
	quantity, ok := parseInt(item.quantity)
	if !ok || quantity <= 0 {
		quantity = 1
	}
	entry := EquipmentEntry{Ref: ref, Quantity: quantity, Notes: item.notes}
	if resolved, ok := resolve.FindOrdered(ref, items); ok {
		entry.Ref = resolved.Key()
		return entry, true
	}
	entry.Custom = true
	return entry, true
}

// MergeEquipment combines lines sharing a key, summing quantities in
// first-seen order. The first non-empty note is kept and merged quantities
// never drop below 1.
func MergeEquipment(groups ...[]EquipmentEntry) []EquipmentEntry {
	index := map[string]int{}
	var out []EquipmentEntry
	for _, entries := range groups {
		for _, entry := range entries {
			key := entry.Key()
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				out[i].Quantity += entry.Quantity
				if out[i].Notes == "" {
					out[i].Notes = entry.Notes
				}
				continue
			}
			index[key] = len(out)
			out = append(out, entry)
		}
	}
	for i := range out {
		if out[i].Quantity < 1 {
			out[i].Quantity = 1
		}
	}
	return out
}

// AdjustQuantity adds delta to the line keyed ref in category and drops it
// when the result falls to zero or below. A positive delta on a missing line
// adds it. The input is not modified.
func AdjustQuantity(data Data, category Category, ref string, delta int) Data {
	out := data.Clone()
	key := strings.ToLower(strings.TrimSpace(ref))
	entries := out.Equipment.List(category)
	kept := make([]EquipmentEntry, 0, len(entries)+1)
	found := false
	for _, entry := range entries {
		if entry.Key() != key {
			kept = append(kept, entry)
			continue
		}
		found = true
		entry.Quantity += delta
		if entry.Quantity > 0 {
			kept = append(kept, entry)
		}
	}
	if !found && delta > 0 && key != "" {
		kept = append(kept, EquipmentEntry{Ref: strings.TrimSpace(ref), Quantity: delta, Custom: true})
	}
	out.Equipment = out.Equipment.WithList(category, kept)
	return out
}
