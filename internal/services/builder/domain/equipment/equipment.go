// Package equipment computes weights, proficiency mismatches, attunement and
// encumbrance for a build's equipment lists.
package equipment

import (
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

const (
	// AttunementLimit is the number of attuned items a character may hold.
	AttunementLimit = 3
	// CarryMultiplier converts strength into carrying capacity.
	CarryMultiplier = 15
	// NearRatio marks the load at which a character is close to encumbered.
	NearRatio = 0.75
)

// Line is one analyzed equipment entry.
type Line struct {
	Ref                string  `json:"ref"`
	Name               string  `json:"name"`
	Quantity           int     `json:"quantity"`
	Resolved           bool    `json:"resolved"`
	Custom             bool    `json:"custom,omitempty"`
	ItemCategory       string  `json:"itemCategory,omitempty"`
	UnitWeight         float64 `json:"unitWeight"`
	Weight             float64 `json:"weight"`
	RequiresAttunement bool    `json:"requiresAttunement,omitempty"`
	Proficient         bool    `json:"proficient"`
	Notes              string  `json:"notes,omitempty"`
}

// Load is the analysis of one category.
type Load struct {
	Category build.Category `json:"category"`
	Lines    []Line         `json:"lines,omitempty"`
	Weight   float64        `json:"weight"`
}

// Mismatch names an equipped weapon or armor the character is not
// proficient with.
type Mismatch struct {
	Category     build.Category `json:"category"`
	Ref          string         `json:"ref"`
	Name         string         `json:"name"`
	ItemCategory string         `json:"itemCategory,omitempty"`
}

// Attunement counts attuned items against the limit.
type Attunement struct {
	Count    int  `json:"count"`
	Limit    int  `json:"limit"`
	Exceeded bool `json:"exceeded"`
}

// Encumbrance compares carried weight to strength-based capacity.
type Encumbrance struct {
	Capacity float64 `json:"capacity"`
	Carried  float64 `json:"carried"`
	Ratio    float64 `json:"ratio"`
	Near     bool    `json:"near"`
	Over     bool    `json:"over"`
}

// Analysis is the full equipment ledger.
type Analysis struct {
	Categories  []Load      `json:"categories"`
	TotalWeight float64     `json:"totalWeight"`
	Mismatches  []Mismatch  `json:"mismatches,omitempty"`
	Attunement  Attunement  `json:"attunement"`
	Encumbrance Encumbrance `json:"encumbrance"`
}

// Load returns the analysis for category.
func (a Analysis) Load(category build.Category) Load {
	for _, load := range a.Categories {
		if load.Category == category {
			return load
		}
	}
	return Load{Category: category}
}

// Analyze builds the ledger. Entries are never removed: mismatches are
// reported alongside the lines that caused them.
func Analyze(eq build.Equipment, items []rules.Item, proficiencies []string, strengthTotal int) Analysis {
	tags := newTagSet(proficiencies)
	analysis := Analysis{Attunement: Attunement{Limit: AttunementLimit}}

	for _, category := range build.Categories {
		load := Load{Category: category}
		for _, entry := range eq.List(category) {
			line := analyzeLine(entry, items)
			if checksProficiency(category) && line.Resolved {
				line.Proficient = tags.covers(line)
				if !line.Proficient {
					analysis.Mismatches = append(analysis.Mismatches, Mismatch{
						Category:     category,
						Ref:          line.Ref,
						Name:         line.Name,
						ItemCategory: line.ItemCategory,
					})
				}
			} else {
				line.Proficient = true
			}
			load.Weight += line.Weight
			load.Lines = append(load.Lines, line)
		}
		analysis.TotalWeight += load.Weight
		analysis.Categories = append(analysis.Categories, load)
	}

	for _, entry := range eq.Attuned {
		analysis.Attunement.Count += max(1, entry.Quantity)
	}
	analysis.Attunement.Exceeded = analysis.Attunement.Count > AttunementLimit
	analysis.Encumbrance = Encumber(analysis.TotalWeight, strengthTotal)
	return analysis
}

// Encumber computes capacity as max(0, strength * CarryMultiplier). With no
// capacity the ratio stays zero and neither flag is set.
func Encumber(carried float64, strength int) Encumbrance {
	enc := Encumbrance{Capacity: float64(max(0, strength*CarryMultiplier)), Carried: carried}
	if enc.Capacity <= 0 {
		return enc
	}
	enc.Ratio = carried / enc.Capacity
	enc.Near = enc.Ratio >= NearRatio
	enc.Over = enc.Ratio > 1
	return enc
}

func checksProficiency(category build.Category) bool {
	return category == build.CategoryWeapons || category == build.CategoryArmor
}

func analyzeLine(entry build.EquipmentEntry, items []rules.Item) Line {
	line := Line{
		Ref:      entry.Ref,
		Name:     entry.Ref,
		Quantity: entry.Quantity,
		Custom:   entry.Custom,
		Notes:    entry.Notes,
	}
	if entry.Custom {
		return line
	}
	item, ok := resolve.FindOrdered(entry.Ref, items)
	if !ok {
		return line
	}
	line.Resolved = true
	line.Name = item.DisplayName()
	line.ItemCategory = strings.TrimSpace(item.Category)
	if line.ItemCategory == "" {
		line.ItemCategory = strings.TrimSpace(item.Type)
	}
	line.UnitWeight = item.Weight.Float()
	line.Weight = line.UnitWeight * float64(entry.Quantity)
	line.RequiresAttunement = bool(item.RequiresAttunement)
	return line
}
