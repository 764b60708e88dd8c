package build

import "strings"

// MaxLevel is the highest level a single class entry may reach.
const MaxLevel = 20

// RawInput is the loosely typed form state.
type RawInput map[string]any

// ClassEntry is one class and the levels taken in it.
type ClassEntry struct {
	Ref   string `json:"ref"`
	Level int    `json:"level"`
}

// TraitSelection is a selected feat. Custom marks entries not found in the
// dataset.
type TraitSelection struct {
	Key    string `json:"key"`
	Name   string `json:"name,omitempty"`
	Custom bool   `json:"custom,omitempty"`
}

// EquipmentEntry is one line of carried equipment.
type EquipmentEntry struct {
	Ref      string `json:"ref"`
	Quantity int    `json:"quantity"`
	Custom   bool   `json:"custom,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Key returns the identity used to merge duplicate lines.
func (e EquipmentEntry) Key() string {
	return strings.ToLower(strings.TrimSpace(e.Ref))
}

// Category names an equipment list.
type Category string

const (
	CategoryWeapons Category = "weapons"
	CategoryArmor   Category = "armor"
	CategoryGear    Category = "gear"
	CategoryAttuned Category = "attuned"
)

// Categories lists equipment categories in display order.
var Categories = []Category{CategoryWeapons, CategoryArmor, CategoryGear, CategoryAttuned}

// Equipment groups carried items by category.
type Equipment struct {
	Weapons []EquipmentEntry `json:"weapons,omitempty"`
	Armor   []EquipmentEntry `json:"armor,omitempty"`
	Gear    []EquipmentEntry `json:"gear,omitempty"`
	Attuned []EquipmentEntry `json:"attuned,omitempty"`
}

// List returns the entries of one category.
func (e Equipment) List(category Category) []EquipmentEntry {
	switch category {
	case CategoryWeapons:
		return e.Weapons
	case CategoryArmor:
		return e.Armor
	case CategoryGear:
		return e.Gear
	case CategoryAttuned:
		return e.Attuned
	default:
		return nil
	}
}

// WithList returns a copy of e with one category replaced.
func (e Equipment) WithList(category Category, entries []EquipmentEntry) Equipment {
	switch category {
	case CategoryWeapons:
		e.Weapons = entries
	case CategoryArmor:
		e.Armor = entries
	case CategoryGear:
		e.Gear = entries
	case CategoryAttuned:
		e.Attuned = entries
	}
	return e
}

// Data is the canonical build.
type Data struct {
	Name          string           `json:"name,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Abilities     map[string]int   `json:"abilities,omitempty"`
	AbilityMethod string           `json:"abilityMethod,omitempty"`
	ScorePool     int              `json:"scorePool,omitempty"`
	Ancestry      string           `json:"ancestry,omitempty"`
	Background    string           `json:"background,omitempty"`
	Ally          string           `json:"ally,omitempty"`
	Classes       []ClassEntry     `json:"classes,omitempty"`
	Traits        []TraitSelection `json:"traits,omitempty"`
	Equipment     Equipment        `json:"equipment"`
	BonusSlots    int              `json:"bonusSlots,omitempty"`
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	out := d
	if d.Abilities != nil {
		out.Abilities = make(map[string]int, len(d.Abilities))
		for key, value := range d.Abilities {
			out.Abilities[key] = value
		}
	}
	out.Classes = append([]ClassEntry(nil), d.Classes...)
	out.Traits = append([]TraitSelection(nil), d.Traits...)
	out.Equipment = Equipment{
		Weapons: append([]EquipmentEntry(nil), d.Equipment.Weapons...),
		Armor:   append([]EquipmentEntry(nil), d.Equipment.Armor...),
		Gear:    append([]EquipmentEntry(nil), d.Equipment.Gear...),
		Attuned: append([]EquipmentEntry(nil), d.Equipment.Attuned...),
	}
	return out
}

// TotalLevel sums class levels.
func (d Data) TotalLevel() int {
	total := 0
	for _, entry := range d.Classes {
		total += entry.Level
	}
	return total
}

// Raw projects canonical data back into form input.
func (d Data) Raw() RawInput {
	raw := RawInput{}
	if d.Name != "" {
		raw["name"] = d.Name
	}
	if d.Notes != "" {
		raw["notes"] = d.Notes
	}
	for key, value := range d.Abilities {
		raw[key] = value
	}
	if d.AbilityMethod != "" {
		raw["abilityMethod"] = d.AbilityMethod
	}
	if d.ScorePool != 0 {
		raw["scorePool"] = d.ScorePool
	}
	if d.Ancestry != "" {
		raw["race"] = d.Ancestry
	}
	if d.Background != "" {
		raw["background"] = d.Background
	}
	if d.Ally != "" {
		raw["familiarType"] = d.Ally
	}
	if len(d.Classes) > 0 {
		classes := make([]any, 0, len(d.Classes))
		for _, entry := range d.Classes {
			classes = append(classes, map[string]any{"ref": entry.Ref, "level": entry.Level})
		}
		raw["classes"] = classes
	}
	if len(d.Traits) > 0 {
		traits := make([]any, 0, len(d.Traits))
		for _, trait := range d.Traits {
			traits = append(traits, map[string]any{"key": trait.Key, "name": trait.Name, "custom": trait.Custom})
		}
		raw["feats"] = traits
	}
	for _, category := range Categories {
		entries := d.Equipment.List(category)
		if len(entries) == 0 {
			continue
		}
		list := make([]any, 0, len(entries))
		for _, entry := range entries {
			list = append(list, map[string]any{
				"ref":      entry.Ref,
				"quantity": entry.Quantity,
				"custom":   entry.Custom,
				"notes":    entry.Notes,
			})
		}
		raw[string(category)] = list
	}
	if d.BonusSlots != 0 {
		raw["bonusFeats"] = d.BonusSlots
	}
	return raw
}
