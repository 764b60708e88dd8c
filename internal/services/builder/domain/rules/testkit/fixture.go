// Package testkit provides a small rules dataset shared by builder tests.
package testkit

import "github.com/louisbranch/questkit/internal/services/builder/domain/rules"

// Dataset returns a fresh fixture dataset on every call.
func Dataset() *rules.Dataset {
	return &rules.Dataset{
		Classes: []rules.Class{
			{
				Entry:               rules.Entry{Slug: "fighter", ID: "class:fighter", Name: "Fighter", Summary: "A master of martial combat."},
				HitDie:              "d10",
				WeaponProficiencies: []string{"Simple Weapons", "Martial Weapons"},
				ArmorProficiencies:  []string{"All Armor", "Shields"},
			},
			{
				Entry:               rules.Entry{Slug: "wizard", ID: "class:wizard", Name: "Wizard", Summary: "A scholarly magic-user."},
				HitDie:              "d6",
				Spellcasting:        true,
				WeaponProficiencies: []string{"Daggers", "Quarterstaffs"},
			},
			{
				Entry:               rules.Entry{Slug: "rogue", ID: "class:rogue", Name: "Rogue", Summary: "A scoundrel who uses stealth."},
				HitDie:              "d8",
				WeaponProficiencies: []string{"Simple Weapons", "Shortswords"},
				ArmorProficiencies:  []string{"Light Armor"},
			},
			{
				Entry:               rules.Entry{Slug: "cleric", ID: "class:cleric", Name: "Cleric", Summary: "A priestly champion."},
				HitDie:              "d8",
				WeaponProficiencies: []string{"Simple Weapons"},
				ArmorProficiencies:  []string{"Light Armor", "Medium Armor", "Shields"},
			},
			{
				Entry:  rules.Entry{Slug: "hexblade", Name: "Hexblade", Tags: []string{"Spellcaster"}},
				HitDie: "d8",
			},
			{
				Entry:  rules.Entry{Slug: "mystic", Name: "Mystic", Summary: "Bends the mind with psionic spells."},
				HitDie: "",
			},
		},
		Ancestries: []rules.Ancestry{
			{Entry: rules.Entry{Slug: "elf", Name: "Elf"}, AbilityBonuses: map[string]any{"dex": float64(2)}},
			{Entry: rules.Entry{Slug: "dwarf", Name: "Dwarf"}, AbilityBonuses: "Your Constitution score increases by 2."},
			{
				Entry: rules.Entry{Slug: "half-orc", Name: "Half-Orc"},
				AbilityBonuses: []any{
					map[string]any{"ability": "Strength", "amount": float64(2)},
					map[string]any{"ability": "con", "amount": float64(1)},
				},
			},
		},
		Backgrounds: []rules.Background{
			{Entry: rules.Entry{Slug: "sage", Name: "Sage"}, AbilityBonuses: map[string]any{"ability": "int", "amount": float64(1)}},
			{Entry: rules.Entry{Slug: "soldier", Name: "Soldier"}},
		},
		Traits: []rules.Trait{
			{Entry: rules.Entry{Slug: "alert", Name: "Alert", Summary: "Always on the lookout."}},
			{Entry: rules.Entry{Slug: "great-weapon-master", Name: "Great Weapon Master"}, Prerequisites: "Strength 13 or higher"},
			{Entry: rules.Entry{Slug: "observant", Name: "Observant"}, Prerequisites: "Intelligence or Wisdom 13 or higher"},
			{Entry: rules.Entry{Slug: "war-caster", Name: "War Caster"}, Prerequisites: "Ability to cast at least one spell"},
			{Entry: rules.Entry{Slug: "heavy-armor-master", Name: "Heavy Armor Master"}, Prerequisites: []any{"Proficiency with heavy armor"}, AbilityBonuses: map[string]any{"str": float64(1)}},
			{Entry: rules.Entry{Slug: "martial-prodigy", Name: "Martial Prodigy"}, Prerequisite: "5th-level Fighter"},
			{Entry: rules.Entry{Slug: "veteran", Name: "Veteran"}, Prerequisite: "4th level"},
			{Entry: rules.Entry{Slug: "dragon-heritage", Name: "Dragon Heritage"}, Prerequisite: "Must be a dragonborn"},
			{Entry: rules.Entry{Slug: "athlete", Name: "Athlete"}, AbilityBonuses: "Increase your Dexterity score by 1"},
			{Entry: rules.Entry{Slug: "keen-mind", Name: "Keen Mind"}, AbilityBonuses: map[string]any{"Intelligence": float64(1)}},
		},
		Items: []rules.Item{
			{Entry: rules.Entry{Slug: "longsword", Name: "Longsword"}, Category: "Martial Melee Weapon", Weight: 3},
			{Entry: rules.Entry{Slug: "greataxe", Name: "Greataxe"}, Category: "Martial Melee Weapon", Weight: 7},
			{Entry: rules.Entry{Slug: "dagger", Name: "Dagger"}, Category: "Simple Melee Weapon", Weight: 1},
			{Entry: rules.Entry{Slug: "quarterstaff", Name: "Quarterstaff"}, Category: "Simple Melee Weapon", Weight: 4},
			{Entry: rules.Entry{Slug: "leather-armor", Name: "Leather Armor"}, Category: "Light Armor", Weight: 10},
			{Entry: rules.Entry{Slug: "chain-mail", Name: "Chain Mail"}, Category: "Heavy Armor", Weight: 55},
			{Entry: rules.Entry{Slug: "plate-armor", Name: "Plate Armor"}, Category: "Heavy Armor", Weight: 65},
			{Entry: rules.Entry{Slug: "shield", Name: "Shield"}, Category: "Shield", Weight: 6},
			{Entry: rules.Entry{Slug: "rope", Name: "Hempen Rope"}, Category: "Adventuring Gear", Weight: 10},
			{Entry: rules.Entry{Slug: "ring-of-protection", Name: "Ring of Protection"}, Category: "Ring", RequiresAttunement: true},
			{Entry: rules.Entry{Slug: "cloak-of-elvenkind", Name: "Cloak of Elvenkind"}, Category: "Wondrous Item", Weight: 1, RequiresAttunement: true},
		},
		Allies: []rules.Ally{
			{
				Entry:      rules.Entry{Slug: "wolf", Name: "Wolf"},
				Size:       "Medium",
				Type:       "beast",
				ArmorClass: float64(13),
				HitPoints:  "11 (2d8 + 2)",
				Speed:      map[string]any{"walk": "40 ft."},
				Traits:     []any{"Keen Hearing and Smell", map[string]any{"name": "Pack Tactics"}},
			},
		},
	}
}
