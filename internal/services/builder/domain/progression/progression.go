// Package progression summarizes class levels: total level, proficiency
// bonus, hit dice, spellcasting and proficiency tags.
package progression

import (
	"regexp"
	"sort"
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// UnknownHitDie labels hit dice for classes without a die in the dataset.
const UnknownHitDie = "?"

// SpellcastingSource names the rule that marked a class as a spellcaster.
type SpellcastingSource string

const (
	SpellcastingNone    SpellcastingSource = ""
	SpellcastingFlag    SpellcastingSource = "flag"
	SpellcastingTag     SpellcastingSource = "tag"
	SpellcastingName    SpellcastingSource = "name"
	SpellcastingSummary SpellcastingSource = "summary"
)

// spellcastingClasses are archetypes known to cast spells even when the
// dataset does not say so.
var spellcastingClasses = map[string]bool{
	"bard": true, "cleric": true, "druid": true, "sorcerer": true,
	"wizard": true, "paladin": true, "ranger": true, "warlock": true,
}

var spellcastingTags = []string{"spellcasting", "spellcaster", "caster"}

var spellcastingSummary = regexp.MustCompile(`(?i)\b(spells?|spellcasting|cantrips?|arcane magic|divine magic)\b`)

// Entry is the derived view of one class entry.
type Entry struct {
	Ref                string             `json:"ref"`
	Name               string             `json:"name"`
	Level              int                `json:"level"`
	HitDie             string             `json:"hitDie"`
	Resolved           bool               `json:"resolved"`
	Spellcasting       bool               `json:"spellcasting"`
	SpellcastingSource SpellcastingSource `json:"spellcastingSource,omitempty"`
}

// Summary is the aggregate over all class entries.
type Summary struct {
	Entries           []Entry        `json:"entries,omitempty"`
	TotalLevel        int            `json:"totalLevel"`
	ProficiencyBonus  int            `json:"proficiencyBonus"`
	HitDice           map[string]int `json:"hitDice,omitempty"`
	SpellcastingCount int            `json:"spellcastingCount"`
	Proficiencies     []string       `json:"proficiencies,omitempty"`
	LevelsByClass     map[string]int `json:"levelsByClass,omitempty"`
}

// ProficiencyBonus returns 2 + (min(max(1, total), MaxLevel) - 1) / 4.
// Non-positive totals yield 2.
func ProficiencyBonus(totalLevel int) int {
	if totalLevel <= 0 {
		return 2
	}
	if totalLevel > build.MaxLevel {
		totalLevel = build.MaxLevel
	}
	return 2 + (totalLevel-1)/4
}

// Summarize aggregates class entries against the dataset.
func Summarize(entries []build.ClassEntry, classes []rules.Class) Summary {
	summary := Summary{
		HitDice:       map[string]int{},
		LevelsByClass: map[string]int{},
	}
	tags := map[string]bool{}

	for _, entry := range entries {
		view := Entry{Ref: entry.Ref, Name: entry.Ref, Level: entry.Level, HitDie: UnknownHitDie}
		class, ok := resolve.Find(entry.Ref, classes)
		if ok {
			view.Resolved = true
			view.Name = class.DisplayName()
			if die := strings.ToLower(strings.TrimSpace(class.HitDie)); die != "" {
				view.HitDie = die
			}
			view.SpellcastingSource = spellcastingSource(class)
			for _, group := range [][]string{class.WeaponProficiencies, class.ArmorProficiencies, class.Proficiencies} {
				for _, tag := range group {
					if normalized := strings.ToLower(strings.TrimSpace(tag)); normalized != "" {
						tags[normalized] = true
					}
				}
			}
		} else if spellcastingClasses[rules.Slugify(entry.Ref)] {
			view.SpellcastingSource = SpellcastingName
		}
		view.Spellcasting = view.SpellcastingSource != SpellcastingNone
		if view.Spellcasting {
			summary.SpellcastingCount++
		}

		summary.TotalLevel += entry.Level
		summary.HitDice[view.HitDie] += entry.Level
		summary.LevelsByClass[levelKey(entry.Ref, class, ok)] += entry.Level
		summary.Entries = append(summary.Entries, view)
	}

	summary.ProficiencyBonus = ProficiencyBonus(summary.TotalLevel)
	for tag := range tags {
		summary.Proficiencies = append(summary.Proficiencies, tag)
	}
	sort.Strings(summary.Proficiencies)
	return summary
}

// levelKey keys the tally by slug so prerequisite checks can look classes up
// by their dataset name.
func levelKey(ref string, class rules.Class, resolved bool) string {
	if resolved {
		return rules.Slugify(class.Key())
	}
	return rules.Slugify(ref)
}

// spellcastingSource applies flag, tag, known archetype, then summary text.
func spellcastingSource(class rules.Class) SpellcastingSource {
	if class.Spellcasting {
		return SpellcastingFlag
	}
	for _, tag := range spellcastingTags {
		if class.HasTag(tag) {
			return SpellcastingTag
		}
	}
	for _, candidate := range []string{class.Slug, class.Name} {
		if spellcastingClasses[rules.Slugify(candidate)] {
			return SpellcastingName
		}
	}
	if spellcastingSummary.MatchString(class.Summary) {
		return SpellcastingSummary
	}
	return SpellcastingNone
}
