// Package derive composes the full derived view of a build from its
// canonical data and the rules dataset.
package derive

import (
	"github.com/louisbranch/questkit/internal/services/builder/domain/ability"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/companion"
	"github.com/louisbranch/questkit/internal/services/builder/domain/equipment"
	"github.com/louisbranch/questkit/internal/services/builder/domain/feat"
	"github.com/louisbranch/questkit/internal/services/builder/domain/progression"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// Reference is a resolved single-valued selection such as an ancestry.
type Reference struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// State is everything derived from one build.
type State struct {
	Abilities   ability.Totals      `json:"abilities"`
	Budget      ability.Budget      `json:"budget"`
	Ancestry    *Reference          `json:"ancestry,omitempty"`
	Background  *Reference          `json:"background,omitempty"`
	Ally        *companion.Profile  `json:"ally,omitempty"`
	Progression progression.Summary `json:"progression"`
	Feats       feat.Report         `json:"feats"`
	Equipment   equipment.Analysis  `json:"equipment"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// Compose derives a State. It is pure: the same data and dataset always
// produce the same state, and neither input is modified. A nil dataset is
// treated as empty.
func Compose(data build.Data, ds *rules.Dataset) State {
	if ds == nil {
		ds = &rules.Dataset{}
	}
	var state State
	var contributors []ability.Contributor

	if data.Ancestry != "" {
		ancestry, ok := resolve.Find(data.Ancestry, ds.Ancestries)
		state.Ancestry = reference(data.Ancestry, ancestry.Entry, ok)
		if ok {
			contributors = append(contributors, ability.Contributor{Label: ancestry.DisplayName(), Bonuses: ancestry.AbilityBonuses})
		}
	}
	if data.Background != "" {
		background, ok := resolve.Find(data.Background, ds.Backgrounds)
		state.Background = reference(data.Background, background.Entry, ok)
		if ok {
			contributors = append(contributors, ability.Contributor{Label: background.DisplayName(), Bonuses: background.AbilityBonuses})
		}
	}
	for _, selection := range data.Traits {
		if selection.Custom {
			continue
		}
		if trait, ok := resolve.Find(selection.Key, ds.Traits); ok {
			contributors = append(contributors, ability.Contributor{Label: trait.DisplayName(), Bonuses: trait.AbilityBonuses})
		}
	}

	state.Abilities = ability.Aggregate(data.Abilities, contributors)
	state.Budget = ability.Evaluate(data.AbilityMethod, data.ScorePool, data.Abilities)
	state.Progression = progression.Summarize(data.Classes, ds.Classes)
	state.Feats = feat.Evaluate(data.Traits, ds.Traits, feat.Context{
		Abilities:         state.Abilities,
		LevelsByClass:     state.Progression.LevelsByClass,
		TotalLevel:        state.Progression.TotalLevel,
		SpellcastingCount: state.Progression.SpellcastingCount,
		Proficiencies:     state.Progression.Proficiencies,
		BonusSlots:        data.BonusSlots,
		Classes:           ds.Classes,
	})
	state.Equipment = equipment.Analyze(data.Equipment, ds.Items, state.Progression.Proficiencies, state.Abilities.Total(ability.Strength))

	if data.Ally != "" {
		profile, _ := companion.Resolve(data.Ally, ds.Allies)
		state.Ally = &profile
	}

	state.Warnings = collectWarnings(data, ds, state)
	return state
}

func reference(ref string, entry rules.Entry, resolved bool) *Reference {
	if !resolved {
		return &Reference{Key: ref, Name: ref}
	}
	return &Reference{Key: entry.Key(), Name: entry.DisplayName(), Resolved: true}
}
