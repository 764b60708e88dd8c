package derive

import (
	"strconv"

	"github.com/louisbranch/questkit/internal/platform/errors/i18n"
	"github.com/louisbranch/questkit/internal/services/builder/domain/ability"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/feat"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// WarningCode is a message key in the builder namespace.
type WarningCode string

const (
	WarningAttunementExceeded  WarningCode = "builder.warning.attunement_exceeded"
	WarningEncumbranceNear     WarningCode = "builder.warning.encumbrance_near"
	WarningEncumbranceOver     WarningCode = "builder.warning.encumbrance_over"
	WarningWeaponProficiency   WarningCode = "builder.warning.weapon_not_proficient"
	WarningArmorProficiency    WarningCode = "builder.warning.armor_not_proficient"
	WarningFeatLocked          WarningCode = "builder.warning.feat_locked"
	WarningFeatSlotsExceeded   WarningCode = "builder.warning.feat_slots_exceeded"
	WarningPointBuyOverBudget  WarningCode = "builder.warning.point_buy_over_budget"
	WarningPointBuyOutOfRange  WarningCode = "builder.warning.point_buy_out_of_range"
	WarningStandardArray       WarningCode = "builder.warning.standard_array_invalid"
	WarningUnresolvedReference WarningCode = "builder.warning.unresolved_reference"
)

// Warning is an advisory finding. Warnings never block a build.
type Warning struct {
	Code   WarningCode       `json:"code"`
	Params map[string]string `json:"params,omitempty"`
}

// Message renders the warning for locale.
func (w Warning) Message(locale string) string {
	return i18n.GetNamespaceCatalog(i18n.NamespaceBuilder, locale).Format(string(w.Code), w.Params)
}

// Messages renders every warning for locale.
func Messages(warnings []Warning, locale string) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Message(locale))
	}
	return out
}

func collectWarnings(data build.Data, ds *rules.Dataset, state State) []Warning {
	var warnings []Warning
	add := func(code WarningCode, params map[string]string) {
		warnings = append(warnings, Warning{Code: code, Params: params})
	}

	if ds.Size() > 0 {
		for _, ref := range []*Reference{state.Ancestry, state.Background} {
			if ref != nil && !ref.Resolved {
				add(WarningUnresolvedReference, map[string]string{"Value": ref.Name})
			}
		}
		for _, entry := range state.Progression.Entries {
			if !entry.Resolved {
				add(WarningUnresolvedReference, map[string]string{"Value": entry.Ref})
			}
		}
		if data.Ally != "" {
			if _, ok := resolve.Find(data.Ally, ds.Allies); !ok {
				add(WarningUnresolvedReference, map[string]string{"Value": data.Ally})
			}
		}
	}

	switch state.Budget.Method {
	case ability.MethodPointBuy:
		if state.Budget.OverBudget {
			add(WarningPointBuyOverBudget, map[string]string{
				"Spent": strconv.Itoa(state.Budget.Spent),
				"Pool":  strconv.Itoa(state.Budget.Pool),
			})
		}
		for _, id := range state.Budget.OutOfRange {
			add(WarningPointBuyOutOfRange, map[string]string{
				"Ability": id.Name(),
				"Score":   strconv.Itoa(data.Abilities[string(id)]),
			})
		}
	case ability.MethodStandardArray:
		if !state.Budget.ArrayValid {
			add(WarningStandardArray, nil)
		}
	}

	for _, mismatch := range state.Equipment.Mismatches {
		code := WarningWeaponProficiency
		if mismatch.Category == build.CategoryArmor {
			code = WarningArmorProficiency
		}
		add(code, map[string]string{"Item": mismatch.Name})
	}
	if attune := state.Equipment.Attunement; attune.Exceeded {
		add(WarningAttunementExceeded, map[string]string{
			"Count": strconv.Itoa(attune.Count),
			"Limit": strconv.Itoa(attune.Limit),
		})
	}
	if enc := state.Equipment.Encumbrance; enc.Over || enc.Near {
		code := WarningEncumbranceNear
		if enc.Over {
			code = WarningEncumbranceOver
		}
		add(code, map[string]string{
			"Weight":   formatWeight(enc.Carried),
			"Capacity": formatWeight(enc.Capacity),
		})
	}

	for _, selection := range state.Feats.Selections {
		if !selection.Locked {
			continue
		}
		for _, check := range selection.Checks {
			if check.Status == feat.StatusUnsatisfied {
				add(WarningFeatLocked, map[string]string{"Feat": selection.Name, "Requirement": check.Text})
				break
			}
		}
	}
	if slots := state.Feats.Slots; slots.Exceeded {
		add(WarningFeatSlotsExceeded, map[string]string{
			"Used":  strconv.Itoa(slots.Used),
			"Total": strconv.Itoa(slots.Total),
		})
	}
	return warnings
}

func formatWeight(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
