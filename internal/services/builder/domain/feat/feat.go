package feat

import (
	"github.com/louisbranch/questkit/internal/services/builder/domain/ability"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// Context carries the character facts prerequisites are checked against.
type Context struct {
	// Abilities missing from the totals count as the default score.
	Abilities         ability.Totals
	LevelsByClass     map[string]int
	TotalLevel        int
	SpellcastingCount int
	Proficiencies     []string
	BonusSlots        int
	Classes           []rules.Class
}

// Selection is the evaluated view of one trait selection.
type Selection struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Custom   bool    `json:"custom,omitempty"`
	Resolved bool    `json:"resolved"`
	Checks   []Check `json:"checks,omitempty"`
	Locked   bool    `json:"locked"`
}

// Report is the feat evaluation for a build.
type Report struct {
	Selections []Selection `json:"selections,omitempty"`
	Locked     []string    `json:"locked,omitempty"`
	Slots      Slots       `json:"slots"`
}

// Evaluate checks every selection. A selection is locked iff at least one
// of its checks is unsatisfied.
func Evaluate(selections []build.TraitSelection, traits []rules.Trait, ctx Context) Report {
	var report Report
	for _, selection := range selections {
		view := Selection{Key: selection.Key, Name: selection.Name, Custom: selection.Custom}
		if trait, ok := resolve.Find(selection.Key, traits); ok && !selection.Custom {
			view.Resolved = true
			view.Name = trait.DisplayName()
			for _, text := range trait.PrerequisiteList() {
				check := Assess(text, ctx)
				view.Checks = append(view.Checks, check)
				if check.Status == StatusUnsatisfied {
					view.Locked = true
				}
			}
		}
		if view.Locked {
			report.Locked = append(report.Locked, view.Key)
		}
		report.Selections = append(report.Selections, view)
	}
	report.Slots = Budget(ctx.LevelsByClass, ctx.TotalLevel, ctx.BonusSlots, len(selections))
	return report
}
