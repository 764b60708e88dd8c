package feat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/ability"
	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// Kind identifies the rule that evaluated a prerequisite.
type Kind string

const (
	KindProficiency  Kind = "proficiency"
	KindAbility      Kind = "ability"
	KindArchetype    Kind = "archetype"
	KindLevel        Kind = "level"
	KindSpellcasting Kind = "spellcasting"
	KindUnknown      Kind = "unknown"
)

// Status is the outcome of one prerequisite check.
type Status string

const (
	StatusSatisfied   Status = "satisfied"
	StatusUnsatisfied Status = "unsatisfied"
	StatusUnknown     Status = "unknown"
)

// Check is one evaluated prerequisite sentence.
type Check struct {
	Text   string `json:"text"`
	Kind   Kind   `json:"kind"`
	Status Status `json:"status"`
}

const abilityWord = `(?:strength|dexterity|constitution|intelligence|wisdom|charisma|str|dex|con|int|wis|cha)`

var (
	proficiencyPattern = regexp.MustCompile(`(?i)proficien\w*\s+(?:with|in)?\s*(?:an?\s+)?(light armor|medium armor|heavy armor|shields?|simple weapons|martial weapons)`)
	abilityPattern     = regexp.MustCompile(`(?i)\b(` + abilityWord + `(?:\s*(?:,|/|or)\s*` + abilityWord + `)*)\b(?:\s+score)?(?:\s+of)?\s+(\d+)`)
	abilityWordPattern = regexp.MustCompile(`(?i)\b` + abilityWord + `\b`)
	archetypePattern   = regexp.MustCompile(`(?i)\b(\d+)(?:st|nd|rd|th)?[- ]level\s+([a-z][a-z' -]*)`)
	levelPattern       = regexp.MustCompile(`(?i)\b(?:level\s+(\d+)|(\d+)(?:st|nd|rd|th)?[- ]level)\b`)
	spellPattern       = regexp.MustCompile(`(?i)(cast at least one spell|spellcasting|pact magic|ability to cast)`)
)

// fillerWords trail a level requirement without naming an archetype.
var fillerWords = map[string]bool{
	"or": true, "and": true, "higher": true, "above": true, "character": true, "in": true, "any": true, "class": true,
}

// rule recognizes a prerequisite sentence and evaluates it.
type rule struct {
	kind  Kind
	check func(text string, ctx Context) (Status, bool)
}

// ruleTable is consulted in order; the first recognizing rule wins.
var ruleTable = []rule{
	{kind: KindProficiency, check: checkProficiency},
	{kind: KindAbility, check: checkAbility},
	{kind: KindArchetype, check: checkArchetype},
	{kind: KindLevel, check: checkLevel},
	{kind: KindSpellcasting, check: checkSpellcasting},
}

// Assess evaluates one prerequisite sentence.
func Assess(text string, ctx Context) Check {
	text = strings.TrimSpace(text)
	for _, r := range ruleTable {
		if status, ok := r.check(text, ctx); ok {
			return Check{Text: text, Kind: r.kind, Status: status}
		}
	}
	return Check{Text: text, Kind: KindUnknown, Status: StatusUnknown}
}

func statusOf(satisfied bool) Status {
	if satisfied {
		return StatusSatisfied
	}
	return StatusUnsatisfied
}

func checkProficiency(text string, ctx Context) (Status, bool) {
	match := proficiencyPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	wanted := strings.ToLower(match[1])
	candidates := []string{wanted}
	switch {
	case strings.HasPrefix(wanted, "shield"):
		candidates = []string{"shield", "shields"}
	case strings.HasSuffix(wanted, "armor"):
		candidates = append(candidates, "all armor")
	}
	for _, tag := range ctx.Proficiencies {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		for _, candidate := range candidates {
			if normalized == candidate {
				return StatusSatisfied, true
			}
		}
	}
	return StatusUnsatisfied, true
}

// checkAbility treats "Intelligence or Wisdom 13" as any-of.
func checkAbility(text string, ctx Context) (Status, bool) {
	match := abilityPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	threshold, err := strconv.Atoi(match[2])
	if err != nil {
		return "", false
	}
	for _, word := range abilityWordPattern.FindAllString(match[1], -1) {
		id, ok := ability.Lookup(word)
		if ok && ctx.Abilities.Total(id) >= threshold {
			return StatusSatisfied, true
		}
	}
	return StatusUnsatisfied, true
}

// checkArchetype recognizes "5th-level Fighter". Names that do not resolve
// to a dataset class are unknown.
func checkArchetype(text string, ctx Context) (Status, bool) {
	match := archetypePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	var words []string
	for _, word := range strings.Fields(strings.ReplaceAll(match[2], "-", " ")) {
		if fillerWords[strings.ToLower(word)] {
			break
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return "", false
	}
	required, err := strconv.Atoi(match[1])
	if err != nil {
		return "", false
	}
	for _, candidate := range []string{strings.Join(words, " "), words[0]} {
		if class, ok := resolve.Find(candidate, ctx.Classes); ok {
			return statusOf(ctx.LevelsByClass[rules.Slugify(class.Key())] >= required), true
		}
	}
	return StatusUnknown, true
}

func checkLevel(text string, ctx Context) (Status, bool) {
	match := levelPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	digits := match[1]
	if digits == "" {
		digits = match[2]
	}
	required, err := strconv.Atoi(digits)
	if err != nil {
		return "", false
	}
	return statusOf(ctx.TotalLevel >= required), true
}

func checkSpellcasting(text string, ctx Context) (Status, bool) {
	if !spellPattern.MatchString(text) {
		return "", false
	}
	return statusOf(ctx.SpellcastingCount > 0), true
}
