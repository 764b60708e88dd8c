package ability

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Bonus is one ability increase extracted from a contributor.
type Bonus struct {
	Ability ID
	Amount  int
}

// Keys a choice record may use for the ability and for the amount.
var (
	choiceAbilityKeys = []string{"ability", "attribute", "stat", "score"}
	choiceAmountKeys  = []string{"amount", "bonus", "value", "increase", "modifier"}
)

const abilityPattern = `(strength|dexterity|constitution|intelligence|wisdom|charisma|str|dex|con|int|wis|cha)`

// Free-text sentence patterns. Each yields an ability group and an amount group.
var textPatterns = []struct {
	re           *regexp.Regexp
	ability, amt int
}{
	// "Dexterity +2", "Str +1"
	{re: regexp.MustCompile(`(?i)\b` + abilityPattern + `\b(?:\s+score)?\s*([+-]\d+)`), ability: 1, amt: 2},
	// "+1 to Dexterity"
	{re: regexp.MustCompile(`(?i)([+-]?\d+)\s+(?:to|in)\s+(?:your\s+)?` + abilityPattern + `\b`), ability: 2, amt: 1},
	// "Your Constitution score increases by 2"
	{re: regexp.MustCompile(`(?i)\b` + abilityPattern + `\b(?:\s+score)?\s+(?:increases?|improves?)\s+by\s+(\d+)`), ability: 1, amt: 2},
	// "Increase your Dexterity score by 1"
	{re: regexp.MustCompile(`(?i)\bincrease\s+(?:your\s+)?` + abilityPattern + `\b(?:\s+score)?\s+by\s+(\d+)`), ability: 1, amt: 2},
}

// Extract reads every bonus from a contributor's authored value. Recognized
// shapes are a keyed map, a choice record, a list of records and free text.
// Unrecognized shapes contribute nothing.
func Extract(value any) []Bonus {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		if bonus, ok := choiceRecord(v); ok {
			return []Bonus{bonus}
		}
		return keyedMap(v)
	case map[string]int:
		converted := make(map[string]any, len(v))
		for key, amount := range v {
			converted[key] = amount
		}
		return keyedMap(converted)
	case []any:
		var out []Bonus
		for _, item := range v {
			out = append(out, Extract(item)...)
		}
		return out
	case []string:
		var out []Bonus
		for _, item := range v {
			out = append(out, Extract(item)...)
		}
		return out
	case string:
		return freeText(v)
	default:
		return nil
	}
}

func choiceRecord(record map[string]any) (Bonus, bool) {
	for _, abilityKey := range choiceAbilityKeys {
		name, ok := record[abilityKey].(string)
		if !ok {
			continue
		}
		id, ok := Lookup(name)
		if !ok {
			continue
		}
		for _, amountKey := range choiceAmountKeys {
			if amount, ok := parseAmount(record[amountKey]); ok {
				return Bonus{Ability: id, Amount: amount}, true
			}
		}
		return Bonus{}, false
	}
	return Bonus{}, false
}

// keyedMap reads {"dex": 2} style maps. Each key naming an ability yields
// its own bonus, ordered by ability in sheet order and then by key, so
// output does not depend on map iteration.
func keyedMap(record map[string]any) []Bonus {
	type keyed struct {
		key   string
		bonus Bonus
	}
	var found []keyed
	for key, value := range record {
		id, ok := Lookup(key)
		if !ok {
			continue
		}
		if amount, ok := parseAmount(value); ok {
			found = append(found, keyed{key: key, bonus: Bonus{Ability: id, Amount: amount}})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		a, b := indexOf(found[i].bonus.Ability), indexOf(found[j].bonus.Ability)
		if a != b {
			return a < b
		}
		return found[i].key < found[j].key
	})
	var out []Bonus
	for _, item := range found {
		out = append(out, item.bonus)
	}
	return out
}

func indexOf(id ID) int {
	for i, candidate := range All {
		if candidate == id {
			return i
		}
	}
	return len(All)
}

type textMatch struct {
	start, end int
	bonus      Bonus
}

func freeText(text string) []Bonus {
	var matches []textMatch
	for _, pattern := range textPatterns {
		for _, idx := range pattern.re.FindAllStringSubmatchIndex(text, -1) {
			name := text[idx[2*pattern.ability]:idx[2*pattern.ability+1]]
			amountText := text[idx[2*pattern.amt]:idx[2*pattern.amt+1]]
			id, ok := Lookup(name)
			if !ok {
				continue
			}
			amount, ok := parseAmount(amountText)
			if !ok {
				continue
			}
			matches = append(matches, textMatch{start: idx[0], end: idx[1], bonus: Bonus{Ability: id, Amount: amount}})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var out []Bonus
	lastEnd := -1
	for _, match := range matches {
		if match.start < lastEnd {
			continue
		}
		out = append(out, match.bonus)
		lastEnd = match.end
	}
	return out
}

func parseAmount(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), v == float64(int(v))
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		trimmed := strings.TrimPrefix(strings.TrimSpace(v), "+")
		n, err := strconv.Atoi(trimmed)
		return n, err == nil
	default:
		return 0, false
	}
}
