// Package ability computes ability score totals from base scores plus
// bonuses contributed by ancestry, background and traits.
package ability

import (
	"strings"
)

// ID is a short ability identifier.
type ID string

const (
	Strength     ID = "str"
	Dexterity    ID = "dex"
	Constitution ID = "con"
	Intelligence ID = "int"
	Wisdom       ID = "wis"
	Charisma     ID = "cha"
)

// All lists the abilities in sheet order.
var All = []ID{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// DefaultScore is assumed for abilities without a base score.
const DefaultScore = 10

var names = map[ID]string{
	Strength:     "Strength",
	Dexterity:    "Dexterity",
	Constitution: "Constitution",
	Intelligence: "Intelligence",
	Wisdom:       "Wisdom",
	Charisma:     "Charisma",
}

// Name returns the full ability name.
func (id ID) Name() string {
	if name, ok := names[id]; ok {
		return name
	}
	return string(id)
}

// Lookup accepts a full name, a three-letter abbreviation or an id, in any
// case.
func Lookup(value string) (ID, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	for _, id := range All {
		if key == string(id) || key == strings.ToLower(names[id]) {
			return id, true
		}
	}
	return "", false
}

// Modifier returns floor((score - 10) / 2).
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return -((-diff + 1) / 2)
	}
	return diff / 2
}
