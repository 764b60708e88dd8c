package equipment

import "strings"

var armorFamilies = []string{"light", "medium", "heavy"}

var weaponFamilies = []string{"simple", "martial"}

type tagSet map[string]bool

func newTagSet(proficiencies []string) tagSet {
	tags := tagSet{}
	for _, tag := range proficiencies {
		if normalized := strings.ToLower(strings.TrimSpace(tag)); normalized != "" {
			tags[normalized] = true
		}
	}
	return tags
}

func (t tagSet) has(candidates ...string) bool {
	for _, candidate := range candidates {
		if t[candidate] {
			return true
		}
	}
	return false
}

// covers matches a resolved line by literal name, by catalog category, or by
// the weapon and armor families the category belongs to.
func (t tagSet) covers(line Line) bool {
	name := strings.ToLower(strings.TrimSpace(line.Name))
	ref := strings.ToLower(strings.TrimSpace(line.Ref))
	if t.has(name, name+"s", ref) {
		return true
	}
	category := strings.ToLower(line.ItemCategory)
	if category != "" && t.has(category, category+"s") {
		return true
	}
	if strings.Contains(category, "shield") || name == "shield" {
		return t.has("shield", "shields")
	}
	if strings.Contains(category, "armor") {
		for _, family := range armorFamilies {
			if strings.Contains(category, family) {
				return t.has(family+" armor", family, "all armor")
			}
		}
		return t.has("all armor")
	}
	for _, family := range weaponFamilies {
		if strings.Contains(category, family) {
			return t.has(family+" weapons", family+" weapon", family)
		}
	}
	return false
}
