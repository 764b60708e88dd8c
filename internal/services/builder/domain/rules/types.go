package rules

// Class is an archetype a build can take levels in.
type Class struct {
	Entry               `yaml:",inline"`
	HitDie              string   `json:"hit_die,omitempty" yaml:"hit_die,omitempty"`
	Spellcasting        Flag     `json:"spellcasting,omitempty" yaml:"spellcasting,omitempty"`
	WeaponProficiencies []string `json:"weapon_proficiencies,omitempty" yaml:"weapon_proficiencies,omitempty"`
	ArmorProficiencies  []string `json:"armor_proficiencies,omitempty" yaml:"armor_proficiencies,omitempty"`
	Proficiencies       []string `json:"proficiencies,omitempty" yaml:"proficiencies,omitempty"`
	PrimaryAbilities    []string `json:"primary_abilities,omitempty" yaml:"primary_abilities,omitempty"`
	SavingThrows        []string `json:"saving_throws,omitempty" yaml:"saving_throws,omitempty"`
}

// Ancestry is a race or lineage. Ability bonuses keep their authored shape.
type Ancestry struct {
	Entry          `yaml:",inline"`
	AbilityBonuses any    `json:"ability_bonuses,omitempty" yaml:"ability_bonuses,omitempty"`
	Size           string `json:"size,omitempty" yaml:"size,omitempty"`
	Speed          any    `json:"speed,omitempty" yaml:"speed,omitempty"`
}

// Background is a character origin.
type Background struct {
	Entry          `yaml:",inline"`
	AbilityBonuses any      `json:"ability_bonuses,omitempty" yaml:"ability_bonuses,omitempty"`
	Skills         []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	Feat           string   `json:"feat,omitempty" yaml:"feat,omitempty"`
}

// Trait is a selectable feat.
type Trait struct {
	Entry          `yaml:",inline"`
	AbilityBonuses any `json:"ability_bonuses,omitempty" yaml:"ability_bonuses,omitempty"`
	Prerequisites  any `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Prerequisite   any `json:"prerequisite,omitempty" yaml:"prerequisite,omitempty"`
}

// PrerequisiteList returns every authored prerequisite sentence.
func (t Trait) PrerequisiteList() []string {
	out := StringList(t.Prerequisites)
	return append(out, StringList(t.Prerequisite)...)
}

// Item is a piece of equipment.
type Item struct {
	Entry              `yaml:",inline"`
	Category           string   `json:"category,omitempty" yaml:"category,omitempty"`
	Type               string   `json:"type,omitempty" yaml:"type,omitempty"`
	Weight             Number   `json:"weight,omitempty" yaml:"weight,omitempty"`
	RequiresAttunement Flag     `json:"requires_attunement,omitempty" yaml:"requires_attunement,omitempty"`
	Properties         []string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Ally is a companion creature.
type Ally struct {
	Entry           `yaml:",inline"`
	Size            string `json:"size,omitempty" yaml:"size,omitempty"`
	Type            string `json:"type,omitempty" yaml:"type,omitempty"`
	ArmorClass      any    `json:"armor_class,omitempty" yaml:"armor_class,omitempty"`
	HitPoints       any    `json:"hit_points,omitempty" yaml:"hit_points,omitempty"`
	Speed           any    `json:"speed,omitempty" yaml:"speed,omitempty"`
	ChallengeRating any    `json:"challenge_rating,omitempty" yaml:"challenge_rating,omitempty"`
	Traits          any    `json:"traits,omitempty" yaml:"traits,omitempty"`
}

// Dataset is the full rules catalog. JSON and YAML keys follow the pack
// format (races, feats, companions).
type Dataset struct {
	Classes     []Class      `json:"classes,omitempty" yaml:"classes,omitempty"`
	Ancestries  []Ancestry   `json:"races,omitempty" yaml:"races,omitempty"`
	Backgrounds []Background `json:"backgrounds,omitempty" yaml:"backgrounds,omitempty"`
	Traits      []Trait      `json:"feats,omitempty" yaml:"feats,omitempty"`
	Items       []Item       `json:"items,omitempty" yaml:"items,omitempty"`
	Allies      []Ally       `json:"companions,omitempty" yaml:"companions,omitempty"`
}

// Size returns the total number of entries.
func (d *Dataset) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Classes) + len(d.Ancestries) + len(d.Backgrounds) + len(d.Traits) + len(d.Items) + len(d.Allies)
}
