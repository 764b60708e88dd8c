package ability

// Contributor is one source of ability bonuses such as an ancestry, a
// background or a trait.
type Contributor struct {
	Label   string
	Bonuses any
}

// Source records one contribution to an ability, for display.
type Source struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// Score is the derived view of one ability.
type Score struct {
	Base     int      `json:"base"`
	Bonus    int      `json:"bonus"`
	Total    int      `json:"total"`
	Modifier int      `json:"modifier"`
	Sources  []Source `json:"sources,omitempty"`
}

// Totals maps every ability to its derived score.
type Totals map[ID]Score

// Total returns the total for id, or DefaultScore when absent.
func (t Totals) Total(id ID) int {
	if score, ok := t[id]; ok {
		return score.Total
	}
	return DefaultScore
}

// Aggregate sums contributor bonuses onto base scores. Provenance is kept in
// contributor order and a contributor naming the same ability twice yields
// two sources. Abilities missing from base start at DefaultScore.
func Aggregate(base map[string]int, contributors []Contributor) Totals {
	totals := make(Totals, len(All))
	for _, id := range All {
		value, ok := base[string(id)]
		if !ok {
			value = DefaultScore
		}
		totals[id] = Score{Base: value}
	}

	for _, contributor := range contributors {
		for _, bonus := range Extract(contributor.Bonuses) {
			score := totals[bonus.Ability]
			score.Bonus += bonus.Amount
			score.Sources = append(score.Sources, Source{Label: contributor.Label, Amount: bonus.Amount})
			totals[bonus.Ability] = score
		}
	}

	for id, score := range totals {
		score.Total = score.Base + score.Bonus
		score.Modifier = Modifier(score.Total)
		totals[id] = score
	}
	return totals
}
