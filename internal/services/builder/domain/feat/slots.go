package feat

// Thresholds are the total levels at which a feat slot is granted.
var Thresholds = []int{4, 8, 12, 16, 19}

// ArchetypeBonus lists extra slot levels granted by specific classes.
var ArchetypeBonus = map[string][]int{
	"fighter": {6, 14},
	"rogue":   {10},
}

// Slots is the feat slot budget.
type Slots struct {
	Thresholds int  `json:"thresholds"`
	Archetype  int  `json:"archetype"`
	Manual     int  `json:"manual"`
	Total      int  `json:"total"`
	Used       int  `json:"used"`
	Remaining  int  `json:"remaining"`
	Exceeded   bool `json:"exceeded"`
}

// Budget counts thresholds reached by totalLevel, archetype bonus levels
// reached by each class tally, and max(0, manual).
func Budget(levelsByClass map[string]int, totalLevel, manual, used int) Slots {
	slots := Slots{Manual: max(0, manual), Used: used}
	for _, threshold := range Thresholds {
		if totalLevel >= threshold {
			slots.Thresholds++
		}
	}
	for class, levels := range ArchetypeBonus {
		for _, level := range levels {
			if levelsByClass[class] >= level {
				slots.Archetype++
			}
		}
	}
	slots.Total = slots.Thresholds + slots.Archetype + slots.Manual
	slots.Remaining = max(0, slots.Total-used)
	slots.Exceeded = used > slots.Total
	return slots
}
