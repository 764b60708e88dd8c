package ability

import (
	"sort"
	"strings"
)

// Method is how base scores were generated.
type Method string

const (
	MethodManual        Method = "manual"
	MethodStandardArray Method = "standard-array"
	MethodPointBuy      Method = "point-buy"
)

// DefaultPointPool is the point-buy budget when none is configured.
const DefaultPointPool = 27

// StandardArray is the fixed set of scores assigned one per ability.
var StandardArray = []int{15, 14, 13, 12, 10, 8}

// pointCost is the cumulative cost of buying a score up from 8.
var pointCost = map[int]int{8: 0, 9: 1, 10: 2, 11: 3, 12: 4, 13: 5, 14: 7, 15: 9}

// ParseMethod maps free-form method names onto a Method.
func ParseMethod(value string) Method {
	switch strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.TrimSpace(value))) {
	case "standard", "standardarray", "array":
		return MethodStandardArray
	case "pointbuy", "points", "point":
		return MethodPointBuy
	default:
		return MethodManual
	}
}

// PointCost returns the cost of a score and whether it is purchasable.
func PointCost(score int) (int, bool) {
	cost, ok := pointCost[score]
	return cost, ok
}

// Budget reports how base scores fit the chosen generation method.
type Budget struct {
	Method     Method `json:"method"`
	Pool       int    `json:"pool,omitempty"`
	Spent      int    `json:"spent,omitempty"`
	Remaining  int    `json:"remaining,omitempty"`
	OverBudget bool   `json:"overBudget,omitempty"`
	OutOfRange []ID   `json:"outOfRange,omitempty"`
	// ArrayValid is false when scores are not drawn from StandardArray.
	ArrayValid bool `json:"arrayValid,omitempty"`
}

// Evaluate checks base scores against the method. Point-buy treats missing
// abilities as 8; scores outside 8..15 are listed and cost nothing.
func Evaluate(method string, pool int, base map[string]int) Budget {
	m := ParseMethod(method)
	budget := Budget{Method: m}
	switch m {
	case MethodPointBuy:
		if pool <= 0 {
			pool = DefaultPointPool
		}
		budget.Pool = pool
		for _, id := range All {
			score, ok := base[string(id)]
			if !ok {
				continue
			}
			cost, ok := PointCost(score)
			if !ok {
				budget.OutOfRange = append(budget.OutOfRange, id)
				continue
			}
			budget.Spent += cost
		}
		budget.Remaining = pool - budget.Spent
		budget.OverBudget = budget.Spent > pool
	case MethodStandardArray:
		budget.ArrayValid = fitsStandardArray(base)
	}
	return budget
}

// fitsStandardArray reports whether every assigned score consumes a distinct
// slot of the standard array.
func fitsStandardArray(base map[string]int) bool {
	remaining := append([]int(nil), StandardArray...)
	var assigned []int
	for _, id := range All {
		if score, ok := base[string(id)]; ok {
			assigned = append(assigned, score)
		}
	}
	sort.Ints(assigned)
	for _, score := range assigned {
		found := false
		for i, slot := range remaining {
			if slot == score {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
