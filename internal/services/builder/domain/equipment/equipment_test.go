package equipment

import (
	"math"
	"reflect"
	"testing"

	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules/testkit"
)

func TestAnalyzeWeights(t *testing.T) {
	ds := testkit.Dataset()
	eq := build.Equipment{
		Weapons: []build.EquipmentEntry{{Ref: "dagger", Quantity: 3}, {Ref: "Whip of Ages", Quantity: 1, Custom: true}},
		Armor:   []build.EquipmentEntry{{Ref: "leather-armor", Quantity: 1}},
		Gear:    []build.EquipmentEntry{{Ref: "rope", Quantity: 2}},
	}
	analysis := Analyze(eq, ds.Items, []string{"simple weapons", "light armor"}, 10)

	if got := analysis.Load(build.CategoryWeapons).Weight; got != 3 {
		t.Fatalf("weapons weight = %v, want 3", got)
	}
	if got := analysis.Load(build.CategoryGear).Weight; got != 20 {
		t.Fatalf("gear weight = %v, want 20", got)
	}
	if analysis.TotalWeight != 33 {
		t.Fatalf("total weight = %v, want 33", analysis.TotalWeight)
	}
	custom := analysis.Load(build.CategoryWeapons).Lines[1]
	if custom.Resolved || custom.Weight != 0 || !custom.Proficient {
		t.Fatalf("custom line = %+v", custom)
	}
	if len(analysis.Mismatches) != 0 {
		t.Fatalf("mismatches = %v, want none", analysis.Mismatches)
	}
}

func TestAnalyzeProficiencyMismatches(t *testing.T) {
	ds := testkit.Dataset()
	tests := []struct {
		name          string
		proficiencies []string
		eq            build.Equipment
		want          []string
	}{
		{
			name:          "martial weapon without martial family",
			proficiencies: []string{"simple weapons"},
			eq:            build.Equipment{Weapons: []build.EquipmentEntry{{Ref: "longsword", Quantity: 1}, {Ref: "dagger", Quantity: 1}}},
			want:          []string{"longsword"},
		},
		{
			name:          "literal name covers weapon",
			proficiencies: []string{"Longswords"},
			eq:            build.Equipment{Weapons: []build.EquipmentEntry{{Ref: "longsword", Quantity: 1}}},
		},
		{
			name:          "all armor excludes shields",
			proficiencies: []string{"all armor"},
			eq:            build.Equipment{Armor: []build.EquipmentEntry{{Ref: "plate-armor", Quantity: 1}, {Ref: "shield", Quantity: 1}}},
			want:          []string{"shield"},
		},
		{
			name:          "heavy armor with light proficiency",
			proficiencies: []string{"light armor", "shields"},
			eq:            build.Equipment{Armor: []build.EquipmentEntry{{Ref: "chain-mail", Quantity: 1}, {Ref: "shield", Quantity: 1}}},
			want:          []string{"chain-mail"},
		},
		{
			name: "unresolved entries are not checked",
			eq:   build.Equipment{Weapons: []build.EquipmentEntry{{Ref: "Blaster", Quantity: 1}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Analyze(tt.eq, ds.Items, tt.proficiencies, 10)
			var got []string
			for _, mismatch := range analysis.Mismatches {
				got = append(got, mismatch.Ref)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("mismatches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttunement(t *testing.T) {
	ds := testkit.Dataset()
	tests := []struct {
		attuned  []build.EquipmentEntry
		count    int
		exceeded bool
	}{
		{attuned: nil, count: 0},
		{attuned: []build.EquipmentEntry{{Ref: "ring-of-protection", Quantity: 3}}, count: 3},
		{attuned: []build.EquipmentEntry{{Ref: "ring-of-protection", Quantity: 2}, {Ref: "cloak-of-elvenkind", Quantity: 0}, {Ref: "Amulet", Quantity: 1, Custom: true}}, count: 4, exceeded: true},
	}
	for _, tt := range tests {
		analysis := Analyze(build.Equipment{Attuned: tt.attuned}, ds.Items, nil, 10)
		if analysis.Attunement.Count != tt.count || analysis.Attunement.Exceeded != tt.exceeded {
			t.Fatalf("attunement = %+v, want count %d exceeded %v", analysis.Attunement, tt.count, tt.exceeded)
		}
		if analysis.Attunement.Limit != AttunementLimit {
			t.Fatalf("limit = %d, want %d", analysis.Attunement.Limit, AttunementLimit)
		}
	}
}

func TestEncumber(t *testing.T) {
	tests := []struct {
		carried  float64
		strength int
		capacity float64
		near     bool
		over     bool
	}{
		{carried: 100, strength: 10, capacity: 150},
		{carried: 112.5, strength: 10, capacity: 150, near: true},
		{carried: 150, strength: 10, capacity: 150, near: true},
		{carried: 151, strength: 10, capacity: 150, near: true, over: true},
		{carried: 10, strength: 0, capacity: 0},
		{carried: 10, strength: -4, capacity: 0},
	}
	for _, tt := range tests {
		enc := Encumber(tt.carried, tt.strength)
		if enc.Capacity != tt.capacity || enc.Near != tt.near || enc.Over != tt.over {
			t.Fatalf("Encumber(%v, %d) = %+v", tt.carried, tt.strength, enc)
		}
		if tt.capacity > 0 && math.Abs(enc.Ratio-tt.carried/tt.capacity) > 1e-9 {
			t.Fatalf("ratio = %v", enc.Ratio)
		}
	}
}

func TestAnalyzeEncumbranceUsesAllCategories(t *testing.T) {
	ds := testkit.Dataset()
	eq := build.Equipment{
		Armor: []build.EquipmentEntry{{Ref: "plate-armor", Quantity: 1}},
		Gear:  []build.EquipmentEntry{{Ref: "rope", Quantity: 4}},
	}
	analysis := Analyze(eq, ds.Items, []string{"all armor"}, 6)
	if !analysis.Encumbrance.Over {
		t.Fatalf("encumbrance = %+v, want over", analysis.Encumbrance)
	}
}
