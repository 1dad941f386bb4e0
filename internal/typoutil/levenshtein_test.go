package typoutil

import (
	"reflect"
	"testing"
)

func TestDistanceWithLimit(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		maxDistance int
		want        int
	}{
		{"identical", "regina", "regina", 2, 0},
		{"single substitution", "regina", "regena", 2, 1},
		{"single insertion", "regna", "regina", 2, 1},
		{"single deletion", "reginaa", "regina", 2, 1},
		{"transposition counts once", "regnia", "regina", 2, 1},
		{"both empty", "", "", 2, 0},
		{"one empty", "", "ave", 3, 3},
		{"length gap beyond limit returns limit+1", "ave", "benedictus", 2, 3},
		{"distance beyond limit returns limit+1", "salve", "gloria", 2, 3},
		{"unicode runes compared not bytes", "æva", "ava", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceWithLimit(tt.a, tt.b, tt.maxDistance)
			if got != tt.want {
				t.Errorf("DistanceWithLimit(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.maxDistance, got, tt.want)
			}
		})
	}
}

func TestFindNear(t *testing.T) {
	indexed := []string{"regina", "regnum", "reginam", "salve", "gloria"}

	tests := []struct {
		name        string
		term        string
		maxDistance int
		want        []string
	}{
		{"one edit away", "regena", 1, []string{"regina"}},
		{"two edits widen the net", "regena", 2, []string{"regina", "reginam"}},
		{"exact term excluded", "regina", 1, []string{"reginam"}},
		{"zero distance yields nothing", "regina", 0, []string{}},
		{"empty term yields nothing", "", 2, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindNear(tt.term, indexed, tt.maxDistance)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindNear(%q, _, %d) = %v, want %v", tt.term, tt.maxDistance, got, tt.want)
			}
		})
	}
}
