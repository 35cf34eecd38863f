package faces

import (
	"math"
	"testing"
)

// descriptorAt returns a descriptor at the given distance from the zero descriptor
func descriptorAt(distance float32) Descriptor {
	d := Descriptor{}
	d[0] = distance
	return d
}

func TestDescriptor_Distance(t *testing.T) {
	a := Descriptor{}
	b := Descriptor{}
	b[0], b[1] = 3, 4
	if got := a.Distance(&b); math.Abs(got-5) > 1e-9 {
		t.Errorf("Distance() = %v, want 5", got)
	}
	if got := b.Distance(&b); got != 0 {
		t.Errorf("Distance() to itself = %v, want 0", got)
	}
}

func TestMatch(t *testing.T) {
	zero := Descriptor{}
	tests := []struct {
		name       string
		candidates []Reference
		tolerance  float64
		want       string
	}{
		{
			name:       "no candidates",
			candidates: nil,
			tolerance:  DefaultTolerance,
			want:       UnknownLabel,
		},
		{
			name:       "exactly at tolerance matches",
			candidates: []Reference{{"Alice", descriptorAt(0.5)}},
			tolerance:  0.5,
			want:       "Alice",
		},
		{
			name:       "just above tolerance",
			candidates: []Reference{{"Alice", descriptorAt(0.51)}},
			tolerance:  0.5,
			want:       UnknownLabel,
		},
		{
			name: "first match wins over closer match",
			candidates: []Reference{
				{"Far", descriptorAt(0.4)},
				{"Near", descriptorAt(0.1)},
			},
			tolerance: 0.5,
			want:      "Far",
		},
		{
			name: "non matching candidates are skipped",
			candidates: []Reference{
				{"Bob", descriptorAt(0.9)},
				{"Carol", descriptorAt(0.3)},
			},
			tolerance: 0.5,
			want:      "Carol",
		},
		{
			name: "identical descriptors, first registered wins",
			candidates: []Reference{
				{"Alice", zero},
				{"Alice2", zero},
			},
			tolerance: 0.5,
			want:      "Alice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(&zero, tt.candidates, tt.tolerance); got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatch_Monotonic(t *testing.T) {
	zero := Descriptor{}
	candidates := []Reference{{"Alice", descriptorAt(0.35)}}
	distance := candidates[0].Descriptor.Distance(&zero)
	matched := false
	for tol := 0.05; tol <= 1.0; tol += 0.05 {
		got := Match(&zero, candidates, tol) == "Alice"
		if got != (distance <= tol) {
			t.Errorf("tolerance %v: matched = %v", tol, got)
		}
		if matched && !got {
			t.Fatalf("tolerance %v turned a match into a non-match", tol)
		}
		matched = got
	}
}

func TestMatch_DoesNotModifyCandidates(t *testing.T) {
	zero := Descriptor{}
	candidates := []Reference{{"Bob", descriptorAt(0.9)}, {"Alice", descriptorAt(0.1)}}
	before := append([]Reference(nil), candidates...)
	Match(&zero, candidates, 0.5)
	for i := range candidates {
		if candidates[i] != before[i] {
			t.Fatalf("candidate %d changed: %+v -> %+v", i, before[i], candidates[i])
		}
	}
}

func TestMatchAll_KeepsOrder(t *testing.T) {
	candidates := []Reference{{"Alice", descriptorAt(0)}, {"Bob", descriptorAt(10)}}
	found := []Face{
		{Location: Location{Top: 1, Right: 2, Bottom: 3, Left: 0}, Descriptor: descriptorAt(10)},
		{Location: Location{Top: 4, Right: 5, Bottom: 6, Left: 0}, Descriptor: descriptorAt(5)},
		{Location: Location{Top: 7, Right: 8, Bottom: 9, Left: 0}, Descriptor: descriptorAt(0)},
	}
	got := MatchAll(found, candidates, 0.5)
	wantLabels := []string{"Bob", UnknownLabel, "Alice"}
	if len(got) != len(found) {
		t.Fatalf("MatchAll() returned %d detections, want %d", len(got), len(found))
	}
	for i := range got {
		if got[i].Label != wantLabels[i] {
			t.Errorf("detection %d label = %q, want %q", i, got[i].Label, wantLabels[i])
		}
		if got[i].Location != found[i].Location {
			t.Errorf("detection %d location = %+v, want %+v", i, got[i].Location, found[i].Location)
		}
	}
}
