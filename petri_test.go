// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"math/big"
	"testing"
)

// petriNet is a conservative token-passing net over 7 places: markings
// are complete assignments place → token count, and every transition
// moves exactly one token from a source place to a target place when
// the source holds at least one. This is the MFDD analogue of the
// teacher's milner_test.go state-space computation (§8 S5), with the
// transition relation expressed as a union of saturated DD-specific
// morphisms instead of one monolithic BDD relation (§4.6).
//
// The literal net named in §8 S5 was not part of the retrieved
// material, so this is a net of our own choosing with the same shape
// (7 places, 10 transitions): a directed 7-cycle through every place
// (0→1→2→3→4→5→6→0) plus three chords (0→3, 1→4, 2→5). A directed
// cycle through every place already makes the graph strongly
// connected, and the three chords are additional, otherwise
// unremarkable edges — so from any marking any other marking with the
// same total token count is reachable by walking one token along a
// directed path, one hop at a time. The reachable set for N tokens is
// therefore every way to distribute N indistinguishable tokens over 7
// places: C(N+6, 6) markings, by the standard stars-and-bars count.
var petriPlaces = 7

var petriEdges = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 0},
	{0, 3}, {1, 4}, {2, 5},
}

// petriTransition returns the morphism firing the single-token move
// from i to j: for every marking binding i to some v ≥ 1 and j to some
// w, it replaces that member with one binding i to v-1 and j to w+1,
// leaving every other place untouched (§4.5 Insert, composed with
// InclusiveFilter to select the markings the transition is enabled
// on). maxTokens bounds the enumeration since the total token count is
// conserved across every transition.
func petriTransition(f *MapFactory[int, int], maxTokens, i, j int) (Morphism[*MapNode[int, int]], error) {
	var branches []Morphism[*MapNode[int, int]]
	for v := 1; v <= maxTokens; v++ {
		for w := 0; w <= maxTokens-v; w++ {
			sel, err := f.InclusiveFilter([]Pair[int, int]{{i, v}, {j, w}})
			if err != nil {
				return nil, err
			}
			set, err := f.Insert([]Pair[int, int]{{i, v - 1}, {j, w + 1}})
			if err != nil {
				return nil, err
			}
			branches = append(branches, f.ComposeMorphisms(set, sel))
		}
	}
	return f.UnionMorphism(branches...), nil
}

// petriReachable computes the full reachability set from N tokens at
// place 0 and none elsewhere, by iterating a fixed point of the union
// of every saturated transition morphism with the identity — exactly
// the construction described in §8 S5.
func petriReachable(maxTokens int) (*MapFactory[int, int], *MapNode[int, int], error) {
	f := NewMapFactory[int, int]()

	initial := make([]Pair[int, int], petriPlaces)
	for p := 0; p < petriPlaces; p++ {
		v := 0
		if p == 0 {
			v = maxTokens
		}
		initial[p] = Pair[int, int]{p, v}
	}
	start := f.Encode([][]Pair[int, int]{initial})

	morphisms := []Morphism[*MapNode[int, int]]{f.IdentityMorphism()}
	for _, e := range petriEdges {
		t, err := petriTransition(f, maxTokens, e[0], e[1])
		if err != nil {
			return nil, nil, err
		}
		lowest := e[0]
		if e[1] < lowest {
			lowest = e[1]
		}
		morphisms = append(morphisms, f.Saturate(t, lowest))
	}
	step := f.UnionMorphism(morphisms...)
	fp := f.FixedPointMorphism(step)
	return f, fp.Apply(start), nil
}

// starsAndBars returns C(n+k-1, k-1), the number of ways to distribute
// n indistinguishable tokens over k places.
func starsAndBars(n, k int) *big.Int {
	// C(n+k-1, k-1) computed as a product of n+k-1 choose k-1.
	num := big.NewInt(1)
	den := big.NewInt(1)
	top := n + k - 1
	for i := 0; i < k-1; i++ {
		num.Mul(num, big.NewInt(int64(top-i)))
		den.Mul(den, big.NewInt(int64(i+1)))
	}
	return num.Div(num, den)
}

func TestPetriNetReachability(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		f, reached, err := petriReachable(n)
		if err != nil {
			t.Fatalf("petriReachable(%d): %v", n, err)
		}
		want := starsAndBars(n, petriPlaces)
		got := f.Count(reached)
		if got.Cmp(want) != 0 {
			t.Errorf("petriReachable(%d): got %s reachable markings, want %s", n, got, want)
		}
	}
}

func TestPetriNetReachabilityIsSaturationInvariant(t *testing.T) {
	// §8 property 10: saturating the transition morphisms must not
	// change the reachable set, only the work needed to compute it.
	// Re-derive it once more without Saturate and check the two agree.
	const n = 2
	f := NewMapFactory[int, int]()
	initial := make([]Pair[int, int], petriPlaces)
	for p := 0; p < petriPlaces; p++ {
		v := 0
		if p == 0 {
			v = n
		}
		initial[p] = Pair[int, int]{p, v}
	}
	start := f.Encode([][]Pair[int, int]{initial})

	morphisms := []Morphism[*MapNode[int, int]]{f.IdentityMorphism()}
	for _, e := range petriEdges {
		tr, err := petriTransition(f, n, e[0], e[1])
		if err != nil {
			t.Fatalf("petriTransition: %v", err)
		}
		morphisms = append(morphisms, tr)
	}
	unsaturated := f.FixedPointMorphism(f.UnionMorphism(morphisms...)).Apply(start)

	// Saturate the same transitions the way petriReachable does, in the
	// same factory, so that the two handles can be compared.
	saturatedMorphisms := []Morphism[*MapNode[int, int]]{f.IdentityMorphism()}
	for i, e := range petriEdges {
		saturatedMorphisms = append(saturatedMorphisms, f.Saturate(morphisms[i+1], min(e[0], e[1])))
	}
	saturated := f.FixedPointMorphism(f.UnionMorphism(saturatedMorphisms...)).Apply(start)
	if unsaturated != saturated {
		t.Errorf("saturated and unsaturated reachability sets differ")
	}
}
