// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

// sfddUniverse builds every SFDD we exercise the lattice laws against:
// three overlapping families over the same small key universe, the
// same way the teacher's operations_test.go fixes a handful of BDDs
// and checks every law against every pair.
func sfddUniverse(c *qt.C) (f *Factory[int], a, b, cc *Node[int]) {
	f = NewFactory[int]()
	a = f.Encode([][]int{{}, {1}, {1, 2}, {2, 3, 4}})
	b = f.Encode([][]int{{1, 2}, {3}, {2, 3, 4}, {5}})
	cc = f.Encode([][]int{{1}, {3}, {4, 5}})
	return f, a, b, cc
}

// TestSFDDUnionIsCommutativeAndAssociative checks §8 property 4 for
// union over every pair and triple drawn from sfddUniverse.
func TestSFDDUnionIsCommutativeAndAssociative(t *testing.T) {
	c := qt.New(t)
	f, a, b, cc := sfddUniverse(c)

	c.Assert(f.Union(a, b), qt.Equals, f.Union(b, a))
	c.Assert(f.Union(f.Union(a, b), cc), qt.Equals, f.Union(a, f.Union(b, cc)))
	c.Assert(f.Union(a, a), qt.Equals, a)
	c.Assert(f.Union(a, f.Zero()), qt.Equals, a)
}

// TestSFDDIntersectionIsCommutativeAndAssociative checks §8 property 4
// for intersection.
func TestSFDDIntersectionIsCommutativeAndAssociative(t *testing.T) {
	c := qt.New(t)
	f, a, b, cc := sfddUniverse(c)

	c.Assert(f.Intersection(a, b), qt.Equals, f.Intersection(b, a))
	c.Assert(f.Intersection(f.Intersection(a, b), cc), qt.Equals, f.Intersection(a, f.Intersection(b, cc)))
	c.Assert(f.Intersection(a, a), qt.Equals, a)

	// A ∩ one = one iff skip_most(A) = one (§8 property 4)
	hasEmptyMember := f.Contains(a, nil)
	if hasEmptyMember {
		c.Assert(f.Intersection(a, f.One()), qt.Equals, f.One())
	} else {
		c.Assert(f.Intersection(a, f.One()), qt.Not(qt.Equals), f.One())
	}
}

// TestSFDDUnionDistributesOverIntersection checks distributivity, the
// other half of §8 property 4.
func TestSFDDUnionDistributesOverIntersection(t *testing.T) {
	c := qt.New(t)
	f, a, b, cc := sfddUniverse(c)

	lhs := f.Union(a, f.Intersection(b, cc))
	rhs := f.Intersection(f.Union(a, b), f.Union(a, cc))
	c.Assert(lhs, qt.Equals, rhs)
}

// TestSFDDSymmetricDifferenceLaws checks §8 property 5.
func TestSFDDSymmetricDifferenceLaws(t *testing.T) {
	c := qt.New(t)
	f, a, b, _ := sfddUniverse(c)

	c.Assert(f.SymmetricDifference(a, a), qt.Equals, f.Zero())
	alt := f.Subtracting(f.Union(a, b), f.Intersection(a, b))
	c.Assert(f.SymmetricDifference(a, b), qt.Equals, alt)
}

// TestSFDDSubtractionLaws checks §8 property 6.
func TestSFDDSubtractionLaws(t *testing.T) {
	c := qt.New(t)
	f, a, b, _ := sfddUniverse(c)

	c.Assert(f.Subtracting(a, a), qt.Equals, f.Zero())
	c.Assert(f.Subtracting(a, f.Zero()), qt.Equals, a)
	c.Assert(f.IsStrictSubset(f.Subtracting(a, b), a), qt.IsTrue)
}

// TestSFDDCountIsInclusionExclusion checks §8 property 7.
func TestSFDDCountIsInclusionExclusion(t *testing.T) {
	c := qt.New(t)
	f, a, b, _ := sfddUniverse(c)

	lhs := f.Count(f.Union(a, b))
	rhs := new(big.Int).Add(f.Count(a), f.Count(b))
	rhs.Sub(rhs, f.Count(f.Intersection(a, b)))
	c.Assert(lhs.Cmp(rhs), qt.Equals, 0)
}

// TestSFDDContainsAgreesWithEnumerate checks §8 property 8.
func TestSFDDContainsAgreesWithEnumerate(t *testing.T) {
	c := qt.New(t)
	f, a, _, _ := sfddUniverse(c)

	members := f.Members(a)
	seen := make(map[string]bool)
	for _, m := range members {
		seen[sprintKeys(m)] = true
	}
	universe := [][]int{{}, {1}, {1, 2}, {2, 3, 4}, {3}, {5}, {1, 2, 3}}
	for _, m := range universe {
		got := f.Contains(a, m)
		want := seen[sprintKeys(m)]
		c.Assert(got, qt.Equals, want, qt.Commentf("member %v", m))
	}
}

// TestSFDDUnionMorphismAgreesWithAlgebra checks §8 property 11: the
// generic morphism combinators must compute the same thing as the
// corresponding algebra operation.
func TestSFDDUnionMorphismAgreesWithAlgebra(t *testing.T) {
	c := qt.New(t)
	f, a, b, _ := sfddUniverse(c)

	m := f.UnionMorphism(f.ConstantMorphism(b), f.IdentityMorphism())
	c.Assert(m.Apply(a), qt.Equals, f.Union(a, b))
}

// TestSaturationPreservesSemantics checks §8 property 10: saturating a
// DD-specific morphism must not change what it computes, only how fast
// it computes it.
func TestSaturationPreservesSemantics(t *testing.T) {
	c := qt.New(t)
	f, a, _, _ := sfddUniverse(c)

	ins, err := f.Insert([]int{6, 7})
	c.Assert(err, qt.IsNil)
	sat := f.Saturate(ins, 6)
	c.Assert(sat.Apply(a), qt.Equals, ins.Apply(a))
}

// TestFixedPointMorphismIsIdempotentAtConvergence checks §8 property 9.
func TestFixedPointMorphismIsIdempotentAtConvergence(t *testing.T) {
	c := qt.New(t)
	f, a, _, _ := sfddUniverse(c)

	ins, err := f.Insert([]int{9})
	c.Assert(err, qt.IsNil)
	fp := f.FixedPointMorphism(ins)
	once := fp.Apply(a)
	twice := ins.Apply(once)
	c.Assert(twice, qt.Equals, once)
}

// TestMFDDLatticeLaws mirrors the SFDD lattice checks over the map
// family, grounding §8 property 4 for MFDD as well.
func TestMFDDLatticeLaws(t *testing.T) {
	c := qt.New(t)
	f := NewMapFactory[int, string]()
	a := f.Encode([][]Pair[int, string]{{pr(1, "a")}, {pr(1, "b"), pr(2, "x")}})
	b := f.Encode([][]Pair[int, string]{{pr(1, "b"), pr(2, "x")}, {pr(2, "y")}})

	c.Assert(f.Union(a, b), qt.Equals, f.Union(b, a))
	c.Assert(f.Intersection(a, b), qt.Equals, f.Intersection(b, a))
	c.Assert(f.Union(a, a), qt.Equals, a)
	c.Assert(f.SymmetricDifference(a, a), qt.Equals, f.Zero())
	c.Assert(f.Subtracting(a, a), qt.Equals, f.Zero())
}

func sprintKeys(m []int) string {
	s := ""
	for _, k := range m {
		s += string(rune('a' + k))
	}
	return s
}
