// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"fmt"
	"strings"
)

// Algebra abstracts the family operations a generic morphism
// combinator needs. Factory and MapFactory both already expose
// matching methods, so they satisfy Algebra[*Node[K]] and
// Algebra[*MapNode[K, V]] without any extra glue: the same combinator
// code in this file drives both families (§7).
type Algebra[N comparable] interface {
	Zero() N
	One() N
	Union(a, b N) N
	Intersection(a, b N) N
	SymmetricDifference(a, b N) N
	Subtracting(a, b N) N
}

// Morphism is a structure-preserving transformation from one family
// handle to another (§7). Implementations are produced by a
// MorphismFactory so that applying the same logical morphism twice to
// the same node reuses the cached result instead of recomputing it.
type Morphism[N comparable] interface {
	// Apply transforms n into the handle of the resulting family.
	Apply(n N) N

	tag() string
}

// MorphismFactory builds and interns morphisms over node handles N,
// memoizing Apply results by (morphism identity, input handle) the
// same way Factory memoizes its binary operations.
type MorphismFactory[N comparable] struct {
	alg   Algebra[N]
	cache map[applyKey[N]]N
}

type applyKey[N comparable] struct {
	tag string
	in  N
}

func newMorphismFactory[N comparable](alg Algebra[N]) *MorphismFactory[N] {
	return &MorphismFactory[N]{alg: alg, cache: make(map[applyKey[N]]N)}
}

// morphismFunc is the concrete Morphism implementation used by every
// combinator in this file: a label identifying the morphism
// structurally, and the function computing Apply the first time a
// given input is seen.
type morphismFunc[N comparable] struct {
	mf    *MorphismFactory[N]
	label string
	fn    func(n N) N
}

func (m *morphismFunc[N]) Apply(n N) N {
	key := applyKey[N]{m.label, n}
	if r, ok := m.mf.cache[key]; ok {
		return r
	}
	r := m.fn(n)
	m.mf.cache[key] = r
	return r
}

func (m *morphismFunc[N]) tag() string { return m.label }

// intern wraps fn as a memoizing Morphism identified by label. Two
// calls with the same label share the same memoization entries even
// if fn is a freshly allocated closure each time.
func (f *MorphismFactory[N]) intern(label string, fn func(n N) N) Morphism[N] {
	return &morphismFunc[N]{mf: f, label: label, fn: fn}
}

// Identity returns the morphism mapping every handle to itself.
func (f *MorphismFactory[N]) Identity() Morphism[N] {
	return f.intern("identity", func(n N) N { return n })
}

// Constant returns the morphism mapping every handle to c, ignoring
// its input.
func (f *MorphismFactory[N]) Constant(c N) Morphism[N] {
	return f.intern(fmt.Sprintf("constant:%v", c), func(n N) N { return c })
}

func tagsOf[N comparable](ms []Morphism[N]) []string {
	labels := make([]string, len(ms))
	for i, m := range ms {
		labels[i] = m.tag()
	}
	return labels
}

// Union returns the morphism n ↦ ⋃ᵢ mᵢ(n).
func (f *MorphismFactory[N]) Union(ms ...Morphism[N]) Morphism[N] {
	label := "union:" + strings.Join(tagsOf(ms), "+")
	return f.intern(label, func(n N) N {
		res := f.alg.Zero()
		for _, m := range ms {
			res = f.alg.Union(res, m.Apply(n))
		}
		return res
	})
}

// Intersection returns the morphism n ↦ ⋂ᵢ mᵢ(n). It requires at
// least one operand since the empty intersection has no closed form
// in this algebra.
func (f *MorphismFactory[N]) Intersection(ms ...Morphism[N]) Morphism[N] {
	if len(ms) == 0 {
		panic("ddkit: Intersection requires at least one morphism")
	}
	label := "intersection:" + strings.Join(tagsOf(ms), "+")
	return f.intern(label, func(n N) N {
		res := ms[0].Apply(n)
		for _, m := range ms[1:] {
			res = f.alg.Intersection(res, m.Apply(n))
		}
		return res
	})
}

// SymmetricDifference returns the morphism n ↦ m0(n) △ m1(n) △ ….
func (f *MorphismFactory[N]) SymmetricDifference(ms ...Morphism[N]) Morphism[N] {
	if len(ms) == 0 {
		panic("ddkit: SymmetricDifference requires at least one morphism")
	}
	label := "symdiff:" + strings.Join(tagsOf(ms), "+")
	return f.intern(label, func(n N) N {
		res := ms[0].Apply(n)
		for _, m := range ms[1:] {
			res = f.alg.SymmetricDifference(res, m.Apply(n))
		}
		return res
	})
}

// Subtraction returns the morphism n ↦ a(n) ∖ b(n).
func (f *MorphismFactory[N]) Subtraction(a, b Morphism[N]) Morphism[N] {
	label := fmt.Sprintf("subtract:%s-%s", a.tag(), b.tag())
	return f.intern(label, func(n N) N {
		return f.alg.Subtracting(a.Apply(n), b.Apply(n))
	})
}

// Composition returns the morphism m0 ∘ m1 ∘ … ∘ m(n-1), applied
// right to left: the last operand runs first. Composition of zero
// morphisms is Identity.
func (f *MorphismFactory[N]) Composition(ms ...Morphism[N]) Morphism[N] {
	if len(ms) == 0 {
		return f.Identity()
	}
	label := "compose:" + strings.Join(tagsOf(ms), "∘")
	return f.intern(label, func(n N) N {
		for i := len(ms) - 1; i >= 0; i-- {
			n = ms[i].Apply(n)
		}
		return n
	})
}

// FixedPoint returns the morphism that repeatedly applies m until the
// result stops changing. Termination depends on m converging; callers
// driving a saturation loop over a finite family are expected to
// converge in at most as many steps as there are distinct reachable
// handles.
func (f *MorphismFactory[N]) FixedPoint(m Morphism[N]) Morphism[N] {
	label := "fixpoint:" + m.tag()
	return f.intern(label, func(n N) N {
		for {
			next := m.Apply(n)
			if next == n {
				return n
			}
			n = next
		}
	})
}
