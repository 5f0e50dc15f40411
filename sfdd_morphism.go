// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// keyStepMemoKey memoizes a key-list-driven recursion (Insert, Remove,
// InclusiveFilter, ExclusiveFilter) by the node reached and the index
// of the next key still to process; idx fully determines the
// remaining suffix of a fixed, closed-over key list, so this is safe
// to share across every path that reaches the same (node, idx) pair.
type keyStepMemoKey[K cmp.Ordered] struct {
	n   *Node[K]
	idx int
}

func normalizeKeys[K cmp.Ordered](keys []K) []K {
	ks := slices.Clone(keys)
	slices.Sort(ks)
	return slices.Compact(ks)
}

// Insert returns the morphism that adds every one of keys to each
// member of a family (§4.5). Members that already contain some of
// keys are left with a single occurrence, as usual for a set. keys
// must be non-empty. The recursion descends past any of n's own keys
// smaller than the one currently being forced, so that forcing always
// happens at the correct position in key order instead of merely
// stacking new nodes on top.
func (f *Factory[K]) Insert(keys []K) (Morphism[*Node[K]], error) {
	ks := normalizeKeys(keys)
	if len(ks) == 0 {
		return nil, wrapf(ErrEmptyKeys, "Insert")
	}
	memo := make(map[keyStepMemoKey[K]]*Node[K])
	var rec func(n *Node[K], idx int) *Node[K]
	rec = func(n *Node[K], idx int) *Node[K] {
		if idx == len(ks) {
			return n
		}
		if n == f.zero {
			return f.zero
		}
		mk := keyStepMemoKey[K]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		k := ks[idx]
		var res *Node[K]
		switch {
		case n.kind == notTerminal && n.key < k:
			res = f.node(n.key, rec(n.take, idx), rec(n.skip, idx))
		case n.kind == notTerminal && n.key == k:
			merged := f.Union(n.take, n.skip)
			res = f.node(k, rec(merged, idx+1), f.zero)
		default: // terminal, or n.key > k: k is the smallest undecided key
			res = f.node(k, rec(n, idx+1), f.zero)
		}
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("insert:%v", ks)
	return f.morphisms.intern(label, func(n *Node[K]) *Node[K] { return rec(n, 0) }), nil
}

// Remove returns the morphism that drops every one of keys from each
// member of a family (§4.5). keys must be non-empty.
func (f *Factory[K]) Remove(keys []K) (Morphism[*Node[K]], error) {
	ks := normalizeKeys(keys)
	if len(ks) == 0 {
		return nil, wrapf(ErrEmptyKeys, "Remove")
	}
	memo := make(map[keyStepMemoKey[K]]*Node[K])
	var rec func(n *Node[K], idx int) *Node[K]
	rec = func(n *Node[K], idx int) *Node[K] {
		if idx == len(ks) || n.kind != notTerminal {
			return n
		}
		mk := keyStepMemoKey[K]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		k := ks[idx]
		var res *Node[K]
		switch {
		case n.key < k:
			res = f.node(n.key, rec(n.take, idx), rec(n.skip, idx))
		case n.key > k:
			res = rec(n, idx+1)
		default: // n.key == k: drop this decision entirely
			merged := f.Union(n.take, n.skip)
			res = rec(merged, idx+1)
		}
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("remove:%v", ks)
	return f.morphisms.intern(label, func(n *Node[K]) *Node[K] { return rec(n, 0) }), nil
}

// InclusiveFilter returns the morphism that keeps only the members
// containing every one of keys (§4.5). keys must be non-empty.
func (f *Factory[K]) InclusiveFilter(keys []K) (Morphism[*Node[K]], error) {
	ks := normalizeKeys(keys)
	if len(ks) == 0 {
		return nil, wrapf(ErrEmptyKeys, "InclusiveFilter")
	}
	memo := make(map[keyStepMemoKey[K]]*Node[K])
	var rec func(n *Node[K], idx int) *Node[K]
	rec = func(n *Node[K], idx int) *Node[K] {
		if idx == len(ks) {
			return n
		}
		if n == f.zero {
			return f.zero
		}
		mk := keyStepMemoKey[K]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		k := ks[idx]
		var res *Node[K]
		switch {
		case n.kind == notTerminal && n.key < k:
			res = f.node(n.key, rec(n.take, idx), rec(n.skip, idx))
		case n.kind == notTerminal && n.key == k:
			res = f.node(k, rec(n.take, idx+1), f.zero)
		default: // terminal, or n.key > k: k can never be bound here
			res = f.zero
		}
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("include:%v", ks)
	return f.morphisms.intern(label, func(n *Node[K]) *Node[K] { return rec(n, 0) }), nil
}

// ExclusiveFilter returns the morphism that keeps only the members
// containing none of keys (§4.5). keys must be non-empty.
func (f *Factory[K]) ExclusiveFilter(keys []K) (Morphism[*Node[K]], error) {
	ks := normalizeKeys(keys)
	if len(ks) == 0 {
		return nil, wrapf(ErrEmptyKeys, "ExclusiveFilter")
	}
	memo := make(map[keyStepMemoKey[K]]*Node[K])
	var rec func(n *Node[K], idx int) *Node[K]
	rec = func(n *Node[K], idx int) *Node[K] {
		if idx == len(ks) {
			return n
		}
		if n == f.zero {
			return f.zero
		}
		mk := keyStepMemoKey[K]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		k := ks[idx]
		var res *Node[K]
		switch {
		case n.kind == notTerminal && n.key < k:
			res = f.node(n.key, rec(n.take, idx), rec(n.skip, idx))
		case n.kind == notTerminal && n.key == k:
			res = rec(n.skip, idx+1)
		default: // terminal, or n.key > k: nothing to exclude at this level
			res = rec(n, idx+1)
		}
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("exclude:%v", ks)
	return f.morphisms.intern(label, func(n *Node[K]) *Node[K] { return rec(n, 0) }), nil
}

// Map returns the morphism that replaces every key k of every member
// with fn(k). Because fn need not be order-preserving, Map is
// implemented by enumeration and re-encoding rather than structural
// recursion; prefer Insert/Remove for large families.
func (f *Factory[K]) Map(fn func(K) K) Morphism[*Node[K]] {
	label := fmt.Sprintf("map:%x", reflect.ValueOf(fn).Pointer())
	return f.morphisms.intern(label, func(n *Node[K]) *Node[K] {
		if n == f.zero {
			return f.zero
		}
		family := f.Members(n)
		mapped := make([][]K, len(family))
		for i, m := range family {
			mm := make([]K, len(m))
			for j, k := range m {
				mm[j] = fn(k)
			}
			mapped[i] = mm
		}
		return f.Encode(mapped)
	})
}

// Inductive builds a morphism by structural recursion (§7): each
// terminal is taken verbatim, and each internal node (key, take, skip)
// is rebuilt by first recursing into take and skip and then calling
// step to combine the three. Insert, Remove and the two Filter
// morphisms are all special cases of this pattern specialized for
// speed; Inductive is the escape hatch for anything else.
func (f *Factory[K]) Inductive(step func(key K, take, skip *Node[K]) *Node[K]) Morphism[*Node[K]] {
	memo := make(map[*Node[K]]*Node[K])
	var rec func(n *Node[K]) *Node[K]
	rec = func(n *Node[K]) *Node[K] {
		if n.kind != notTerminal {
			return n
		}
		if r, ok := memo[n]; ok {
			return r
		}
		res := step(n.key, rec(n.take), rec(n.skip))
		memo[n] = res
		return res
	}
	label := fmt.Sprintf("inductive:%x", reflect.ValueOf(step).Pointer())
	return f.morphisms.intern(label, rec)
}

// Saturate wraps m so that application does not run m on any node
// whose key is below lowest: those levels are rebuilt directly from
// the recursive results on their children, and m only runs once a
// node at or past lowest (or a terminal) is reached. This is sound
// whenever m is the identity on every key below lowest, which is the
// case for every DD-specific morphism in this file when lowest is the
// smallest key it was constructed with (§4.6).
func (f *Factory[K]) Saturate(m Morphism[*Node[K]], lowest K) Morphism[*Node[K]] {
	memo := make(map[*Node[K]]*Node[K])
	var rec func(n *Node[K]) *Node[K]
	rec = func(n *Node[K]) *Node[K] {
		if n.kind != notTerminal || !(n.key < lowest) {
			return m.Apply(n)
		}
		if r, ok := memo[n]; ok {
			return r
		}
		res := f.node(n.key, rec(n.take), rec(n.skip))
		memo[n] = res
		return res
	}
	label := fmt.Sprintf("saturate:%v:%s", lowest, m.tag())
	return f.morphisms.intern(label, rec)
}

// IdentityMorphism returns the morphism mapping every handle to
// itself.
func (f *Factory[K]) IdentityMorphism() Morphism[*Node[K]] { return f.morphisms.Identity() }

// ConstantMorphism returns the morphism mapping every handle to c.
func (f *Factory[K]) ConstantMorphism(c *Node[K]) Morphism[*Node[K]] { return f.morphisms.Constant(c) }

// UnionMorphism returns the morphism n ↦ ⋃ᵢ mᵢ(n).
func (f *Factory[K]) UnionMorphism(ms ...Morphism[*Node[K]]) Morphism[*Node[K]] {
	return f.morphisms.Union(ms...)
}

// IntersectionMorphism returns the morphism n ↦ ⋂ᵢ mᵢ(n).
func (f *Factory[K]) IntersectionMorphism(ms ...Morphism[*Node[K]]) Morphism[*Node[K]] {
	return f.morphisms.Intersection(ms...)
}

// SymmetricDifferenceMorphism returns the morphism n ↦ m0(n) △ m1(n) △ ….
func (f *Factory[K]) SymmetricDifferenceMorphism(ms ...Morphism[*Node[K]]) Morphism[*Node[K]] {
	return f.morphisms.SymmetricDifference(ms...)
}

// SubtractionMorphism returns the morphism n ↦ a(n) ∖ b(n).
func (f *Factory[K]) SubtractionMorphism(a, b Morphism[*Node[K]]) Morphism[*Node[K]] {
	return f.morphisms.Subtraction(a, b)
}

// ComposeMorphisms returns m0 ∘ m1 ∘ … applied right to left.
func (f *Factory[K]) ComposeMorphisms(ms ...Morphism[*Node[K]]) Morphism[*Node[K]] {
	return f.morphisms.Composition(ms...)
}

// FixedPointMorphism returns the morphism that repeatedly applies m
// until its result stops changing.
func (f *Factory[K]) FixedPointMorphism(m Morphism[*Node[K]]) Morphism[*Node[K]] {
	return f.morphisms.FixedPoint(m)
}

// Apply runs m on n. It is provided so callers need not import the
// Morphism interface's method directly.
func (f *Factory[K]) Apply(m Morphism[*Node[K]], n *Node[K]) *Node[K] { return m.Apply(n) }
