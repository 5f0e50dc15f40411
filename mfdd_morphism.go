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

// mapCofactorKey memoizes the generalized cofactor of a node with
// respect to a key that may sit below the node's own key.
type mapCofactorKey[K cmp.Ordered, V comparable] struct {
	n *MapNode[K, V]
	k K
}

type mapCofactorPair[K cmp.Ordered, V comparable] struct {
	takeMap []mapEntry[K, V]
	skip    *MapNode[K, V]
}

// cofactor computes, with respect to k, the value→child bindings of
// members that bind k (takeMap) and the sub-family of members that
// never bind k (skip), each re-expressed over the remaining keys. It
// descends through any keys smaller than k that n tests first, so
// those smaller keys stay in the results, above any key greater than
// k (§4.5).
func (f *MapFactory[K, V]) cofactor(n *MapNode[K, V], k K, memo map[mapCofactorKey[K, V]]mapCofactorPair[K, V]) ([]mapEntry[K, V], *MapNode[K, V]) {
	if n.kind != notTerminal {
		return nil, n
	}
	if n.key == k {
		return n.takeMap, n.skip
	}
	if n.key > k {
		return nil, n
	}
	ck := mapCofactorKey[K, V]{n, k}
	if p, ok := memo[ck]; ok {
		return p.takeMap, p.skip
	}

	skipTakeMap, skipSkip := f.cofactor(n.skip, k, memo)

	wTake := make(map[V][]mapEntry[K, V])
	skipAtKEntries := make([]mapEntry[K, V], 0, len(n.takeMap))
	for _, e := range n.takeMap {
		ct, cs := f.cofactor(e.child, k, memo)
		for _, ce := range ct {
			wTake[ce.value] = append(wTake[ce.value], mapEntry[K, V]{e.value, ce.child})
		}
		skipAtKEntries = append(skipAtKEntries, mapEntry[K, V]{e.value, cs})
	}

	takeMapAtK := make([]mapEntry[K, V], 0, len(wTake)+len(skipTakeMap))
	for w, entries := range wTake {
		skipChild := f.zero
		for _, se := range skipTakeMap {
			if se.value == w {
				skipChild = se.child
				break
			}
		}
		takeMapAtK = append(takeMapAtK, mapEntry[K, V]{w, f.node(n.key, entries, skipChild)})
	}
	for _, se := range skipTakeMap {
		if _, ok := wTake[se.value]; !ok {
			takeMapAtK = append(takeMapAtK, mapEntry[K, V]{se.value, f.node(n.key, nil, se.child)})
		}
	}

	skipAtK := f.node(n.key, skipAtKEntries, skipSkip)

	memo[ck] = mapCofactorPair[K, V]{takeMapAtK, skipAtK}
	return takeMapAtK, skipAtK
}

type mapKeyStepMemoKey[K cmp.Ordered, V comparable] struct {
	n   *MapNode[K, V]
	idx int
}

func normalizeAssignments[K cmp.Ordered, V any](assignments []Pair[K, V]) ([]Pair[K, V], error) {
	ps := slices.Clone(assignments)
	slices.SortFunc(ps, func(a, b Pair[K, V]) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	for i := 1; i < len(ps); i++ {
		if ps[i].Key == ps[i-1].Key {
			return nil, wrapf(ErrDuplicateKey, "key %v", ps[i].Key)
		}
	}
	return ps, nil
}

// Insert returns the morphism that inserts every one of assignments
// into each member of a family (§4.5). For the forced key/value pair
// p, each sub-family of members sharing the same bindings below p.Key
// is handled on its own. If some of its members bind p.Key to
// p.Value, those members and the members never mentioning p.Key are
// folded together under p.Value, and the members binding p.Key to
// some other value are left exactly as they are. If none of its
// members binds p.Key to p.Value, all of its members are bound to
// p.Value, replacing whatever value they bound p.Key to.
// assignments must be non-empty and name each key at most once.
func (f *MapFactory[K, V]) Insert(assignments []Pair[K, V]) (Morphism[*MapNode[K, V]], error) {
	ps, err := normalizeAssignments(assignments)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, wrapf(ErrEmptyKeys, "Insert")
	}
	imemo := make(map[mapKeyStepMemoKey[K, V]]*MapNode[K, V])
	cmemo := make(map[mapCofactorKey[K, V]]mapCofactorPair[K, V])
	var rec func(n *MapNode[K, V], idx int) *MapNode[K, V]
	rec = func(n *MapNode[K, V], idx int) *MapNode[K, V] {
		if idx == len(ps) {
			return n
		}
		if n == f.zero {
			return f.zero
		}
		mk := mapKeyStepMemoKey[K, V]{n, idx}
		if r, ok := imemo[mk]; ok {
			return r
		}
		p := ps[idx]
		if n.kind == notTerminal && n.key < p.Key {
			entries := make([]mapEntry[K, V], len(n.takeMap))
			for i, e := range n.takeMap {
				entries[i] = mapEntry[K, V]{e.value, rec(e.child, idx)}
			}
			res := f.node(n.key, entries, rec(n.skip, idx))
			imemo[mk] = res
			return res
		}
		take, skip := f.cofactor(n, p.Key, cmemo)

		var v0Child *MapNode[K, V]
		hasV0 := false
		others := make([]mapEntry[K, V], 0, len(take))
		for _, e := range take {
			if e.value == p.Value {
				hasV0 = true
				v0Child = e.child
			} else {
				others = append(others, e)
			}
		}

		var mergedV0 *MapNode[K, V]
		if hasV0 {
			mergedV0 = f.Union(v0Child, skip)
		} else {
			mergedV0 = skip
			for _, e := range others {
				mergedV0 = f.Union(mergedV0, e.child)
			}
			others = nil
		}

		subV0 := rec(mergedV0, idx+1)
		entries := append([]mapEntry[K, V]{{p.Value, subV0}}, others...)
		res := f.node(p.Key, entries, f.zero)
		imemo[mk] = res
		return res
	}
	label := fmt.Sprintf("insert:%v", ps)
	return f.morphisms.intern(label, func(n *MapNode[K, V]) *MapNode[K, V] { return rec(n, 0) }), nil
}

// RemoveKeys returns the morphism that drops every one of keys,
// regardless of its bound value, from each member of a family (§4.5).
// keys must be non-empty.
func (f *MapFactory[K, V]) RemoveKeys(keys []K) (Morphism[*MapNode[K, V]], error) {
	ks := normalizeKeys(keys)
	if len(ks) == 0 {
		return nil, wrapf(ErrEmptyKeys, "RemoveKeys")
	}
	memo := make(map[mapKeyStepMemoKey[K, V]]*MapNode[K, V])
	cmemo := make(map[mapCofactorKey[K, V]]mapCofactorPair[K, V])
	var rec func(n *MapNode[K, V], idx int) *MapNode[K, V]
	rec = func(n *MapNode[K, V], idx int) *MapNode[K, V] {
		if idx == len(ks) || n == f.zero || n == f.one {
			return n
		}
		mk := mapKeyStepMemoKey[K, V]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		take, skip := f.cofactor(n, ks[idx], cmemo)
		merged := skip
		for _, e := range take {
			merged = f.Union(merged, e.child)
		}
		res := rec(merged, idx+1)
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("removekeys:%v", ks)
	return f.morphisms.intern(label, func(n *MapNode[K, V]) *MapNode[K, V] { return rec(n, 0) }), nil
}

// RemoveValuesForKeys returns the morphism that drops, for each
// member binding a key in assignments to the matching value, that
// single binding, leaving members bound to a different value for the
// same key untouched. assignments must be non-empty and name each key
// at most once.
func (f *MapFactory[K, V]) RemoveValuesForKeys(assignments []Pair[K, V]) (Morphism[*MapNode[K, V]], error) {
	ps, err := normalizeAssignments(assignments)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, wrapf(ErrEmptyKeys, "RemoveValuesForKeys")
	}
	memo := make(map[mapKeyStepMemoKey[K, V]]*MapNode[K, V])
	cmemo := make(map[mapCofactorKey[K, V]]mapCofactorPair[K, V])
	var rec func(n *MapNode[K, V], idx int) *MapNode[K, V]
	rec = func(n *MapNode[K, V], idx int) *MapNode[K, V] {
		if idx == len(ps) || n == f.zero || n == f.one {
			return n
		}
		mk := mapKeyStepMemoKey[K, V]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		p := ps[idx]
		if n.kind == notTerminal && n.key < p.Key {
			entries := make([]mapEntry[K, V], len(n.takeMap))
			for i, e := range n.takeMap {
				entries[i] = mapEntry[K, V]{e.value, rec(e.child, idx)}
			}
			res := f.node(n.key, entries, rec(n.skip, idx))
			memo[mk] = res
			return res
		}
		take, skip := f.cofactor(n, p.Key, cmemo)
		var matched *MapNode[K, V]
		rest := make([]mapEntry[K, V], 0, len(take))
		for _, e := range take {
			if e.value == p.Value {
				matched = e.child
			} else {
				rest = append(rest, e)
			}
		}
		if matched == nil {
			matched = f.zero
		}
		merged := f.Union(matched, skip)
		sub := rec(merged, idx+1)
		res := f.node(p.Key, rest, sub)
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("removevalues:%v", ps)
	return f.morphisms.intern(label, func(n *MapNode[K, V]) *MapNode[K, V] { return rec(n, 0) }), nil
}

// InclusiveFilter returns the morphism that keeps only the members
// binding every key in assignments to its matching value. assignments
// must be non-empty and name each key at most once.
func (f *MapFactory[K, V]) InclusiveFilter(assignments []Pair[K, V]) (Morphism[*MapNode[K, V]], error) {
	ps, err := normalizeAssignments(assignments)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, wrapf(ErrEmptyKeys, "InclusiveFilter")
	}
	memo := make(map[mapKeyStepMemoKey[K, V]]*MapNode[K, V])
	cmemo := make(map[mapCofactorKey[K, V]]mapCofactorPair[K, V])
	var rec func(n *MapNode[K, V], idx int) *MapNode[K, V]
	rec = func(n *MapNode[K, V], idx int) *MapNode[K, V] {
		if idx == len(ps) {
			return n
		}
		if n == f.zero {
			return f.zero
		}
		mk := mapKeyStepMemoKey[K, V]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		p := ps[idx]
		if n.kind == notTerminal && n.key < p.Key {
			entries := make([]mapEntry[K, V], len(n.takeMap))
			for i, e := range n.takeMap {
				entries[i] = mapEntry[K, V]{e.value, rec(e.child, idx)}
			}
			res := f.node(n.key, entries, rec(n.skip, idx))
			memo[mk] = res
			return res
		}
		take, _ := f.cofactor(n, p.Key, cmemo)
		child := f.zero
		for _, e := range take {
			if e.value == p.Value {
				child = e.child
				break
			}
		}
		res := f.node(p.Key, []mapEntry[K, V]{{p.Value, rec(child, idx+1)}}, f.zero)
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("include:%v", ps)
	return f.morphisms.intern(label, func(n *MapNode[K, V]) *MapNode[K, V] { return rec(n, 0) }), nil
}

// ExclusiveFilter returns the morphism that keeps only the members
// binding no key in assignments to its matching value (a member
// binding the key to a different value is kept). assignments must be
// non-empty and name each key at most once.
func (f *MapFactory[K, V]) ExclusiveFilter(assignments []Pair[K, V]) (Morphism[*MapNode[K, V]], error) {
	ps, err := normalizeAssignments(assignments)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, wrapf(ErrEmptyKeys, "ExclusiveFilter")
	}
	memo := make(map[mapKeyStepMemoKey[K, V]]*MapNode[K, V])
	cmemo := make(map[mapCofactorKey[K, V]]mapCofactorPair[K, V])
	var rec func(n *MapNode[K, V], idx int) *MapNode[K, V]
	rec = func(n *MapNode[K, V], idx int) *MapNode[K, V] {
		if idx == len(ps) {
			return n
		}
		if n == f.zero {
			return f.zero
		}
		mk := mapKeyStepMemoKey[K, V]{n, idx}
		if r, ok := memo[mk]; ok {
			return r
		}
		p := ps[idx]
		if n.kind == notTerminal && n.key < p.Key {
			entries := make([]mapEntry[K, V], len(n.takeMap))
			for i, e := range n.takeMap {
				entries[i] = mapEntry[K, V]{e.value, rec(e.child, idx)}
			}
			res := f.node(n.key, entries, rec(n.skip, idx))
			memo[mk] = res
			return res
		}
		take, skip := f.cofactor(n, p.Key, cmemo)
		kept := make([]mapEntry[K, V], 0, len(take))
		for _, e := range take {
			if e.value != p.Value {
				kept = append(kept, mapEntry[K, V]{e.value, rec(e.child, idx+1)})
			}
		}
		res := f.node(p.Key, kept, rec(skip, idx+1))
		memo[mk] = res
		return res
	}
	label := fmt.Sprintf("exclude:%v", ps)
	return f.morphisms.intern(label, func(n *MapNode[K, V]) *MapNode[K, V] { return rec(n, 0) }), nil
}

// MapValues returns the morphism that replaces every value bound at
// every key of every member with fn(v). Implemented by enumeration
// and re-encoding since fn need not preserve any ordering among
// values.
func (f *MapFactory[K, V]) MapValues(fn func(V) V) Morphism[*MapNode[K, V]] {
	label := fmt.Sprintf("mapvalues:%x", reflect.ValueOf(fn).Pointer())
	return f.morphisms.intern(label, func(n *MapNode[K, V]) *MapNode[K, V] {
		if n == f.zero {
			return f.zero
		}
		family := f.Members(n)
		mapped := make([][]Pair[K, V], len(family))
		for i, m := range family {
			mm := make([]Pair[K, V], len(m))
			for j, p := range m {
				mm[j] = Pair[K, V]{p.Key, fn(p.Value)}
			}
			mapped[i] = mm
		}
		return f.Encode(mapped)
	})
}

// ValueChild is one take_map entry exposed to an Inductive step: the
// value bound at the node's key, and the (already recursed) child it
// leads to.
type ValueChild[K cmp.Ordered, V comparable] struct {
	Value V
	Child *MapNode[K, V]
}

// Inductive builds a morphism by structural recursion (§7): each
// terminal is taken verbatim, and each internal node is rebuilt by
// first recursing into every take_map child and the skip child, then
// calling step to combine the rebuilt take_map and skip.
func (f *MapFactory[K, V]) Inductive(step func(key K, takeMap []ValueChild[K, V], skip *MapNode[K, V]) *MapNode[K, V]) Morphism[*MapNode[K, V]] {
	memo := make(map[*MapNode[K, V]]*MapNode[K, V])
	var rec func(n *MapNode[K, V]) *MapNode[K, V]
	rec = func(n *MapNode[K, V]) *MapNode[K, V] {
		if n.kind != notTerminal {
			return n
		}
		if r, ok := memo[n]; ok {
			return r
		}
		rebuilt := make([]ValueChild[K, V], len(n.takeMap))
		for i, e := range n.takeMap {
			rebuilt[i] = ValueChild[K, V]{Value: e.value, Child: rec(e.child)}
		}
		res := step(n.key, rebuilt, rec(n.skip))
		memo[n] = res
		return res
	}
	label := fmt.Sprintf("inductive:%x", reflect.ValueOf(step).Pointer())
	return f.morphisms.intern(label, rec)
}

// Saturate wraps m so that application does not run m on any node
// whose key is below lowest: those levels are rebuilt from the
// recursive results on their children, and m only runs once a node
// at or past lowest (or a terminal) is reached (§4.6).
func (f *MapFactory[K, V]) Saturate(m Morphism[*MapNode[K, V]], lowest K) Morphism[*MapNode[K, V]] {
	memo := make(map[*MapNode[K, V]]*MapNode[K, V])
	var rec func(n *MapNode[K, V]) *MapNode[K, V]
	rec = func(n *MapNode[K, V]) *MapNode[K, V] {
		if n.kind != notTerminal || !(n.key < lowest) {
			return m.Apply(n)
		}
		if r, ok := memo[n]; ok {
			return r
		}
		entries := make([]mapEntry[K, V], len(n.takeMap))
		for i, e := range n.takeMap {
			entries[i] = mapEntry[K, V]{e.value, rec(e.child)}
		}
		res := f.node(n.key, entries, rec(n.skip))
		memo[n] = res
		return res
	}
	label := fmt.Sprintf("saturate:%v:%s", lowest, m.tag())
	return f.morphisms.intern(label, rec)
}

// IdentityMorphism returns the morphism mapping every handle to
// itself.
func (f *MapFactory[K, V]) IdentityMorphism() Morphism[*MapNode[K, V]] { return f.morphisms.Identity() }

// ConstantMorphism returns the morphism mapping every handle to c.
func (f *MapFactory[K, V]) ConstantMorphism(c *MapNode[K, V]) Morphism[*MapNode[K, V]] {
	return f.morphisms.Constant(c)
}

// UnionMorphism returns the morphism n ↦ ⋃ᵢ mᵢ(n).
func (f *MapFactory[K, V]) UnionMorphism(ms ...Morphism[*MapNode[K, V]]) Morphism[*MapNode[K, V]] {
	return f.morphisms.Union(ms...)
}

// IntersectionMorphism returns the morphism n ↦ ⋂ᵢ mᵢ(n).
func (f *MapFactory[K, V]) IntersectionMorphism(ms ...Morphism[*MapNode[K, V]]) Morphism[*MapNode[K, V]] {
	return f.morphisms.Intersection(ms...)
}

// SymmetricDifferenceMorphism returns the morphism n ↦ m0(n) △ m1(n) △ ….
func (f *MapFactory[K, V]) SymmetricDifferenceMorphism(ms ...Morphism[*MapNode[K, V]]) Morphism[*MapNode[K, V]] {
	return f.morphisms.SymmetricDifference(ms...)
}

// SubtractionMorphism returns the morphism n ↦ a(n) ∖ b(n).
func (f *MapFactory[K, V]) SubtractionMorphism(a, b Morphism[*MapNode[K, V]]) Morphism[*MapNode[K, V]] {
	return f.morphisms.Subtraction(a, b)
}

// ComposeMorphisms returns m0 ∘ m1 ∘ … applied right to left.
func (f *MapFactory[K, V]) ComposeMorphisms(ms ...Morphism[*MapNode[K, V]]) Morphism[*MapNode[K, V]] {
	return f.morphisms.Composition(ms...)
}

// FixedPointMorphism returns the morphism that repeatedly applies m
// until its result stops changing.
func (f *MapFactory[K, V]) FixedPointMorphism(m Morphism[*MapNode[K, V]]) Morphism[*MapNode[K, V]] {
	return f.morphisms.FixedPoint(m)
}

// Apply runs m on n.
func (f *MapFactory[K, V]) Apply(m Morphism[*MapNode[K, V]], n *MapNode[K, V]) *MapNode[K, V] {
	return m.Apply(n)
}
