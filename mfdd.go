// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"math/big"
	"slices"
)

// Encode builds the MFDD denoting the given family: a collection of
// members, each member a finite map given as a slice of Pair. A
// member with duplicate keys keeps the first binding found for each
// key; member order is irrelevant (§6).
func (f *MapFactory[K, V]) Encode(family [][]Pair[K, V]) *MapNode[K, V] {
	res := f.zero
	for _, member := range family {
		res = f.Union(res, f.encodeOne(member))
	}
	return res
}

func (f *MapFactory[K, V]) encodeOne(member []Pair[K, V]) *MapNode[K, V] {
	pairs := slices.Clone(member)
	slices.SortStableFunc(pairs, func(a, b Pair[K, V]) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	pairs = slices.CompactFunc(pairs, func(a, b Pair[K, V]) bool { return a.Key == b.Key })
	res := f.one
	for i := len(pairs) - 1; i >= 0; i-- {
		res = f.node(pairs[i].Key, []mapEntry[K, V]{{pairs[i].Value, res}}, f.zero)
	}
	return res
}

// IsEmpty reports whether n denotes the empty family.
func (f *MapFactory[K, V]) IsEmpty(n *MapNode[K, V]) bool { return n == f.zero }

// mergeUnion merges two take_map contents for Union: entries sharing
// a value recurse, entries present on only one side pass through
// unchanged (U(x, zero) = x).
func (f *MapFactory[K, V]) mergeUnion(a, b []mapEntry[K, V]) []mapEntry[K, V] {
	out := make([]mapEntry[K, V], 0, len(a)+len(b))
	matched := make([]bool, len(b))
	for _, ea := range a {
		found := false
		for j, eb := range b {
			if ea.value == eb.value {
				out = append(out, mapEntry[K, V]{ea.value, f.Union(ea.child, eb.child)})
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			out = append(out, ea)
		}
	}
	for j, eb := range b {
		if !matched[j] {
			out = append(out, eb)
		}
	}
	return out
}

// Union returns the MFDD denoting a ∪ b (§4.2).
func (f *MapFactory[K, V]) Union(a, b *MapNode[K, V]) *MapNode[K, V] {
	if a == f.zero {
		return b
	}
	if b == f.zero {
		return a
	}
	if a == b {
		return a
	}
	key := makeMapPairKey(a, b)
	if r, ok := f.unionCache[key]; ok {
		return r
	}
	var res *MapNode[K, V]
	switch {
	case a.IsOne():
		res = f.unionWithOne(b)
	case b.IsOne():
		res = f.unionWithOne(a)
	case a.key < b.key:
		res = f.node(a.key, a.takeMap, f.Union(a.skip, b))
	case b.key < a.key:
		res = f.node(b.key, b.takeMap, f.Union(a, b.skip))
	default:
		res = f.node(a.key, f.mergeUnion(a.takeMap, b.takeMap), f.Union(a.skip, b.skip))
	}
	f.unionCache[key] = res
	return res
}

func (f *MapFactory[K, V]) unionWithOne(x *MapNode[K, V]) *MapNode[K, V] {
	if x.kind != notTerminal {
		return f.one
	}
	return f.node(x.key, x.takeMap, f.Union(f.one, x.skip))
}

// mergeIntersection keeps only values common to both sides, recursing
// into the shared children.
func (f *MapFactory[K, V]) mergeIntersection(a, b []mapEntry[K, V]) []mapEntry[K, V] {
	out := make([]mapEntry[K, V], 0, min(len(a), len(b)))
	for _, ea := range a {
		for _, eb := range b {
			if ea.value == eb.value {
				out = append(out, mapEntry[K, V]{ea.value, f.Intersection(ea.child, eb.child)})
				break
			}
		}
	}
	return out
}

// Intersection returns the MFDD denoting a ∩ b (§4.2).
func (f *MapFactory[K, V]) Intersection(a, b *MapNode[K, V]) *MapNode[K, V] {
	if a == f.zero || b == f.zero {
		return f.zero
	}
	if a == b {
		return a
	}
	key := makeMapPairKey(a, b)
	if r, ok := f.interCache[key]; ok {
		return r
	}
	var res *MapNode[K, V]
	switch {
	case a.IsOne():
		res = f.mapFrom(skipMostMap(b) == f.one)
	case b.IsOne():
		res = f.mapFrom(skipMostMap(a) == f.one)
	case a.key < b.key:
		res = f.Intersection(a.skip, b)
	case b.key < a.key:
		res = f.Intersection(a, b.skip)
	default:
		res = f.node(a.key, f.mergeIntersection(a.takeMap, b.takeMap), f.Intersection(a.skip, b.skip))
	}
	f.interCache[key] = res
	return res
}

func (f *MapFactory[K, V]) mapFrom(v bool) *MapNode[K, V] {
	if v {
		return f.one
	}
	return f.zero
}

// mergeSymDiff merges shared values with symmetric difference and
// keeps values unique to either side unchanged (△(x, zero) = x).
func (f *MapFactory[K, V]) mergeSymDiff(a, b []mapEntry[K, V]) []mapEntry[K, V] {
	out := make([]mapEntry[K, V], 0, len(a)+len(b))
	matched := make([]bool, len(b))
	for _, ea := range a {
		found := false
		for j, eb := range b {
			if ea.value == eb.value {
				out = append(out, mapEntry[K, V]{ea.value, f.SymmetricDifference(ea.child, eb.child)})
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			out = append(out, ea)
		}
	}
	for j, eb := range b {
		if !matched[j] {
			out = append(out, eb)
		}
	}
	return out
}

// SymmetricDifference returns the MFDD denoting a △ b (§4.2).
func (f *MapFactory[K, V]) SymmetricDifference(a, b *MapNode[K, V]) *MapNode[K, V] {
	if a == b {
		return f.zero
	}
	if a == f.zero {
		return b
	}
	if b == f.zero {
		return a
	}
	key := makeMapPairKey(a, b)
	if r, ok := f.symdiffCache[key]; ok {
		return r
	}
	var res *MapNode[K, V]
	switch {
	case a.IsOne():
		res = f.node(b.key, b.takeMap, f.SymmetricDifference(f.one, b.skip))
	case b.IsOne():
		res = f.node(a.key, a.takeMap, f.SymmetricDifference(f.one, a.skip))
	case a.key < b.key:
		res = f.node(a.key, a.takeMap, f.SymmetricDifference(a.skip, b))
	case b.key < a.key:
		res = f.node(b.key, b.takeMap, f.SymmetricDifference(a, b.skip))
	default:
		res = f.node(a.key, f.mergeSymDiff(a.takeMap, b.takeMap), f.SymmetricDifference(a.skip, b.skip))
	}
	f.symdiffCache[key] = res
	return res
}

// mergeSubtract subtracts, for each value bound in a, the child bound
// to the same value in b, if any; values present only in b are
// dropped (there is nothing to subtract them from), and values
// present only in a pass through unchanged. This resolves the open
// question of how subtraction treats keys absent from the right
// operand in favor of leaving the left operand's bindings untouched.
func (f *MapFactory[K, V]) mergeSubtract(a, b []mapEntry[K, V]) []mapEntry[K, V] {
	out := make([]mapEntry[K, V], 0, len(a))
	for _, ea := range a {
		child := ea.child
		for _, eb := range b {
			if ea.value == eb.value {
				child = f.Subtracting(ea.child, eb.child)
				break
			}
		}
		out = append(out, mapEntry[K, V]{ea.value, child})
	}
	return out
}

// Subtracting returns the MFDD denoting a ∖ b (§4.2). Subtraction is
// not commutative, so the cache key preserves operand order.
func (f *MapFactory[K, V]) Subtracting(a, b *MapNode[K, V]) *MapNode[K, V] {
	if a == b {
		return f.zero
	}
	if a == f.zero {
		return f.zero
	}
	if b == f.zero {
		return a
	}
	key := mapOrderedPairKey[K, V]{a, b}
	if r, ok := f.subCache[key]; ok {
		return r
	}
	var res *MapNode[K, V]
	switch {
	case a.IsOne():
		res = f.mapFrom(skipMostMap(b) != f.one)
	case b.IsOne():
		res = f.node(a.key, a.takeMap, f.Subtracting(a.skip, f.one))
	case a.key < b.key:
		res = f.node(a.key, a.takeMap, f.Subtracting(a.skip, b))
	case b.key < a.key:
		res = f.Subtracting(a, b.skip)
	default:
		res = f.node(a.key, f.mergeSubtract(a.takeMap, b.takeMap), f.Subtracting(a.skip, b.skip))
	}
	f.subCache[key] = res
	return res
}

// UnionAll computes the n-ary union of operands (§4.2).
func (f *MapFactory[K, V]) UnionAll(operands ...*MapNode[K, V]) *MapNode[K, V] {
	live := make([]*MapNode[K, V], 0, len(operands))
	for _, o := range operands {
		if o != f.zero {
			live = append(live, o)
		}
	}
	switch len(live) {
	case 0:
		return f.zero
	case 1:
		return live[0]
	case 2:
		return f.Union(live[0], live[1])
	}
	res := live[0]
	for _, o := range live[1:] {
		res = f.Union(res, o)
	}
	return res
}

// IntersectionAll computes the n-ary intersection of operands.
func (f *MapFactory[K, V]) IntersectionAll(operands ...*MapNode[K, V]) *MapNode[K, V] {
	if len(operands) == 0 {
		return f.zero
	}
	res := operands[0]
	for _, o := range operands[1:] {
		if res == f.zero {
			return f.zero
		}
		res = f.Intersection(res, o)
	}
	return res
}

// Contains reports whether member belongs to the family denoted by n.
// member must bind each key at most once (§4.2).
func (f *MapFactory[K, V]) Contains(n *MapNode[K, V], member []Pair[K, V]) bool {
	pairs := slices.Clone(member)
	slices.SortFunc(pairs, func(a, b Pair[K, V]) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	i := 0
	for n.kind == notTerminal {
		if i >= len(pairs) {
			break
		}
		switch {
		case n.key < pairs[i].Key:
			n = n.skip
		case n.key == pairs[i].Key:
			child := n.Child(pairs[i].Value)
			if child == nil {
				return false
			}
			n = child
			i++
		default:
			return false
		}
	}
	if i < len(pairs) {
		return false
	}
	return skipMostMap(n) == f.one
}

// Count returns the number of members denoted by n as a *big.Int.
func (f *MapFactory[K, V]) Count(n *MapNode[K, V]) *big.Int {
	memo := make(map[*MapNode[K, V]]*big.Int)
	return f.countRec(n, memo)
}

func (f *MapFactory[K, V]) countRec(n *MapNode[K, V], memo map[*MapNode[K, V]]*big.Int) *big.Int {
	if n == f.zero {
		return big.NewInt(0)
	}
	if n == f.one {
		return big.NewInt(1)
	}
	if r, ok := memo[n]; ok {
		return r
	}
	res := f.countRec(n.skip, memo)
	res = new(big.Int).Set(res)
	for _, e := range n.takeMap {
		res.Add(res, f.countRec(e.child, memo))
	}
	memo[n] = res
	return res
}

// IsDisjoint reports whether a and b share no member.
func (f *MapFactory[K, V]) IsDisjoint(a, b *MapNode[K, V]) bool {
	return f.Intersection(a, b) == f.zero
}

// IsStrictSubset reports whether a is a strict subset of b.
func (f *MapFactory[K, V]) IsStrictSubset(a, b *MapNode[K, V]) bool {
	return a != b && f.Union(a, b) == b
}

// IsStrictSuperset reports whether a is a strict superset of b.
func (f *MapFactory[K, V]) IsStrictSuperset(a, b *MapNode[K, V]) bool {
	return f.IsStrictSubset(b, a)
}
