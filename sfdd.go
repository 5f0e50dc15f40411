// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"math/big"
	"slices"
)

// Encode builds the SFDD denoting the given family: a collection of
// members, each member an iterable of keys. Duplicate keys within a
// member are de-duplicated and member order is irrelevant (§6).
func (f *Factory[K]) Encode(family [][]K) *Node[K] {
	res := f.zero
	for _, member := range family {
		res = f.Union(res, f.encodeOne(member))
	}
	return res
}

// encodeOne builds the SFDD for the singleton family {member}.
func (f *Factory[K]) encodeOne(member []K) *Node[K] {
	keys := slices.Clone(member)
	slices.Sort(keys)
	keys = slices.Compact(keys)
	res := f.one
	for i := len(keys) - 1; i >= 0; i-- {
		res = f.node(keys[i], res, f.zero)
	}
	return res
}

// IsEmpty reports whether n denotes the empty family.
func (f *Factory[K]) IsEmpty(n *Node[K]) bool { return n == f.zero }

// Union returns the SFDD denoting a ∪ b (§4.2).
func (f *Factory[K]) Union(a, b *Node[K]) *Node[K] {
	if a == f.zero {
		return b
	}
	if b == f.zero {
		return a
	}
	if a == b {
		return a
	}
	key := makePairKey(a, b)
	if r, ok := f.unionCache[key]; ok {
		return r
	}
	var res *Node[K]
	switch {
	case a.IsOne():
		res = f.unionWithOne(b)
	case b.IsOne():
		res = f.unionWithOne(a)
	case a.key < b.key:
		res = f.node(a.key, a.take, f.Union(a.skip, b))
	case b.key < a.key:
		res = f.node(b.key, b.take, f.Union(a, b.skip))
	default:
		res = f.node(a.key, f.Union(a.take, b.take), f.Union(a.skip, b.skip))
	}
	f.unionCache[key] = res
	return res
}

func (f *Factory[K]) unionWithOne(x *Node[K]) *Node[K] {
	if x.kind != notTerminal {
		// x is 'one' or 'zero'; U(one,zero)=one, U(one,one)=one
		return f.one
	}
	return f.node(x.key, x.take, f.Union(f.one, x.skip))
}

// Intersection returns the SFDD denoting a ∩ b (§4.2). Intersection
// of two zero families, or of anything with zero, is zero — see the
// open question in §9 resolved in favor of set-theoretic semantics.
func (f *Factory[K]) Intersection(a, b *Node[K]) *Node[K] {
	if a == f.zero || b == f.zero {
		return f.zero
	}
	if a == b {
		return a
	}
	key := makePairKey(a, b)
	if r, ok := f.interCache[key]; ok {
		return r
	}
	var res *Node[K]
	switch {
	case a.IsOne():
		res = f.from(skipMost(b) == f.one)
	case b.IsOne():
		res = f.from(skipMost(a) == f.one)
	case a.key < b.key:
		res = f.Intersection(a.skip, b)
	case b.key < a.key:
		res = f.Intersection(a, b.skip)
	default:
		res = f.node(a.key, f.Intersection(a.take, b.take), f.Intersection(a.skip, b.skip))
	}
	f.interCache[key] = res
	return res
}

func (f *Factory[K]) from(v bool) *Node[K] {
	if v {
		return f.one
	}
	return f.zero
}

// SymmetricDifference returns the SFDD denoting a △ b (§4.2).
func (f *Factory[K]) SymmetricDifference(a, b *Node[K]) *Node[K] {
	if a == b {
		return f.zero
	}
	if a == f.zero {
		return b
	}
	if b == f.zero {
		return a
	}
	key := makePairKey(a, b)
	if r, ok := f.symdiffCache[key]; ok {
		return r
	}
	var res *Node[K]
	switch {
	case a.IsOne():
		res = f.node(b.key, b.take, f.SymmetricDifference(f.one, b.skip))
	case b.IsOne():
		res = f.node(a.key, a.take, f.SymmetricDifference(f.one, a.skip))
	case a.key < b.key:
		res = f.node(a.key, a.take, f.SymmetricDifference(a.skip, b))
	case b.key < a.key:
		res = f.node(b.key, b.take, f.SymmetricDifference(a, b.skip))
	default:
		res = f.node(a.key, f.SymmetricDifference(a.take, b.take), f.SymmetricDifference(a.skip, b.skip))
	}
	f.symdiffCache[key] = res
	return res
}

// Subtracting returns the SFDD denoting a ∖ b (§4.2). Subtraction is
// not commutative, so the cache key preserves operand order.
func (f *Factory[K]) Subtracting(a, b *Node[K]) *Node[K] {
	if a == b {
		return f.zero
	}
	if a == f.zero {
		return f.zero
	}
	if b == f.zero {
		return a
	}
	key := orderedPairKey[K]{a, b}
	if r, ok := f.subCache[key]; ok {
		return r
	}
	var res *Node[K]
	switch {
	case a.IsOne():
		res = f.from(skipMost(b) != f.one)
	case b.IsOne():
		res = f.node(a.key, a.take, f.Subtracting(a.skip, f.one))
	case a.key < b.key:
		res = f.node(a.key, a.take, f.Subtracting(a.skip, b))
	case b.key < a.key:
		res = f.Subtracting(a, b.skip)
	default:
		res = f.node(a.key, f.Subtracting(a.take, b.take), f.Subtracting(a.skip, b.skip))
	}
	f.subCache[key] = res
	return res
}

// UnionAll computes the n-ary union of operands, eliminating zero
// operands and short-circuiting the 0/1/2-operand cases (§4.2).
func (f *Factory[K]) UnionAll(operands ...*Node[K]) *Node[K] {
	live := make([]*Node[K], 0, len(operands))
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
func (f *Factory[K]) IntersectionAll(operands ...*Node[K]) *Node[K] {
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

// Contains reports whether member belongs to the family denoted by n
// (§4.2).
func (f *Factory[K]) Contains(n *Node[K], member []K) bool {
	keys := slices.Clone(member)
	slices.Sort(keys)
	keys = slices.Compact(keys)
	i := 0
	for n.kind == notTerminal {
		if i >= len(keys) {
			break
		}
		switch {
		case n.key < keys[i]:
			n = n.skip
		case n.key == keys[i]:
			n = n.take
			i++
		default: // n.key > keys[i]: keys[i] can never be matched
			return false
		}
	}
	if i < len(keys) {
		return false
	}
	return skipMost(n) == f.one
}

// Count returns the number of members denoted by n (§4.2). The result
// is a *big.Int since the number of members can grow exponentially in
// the number of distinct keys, exactly like the teacher's Satcount.
func (f *Factory[K]) Count(n *Node[K]) *big.Int {
	memo := make(map[*Node[K]]*big.Int)
	return f.countRec(n, memo)
}

func (f *Factory[K]) countRec(n *Node[K], memo map[*Node[K]]*big.Int) *big.Int {
	if n == f.zero {
		return big.NewInt(0)
	}
	if n == f.one {
		return big.NewInt(1)
	}
	if r, ok := memo[n]; ok {
		return r
	}
	res := new(big.Int).Add(f.countRec(n.take, memo), f.countRec(n.skip, memo))
	memo[n] = res
	return res
}

// IsDisjoint reports whether a and b share no member.
func (f *Factory[K]) IsDisjoint(a, b *Node[K]) bool {
	return f.Intersection(a, b) == f.zero
}

// IsStrictSubset reports whether a is a strict subset of b.
func (f *Factory[K]) IsStrictSubset(a, b *Node[K]) bool {
	return a != b && f.Union(a, b) == b
}

// IsStrictSuperset reports whether a is a strict superset of b.
func (f *Factory[K]) IsStrictSuperset(a, b *Node[K]) bool {
	return f.IsStrictSubset(b, a)
}
