// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"cmp"
	"math/rand"
)

// mfddFrame is one entry in the depth-first traversal stack: the
// ancestor node together with the index of the take_map entry it
// descended into (or len(takeMap) once every entry, and finally the
// skip edge, has been explored) and the prefix length to restore on
// backtrack.
type mfddFrame[K cmp.Ordered, V comparable] struct {
	node      *MapNode[K, V]
	entry     int
	prefixLen int
}

// Members returns every member of the family denoted by n, in an
// order tied to key ordering (§4.3). It materializes the whole
// family; for large families prefer Iterate.
func (f *MapFactory[K, V]) Members(n *MapNode[K, V]) [][]Pair[K, V] {
	var res [][]Pair[K, V]
	f.Iterate(n, func(member []Pair[K, V]) bool {
		cp := make([]Pair[K, V], len(member))
		copy(cp, member)
		res = append(res, cp)
		return true
	})
	return res
}

// Iterate performs a depth-first traversal of the family denoted by
// n, calling visit once per member with the accumulated bindings.
// Traversal stops early if visit returns false. The slice passed to
// visit is reused between calls and must not be retained.
func (f *MapFactory[K, V]) Iterate(n *MapNode[K, V], visit func(member []Pair[K, V]) bool) {
	if n == f.zero {
		return
	}
	var prefix []Pair[K, V]
	var stack []mfddFrame[K, V]
	cur := n
	for {
		for cur.kind == notTerminal {
			if len(cur.takeMap) == 0 {
				cur = cur.skip
				continue
			}
			stack = append(stack, mfddFrame[K, V]{node: cur, entry: 0, prefixLen: len(prefix)})
			e := cur.takeMap[0]
			prefix = append(prefix, Pair[K, V]{cur.key, e.value})
			cur = e.child
		}
		if cur == f.one {
			if !visit(prefix) {
				return
			}
		}
		for {
			if len(stack) == 0 {
				return
			}
			top := &stack[len(stack)-1]
			prefix = prefix[:top.prefixLen]
			top.entry++
			if top.entry < len(top.node.takeMap) {
				e := top.node.takeMap[top.entry]
				prefix = append(prefix, Pair[K, V]{top.node.key, e.value})
				cur = e.child
				break
			}
			stack = stack[:len(stack)-1]
			if top.node.skip != f.zero {
				cur = top.node.skip
				break
			}
		}
	}
}

// RandomElement samples one member of the family denoted by n by
// making a structural random choice at each internal node between
// skip and one of its bound values. The second return value is false
// if n is the empty family.
func (f *MapFactory[K, V]) RandomElement(n *MapNode[K, V]) ([]Pair[K, V], bool) {
	if n == f.zero {
		return nil, false
	}
	var res []Pair[K, V]
	for n.kind == notTerminal {
		if n.skip == f.zero || (len(n.takeMap) > 0 && rand.Intn(2) == 0) {
			e := n.takeMap[rand.Intn(len(n.takeMap))]
			res = append(res, Pair[K, V]{n.key, e.value})
			n = e.child
		} else {
			n = n.skip
		}
	}
	return res, true
}
