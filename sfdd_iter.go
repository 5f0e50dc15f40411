// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"cmp"
	"math/rand"
)

// sfddFrame is one entry in the depth-first traversal stack: the ancestor
// node whose skip branch has not yet been explored, together with the
// length of the key prefix accumulated so far when we descended into
// its take branch (so backtracking can truncate the prefix in O(1)).
type sfddFrame[K cmp.Ordered] struct {
	node       *Node[K]
	prefixLen  int
}

// Members returns every member of the family denoted by n, in an
// order tied to key ordering (§4.3). It materializes the whole
// family; for large families prefer Iterate.
func (f *Factory[K]) Members(n *Node[K]) [][]K {
	var res [][]K
	f.Iterate(n, func(member []K) bool {
		cp := make([]K, len(member))
		copy(cp, member)
		res = append(res, cp)
		return true
	})
	return res
}

// Iterate performs a depth-first traversal of the family denoted by
// n, calling visit once per member with the accumulated key list.
// Traversal stops early if visit returns false. The slice passed to
// visit is reused between calls and must not be retained.
func (f *Factory[K]) Iterate(n *Node[K], visit func(member []K) bool) {
	if n == f.zero {
		return
	}
	var prefix []K
	var stack []sfddFrame[K]
	cur := n
	for {
		// descend along take edges, accumulating keys, until we hit a
		// terminal
		for cur.kind == notTerminal {
			stack = append(stack, sfddFrame[K]{node: cur, prefixLen: len(prefix)})
			prefix = append(prefix, cur.key)
			cur = cur.take
		}
		if cur == f.one {
			if !visit(prefix) {
				return
			}
		}
		// backtrack to the nearest ancestor with a non-zero skip
		for {
			if len(stack) == 0 {
				return
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			prefix = prefix[:top.prefixLen]
			if top.node.skip != f.zero {
				cur = top.node.skip
				break
			}
		}
	}
}

// RandomElement samples one member of the family denoted by n by
// making a structural (not necessarily uniform-over-members) random
// choice at each internal node between skip and take (§4.3). The
// second return value is false if n is the empty family.
func (f *Factory[K]) RandomElement(n *Node[K]) ([]K, bool) {
	if n == f.zero {
		return nil, false
	}
	var res []K
	for n.kind == notTerminal {
		if n.skip == f.zero || rand.Intn(2) == 0 {
			res = append(res, n.key)
			n = n.take
		} else {
			n = n.skip
		}
	}
	return res, true
}
