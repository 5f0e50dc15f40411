// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import "cmp"

// mapEntry is one (value, child) pair of an MFDD node's take_map.
// Entries have no canonical order (§3): a node's content is the
// *set* of entries, not a sequence.
type mapEntry[K cmp.Ordered, V comparable] struct {
	value V
	child *MapNode[K, V]
}

// MapNode is a handle into a MapFactory's arena, the MFDD analogue of
// Node. An internal node maps a key to several (value, child) pairs
// (take_map) plus one skip child (§3).
type MapNode[K cmp.Ordered, V comparable] struct {
	inUse   bool
	hash    uint64
	kind    terminalKind
	key     K
	takeMap []mapEntry[K, V]
	skip    *MapNode[K, V]
}

// IsZero reports whether n denotes the empty family.
func (n *MapNode[K, V]) IsZero() bool { return n.kind == zeroTerminal }

// IsOne reports whether n denotes the family containing just the
// empty map.
func (n *MapNode[K, V]) IsOne() bool { return n.kind == oneTerminal }

// IsTerminal reports whether n is one of the two terminals.
func (n *MapNode[K, V]) IsTerminal() bool { return n.kind != notTerminal }

// Key returns the discriminating key of an internal node. It panics
// if n is a terminal.
func (n *MapNode[K, V]) Key() K {
	if n.kind != notTerminal {
		panic("ddkit: Key called on a terminal node")
	}
	return n.key
}

// Values returns the values bound at this node's key, in no
// particular order.
func (n *MapNode[K, V]) Values() []V {
	if n.kind != notTerminal {
		return nil
	}
	vs := make([]V, len(n.takeMap))
	for i, e := range n.takeMap {
		vs[i] = e.value
	}
	return vs
}

// Child returns the take-edge child bound to value v, or nil if v is
// not bound at this node.
func (n *MapNode[K, V]) Child(v V) *MapNode[K, V] {
	if n.kind != notTerminal {
		return nil
	}
	for _, e := range n.takeMap {
		if e.value == v {
			return e.child
		}
	}
	return nil
}

// Skip returns the skip-edge child of an internal node, or nil for a
// terminal.
func (n *MapNode[K, V]) Skip() *MapNode[K, V] {
	if n.kind != notTerminal {
		return nil
	}
	return n.skip
}

func skipMostMap[K cmp.Ordered, V comparable](n *MapNode[K, V]) *MapNode[K, V] {
	for n.kind == notTerminal {
		n = n.skip
	}
	return n
}

// equalTakeMaps reports whether two take_map contents denote the same
// set of (value, child) pairs, independent of slice order (§3).
func equalTakeMaps[K cmp.Ordered, V comparable](a, b []mapEntry[K, V]) bool {
	if len(a) != len(b) {
		return false
	}
outer:
	for _, ea := range a {
		for _, eb := range b {
			if ea.value == eb.value {
				if ea.child != eb.child {
					return false
				}
				continue outer
			}
		}
		return false
	}
	return true
}
