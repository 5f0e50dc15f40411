// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import "cmp"

// terminalKind distinguishes the two SFDD/MFDD terminals from
// internal nodes. Kept as a small integer, the same way the teacher
// distinguishes constants by reserving index 0/1 in its node table.
type terminalKind uint8

const (
	notTerminal terminalKind = iota
	zeroTerminal
	oneTerminal
)

// Node is a handle into an SFDD Factory's arena: a pointer to a slot
// inside one of the factory's buckets (or, for the two terminals, a
// pointer allocated once at construction, see NewFactory). Handle
// equality is structural equality (§3, canonicity invariant 3): two
// Node values compare equal with == if and only if they denote the
// same family.
//
// A Node must never be used with a Factory other than the one that
// produced it.
type Node[K cmp.Ordered] struct {
	inUse bool // only meaningful for slots living inside a bucket
	hash  uint64
	kind  terminalKind
	key   K
	take  *Node[K]
	skip  *Node[K]
}

// IsZero reports whether n denotes the empty family.
func (n *Node[K]) IsZero() bool { return n.kind == zeroTerminal }

// IsOne reports whether n denotes the family containing just the
// empty set.
func (n *Node[K]) IsOne() bool { return n.kind == oneTerminal }

// IsTerminal reports whether n is one of the two terminals.
func (n *Node[K]) IsTerminal() bool { return n.kind != notTerminal }

// Key returns the discriminating key of an internal node. It panics
// if n is a terminal; callers should check IsTerminal first.
func (n *Node[K]) Key() K {
	if n.kind != notTerminal {
		panic("ddkit: Key called on a terminal node")
	}
	return n.key
}

// Take returns the take-edge child of an internal node, or nil for a
// terminal.
func (n *Node[K]) Take() *Node[K] {
	if n.kind != notTerminal {
		return nil
	}
	return n.take
}

// Skip returns the skip-edge child of an internal node, or nil for a
// terminal.
func (n *Node[K]) Skip() *Node[K] {
	if n.kind != notTerminal {
		return nil
	}
	return n.skip
}

// skipMost follows the skip chain from n down to whichever terminal
// it eventually reaches. Used by intersection/subtraction when one
// operand is the one-terminal (§4.2).
func skipMost[K cmp.Ordered](n *Node[K]) *Node[K] {
	for n.kind == notTerminal {
		n = n.skip
	}
	return n
}
