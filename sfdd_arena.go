// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"cmp"
	"fmt"
	"hash/maphash"
	"unsafe"

	"github.com/google/uuid"

	"github.com/kyouko-taiga/ddkit/internal/dlog"
)

// Factory owns the node arena for one family of SFDDs over key type
// K. All Node values produced by a Factory must only ever be passed
// back to that same Factory (§5, lifetime).
//
// The arena is a growable list of fixed-size buckets (§4.1): a
// bucket's backing array, once allocated, is never reallocated, so a
// *Node[K] handed out to a caller remains valid, and at the same
// address, for the lifetime of the Factory.
type Factory[K cmp.Ordered] struct {
	id      uuid.UUID
	cfg     configs
	seed    maphash.Seed
	buckets [][]Node[K]
	created int

	zero *Node[K]
	one  *Node[K]

	unionCache   map[pairKey[K]]*Node[K]
	interCache   map[pairKey[K]]*Node[K]
	symdiffCache map[pairKey[K]]*Node[K]
	subCache     map[orderedPairKey[K]]*Node[K]

	morphisms *MorphismFactory[*Node[K]]

	stats arenaStats
}

// arenaStats accumulates hit/miss counters purely for instrumentation
// (Factory.Stats); it costs nothing to keep updated unconditionally
// since it is a handful of integer increments.
type arenaStats struct {
	probeHits   int
	probeMisses int
	bucketsGrown int
}

// NewFactory creates an SFDD Factory. bucketCap (see BucketCapacity)
// defaults to 1024.
func NewFactory[K cmp.Ordered](opts ...Option) *Factory[K] {
	cfg := makeconfigs()
	for _, o := range opts {
		o(&cfg)
	}
	f := &Factory[K]{
		id:           uuid.New(),
		cfg:          cfg,
		seed:         maphash.MakeSeed(),
		unionCache:   make(map[pairKey[K]]*Node[K]),
		interCache:   make(map[pairKey[K]]*Node[K]),
		symdiffCache: make(map[pairKey[K]]*Node[K]),
		subCache:     make(map[orderedPairKey[K]]*Node[K]),
	}
	f.zero = &Node[K]{kind: zeroTerminal}
	f.one = &Node[K]{kind: oneTerminal}
	f.morphisms = newMorphismFactory[*Node[K]](f)
	return f
}

// Zero returns the handle for the empty family.
func (f *Factory[K]) Zero() *Node[K] { return f.zero }

// One returns the handle for the family containing just the empty
// set.
func (f *Factory[K]) One() *Node[K] { return f.one }

// CreatedCount returns the number of internal nodes currently
// allocated in the arena, for instrumentation (§4.1).
func (f *Factory[K]) CreatedCount() int { return f.created }

// hashOf combines an internal node's content into a single probe
// hash, per the (key, take, skip) triple of §4.2.
func (f *Factory[K]) hashOf(key K, take, skip *Node[K]) uint64 {
	return combine(hashComparable(f.seed, key), hashComparable(f.seed, take), hashComparable(f.seed, skip))
}

// node returns the unique handle representing (key, take, skip),
// creating it if necessary (§4.1).
func (f *Factory[K]) node(key K, take, skip *Node[K]) *Node[K] {
	// Short-circuit: an empty take subtree means the key never
	// occurs, so the node reduces to skip (canonicity invariant 2).
	if take == f.zero {
		return skip
	}
	if take.kind == notTerminal && !(key < take.key) {
		panic(fmt.Sprintf("ddkit: ordering invariant violated: key %v >= take.key %v", key, take.key))
	}
	if skip.kind == notTerminal && !(key < skip.key) {
		panic(fmt.Sprintf("ddkit: ordering invariant violated: key %v >= skip.key %v", key, skip.key))
	}

	h := f.hashOf(key, take, skip)

	for bi := range f.buckets {
		bucket := f.buckets[bi]
		cap := len(bucket)
		for i := 0; i < _MAXPROBE; i++ {
			offset := (i + i*i) / 2
			slot := (int(h) + offset) % cap
			if slot < 0 {
				slot += cap
			}
			s := &bucket[slot]
			if !s.inUse {
				*s = Node[K]{inUse: true, hash: h, kind: notTerminal, key: key, take: take, skip: skip}
				f.created++
				if dlog.Enabled {
					dlog.V(2).Infof("sfdd: interned new node key=%v bucket=%d slot=%d", key, bi, slot)
				}
				return s
			}
			if s.hash == h && s.key == key && s.take == take && s.skip == skip {
				f.stats.probeHits++
				return s
			}
			f.stats.probeMisses++
		}
	}

	// All existing buckets are full or collided on every probe; grow.
	bucket := make([]Node[K], f.cfg.bucketCap)
	f.buckets = append(f.buckets, bucket)
	f.stats.bucketsGrown++
	slot := int(h) % f.cfg.bucketCap
	if slot < 0 {
		slot += f.cfg.bucketCap
	}
	s := &f.buckets[len(f.buckets)-1][slot]
	*s = Node[K]{inUse: true, hash: h, kind: notTerminal, key: key, take: take, skip: skip}
	f.created++
	return s
}

// pairKey is the memoization key for a commutative binary operation:
// the pair in canonical (pointer-sorted) order, so that U(a,b) and
// U(b,a) share a cache entry (§4.2, cache key convention).
type pairKey[K cmp.Ordered] struct {
	a, b *Node[K]
}

func makePairKey[K cmp.Ordered](a, b *Node[K]) pairKey[K] {
	// Pointers are not ordered in Go; we only need a stable
	// tie-breaker for a canonical cache key, not a meaningful order.
	if uintptr(unsafe.Pointer(a)) > uintptr(unsafe.Pointer(b)) {
		a, b = b, a
	}
	return pairKey[K]{a, b}
}

// orderedPairKey is the memoization key for a non-commutative binary
// operation such as subtraction.
type orderedPairKey[K cmp.Ordered] struct {
	a, b *Node[K]
}
