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

// MapFactory owns the node arena for one family of MFDDs over key
// type K and value type V. See Factory for the analogous SFDD type;
// the two are kept as parallel, independently specialized
// implementations (the same way the teacher keeps its buddy/hudd
// backends side by side) because an MFDD node's take_map has no
// uniform representation that a shared generic arena could probe and
// compare as cheaply as a plain pointer pair.
type MapFactory[K cmp.Ordered, V comparable] struct {
	id      uuid.UUID
	cfg     configs
	seed    maphash.Seed
	buckets [][]MapNode[K, V]
	created int

	zero *MapNode[K, V]
	one  *MapNode[K, V]

	unionCache   map[mapPairKey[K, V]]*MapNode[K, V]
	interCache   map[mapPairKey[K, V]]*MapNode[K, V]
	symdiffCache map[mapPairKey[K, V]]*MapNode[K, V]
	subCache     map[mapOrderedPairKey[K, V]]*MapNode[K, V]

	morphisms *MorphismFactory[*MapNode[K, V]]

	stats arenaStats
}

// NewMapFactory creates an MFDD MapFactory.
func NewMapFactory[K cmp.Ordered, V comparable](opts ...Option) *MapFactory[K, V] {
	cfg := makeconfigs()
	for _, o := range opts {
		o(&cfg)
	}
	f := &MapFactory[K, V]{
		id:           uuid.New(),
		cfg:          cfg,
		seed:         maphash.MakeSeed(),
		unionCache:   make(map[mapPairKey[K, V]]*MapNode[K, V]),
		interCache:   make(map[mapPairKey[K, V]]*MapNode[K, V]),
		symdiffCache: make(map[mapPairKey[K, V]]*MapNode[K, V]),
		subCache:     make(map[mapOrderedPairKey[K, V]]*MapNode[K, V]),
	}
	f.zero = &MapNode[K, V]{kind: zeroTerminal}
	f.one = &MapNode[K, V]{kind: oneTerminal}
	f.morphisms = newMorphismFactory[*MapNode[K, V]](f)
	return f
}

// Zero returns the handle for the empty family.
func (f *MapFactory[K, V]) Zero() *MapNode[K, V] { return f.zero }

// One returns the handle for the family containing just the empty
// map.
func (f *MapFactory[K, V]) One() *MapNode[K, V] { return f.one }

// CreatedCount returns the number of internal nodes currently
// allocated in the arena.
func (f *MapFactory[K, V]) CreatedCount() int { return f.created }

func (f *MapFactory[K, V]) hashOf(key K, takeMap []mapEntry[K, V], skip *MapNode[K, V]) uint64 {
	var tmh uint64
	for _, e := range takeMap {
		tmh ^= combineUnordered(hashComparable(f.seed, e.value), hashComparable(f.seed, e.child))
	}
	return combine(hashComparable(f.seed, key), tmh, hashComparable(f.seed, skip))
}

// node returns the unique handle representing (key, takeMap, skip),
// creating it if necessary (§4.1). Entries whose child is the zero
// terminal are dropped first (canonicity invariant 2); if that leaves
// no entries, the node reduces to skip.
func (f *MapFactory[K, V]) node(key K, takeMap []mapEntry[K, V], skip *MapNode[K, V]) *MapNode[K, V] {
	live := make([]mapEntry[K, V], 0, len(takeMap))
	for _, e := range takeMap {
		if e.child != f.zero {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return skip
	}
	for _, e := range live {
		if e.child.kind == notTerminal && !(key < e.child.key) {
			panic(fmt.Sprintf("ddkit: ordering invariant violated: key %v >= child.key %v", key, e.child.key))
		}
	}
	if skip.kind == notTerminal && !(key < skip.key) {
		panic(fmt.Sprintf("ddkit: ordering invariant violated: key %v >= skip.key %v", key, skip.key))
	}

	h := f.hashOf(key, live, skip)

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
				*s = MapNode[K, V]{inUse: true, hash: h, kind: notTerminal, key: key, takeMap: live, skip: skip}
				f.created++
				if dlog.Enabled {
					dlog.V(2).Infof("mfdd: interned new node key=%v bucket=%d slot=%d", key, bi, slot)
				}
				return s
			}
			if s.hash == h && s.key == key && s.skip == skip && equalTakeMaps(s.takeMap, live) {
				f.stats.probeHits++
				return s
			}
			f.stats.probeMisses++
		}
	}

	bucket := make([]MapNode[K, V], f.cfg.bucketCap)
	f.buckets = append(f.buckets, bucket)
	f.stats.bucketsGrown++
	slot := int(h) % f.cfg.bucketCap
	if slot < 0 {
		slot += f.cfg.bucketCap
	}
	s := &f.buckets[len(f.buckets)-1][slot]
	*s = MapNode[K, V]{inUse: true, hash: h, kind: notTerminal, key: key, takeMap: live, skip: skip}
	f.created++
	return s
}

type mapPairKey[K cmp.Ordered, V comparable] struct {
	a, b *MapNode[K, V]
}

func makeMapPairKey[K cmp.Ordered, V comparable](a, b *MapNode[K, V]) mapPairKey[K, V] {
	if uintptr(unsafe.Pointer(a)) > uintptr(unsafe.Pointer(b)) {
		a, b = b, a
	}
	return mapPairKey[K, V]{a, b}
}

type mapOrderedPairKey[K cmp.Ordered, V comparable] struct {
	a, b *MapNode[K, V]
}
