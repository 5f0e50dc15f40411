// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import "hash/maphash"

// hashComparable computes a stable hash of any comparable value under
// a factory-local seed. Node handles (pointers) are comparable, so
// this same helper hashes keys, values, and child handles uniformly;
// grounded on the same hash/maphash.WriteComparable idiom used by
// rogpeppe/generic's anyunique package for canonicalizing arbitrary
// values.
func hashComparable[T comparable](seed maphash.Seed, v T) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	maphash.WriteComparable(&h, v)
	return h.Sum64()
}

// combine folds a sequence of sub-hashes into one, order-sensitive.
// Used for the (key, take, skip) triple of an SFDD node, and for the
// (key, takeMapHash, skip) triple of an MFDD node, where takeMapHash
// is itself computed with combineUnordered so the result does not
// depend on the iteration order of a take_map (§4.2, canonicity
// invariant 3: two nodes with the same content, in any order, must
// collide to the same slot).
func combine(parts ...uint64) uint64 {
	// FNV-1a style mix, good enough for a bucketed table where actual
	// equality is always re-checked on collision.
	h := uint64(14695981039346656037)
	for _, p := range parts {
		h ^= p
		h *= 1099511628211
	}
	return h
}

// combineUnordered folds a set of sub-hashes into one value that does
// not depend on the order the parts are supplied in. Used to hash an
// MFDD node's take_map, whose entries have no canonical order (value
// type V need not be ordered, only comparable).
func combineUnordered(parts ...uint64) uint64 {
	var acc uint64
	for _, p := range parts {
		// mix each part before XOR-ing so the result is not a plain
		// XOR of the raw parts; two identical parts still cancel out
		p ^= p >> 33
		p *= 0xff51afd7ed558ccd
		p ^= p >> 33
		acc ^= p
	}
	return acc
}
