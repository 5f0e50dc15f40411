// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package ddkit defines canonical, hash-consed decision diagrams for
representing large collections of sets (SFDD, see Factory) or of
key/value maps (MFDD, see MapFactory) over a totally ordered key
domain.

Basics

An SFDD or MFDD family is built by encoding a collection of members
through a Factory. Encoding, and every subsequent algebra operation
(Union, Intersection, ...), returns a Node: an opaque handle into the
factory's arena. Two nodes denote the same family if and only if they
are the same handle (canonicity) — this is what lets every operation
below work directly on the shared graph representation instead of
enumerating members.

Morphisms

On top of the algebra, a Morphism is a structure-preserving
transformation on families that operates on handles rather than
members: insertion/removal of keys, filtering, mapping, and generic
combinators (union, composition, fixed point) that compose morphisms
without ever enumerating a family. Every DD-specific morphism can be
lifted with a factory's Saturate method, which pushes it below the
keys it does not touch — the single most important optimization for
large state spaces (see the reachability example in petri_test.go).

Use of build tags

Like the BDD kernel this package is adapted from, verbose
instrumentation logging (one trace line per newly interned node) is
only compiled in with the `debug` build tag; see internal/dlog. The
arena probe counters reported by Stats are kept in every build.

Automatic memory management

The library is written in pure Go. A Factory's arena grows
monotonically and is never garbage collected within its own lifetime;
once a Factory is no longer reachable, the Go runtime reclaims it as a
whole.
*/
package ddkit
