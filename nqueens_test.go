// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"math/big"
	"testing"
)

// nqueensCandidates builds the SFDD denoting every placement of
// exactly one queen per row of an N×N board, cells numbered in
// row-major order (row*N+col). It is built top-down, one row at a
// time from the last row to the first, the same way the teacher's
// nqueens_test.go builds up a BDD conjunct by conjunct, except here
// each row contributes a single shared subtree instead of a fresh
// conjunction: f.node(i*N+j, partial, zero) attaches row i's choice j
// directly on top of whatever partial already encodes for the rows
// below it, so the whole one-per-row family is built in O(N²) work
// with no member ever materialized.
func nqueensCandidates(f *Factory[int], n int) *Node[int] {
	partial := f.One()
	for row := n - 1; row >= 0; row-- {
		choices := make([]*Node[int], n)
		for col := 0; col < n; col++ {
			choices[col] = f.node(row*n+col, partial, f.Zero())
		}
		partial = f.UnionAll(choices...)
	}
	return partial
}

// forbidBothMorphism returns the morphism that removes, from a
// family, every member containing both a and b: apply(x) = x ∖
// {m ∈ x : a ∈ m and b ∈ m}. It is built from the generic Subtraction
// combinator over InclusiveFilter and Identity (§4.4, §4.5) rather
// than from a bespoke recursion, since "the two queens may not both be
// placed" is exactly a subtraction of the sub-family where both are
// present.
func forbidBothMorphism(f *Factory[int], a, b int) (Morphism[*Node[int]], error) {
	keep := []int{a, b}
	both, err := f.InclusiveFilter(keep)
	if err != nil {
		return nil, err
	}
	return f.SubtractionMorphism(f.IdentityMorphism(), both), nil
}

// nqueensConflictPairs enumerates every pair of cells that a queen
// placement may not occupy simultaneously: same column, or same
// diagonal (row and column differ by the same amount).
func nqueensConflictPairs(n int) [][2]int {
	var pairs [][2]int
	for r1 := 0; r1 < n; r1++ {
		for c1 := 0; c1 < n; c1++ {
			for r2 := r1 + 1; r2 < n; r2++ {
				for c2 := 0; c2 < n; c2++ {
					sameCol := c1 == c2
					sameDiag := abs(r1-r2) == abs(c1-c2)
					if sameCol || sameDiag {
						pairs = append(pairs, [2]int{r1*n + c1, r2*n + c2})
					}
				}
			}
		}
	}
	return pairs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// nqueens returns the number of solutions to the N-Queens problem,
// computed by filtering the one-per-row candidate family down to the
// placements satisfying every column/diagonal constraint, with one
// composed morphism per forbidden pair (§8 S4).
func nqueens(n int) (*big.Int, error) {
	f := NewFactory[int]()
	candidates := nqueensCandidates(f, n)

	var constraints []Morphism[*Node[int]]
	for _, p := range nqueensConflictPairs(n) {
		m, err := forbidBothMorphism(f, p[0], p[1])
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, m)
	}
	solutions := f.ComposeMorphisms(constraints...).Apply(candidates)
	return f.Count(solutions), nil
}

func TestNQueens(t *testing.T) {
	cases := []struct {
		n        int
		expected int64
	}{
		{4, 2},
		{5, 10},
		{6, 4},
		{7, 40},
		{8, 92},
	}
	for _, tc := range cases {
		got, err := nqueens(tc.n)
		if err != nil {
			t.Fatalf("nqueens(%d): %v", tc.n, err)
		}
		if got.Cmp(big.NewInt(tc.expected)) != 0 {
			t.Errorf("nqueens(%d) = %s, want %d", tc.n, got, tc.expected)
		}
	}
}
