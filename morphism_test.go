// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSFDDInsertAndRemove(t *testing.T) {
	f := NewFactory[int]()
	n := f.Encode([][]int{{1}, {2, 5}})

	ins, err := f.Insert([]int{3})
	require.NoError(t, err)
	inserted := ins.Apply(n)
	assert.True(t, f.Contains(inserted, []int{1, 3}))
	assert.True(t, f.Contains(inserted, []int{2, 3, 5}))
	assert.False(t, f.Contains(inserted, []int{1}))

	rem, err := f.Remove([]int{3})
	require.NoError(t, err)
	assert.Same(t, n, rem.Apply(inserted))
}

func TestSFDDInsertEmptyKeysIsError(t *testing.T) {
	f := NewFactory[int]()
	_, err := f.Insert(nil)
	assert.ErrorIs(t, err, ErrEmptyKeys)
}

func TestSFDDFilters(t *testing.T) {
	f := NewFactory[int]()
	n := f.Encode([][]int{{1}, {1, 2}, {2}, {}})

	inc, err := f.InclusiveFilter([]int{1})
	require.NoError(t, err)
	keepsOnly := inc.Apply(n)
	assert.True(t, f.Contains(keepsOnly, []int{1}))
	assert.True(t, f.Contains(keepsOnly, []int{1, 2}))
	assert.False(t, f.Contains(keepsOnly, []int{2}))
	assert.False(t, f.Contains(keepsOnly, []int{}))

	exc, err := f.ExclusiveFilter([]int{1})
	require.NoError(t, err)
	without := exc.Apply(n)
	assert.True(t, f.Contains(without, []int{2}))
	assert.True(t, f.Contains(without, []int{}))
	assert.False(t, f.Contains(without, []int{1}))
	assert.False(t, f.Contains(without, []int{1, 2}))
}

func TestSFDDMap(t *testing.T) {
	f := NewFactory[int]()
	n := f.Encode([][]int{{1, 2}, {3}})
	double := f.Map(func(k int) int { return k * 2 })
	mapped := double.Apply(n)
	assert.True(t, f.Contains(mapped, []int{2, 4}))
	assert.True(t, f.Contains(mapped, []int{6}))
}

func TestSFDDCompositionAndFixedPoint(t *testing.T) {
	f := NewFactory[int]()
	n := f.Encode([][]int{{1}})

	ins2, err := f.Insert([]int{2})
	require.NoError(t, err)
	ins3, err := f.Insert([]int{3})
	require.NoError(t, err)

	composed := f.ComposeMorphisms(ins2, ins3)
	res := composed.Apply(n)
	assert.True(t, f.Contains(res, []int{1, 2, 3}))

	// applying the same insertion over and over is a fixed point after
	// one application
	fp := f.FixedPointMorphism(ins2)
	assert.Same(t, ins2.Apply(n), fp.Apply(n))
}

func TestSFDDUnionMorphismAndIdentity(t *testing.T) {
	f := NewFactory[int]()
	n := f.Encode([][]int{{1}})
	id := f.IdentityMorphism()
	assert.Same(t, n, id.Apply(n))

	ins2, err := f.Insert([]int{2})
	require.NoError(t, err)
	um := f.UnionMorphism(id, ins2)
	res := um.Apply(n)
	assert.True(t, f.Contains(res, []int{1}))
	assert.True(t, f.Contains(res, []int{1, 2}))
}

func TestMFDDInsertAndFilters(t *testing.T) {
	f := NewMapFactory[int, string]()
	n := f.Encode([][]Pair[int, string]{{pr(1, "a")}, {pr(2, "b")}})

	ins, err := f.Insert([]Pair[int, string]{pr(3, "z")})
	require.NoError(t, err)
	inserted := ins.Apply(n)
	assert.True(t, f.Contains(inserted, []Pair[int, string]{pr(1, "a"), pr(3, "z")}))
	assert.True(t, f.Contains(inserted, []Pair[int, string]{pr(2, "b"), pr(3, "z")}))

	inc, err := f.InclusiveFilter([]Pair[int, string]{pr(1, "a")})
	require.NoError(t, err)
	only1a := inc.Apply(n)
	assert.True(t, f.Contains(only1a, []Pair[int, string]{pr(1, "a")}))
	assert.False(t, f.Contains(only1a, []Pair[int, string]{pr(2, "b")}))
}

func TestMFDDDuplicateKeyIsError(t *testing.T) {
	f := NewMapFactory[int, string]()
	_, err := f.Insert([]Pair[int, string]{pr(1, "a"), pr(1, "b")})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
