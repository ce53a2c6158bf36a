// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewZeroes(t *testing.T) {
	a := NewArena()
	p := New[int](a)
	assert.Equal(t, 0, *p)
	*p = 42

	a.Reset()
	q := New[int](a)
	assert.Equal(t, 0, *q, "reused memory must read as zero")
}

func TestMake(t *testing.T) {
	a := NewArena()
	p := Make(a, "hello")
	assert.Equal(t, "hello", *p)
}

func TestDistinctAllocations(t *testing.T) {
	a := NewArena()
	p := New[int](a)
	q := New[int](a)
	*p = 1
	*q = 2
	assert.Equal(t, 1, *p)
	assert.Equal(t, 2, *q)
}

func TestNewSlice(t *testing.T) {
	a := NewArena()
	s := NewSlice[[]float32](a, 3, 8)
	assert.Len(t, s, 3)
	assert.Equal(t, 8, cap(s))
	for _, v := range s {
		assert.Zero(t, v)
	}
}

func TestMakeSlice(t *testing.T) {
	a := NewArena()
	src := []int{1, 2, 3}
	s := MakeSlice(a, src)
	assert.Equal(t, src, s)
	s[0] = 99
	assert.Equal(t, 1, src[0], "copies, doesn't alias")
}

func TestAppendGrows(t *testing.T) {
	a := NewArena()
	var s []int
	for i := 0; i < 1000; i++ {
		s = Append(a, s, i)
	}
	assert.Len(t, s, 1000)
	for i, v := range s {
		assert.Equal(t, i, v)
	}
}

func TestReuseAfterReset(t *testing.T) {
	a := NewArena()
	s1 := NewSlice[[]int](a, minSlabCap, minSlabCap)
	base1 := &s1[0]

	a.Reset()
	s2 := NewSlice[[]int](a, minSlabCap, minSlabCap)
	assert.Same(t, base1, &s2[0], "reset recycles the slab")
}

func TestTypesDontShareSlabs(t *testing.T) {
	a := NewArena()
	p := New[int64](a)
	q := New[float64](a)
	*p = -1
	assert.Zero(t, *q)
}
