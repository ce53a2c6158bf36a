// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package mem provides a per-frame arena. Values allocated from an
// Arena live until the next Reset; the scene builder uses one so that
// instance lists built every frame don't churn the garbage collector.
package mem

import (
	"reflect"
	"unsafe"
)

type Arena struct {
	slabs map[reflect.Type]*slabList
}

type slabList struct {
	blocks []slab
	// index of the block currently allocated from
	cur int
}

type slab struct {
	// mem keeps the backing array alive; base is its first element
	mem  reflect.Value
	base unsafe.Pointer
	len  int
	cap  int
}

func NewArena() *Arena {
	return &Arena{
		slabs: make(map[reflect.Type]*slabList),
	}
}

// Reset makes all of the arena's memory available for reuse. Values
// previously allocated from it must no longer be accessed.
func (a *Arena) Reset() {
	for _, s := range a.slabs {
		for i := range s.blocks {
			s.blocks[i].len = 0
		}
		s.cur = 0
	}
}

const minSlabCap = 64

func (a *Arena) alloc(typ reflect.Type, n int) unsafe.Pointer {
	s := a.slabs[typ]
	if s == nil {
		s = &slabList{}
		a.slabs[typ] = s
	}
	for s.cur < len(s.blocks) {
		b := &s.blocks[s.cur]
		if b.cap-b.len >= n {
			p := unsafe.Add(b.base, uintptr(b.len)*typ.Size())
			b.len += n
			return p
		}
		s.cur++
	}
	c := max(minSlabCap, n)
	if len(s.blocks) > 0 {
		c = max(c, 2*s.blocks[len(s.blocks)-1].cap)
	}
	mem := reflect.MakeSlice(reflect.SliceOf(typ), c, c)
	s.blocks = append(s.blocks, slab{
		mem:  mem,
		base: mem.UnsafePointer(),
		len:  n,
		cap:  c,
	})
	s.cur = len(s.blocks) - 1
	return s.blocks[s.cur].base
}

func New[T any](a *Arena) *T {
	// We cannot use TypeOf(*new(T)) when T is an interface type,
	// because that passes a nil interface to TypeOf, which returns
	// nil.
	var t *T
	p := (*T)(a.alloc(reflect.TypeOf(t).Elem(), 1))
	*p = *new(T)
	return p
}

func Make[T any](a *Arena, v T) *T {
	p := New[T](a)
	*p = v
	return p
}

func NewSlice[T ~[]E, E any](a *Arena, len, cap int) T {
	if cap == 0 {
		return nil
	}
	var e *E
	p := a.alloc(reflect.TypeOf(e).Elem(), cap)
	s := unsafe.Slice((*E)(p), cap)
	clear(s)
	return T(s[:len])
}

func MakeSlice[T ~[]E, E any](a *Arena, values T) T {
	s := NewSlice[T, E](a, len(values), len(values))
	copy(s, values)
	return s
}

func Append[T ~[]E, E any](a *Arena, s T, data ...E) T {
	if n := len(s) + len(data) - cap(s); n > 0 {
		s = growSlice(a, s, n)
	}
	return append(s, data...)
}

func growSlice[T ~[]E, E any](a *Arena, s T, n int) T {
	const growThreshold = 256
	newCap := cap(s)
	if newCap == 0 {
		newCap = n
	} else {
		for newCap < len(s)+n {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	}
	s2 := NewSlice[T, E](a, len(s), newCap)
	copy(s2, s)
	return s2
}
