// Package ints contains a set of small non-negative integers used for symbol sets.
package ints

import "math/bits"

const chunkShift = 6
const chunkBits = 1 << chunkShift

// Set is a bit set of non-negative integers. Zero value is an empty set.
type Set struct {
	chunks []uint64
}

func NewSet(items ...int) *Set {
	result := &Set{}
	result.Add(items...)
	return result
}

func (s *Set) grow(item int) {
	n := item>>chunkShift + 1
	if n > len(s.chunks) {
		chunks := make([]uint64, n)
		copy(chunks, s.chunks)
		s.chunks = chunks
	}
}

// Add adds items to s. Negative items are ignored.
func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}
		s.grow(item)
		s.chunks[item>>chunkShift] |= 1 << (item & (chunkBits - 1))
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if item >= 0 && item>>chunkShift < len(s.chunks) {
			s.chunks[item>>chunkShift] &^= 1 << (item & (chunkBits - 1))
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 || item>>chunkShift >= len(s.chunks) {
		return false
	}
	return s.chunks[item>>chunkShift]&(1<<(item&(chunkBits-1))) != 0
}

func (s *Set) Len() int {
	result := 0
	for _, c := range s.chunks {
		result += bits.OnesCount64(c)
	}
	return result
}

func (s *Set) IsEmpty() bool {
	for _, c := range s.chunks {
		if c != 0 {
			return false
		}
	}
	return true
}

func (s *Set) Copy() *Set {
	return &Set{append([]uint64(nil), s.chunks...)}
}

func (s *Set) IsEqual(t *Set) bool {
	long, short := s.chunks, t.chunks
	if len(long) < len(short) {
		long, short = short, long
	}
	for i, c := range long {
		if i < len(short) {
			if c != short[i] {
				return false
			}
		} else if c != 0 {
			return false
		}
	}
	return true
}

// Union adds all items of t to s and reports whether s has changed.
func (s *Set) Union(t *Set) bool {
	if len(t.chunks) > len(s.chunks) {
		s.grow(len(t.chunks)*chunkBits - 1)
	}
	changed := false
	for i, c := range t.chunks {
		if c&^s.chunks[i] != 0 {
			s.chunks[i] |= c
			changed = true
		}
	}
	return changed
}

// Intersects reports whether s and t have common items.
func (s *Set) Intersects(t *Set) bool {
	for i, c := range s.chunks {
		if i < len(t.chunks) && c&t.chunks[i] != 0 {
			return true
		}
	}
	return false
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, c := range s.chunks {
		for c != 0 {
			b := bits.TrailingZeros64(c)
			result = append(result, i<<chunkShift+b)
			c &= c - 1
		}
	}
	return result
}

// Union returns a new set containing items of all sets.
func Union(sets ...*Set) *Set {
	result := &Set{}
	for _, s := range sets {
		result.Union(s)
	}
	return result
}
