package ints

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ava12/playlang/internal/test"
)

func TestEmpty(t *testing.T) {
	var s Set
	test.Assert(t, s.IsEmpty(), "zero set must be empty")
	test.Assert(t, !s.Contains(0), "zero set must not contain 0")
	s.Add(1)
	test.Assert(t, !s.IsEmpty(), "set must not be empty")
	s.Remove(1)
	test.Assert(t, s.IsEmpty(), "set must be empty after removal")
}

func TestItems(t *testing.T) {
	s := NewSet(130, 3, 64, 0, 3, -1)
	test.ExpectInt(t, 4, s.Len())
	if diff := cmp.Diff([]int{0, 3, 64, 130}, s.ToSlice()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	test.Assert(t, s.Contains(64) && !s.Contains(65) && !s.Contains(1000), "unexpected membership")
}

func TestUnion(t *testing.T) {
	s := NewSet(1, 2)
	test.Assert(t, s.Union(NewSet(2, 100)), "union must report change")
	test.Assert(t, !s.Union(NewSet(1, 100)), "union must not report change")
	test.Assert(t, s.IsEqual(NewSet(1, 2, 100)), "unexpected items %v", s.ToSlice())

	u := Union(NewSet(1), NewSet(70), &Set{})
	if diff := cmp.Diff([]int{1, 70}, u.ToSlice()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualAndCopy(t *testing.T) {
	s := NewSet(5, 200)
	c := s.Copy()
	test.Assert(t, s.IsEqual(c), "copy must be equal")
	s.Remove(200)
	test.Assert(t, !s.IsEqual(c), "copy must be independent")
	test.Assert(t, s.IsEqual(NewSet(5)), "trailing empty chunks must be ignored")
	test.Assert(t, NewSet(5).IsEqual(s), "comparison must be symmetric")
}

func TestIntersects(t *testing.T) {
	test.Assert(t, NewSet(1, 99).Intersects(NewSet(99)), "sets intersect")
	test.Assert(t, !NewSet(1).Intersects(NewSet(2, 300)), "sets do not intersect")
}
