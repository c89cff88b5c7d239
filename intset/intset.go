// Package intset implements a hybrid set of non-negative integers that
// automatically switches between a sorted small vector and a bit vector
// representation as it grows or shrinks.
package intset

import (
	"sort"

	"github.com/avalon-vm/panda/bitset"
)

// Threshold is the element count at which a small (sorted-vector) set is
// rebuilt as a large (bit-vector) set, and below which a large set shrinks
// back to small after an in-place intersection.
const Threshold = 256

// IntSet is a set of uint64 with an internal representation that switches
// automatically at Threshold elements.
type IntSet struct {
	small []uint64 // sorted, unique; nil when large
	large *bitset.BitVector
}

// New returns an empty IntSet.
func New() *IntSet {
	return &IntSet{}
}

// IsLarge reports whether the set currently uses the bit-vector
// representation. Exposed for tests that assert on representation
// switching; callers should never need to branch on it.
func (s *IntSet) IsLarge() bool { return s.large != nil }

// Size returns the number of elements in the set.
func (s *IntSet) Size() int {
	if s.large != nil {
		return int(s.large.PopCount())
	}
	return len(s.small)
}

// Contains reports whether v is a member.
func (s *IntSet) Contains(v uint64) bool {
	if s.large != nil {
		return v < s.large.Size() && s.large.Get(v)
	}
	i := sort.Search(len(s.small), func(i int) bool { return s.small[i] >= v })
	return i < len(s.small) && s.small[i] == v
}

// Insert adds v to the set.
func (s *IntSet) Insert(v uint64) {
	if s.large != nil {
		s.growLarge(v)
		s.large.Set(v)
		return
	}
	i := sort.Search(len(s.small), func(i int) bool { return s.small[i] >= v })
	if i < len(s.small) && s.small[i] == v {
		return
	}
	s.small = append(s.small, 0)
	copy(s.small[i+1:], s.small[i:])
	s.small[i] = v
	if len(s.small) >= Threshold {
		s.rebuildLarge()
	}
}

// InsertBulk adds every value in vs. If sorted is true the caller asserts vs
// is already sorted ascending and unique, which short-circuits the merge.
func (s *IntSet) InsertBulk(vs []uint64, sorted bool) {
	if s.large != nil {
		for _, v := range vs {
			s.growLarge(v)
			s.large.Set(v)
		}
		return
	}
	if sorted {
		s.small = mergeSorted(s.small, vs)
	} else {
		cp := append([]uint64(nil), vs...)
		sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
		s.small = mergeSorted(s.small, cp)
	}
	if len(s.small) >= Threshold {
		s.rebuildLarge()
	}
}

func mergeSorted(a, b []uint64) []uint64 {
	out := make([]uint64, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func (s *IntSet) growLarge(v uint64) {
	if v >= s.large.Size() {
		s.large.Resize(v + 1)
	}
}

func (s *IntSet) rebuildLarge() {
	max := uint64(0)
	for _, v := range s.small {
		if v > max {
			max = v
		}
	}
	bv := bitset.New(uint64(float64(max+1) * 1.5))
	for _, v := range s.small {
		bv.Set(v)
	}
	s.large = bv
	s.small = nil
}

func (s *IntSet) rebuildSmall() {
	var small []uint64
	it := bitset.LazyIndicesOf(s.large, true, 0, s.large.Size()-1)
	for {
		idx := it.Next()
		if !bitset.HasValid(idx) {
			break
		}
		small = append(small, idx)
	}
	s.small = small
	s.large = nil
}

// maybeShrink rebuilds a large set as small when its size drops below
// Threshold, per the switching rule.
func (s *IntSet) maybeShrink() {
	if s.large != nil && s.Size() < Threshold {
		s.rebuildSmall()
	}
}

// ForAll calls f for every element in ascending order, stopping early (and
// returning false) the first time f returns false.
func (s *IntSet) ForAll(f func(v uint64) bool) bool {
	it := s.Iterator()
	for it.HasNext() {
		if !f(it.Next()) {
			return false
		}
	}
	return true
}

// Equal reports set-theoretic equality.
func (s *IntSet) Equal(o *IntSet) bool {
	if s.Size() != o.Size() {
		return false
	}
	return s.ForAll(func(v uint64) bool { return o.Contains(v) })
}

// Union returns a new set containing every element of s and o.
func (s *IntSet) Union(o *IntSet) *IntSet {
	r := New()
	s.ForAll(func(v uint64) bool { r.Insert(v); return true })
	o.ForAll(func(v uint64) bool { r.Insert(v); return true })
	return r
}

// UnionInPlace adds every element of o into s.
func (s *IntSet) UnionInPlace(o *IntSet) {
	o.ForAll(func(v uint64) bool { s.Insert(v); return true })
}

// Intersect returns a new set containing elements present in both s and o.
func (s *IntSet) Intersect(o *IntSet) *IntSet {
	r := New()
	a, b := s, o
	if a.Size() > b.Size() {
		a, b = b, a
	}
	a.ForAll(func(v uint64) bool {
		if b.Contains(v) {
			r.Insert(v)
		}
		return true
	})
	return r
}

// IntersectInPlace removes from s every element not present in o, then
// applies the shrink rule.
func (s *IntSet) IntersectInPlace(o *IntSet) {
	keep := s.Intersect(o)
	*s = *keep
	s.maybeShrink()
}

// LazyIntersect returns a stream of elements present in both s and o, in
// ascending order.
func LazyIntersect(a, b *IntSet) func() (uint64, bool) {
	ai, bi := a.Iterator(), b.Iterator()
	var av, bv uint64
	var aok, bok bool
	advanceA := func() { aok = ai.HasNext(); if aok { av = ai.Next() } }
	advanceB := func() { bok = bi.HasNext(); if bok { bv = bi.Next() } }
	advanceA()
	advanceB()
	return func() (uint64, bool) {
		for aok && bok {
			switch {
			case av < bv:
				advanceA()
			case av > bv:
				advanceB()
			default:
				r := av
				advanceA()
				advanceB()
				return r, true
			}
		}
		return 0, false
	}
}

// Iterator yields elements in ascending order, independent of the current
// internal representation.
type Iterator struct {
	small []uint64
	pos   int

	large    *bitset.LazyIndexIterator
	largeSrc *bitset.BitVector
	peeked   uint64
	hasPeek  bool
}

// Iterator returns a forward iterator over the set's elements.
func (s *IntSet) Iterator() *Iterator {
	if s.large != nil && s.large.Size() > 0 {
		return &Iterator{large: bitset.LazyIndicesOf(s.large, true, 0, s.large.Size()-1), largeSrc: s.large}
	}
	return &Iterator{small: s.small}
}

// HasNext reports whether there is another element to yield.
func (it *Iterator) HasNext() bool {
	if it.large != nil {
		if it.hasPeek {
			return true
		}
		idx := it.large.Next()
		if !bitset.HasValid(idx) {
			return false
		}
		it.peeked = idx
		it.hasPeek = true
		return true
	}
	return it.pos < len(it.small)
}

// Next returns the next element. Call HasNext first.
func (it *Iterator) Next() uint64 {
	if it.large != nil {
		if it.hasPeek {
			it.hasPeek = false
			return it.peeked
		}
		idx := it.large.Next()
		return idx
	}
	v := it.small[it.pos]
	it.pos++
	return v
}

// Equal reports whether two iterators were produced by the same
// representation at the same position — used by callers that need to
// compare iteration cursors rather than set contents.
func (it *Iterator) Equal(o *Iterator) bool {
	if (it.large != nil) != (o.large != nil) {
		return false
	}
	if it.large != nil {
		return it.largeSrc == o.largeSrc && it.hasPeek == o.hasPeek && it.peeked == o.peeked
	}
	return it.pos == o.pos && len(it.small) == len(o.small)
}
