package intset

import "testing"

func TestInsertContains(t *testing.T) {
	s := New()
	s.Insert(5)
	s.Insert(1)
	s.Insert(5)
	if s.Size() != 2 {
		t.Fatalf("size = %d want 2", s.Size())
	}
	if !s.Contains(1) || !s.Contains(5) || s.Contains(2) {
		t.Fatal("contains mismatch")
	}
}

func TestRepresentationSwitchGrow(t *testing.T) {
	s := New()
	for i := uint64(0); i < Threshold; i++ {
		s.Insert(i)
	}
	if !s.IsLarge() {
		t.Fatal("expected large representation at threshold")
	}
	if s.Size() != Threshold {
		t.Fatalf("size = %d want %d", s.Size(), Threshold)
	}
}

func TestIntersectionShrinksBackToSmall(t *testing.T) {
	s := New()
	for i := uint64(0); i < Threshold; i++ {
		s.Insert(i)
	}
	other := New()
	other.Insert(Threshold - 1)

	s.IntersectInPlace(other)
	if s.IsLarge() {
		t.Fatal("expected small representation after shrinking intersection")
	}
	if s.Size() != 1 || !s.Contains(Threshold-1) {
		t.Fatalf("unexpected post-intersection state: size=%d", s.Size())
	}
}

func TestUnionCardinality(t *testing.T) {
	a := New()
	b := New()
	for i := uint64(0); i < 10; i++ {
		a.Insert(i)
	}
	for i := uint64(5); i < 15; i++ {
		b.Insert(i)
	}
	union := a.Union(b)
	inter := a.Intersect(b)
	if union.Size() != a.Size()+b.Size()-inter.Size() {
		t.Fatalf("|union|=%d != |a|+|b|-|inter| = %d", union.Size(), a.Size()+b.Size()-inter.Size())
	}
}

func TestIntersectCommutative(t *testing.T) {
	a := New()
	b := New()
	for i := uint64(0); i < 300; i += 3 {
		a.Insert(i)
	}
	for i := uint64(0); i < 300; i += 5 {
		b.Insert(i)
	}
	if !a.Intersect(b).Equal(b.Intersect(a)) {
		t.Fatal("intersection not commutative")
	}
}

func TestIteratorAscending(t *testing.T) {
	s := New()
	vals := []uint64{50, 3, 700, 12, 9}
	for _, v := range vals {
		s.Insert(v)
	}
	it := s.Iterator()
	var last int64 = -1
	count := 0
	for it.HasNext() {
		v := it.Next()
		if int64(v) <= last {
			t.Fatalf("not ascending: %d after %d", v, last)
		}
		last = int64(v)
		count++
	}
	if count != len(vals) {
		t.Fatalf("iterated %d want %d", count, len(vals))
	}
}

func TestLazyIntersect(t *testing.T) {
	a := New()
	b := New()
	for _, v := range []uint64{1, 2, 3, 4, 5} {
		a.Insert(v)
	}
	for _, v := range []uint64{2, 4, 6} {
		b.Insert(v)
	}
	next := LazyIntersect(a, b)
	var got []uint64
	for {
		v, ok := next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("got %v want [2 4]", got)
	}
}

func TestForAllShortCircuits(t *testing.T) {
	s := New()
	for i := uint64(0); i < 10; i++ {
		s.Insert(i)
	}
	seen := 0
	result := s.ForAll(func(v uint64) bool {
		seen++
		return v < 3
	})
	if result {
		t.Fatal("expected false result")
	}
	if seen != 4 {
		t.Fatalf("seen = %d want 4 (stops right after failing element)", seen)
	}
}

func TestInsertBulkSorted(t *testing.T) {
	s := New()
	s.InsertBulk([]uint64{1, 3, 5, 7}, true)
	s.InsertBulk([]uint64{3, 4}, false)
	want := []uint64{1, 3, 4, 5, 7}
	it := s.Iterator()
	i := 0
	for it.HasNext() {
		v := it.Next()
		if v != want[i] {
			t.Fatalf("got %d want %d at %d", v, want[i], i)
		}
		i++
	}
	if i != len(want) {
		t.Fatalf("count %d want %d", i, len(want))
	}
}
