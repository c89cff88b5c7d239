package bitset

import "testing"

func TestPowerOfAndMatchesPopcount(t *testing.T) {
	a := New(128)
	b := New(128)
	c := New(128)
	a.SetRange(0, 100)
	b.SetRange(50, 127)
	c.SetRange(60, 127)

	got := PowerOfAnd(a, b, c)

	var want uint64
	for i := uint64(0); i < 128; i++ {
		if a.Get(i) && b.Get(i) && c.Get(i) {
			want++
		}
	}
	if got != want {
		t.Fatalf("PowerOfAnd = %d want %d", got, want)
	}
}

func TestLazyAndThenIndicesOfAscendingAndMatchesPower(t *testing.T) {
	a := New(200)
	b := New(200)
	c := New(200)
	a.SetRange(10, 190)
	b.SetRange(20, 150)
	c.SetRange(30, 199)

	it := LazyAndThenIndicesOf(true, a, b, c)
	var indices []uint64
	last := int64(-1)
	for {
		idx := it.Next()
		if !HasValid(idx) {
			break
		}
		if int64(idx) <= last {
			t.Fatalf("indices not strictly ascending: %d after %d", idx, last)
		}
		last = int64(idx)
		indices = append(indices, idx)
	}

	if uint64(len(indices)) != PowerOfAnd(a, b, c) {
		t.Fatalf("lazy count %d != power_of_and %d", len(indices), PowerOfAnd(a, b, c))
	}
	for _, idx := range indices {
		if !(a.Get(idx) && b.Get(idx) && c.Get(idx)) {
			t.Fatalf("index %d does not satisfy AND", idx)
		}
	}
}

func TestLazyIndicesOfRange(t *testing.T) {
	v := New(64)
	v.Set(5)
	v.Set(10)
	v.Set(40)

	it := LazyIndicesOf(v, true, 0, 20)
	got := []uint64{}
	for {
		idx := it.Next()
		if !HasValid(idx) {
			break
		}
		got = append(got, idx)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Fatalf("got %v want [5 10]", got)
	}
}
