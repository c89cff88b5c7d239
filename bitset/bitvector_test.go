package bitset

import "testing"

func TestSetGetClear(t *testing.T) {
	v := New(130)
	v.Set(0)
	v.Set(64)
	v.Set(129)
	if !v.Get(0) || !v.Get(64) || !v.Get(129) {
		t.Fatal("expected bits set")
	}
	if v.Get(1) || v.Get(63) || v.Get(128) {
		t.Fatal("unexpected bit set")
	}
	v.Clear(64)
	if v.Get(64) {
		t.Fatal("expected bit cleared")
	}
}

func TestSetRangeAcrossWords(t *testing.T) {
	v := New(200)
	v.SetRange(60, 70)
	for i := uint64(60); i <= 70; i++ {
		if !v.Get(i) {
			t.Fatalf("bit %d expected set", i)
		}
	}
	if v.Get(59) || v.Get(71) {
		t.Fatal("range mutator touched bits outside range")
	}
	v.ClearRange(60, 70)
	for i := uint64(60); i <= 70; i++ {
		if v.Get(i) {
			t.Fatalf("bit %d expected cleared", i)
		}
	}
}

func TestInvertRange(t *testing.T) {
	v := New(10)
	v.Set(2)
	v.InvertRange(0, 9)
	for i := uint64(0); i < 10; i++ {
		want := i != 2
		if v.Get(i) != want {
			t.Fatalf("bit %d: got %v want %v", i, v.Get(i), want)
		}
	}
}

func TestReadWriteSpan(t *testing.T) {
	v := New(128)
	v.WriteSpan(60, 67, 0xAB)
	got := v.ReadSpan(60, 67)
	if got != 0xAB {
		t.Fatalf("got %x want %x", got, 0xAB)
	}
	// Confirm bits outside span untouched.
	if v.Get(59) || v.Get(68) {
		t.Fatal("span write leaked outside range")
	}
}

func TestResizePreservesBits(t *testing.T) {
	v := New(10)
	v.Set(3)
	v.Set(9)
	v.Resize(100)
	if v.Size() != 100 {
		t.Fatalf("size = %d want 100", v.Size())
	}
	if !v.Get(3) || !v.Get(9) {
		t.Fatal("resize lost bits")
	}
	for i := uint64(10); i < 100; i++ {
		if v.Get(i) {
			t.Fatalf("bit %d should be zero-filled after resize", i)
		}
	}
}

func TestEqual(t *testing.T) {
	a := New(70)
	b := New(70)
	a.Set(5)
	b.Set(5)
	if !a.Equal(b) {
		t.Fatal("expected equal")
	}
	a.Set(69)
	if a.Equal(b) {
		t.Fatal("expected not equal")
	}
	b.Set(69)
	if !a.Equal(b) {
		t.Fatal("expected equal after matching tail bit")
	}
}

func TestAndOrXorInPlace(t *testing.T) {
	a := New(64)
	b := New(64)
	a.SetRange(0, 10)
	b.SetRange(5, 15)

	and := New(64)
	and.SetRange(0, 10)
	and.AndInPlace(b)
	for i := uint64(0); i < 64; i++ {
		want := i >= 5 && i <= 10
		if and.Get(i) != want {
			t.Fatalf("and bit %d = %v want %v", i, and.Get(i), want)
		}
	}
}
