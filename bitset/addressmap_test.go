package bitset

import "testing"

func TestAddressMapMarkAndBlocks(t *testing.T) {
	start := uintptr(0x1000)
	end := uintptr(0x2000)
	m := NewAddressMap(start, end)

	m.Mark(start + 0x10)
	m.Mark(start + 0x11)
	m.Mark(start + 0x12)
	m.Mark(start + 0x100)

	if !m.HasMark(start + 0x10) {
		t.Fatal("expected mark")
	}
	if m.HasMark(start + 0x50) {
		t.Fatal("unexpected mark")
	}

	blocks := m.EnumerateMarkedBlocks()
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks want 2", len(blocks))
	}
	if blocks[0].Start != start+0x10 || blocks[0].End != start+0x13 {
		t.Fatalf("block0 = %+v", blocks[0])
	}
	if blocks[1].Start != start+0x100 || blocks[1].End != start+0x101 {
		t.Fatalf("block1 = %+v", blocks[1])
	}
}

func TestAddressMapCommonMarks(t *testing.T) {
	start := uintptr(0x4000)
	end := uintptr(0x5000)
	a := NewAddressMap(start, end)
	b := NewAddressMap(start, end)

	a.Mark(start + 10)
	b.Mark(start + 20)
	if a.HasCommonMarks(b) {
		t.Fatal("expected no common marks")
	}
	b.Mark(start + 10)
	if !a.HasCommonMarks(b) {
		t.Fatal("expected common mark")
	}
	addr, ok := a.FirstCommonMark(b)
	if !ok || addr != start+10 {
		t.Fatalf("first common mark = %v, %v", addr, ok)
	}
}

func TestAddressMapEnumerateScopeStopsEarly(t *testing.T) {
	start := uintptr(0)
	end := uintptr(100)
	m := NewAddressMap(start, end)
	m.Mark(1)
	m.Mark(2)
	m.Mark(3)

	var seen []uintptr
	m.EnumerateMarksInScope(0, 100, func(addr uintptr) bool {
		seen = append(seen, addr)
		return len(seen) < 2
	})
	if len(seen) != 2 {
		t.Fatalf("handler should have stopped after 2, got %d", len(seen))
	}
}
