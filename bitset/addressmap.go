package bitset

// AddressMap is a thin byte-granular adapter over a BitVector, addressing a
// fixed host pointer range [start, end).
type AddressMap struct {
	bv    *BitVector
	start uintptr
	end   uintptr
}

// NewAddressMap creates an AddressMap covering [start, end).
func NewAddressMap(start, end uintptr) *AddressMap {
	if end < start {
		end = start
	}
	return &AddressMap{bv: New(uint64(end - start)), start: start, end: end}
}

func (m *AddressMap) offset(addr uintptr) (uint64, bool) {
	if addr < m.start || addr >= m.end {
		return 0, false
	}
	return uint64(addr - m.start), true
}

// Mark marks the bit for addr. Out-of-range addresses are a no-op.
func (m *AddressMap) Mark(addr uintptr) {
	if off, ok := m.offset(addr); ok {
		m.bv.Set(off)
	}
}

// Clear clears the bit for addr.
func (m *AddressMap) Clear(addr uintptr) {
	if off, ok := m.offset(addr); ok {
		m.bv.Clear(off)
	}
}

// MarkRange marks every address in [from,to).
func (m *AddressMap) MarkRange(from, to uintptr) {
	foff, ok1 := m.offset(from)
	toff, ok2 := m.offset(to - 1)
	if !ok1 || !ok2 || to <= from {
		return
	}
	m.bv.SetRange(foff, toff)
}

// ClearRange clears every address in [from,to).
func (m *AddressMap) ClearRange(from, to uintptr) {
	foff, ok1 := m.offset(from)
	toff, ok2 := m.offset(to - 1)
	if !ok1 || !ok2 || to <= from {
		return
	}
	m.bv.ClearRange(foff, toff)
}

// HasMark reports whether addr is marked.
func (m *AddressMap) HasMark(addr uintptr) bool {
	off, ok := m.offset(addr)
	return ok && m.bv.Get(off)
}

// HasMarksInRange reports whether any address in [from,to) is marked.
func (m *AddressMap) HasMarksInRange(from, to uintptr) bool {
	foff, ok1 := m.offset(from)
	toff, ok2 := m.offset(to - 1)
	if !ok1 || !ok2 || to <= from {
		return false
	}
	it := LazyIndicesOf(m.bv, true, foff, toff)
	return HasValid(it.Next())
}

// Invert flips every bit in the map.
func (m *AddressMap) Invert() { m.bv.Invert() }

// HasCommonMarks reports whether this map and other share any marked bit
// over their shared range.
func (m *AddressMap) HasCommonMarks(other *AddressMap) bool {
	it := LazyAndThenIndicesOf(true, m.bv, other.bv)
	return HasValid(it.Next())
}

// FirstCommonMark returns the lowest address marked in both maps, and
// whether one exists.
func (m *AddressMap) FirstCommonMark(other *AddressMap) (uintptr, bool) {
	it := LazyAndThenIndicesOf(true, m.bv, other.bv)
	idx := it.Next()
	if !HasValid(idx) {
		return 0, false
	}
	return m.start + uintptr(idx), true
}

// AddressRange is a maximal contiguous run of marked addresses, [Start, End).
type AddressRange struct {
	Start, End uintptr
}

// EnumerateMarkedBlocks returns the maximal, ascending, non-overlapping
// marked address ranges.
func (m *AddressMap) EnumerateMarkedBlocks() []AddressRange {
	var blocks []AddressRange
	if m.end == m.start {
		return nil
	}
	it := LazyIndicesOf(m.bv, true, 0, uint64(m.end-m.start)-1)
	var cur *AddressRange
	for {
		idx := it.Next()
		if !HasValid(idx) {
			break
		}
		addr := m.start + uintptr(idx)
		if cur != nil && cur.End == addr {
			cur.End = addr + 1
			continue
		}
		if cur != nil {
			blocks = append(blocks, *cur)
		}
		cur = &AddressRange{Start: addr, End: addr + 1}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}

// EnumerateMarksInScope invokes handler with each marked address in [from,to)
// in ascending order, stopping early if handler returns false.
func (m *AddressMap) EnumerateMarksInScope(from, to uintptr, handler func(addr uintptr) bool) {
	foff, ok1 := m.offset(from)
	toff, ok2 := m.offset(to - 1)
	if !ok1 || !ok2 || to <= from {
		return
	}
	it := LazyIndicesOf(m.bv, true, foff, toff)
	for {
		idx := it.Next()
		if !HasValid(idx) {
			return
		}
		if !handler(m.start + uintptr(idx)) {
			return
		}
	}
}
