// Package cardtable implements a page-granular card table over a heap
// address range: one byte per card, marked idempotently and thread-safely,
// with a wide-word visit that skips all-clean chunks (spec.md §4.9).
// Grounded on original_source/runtime/mem/gc/card_table-inl.h.
package cardtable

import (
	"fmt"
	"sync/atomic"
)

// DefaultCardSize is the typical card granularity noted in spec.md §4.9.
const DefaultCardSize = 512

// card state bits, packed into a single byte per card so relaxed atomic
// byte writes stay race-free without a lock.
const (
	cardClean     uint8 = 0
	cardMarked    uint8 = 1 << 0
	cardProcessed uint8 = 1 << 1
)

// VisitFlags selects which card states VisitMarked visits, and whether it
// marks visited cards processed afterward.
type VisitFlags uint8

const (
	VisitMarkedCards VisitFlags = 1 << iota
	VisitProcessedCards
	SetProcessedAfterVisit
)

// MemRange is a half-open [Start, End) byte range of the heap.
type MemRange struct {
	Start, End uintptr
}

// CardTable tracks write-barrier marks over [minAddress, minAddress+size)
// at cardSize granularity.
type CardTable struct {
	cards      []uint8
	minAddress uintptr
	cardSize   uintptr
}

// New creates a card table covering size bytes starting at minAddress.
func New(minAddress uintptr, size uintptr, cardSize uintptr) (*CardTable, error) {
	if cardSize == 0 {
		return nil, fmt.Errorf("cardtable: cardSize must be > 0")
	}
	count := (size + cardSize - 1) / cardSize
	return &CardTable{
		cards:      make([]uint8, count),
		minAddress: minAddress,
		cardSize:   cardSize,
	}, nil
}

// cardIndex returns the card covering addr, and whether addr falls within
// the table's range.
func (ct *CardTable) cardIndex(addr uintptr) (int, bool) {
	if addr < ct.minAddress {
		return 0, false
	}
	idx := (addr - ct.minAddress) / ct.cardSize
	if idx >= uintptr(len(ct.cards)) {
		return 0, false
	}
	return int(idx), true
}

// MarkCard marks the single card covering addr. A no-op if addr falls
// outside the table's range.
func (ct *CardTable) MarkCard(addr uintptr) {
	idx, ok := ct.cardIndex(addr)
	if !ok {
		return
	}
	ct.setBits(idx, cardMarked)
}

// MarkRange marks every card overlapping [r.Start, r.End).
func (ct *CardTable) MarkRange(r MemRange) {
	startIdx, ok := ct.cardIndex(r.Start)
	if !ok {
		startIdx = 0
	}
	endAddr := r.End
	if endAddr > 0 {
		endAddr--
	}
	endIdx, ok := ct.cardIndex(endAddr)
	if !ok {
		endIdx = len(ct.cards) - 1
	}
	for i := startIdx; i <= endIdx && i < len(ct.cards); i++ {
		ct.setBits(i, cardMarked)
	}
}

// ClearAll resets every card to clean.
func (ct *CardTable) ClearAll() {
	for i := range ct.cards {
		atomic.StoreUint8(&ct.cards[i], cardClean)
	}
}

func (ct *CardTable) setBits(idx int, bits uint8) {
	p := &ct.cards[idx]
	for {
		old := atomic.LoadUint8(p)
		if old&bits == bits {
			return
		}
		if atomic.CompareAndSwapUint8(p, old, old|bits) {
			return
		}
	}
}

// GetMemoryRange returns the byte range the card at idx covers.
func (ct *CardTable) GetMemoryRange(idx int) MemRange {
	start := ct.minAddress + uintptr(idx)*ct.cardSize
	return MemRange{Start: start, End: start + ct.cardSize}
}

// wideWordCards is how many consecutive card bytes VisitMarked checks
// together for its "skip all-clean chunks" fast path. The bytes of a chunk
// are loaded one at a time; there is no single word-sized load.
const wideWordCards = 8

// VisitMarked scans the table in word-sized chunks, skipping any chunk
// whose bytes are all zero, and calls visitor once per card matching
// flags. When SetProcessedAfterVisit is set, each visited card is marked
// processed before the visitor runs.
func (ct *CardTable) VisitMarked(flags VisitFlags, visitor func(MemRange)) {
	visitMarked := flags&VisitMarkedCards != 0
	visitProcessed := flags&VisitProcessedCards != 0
	setProcessed := flags&SetProcessedAfterVisit != 0

	n := len(ct.cards)
	chunkEnd := (n / wideWordCards) * wideWordCards
	i := 0
	for i < chunkEnd {
		if ct.isChunkClean(i, wideWordCards) {
			i += wideWordCards
			continue
		}
		for j := i; j < i+wideWordCards; j++ {
			ct.visitOne(j, visitMarked, visitProcessed, setProcessed, visitor)
		}
		i += wideWordCards
	}
	for ; i < n; i++ {
		ct.visitOne(i, visitMarked, visitProcessed, setProcessed, visitor)
	}
}

func (ct *CardTable) isChunkClean(start, count int) bool {
	for i := start; i < start+count; i++ {
		if atomic.LoadUint8(&ct.cards[i]) != cardClean {
			return false
		}
	}
	return true
}

func (ct *CardTable) visitOne(idx int, visitMarked, visitProcessed, setProcessed bool, visitor func(MemRange)) {
	state := atomic.LoadUint8(&ct.cards[idx])
	matches := (visitMarked && state&cardMarked != 0) || (visitProcessed && state&cardProcessed != 0)
	if !matches {
		return
	}
	if setProcessed {
		ct.setBits(idx, cardProcessed)
	}
	visitor(ct.GetMemoryRange(idx))
}

// VisitMarkedCompact coalesces runs of adjacent marked cards into larger
// MemRange values and reports them in bulk, matching VisitMarkedCompact's
// "fewer, larger ranges" contract for compacting collectors.
func (ct *CardTable) VisitMarkedCompact(visitor func(MemRange)) {
	n := len(ct.cards)
	i := 0
	for i < n {
		if atomic.LoadUint8(&ct.cards[i])&cardMarked == 0 {
			i++
			continue
		}
		start := i
		for i < n && atomic.LoadUint8(&ct.cards[i])&cardMarked != 0 {
			i++
		}
		visitor(MemRange{
			Start: ct.minAddress + uintptr(start)*ct.cardSize,
			End:   ct.minAddress + uintptr(i)*ct.cardSize,
		})
	}
}

// CardsCount returns the number of cards in the table.
func (ct *CardTable) CardsCount() int { return len(ct.cards) }
