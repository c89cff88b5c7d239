// Package memstats implements the cumulative per-space memory and GC-pause
// counters spec.md §4.10 describes: atomic bytes-allocated/freed/moved and
// peak-footprint per heap space, plus GC pause and per-phase timing
// aggregates. Struct shape (zero-value-ready, atomic.Int64 fields, a
// constructor that just allocates) is modeled on
// bobbydeveaux-starbucks-mugs/agent/internal/transport/metrics.go's Metrics
// type, the clearest "released-acquire atomic counters" example in the
// retrieval pack.
package memstats

import "sync/atomic"

// Space is one of the heap regions MemStats tracks counters for.
type Space int

const (
	SpaceObject Space = iota
	SpaceHumongousObject
	SpaceInternal
	SpaceCode
	SpaceCompiler
	spaceCount
)

// Phase is a named sub-interval of a GC pause, tracked the same way as the
// overall pause (min/max/sum/count).
type Phase int

const (
	PhaseMarking Phase = iota
	PhaseSweeping
	PhaseCompacting
	PhaseRemark
	phaseCount
)

// spaceCounters holds one space's monotonic byte counters and the derived
// peak footprint, all updated with fetch-add so concurrent allocators never
// block each other.
type spaceCounters struct {
	bytesAllocated atomic.Int64
	bytesFreed     atomic.Int64
	bytesMoved     atomic.Int64
	peakFootprint  atomic.Int64

	objectsAllocated atomic.Int64
	objectsFreed     atomic.Int64
}

// pauseStats accumulates min/max/sum/count for a stream of durations
// (overall GC pauses, or one GC phase), per spec.md §4.10's
// record_pause_start/record_pause_end contract.
type pauseStats struct {
	count    atomic.Int64
	sumNanos atomic.Int64
	minNanos atomic.Int64
	maxNanos atomic.Int64
}

// MemStats is the set of cumulative counters a GC maintains across its
// lifetime. The zero value is usable directly; New is provided for
// parity with the rest of this module's constructor style.
type MemStats struct {
	spaces [spaceCount]spaceCounters
	pause  pauseStats
	phases [phaseCount]pauseStats
}

// New returns a MemStats with all counters at zero.
func New() *MemStats { return &MemStats{} }

// RecordAllocation adds size bytes (and, for OBJECT/HUMONGOUS_OBJECT, one
// object) to space's cumulative allocation counters, updating peak
// footprint if the new (allocated-freed) exceeds the prior peak.
func (ms *MemStats) RecordAllocation(space Space, size int64) {
	sc := &ms.spaces[space]
	sc.bytesAllocated.Add(size)
	if space == SpaceObject || space == SpaceHumongousObject {
		sc.objectsAllocated.Add(1)
	}
	ms.updatePeak(sc)
}

// RecordFree adds size bytes (and, for OBJECT/HUMONGOUS_OBJECT, one object)
// to space's cumulative free counters.
func (ms *MemStats) RecordFree(space Space, size int64) {
	sc := &ms.spaces[space]
	sc.bytesFreed.Add(size)
	if space == SpaceObject || space == SpaceHumongousObject {
		sc.objectsFreed.Add(1)
	}
}

// RecordMove adds size bytes to space's cumulative moved-bytes counter
// (compaction/copying collectors relocating live objects).
func (ms *MemStats) RecordMove(space Space, size int64) {
	ms.spaces[space].bytesMoved.Add(size)
}

func (ms *MemStats) updatePeak(sc *spaceCounters) {
	footprint := sc.bytesAllocated.Load() - sc.bytesFreed.Load()
	for {
		peak := sc.peakFootprint.Load()
		if footprint <= peak {
			return
		}
		if sc.peakFootprint.CompareAndSwap(peak, footprint) {
			return
		}
	}
}

// SpaceSnapshot is a consistent-enough read of one space's counters.
type SpaceSnapshot struct {
	BytesAllocated, BytesFreed, BytesMoved, PeakFootprint int64
	ObjectsAllocated, ObjectsFreed                        int64
}

// Snapshot returns space's current counter values.
func (ms *MemStats) Snapshot(space Space) SpaceSnapshot {
	sc := &ms.spaces[space]
	return SpaceSnapshot{
		BytesAllocated:   sc.bytesAllocated.Load(),
		BytesFreed:       sc.bytesFreed.Load(),
		BytesMoved:       sc.bytesMoved.Load(),
		PeakFootprint:    sc.peakFootprint.Load(),
		ObjectsAllocated: sc.objectsAllocated.Load(),
		ObjectsFreed:     sc.objectsFreed.Load(),
	}
}

// TotalFootprint returns the sum of every space's current footprint
// (allocated - freed), per spec.md §8's "total_footprint = Σ footprint_of(space)".
func (ms *MemStats) TotalFootprint() int64 {
	var total int64
	for s := Space(0); s < spaceCount; s++ {
		sc := &ms.spaces[s]
		total += sc.bytesAllocated.Load() - sc.bytesFreed.Load()
	}
	return total
}

// PauseHandle marks the start of a timed interval (a GC pause or a GC
// phase); pass its start value to RecordPauseEnd/RecordPhaseEnd once the
// interval elapses. Timestamps are caller-supplied monotonic nanoseconds so
// this package never calls time.Now itself.
type PauseHandle struct {
	startNanos int64
}

// RecordPauseStart captures the start of a GC pause.
func RecordPauseStart(nowNanos int64) PauseHandle { return PauseHandle{startNanos: nowNanos} }

// RecordPauseEnd computes the elapsed duration since h was created,
// updating min/max/sum/count for the overall pause distribution.
func (ms *MemStats) RecordPauseEnd(h PauseHandle, nowNanos int64) {
	recordInterval(&ms.pause, nowNanos-h.startNanos)
}

// RecordPhaseEnd is RecordPauseEnd scoped to a single named GC phase.
func (ms *MemStats) RecordPhaseEnd(phase Phase, h PauseHandle, nowNanos int64) {
	recordInterval(&ms.phases[phase], nowNanos-h.startNanos)
}

func recordInterval(ps *pauseStats, delta int64) {
	ps.sumNanos.Add(delta)
	n := ps.count.Add(1)

	for {
		min := ps.minNanos.Load()
		if n > 1 && delta >= min {
			break
		}
		if ps.minNanos.CompareAndSwap(min, delta) {
			break
		}
	}
	for {
		max := ps.maxNanos.Load()
		if delta <= max {
			break
		}
		if ps.maxNanos.CompareAndSwap(max, delta) {
			break
		}
	}
}

// PauseSnapshot reports the current min/max/average/total/count of a
// timed-interval distribution (overall pauses, or a single phase).
type PauseSnapshot struct {
	Count        int64
	MinNanos     int64
	MaxNanos     int64
	TotalNanos   int64
	AverageNanos int64 // 0 when Count == 0, per spec.md §4.10
}

func snapshotPause(ps *pauseStats) PauseSnapshot {
	count := ps.count.Load()
	total := ps.sumNanos.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return PauseSnapshot{
		Count:        count,
		MinNanos:     ps.minNanos.Load(),
		MaxNanos:     ps.maxNanos.Load(),
		TotalNanos:   total,
		AverageNanos: avg,
	}
}

// PauseSnapshot returns the overall GC pause distribution.
func (ms *MemStats) PauseSnapshot() PauseSnapshot { return snapshotPause(&ms.pause) }

// PhaseSnapshot returns phase's distribution.
func (ms *MemStats) PhaseSnapshot(phase Phase) PauseSnapshot { return snapshotPause(&ms.phases[phase]) }
