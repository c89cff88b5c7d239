// Package flowinfo builds the per-method control-flow maps the verifier
// consumes: an instructions map marking every valid instruction-start PC,
// a jumps map from jump-site PC to target PC, and an exception-source map
// marking PCs that may raise (spec.md §4.11). Built directly on
// bitset.AddressMap; instruction lengths come from a caller-supplied
// InstructionLength.
package flowinfo

import (
	"fmt"

	"github.com/avalon-vm/panda/bitset"
)

// Jump is one control-transfer edge: the PC of the jump instruction itself,
// and the PC it may transfer control to.
type Jump struct {
	Site   uintptr
	Target uintptr
}

// InstructionLength reports the byte length of the instruction starting at
// pc. Decoding the opcode table to produce this is an execution-engine
// concern outside this package's scope; callers supply it (typically
// backed by the assembler's opcode table once instructions are decoded
// from a CodeDataAccessor's raw bytes).
type InstructionLength func(pc uintptr) (uint, error)

// MethodFlowInfo is the three control-flow maps for one method's code,
// plus the jump edges needed to answer per-target queries.
type MethodFlowInfo struct {
	codeStart, codeEnd uintptr

	instructions *bitset.AddressMap
	jumpSites    *bitset.AddressMap
	jumpTargets  *bitset.AddressMap
	exceptions   *bitset.AddressMap

	jumps         []Jump
	jumpsByTarget map[uintptr][]uintptr
}

// Build walks [codeStart, codeEnd) marking every instruction-start PC via
// instrLen, then marks each jump's site and records its target, then marks
// each exception-raising PC. It mirrors spec.md §4.11's three-pass
// construction; the instructions map marks each instruction start
// individually.
func Build(codeStart, codeEnd uintptr, instrLen InstructionLength, jumps []Jump, exceptionSources []uintptr) (*MethodFlowInfo, error) {
	if codeEnd < codeStart {
		return nil, fmt.Errorf("flowinfo: codeEnd %d before codeStart %d", codeEnd, codeStart)
	}

	fi := &MethodFlowInfo{
		codeStart:     codeStart,
		codeEnd:       codeEnd,
		instructions:  bitset.NewAddressMap(codeStart, codeEnd),
		jumpSites:     bitset.NewAddressMap(codeStart, codeEnd),
		jumpTargets:   bitset.NewAddressMap(codeStart, codeEnd),
		exceptions:    bitset.NewAddressMap(codeStart, codeEnd),
		jumps:         append([]Jump(nil), jumps...),
		jumpsByTarget: make(map[uintptr][]uintptr, len(jumps)),
	}

	for pc := codeStart; pc < codeEnd; {
		fi.instructions.Mark(pc)
		n, err := instrLen(pc)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("flowinfo: zero-length instruction at pc %d", pc)
		}
		pc += uintptr(n)
	}

	for _, j := range jumps {
		fi.jumpSites.Mark(j.Site)
		fi.jumpTargets.Mark(j.Target)
		fi.jumpsByTarget[j.Target] = append(fi.jumpsByTarget[j.Target], j.Site)
	}

	for _, pc := range exceptionSources {
		fi.exceptions.Mark(pc)
	}

	return fi, nil
}

// CanJumpTo reports whether target begins a valid instruction; a jump into
// the middle of an instruction is illegal (spec.md §4.11).
func (fi *MethodFlowInfo) CanJumpTo(target uintptr) bool {
	return target >= fi.codeStart && target < fi.codeEnd && fi.instructions.HasMark(target)
}

// Targets enumerates every distinct jump target recorded.
func (fi *MethodFlowInfo) Targets() []uintptr {
	targets := make([]uintptr, 0, len(fi.jumpsByTarget))
	for t := range fi.jumpsByTarget {
		targets = append(targets, t)
	}
	return targets
}

// JumpsTo returns the site PCs of every jump that targets pc.
func (fi *MethodFlowInfo) JumpsTo(pc uintptr) []uintptr {
	return fi.jumpsByTarget[pc]
}

// IsExceptionSource reports whether pc may raise an exception.
func (fi *MethodFlowInfo) IsExceptionSource(pc uintptr) bool {
	return fi.exceptions.HasMark(pc)
}

// HasJumpIntoInstruction reports whether any recorded jump target is not
// itself an instruction start — i.e. a jump into the middle of an
// instruction, found via a common mark between the inverted instructions
// map and the jump-targets map (spec.md §4.11).
func (fi *MethodFlowInfo) HasJumpIntoInstruction() bool {
	invertedInstructions := bitset.NewAddressMap(fi.codeStart, fi.codeEnd)
	invertedInstructions.MarkRange(fi.codeStart, fi.codeEnd)
	for pc := fi.codeStart; pc < fi.codeEnd; pc++ {
		if fi.instructions.HasMark(pc) {
			invertedInstructions.Clear(pc)
		}
	}
	return invertedInstructions.HasCommonMarks(fi.jumpTargets)
}

// TryRegion is one catch handler's protected PC range.
type TryRegion struct {
	Start, End uintptr
}

// CoveredInstructions returns every instruction-start PC within region,
// the set of source instructions a catch handler covers (spec.md §4.11).
func (fi *MethodFlowInfo) CoveredInstructions(region TryRegion) []uintptr {
	var covered []uintptr
	fi.instructions.EnumerateMarksInScope(region.Start, region.End, func(addr uintptr) bool {
		covered = append(covered, addr)
		return true
	})
	return covered
}
