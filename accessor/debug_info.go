package accessor

import "github.com/avalon-vm/panda"

// Line-number program opcodes (spec §4.6's "debug info" opcode catalogue).
// Opcodes at or above lnpFirstSpecial are "special opcodes": a single byte
// encodes a combined (pc-delta, line-delta) pair, the same scheme dex's
// debug_info_item line-number program uses.
const (
	lnpEndSequence uint8 = iota
	lnpAdvancePC
	lnpAdvanceLine
	lnpStartLocal
	lnpStartLocalExtended
	lnpEndLocal
	lnpRestartLocal
	lnpSetPrologueEnd
	lnpSetEpilogueBegin
	lnpSetFile
	lnpSetSourceCode
	lnpFirstSpecial
)

const (
	lnpLineBase  = -4
	lnpLineRange = 15
)

// LocalVariable records one start-local/start-local-extended entry emitted
// while running the line-number program.
type LocalVariable struct {
	Reg            uint64
	NameID         panda.EntityID
	TypeID         panda.EntityID
	TypeSignatureID panda.EntityID // set only for start-local-extended
	Extended       bool
	StartPC        uint64
	EndPC          uint64 // filled in when the matching end-local/restart-local runs
}

// PositionEntry is one (pc, line) row the line-number program produces.
// Only special opcodes append rows; advance-line and advance-pc change the
// state without adding one.
type PositionEntry struct {
	PC   uint64
	Line int64
}

// DebugInfoAccessor decodes a method's debug-info record: a start line, the
// ids of its declared parameter names, and the inline line-number program,
// run eagerly into its table form. Grounded on spec §4.6's explicit opcode
// catalogue; no original_source header for this accessor survived into the
// retrieval pack, so the byte-level opcode assignment follows the
// dex/DWARF-style special-opcode scheme the spec describes.
type DebugInfoAccessor struct {
	pf     *panda.File
	id     panda.EntityID
	size   uint32

	StartLine     int64
	ParameterIDs  []panda.EntityID
	Positions     []PositionEntry
	Locals        []LocalVariable
	FileID        panda.EntityID
	SourceCodeID  panda.EntityID
}

// NewDebugInfoAccessor decodes the fixed prefix (start line, parameter name
// ids) and fully runs the line-number program.
func NewDebugInfoAccessor(pf *panda.File, id panda.EntityID) (*DebugInfoAccessor, error) {
	off := uint32(id)

	startLine, off, err := pf.ReadSLEB128(off)
	if err != nil {
		return nil, err
	}
	numParams, off, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}
	params := make([]panda.EntityID, numParams)
	for i := range params {
		id32, next, err := pf.ReadULEB128(off)
		if err != nil {
			return nil, err
		}
		params[i] = panda.EntityID(id32)
		off = next
	}

	dia := &DebugInfoAccessor{pf: pf, id: id, StartLine: startLine, ParameterIDs: params}
	next, err := dia.runProgram(off)
	if err != nil {
		return nil, err
	}
	dia.size = next - uint32(id)
	return dia, nil
}

// runProgram interprets the line-number program starting at off, recording
// position entries and local-variable spans until lnpEndSequence.
func (dia *DebugInfoAccessor) runProgram(off uint32) (uint32, error) {
	pc := uint64(0)
	line := dia.StartLine
	openLocals := map[uint64]int{} // register -> index into dia.Locals, while the local is live

	for {
		op, err := dia.pf.ReadUint8(off)
		if err != nil {
			return 0, err
		}
		off++

		switch {
		case op == lnpEndSequence:
			return off, nil

		case op == lnpAdvancePC:
			delta, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			pc += delta
			off = next

		case op == lnpAdvanceLine:
			delta, next, err := dia.pf.ReadSLEB128(off)
			if err != nil {
				return 0, err
			}
			line += delta
			off = next

		case op == lnpStartLocal, op == lnpStartLocalExtended:
			reg, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			off = next
			nameID, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			off = next
			typeID, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			off = next

			lv := LocalVariable{
				Reg:      reg,
				NameID:   panda.EntityID(nameID),
				TypeID:   panda.EntityID(typeID),
				Extended: op == lnpStartLocalExtended,
				StartPC:  pc,
			}
			if op == lnpStartLocalExtended {
				sigID, next, err := dia.pf.ReadULEB128(off)
				if err != nil {
					return 0, err
				}
				lv.TypeSignatureID = panda.EntityID(sigID)
				off = next
			}
			dia.Locals = append(dia.Locals, lv)
			openLocals[reg] = len(dia.Locals) - 1

		case op == lnpEndLocal, op == lnpRestartLocal:
			reg, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			off = next
			if idx, ok := openLocals[reg]; ok {
				dia.Locals[idx].EndPC = pc
				delete(openLocals, reg)
			}

		case op == lnpSetPrologueEnd, op == lnpSetEpilogueBegin:
			// Markers only; no payload, no position entry.

		case op == lnpSetFile:
			idxVal, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			dia.FileID = panda.EntityID(idxVal)
			off = next

		case op == lnpSetSourceCode:
			idxVal, next, err := dia.pf.ReadULEB128(off)
			if err != nil {
				return 0, err
			}
			dia.SourceCodeID = panda.EntityID(idxVal)
			off = next

		default: // special opcode: combined (pc-delta, line-delta)
			adjusted := int(op) - int(lnpFirstSpecial)
			pc += uint64(adjusted / lnpLineRange)
			line += int64(lnpLineBase + adjusted%lnpLineRange)
			dia.Positions = append(dia.Positions, PositionEntry{PC: pc, Line: line})
		}
	}
}

// Size returns the byte length of the whole debug-info record.
func (dia *DebugInfoAccessor) Size() uint32 { return dia.size }
