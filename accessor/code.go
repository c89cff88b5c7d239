package accessor

import "github.com/avalon-vm/panda"

// CatchBlock is one exception handler within a TryBlock (spec §4.6).
type CatchBlock struct {
	// ExceptionTypeIdx is a class-index slot; 0 means catch-all.
	ExceptionTypeIdx uint64
	HandlerPC        uint64
	HandlerSize      uint64
}

// TryBlock is one protected region of a method's code, with its handlers.
type TryBlock struct {
	StartPC     uint64
	Length      uint64
	CatchBlocks []CatchBlock
}

// CodeDataAccessor decodes a method's code record: vreg/argument counts,
// code size, the instruction bytes, and the try-block table. Grounded on
// code_data_accessor.h's field layout and spec §4.6's exact byte order.
type CodeDataAccessor struct {
	pf     *panda.File
	codeID panda.EntityID

	NumVregs     uint64
	NumArgs      uint64
	CodeSize     uint64
	TriesSize    uint64
	Instructions []byte
	TryBlocks    []TryBlock

	size uint32
}

// NewCodeDataAccessor decodes the full code record at codeID.
func NewCodeDataAccessor(pf *panda.File, codeID panda.EntityID) (*CodeDataAccessor, error) {
	off := uint32(codeID)

	numVregs, off, err := readULEB(pf, off)
	if err != nil {
		return nil, err
	}
	numArgs, off, err := readULEB(pf, off)
	if err != nil {
		return nil, err
	}
	codeSize, off, err := readULEB(pf, off)
	if err != nil {
		return nil, err
	}
	triesSize, off, err := readULEB(pf, off)
	if err != nil {
		return nil, err
	}

	instructions, err := pf.ReadBytesAtOffset(off, uint32(codeSize))
	if err != nil {
		return nil, err
	}
	off += uint32(codeSize)

	tries := make([]TryBlock, triesSize)
	for i := range tries {
		startPC, o, err := readULEB(pf, off)
		if err != nil {
			return nil, err
		}
		length, o, err := readULEB(pf, o)
		if err != nil {
			return nil, err
		}
		numCatches, o, err := readULEB(pf, o)
		if err != nil {
			return nil, err
		}

		catches := make([]CatchBlock, numCatches)
		for j := range catches {
			typeIdx, o2, err := readULEB(pf, o)
			if err != nil {
				return nil, err
			}
			handlerPC, o2, err := readULEB(pf, o2)
			if err != nil {
				return nil, err
			}
			handlerSize, o2, err := readULEB(pf, o2)
			if err != nil {
				return nil, err
			}
			catches[j] = CatchBlock{ExceptionTypeIdx: typeIdx, HandlerPC: handlerPC, HandlerSize: handlerSize}
			o = o2
		}

		tries[i] = TryBlock{StartPC: startPC, Length: length, CatchBlocks: catches}
		off = o
	}

	return &CodeDataAccessor{
		pf:           pf,
		codeID:       codeID,
		NumVregs:     numVregs,
		NumArgs:      numArgs,
		CodeSize:     codeSize,
		TriesSize:    triesSize,
		Instructions: instructions,
		TryBlocks:    tries,
		size:         off - uint32(codeID),
	}, nil
}

// Size returns the byte length of the whole code record.
func (cda *CodeDataAccessor) Size() uint32 { return cda.size }

func readULEB(pf *panda.File, off uint32) (uint64, uint32, error) {
	return pf.ReadULEB128(off)
}
