package accessor

import (
	"github.com/avalon-vm/panda"
	"github.com/avalon-vm/panda/internal/ident"
)

// ProtoDataAccessor decodes a method prototype's packed shorty (return
// type, then each argument type, 4-bit codes, terminated by a zero
// nibble) followed by one u16 reference-type class index per non-primitive
// slot, in order of appearance (spec §4.6, §6). Grounded on
// proto_data_accessor-inl.h's EnumerateTypes/GetReferenceType pair.
type ProtoDataAccessor struct {
	pf      *panda.File
	protoID panda.EntityID

	ret      ident.ShortyCode
	params   []ident.ShortyCode
	refTypes []panda.EntityID // raw u16 class indices, read by the constructor
	refOff   uint32
	size     uint32
}

// NewProtoDataAccessor decodes the shorty and the reference-type index
// list that follows it.
func NewProtoDataAccessor(pf *panda.File, protoID panda.EntityID) (*ProtoDataAccessor, error) {
	units, refOff, err := readShortyUnits(pf, uint32(protoID))
	if err != nil {
		return nil, err
	}
	ret, params := ident.DecodeShorty(units)

	numRef := 0
	if ret.IsReference() {
		numRef++
	}
	for _, p := range params {
		if p.IsReference() {
			numRef++
		}
	}

	refBytes, err := pf.ReadBytesAtOffset(refOff, uint32(numRef*2))
	if err != nil {
		return nil, err
	}
	refTypes := make([]panda.EntityID, numRef)
	for i := 0; i < numRef; i++ {
		idx := uint16(refBytes[i*2]) | uint16(refBytes[i*2+1])<<8
		refTypes[i] = panda.EntityID(idx)
	}

	return &ProtoDataAccessor{
		pf:       pf,
		protoID:  protoID,
		ret:      ret,
		params:   params,
		refTypes: refTypes,
		refOff:   refOff,
		size:     refOff + uint32(numRef*2) - uint32(protoID),
	}, nil
}

// ReturnType returns the proto's return-type shorty code.
func (pda *ProtoDataAccessor) ReturnType() ident.ShortyCode { return pda.ret }

// NumArgs returns the number of parameter types.
func (pda *ProtoDataAccessor) NumArgs() int { return len(pda.params) }

// ArgType returns the shorty code of parameter idx.
func (pda *ProtoDataAccessor) ArgType(idx int) ident.ShortyCode { return pda.params[idx] }

// ReferenceType returns the raw u16 class index stored for the i'th
// non-primitive slot encountered, in the order the shorty lists them
// (return type first, if it is a reference, then each reference-typed
// argument).
func (pda *ProtoDataAccessor) ReferenceType(i int) panda.EntityID { return pda.refTypes[i] }

// Size returns the byte length of the proto record.
func (pda *ProtoDataAccessor) Size() uint32 { return pda.size }

func readShortyUnits(pf *panda.File, off uint32) ([]uint16, uint32, error) {
	var units []uint16
	first := true
	for {
		u, err := pf.ReadUint16(off)
		if err != nil {
			return nil, 0, err
		}
		off += 2
		units = append(units, u)

		terminated := false
		for nibble := uint(0); nibble < 4; nibble++ {
			c := (u >> (nibble * 4)) & 0xF
			if first {
				first = false
				continue
			}
			if c == 0 {
				terminated = true
				break
			}
		}
		if terminated {
			return units, off, nil
		}
	}
}
