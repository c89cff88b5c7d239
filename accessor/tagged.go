package accessor

import (
	"math"

	"github.com/avalon-vm/panda"
)

// readEntityID reads a single little-endian u32 entity id at off.
func readEntityID(pf *panda.File, off uint32) (panda.EntityID, uint32, error) {
	v, err := pf.ReadUint32(off)
	if err != nil {
		return 0, 0, err
	}
	return panda.EntityID(v), off + 4, nil
}

// readEntityIDList reads a uleb128 count followed by that many u32 entity
// ids — the encoding this port uses for "zero or more ids under one tag"
// tagged sections (runtime annotations, annotations), in place of the
// original's one-tag-byte-per-entry repetition, which is indistinguishable
// in outcome but saves a tag byte per entry.
func readEntityIDList(pf *panda.File, off uint32) ([]panda.EntityID, uint32, error) {
	count, next, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]panda.EntityID, count)
	for i := range ids {
		id, n, err := readEntityID(pf, next)
		if err != nil {
			return nil, 0, err
		}
		ids[i] = id
		next = n
	}
	return ids, next, nil
}

// FieldValueKind tags the scalar type of a field's compile-time constant
// value (spec §4.6's "field value" tagged section).
type FieldValueKind uint8

const (
	FieldValueI32 FieldValueKind = iota
	FieldValueI64
	FieldValueF32
	FieldValueF64
	FieldValueRef
)

// FieldValue is a field's compile-time constant value, tagged with its kind.
type FieldValue struct {
	Kind FieldValueKind
	I32  int32
	I64  int64
	F32  float32
	F64  float64
	Ref  panda.EntityID
}

func readFieldValue(pf *panda.File, off uint32) (FieldValue, uint32, error) {
	kindByte, err := pf.ReadUint8(off)
	if err != nil {
		return FieldValue{}, 0, err
	}
	kind := FieldValueKind(kindByte)
	off++

	var fv FieldValue
	fv.Kind = kind
	switch kind {
	case FieldValueI32:
		v, err := pf.ReadUint32(off)
		if err != nil {
			return FieldValue{}, 0, err
		}
		fv.I32 = int32(v)
		off += 4
	case FieldValueI64:
		v, err := pf.ReadUint64(off)
		if err != nil {
			return FieldValue{}, 0, err
		}
		fv.I64 = int64(v)
		off += 8
	case FieldValueF32:
		v, err := pf.ReadUint32(off)
		if err != nil {
			return FieldValue{}, 0, err
		}
		fv.F32 = math.Float32frombits(v)
		off += 4
	case FieldValueF64:
		v, err := pf.ReadUint64(off)
		if err != nil {
			return FieldValue{}, 0, err
		}
		fv.F64 = math.Float64frombits(v)
		off += 8
	case FieldValueRef:
		id, next, err := readEntityID(pf, off)
		if err != nil {
			return FieldValue{}, 0, err
		}
		fv.Ref = id
		off = next
	}
	return fv, off, nil
}
