package accessor

import "github.com/avalon-vm/panda"

// MethodHandleType distinguishes the kind of entity a method handle binds
// to (spec §4.6's "method-handle accessor").
type MethodHandleType uint8

const (
	MethodHandlePutStatic MethodHandleType = iota
	MethodHandleGetStatic
	MethodHandlePutInstance
	MethodHandleGetInstance
	MethodHandleInvokeStatic
	MethodHandleInvokeInstance
	MethodHandleInvokeConstructor
	MethodHandleInvokeInterface
)

// MethodHandleDataAccessor decodes a method-handle record: a u8 kind tag
// followed by a uleb128 offset into the referenced entity's table.
// Grounded on method_handle_data_accessor.cpp's two-field, no-tagged-section
// layout (the simplest of the accessors — nothing to lazily skip).
type MethodHandleDataAccessor struct {
	pf     *panda.File
	id     panda.EntityID
	typ    MethodHandleType
	offset uint64
	size   uint32
}

// NewMethodHandleDataAccessor decodes the method-handle record at id.
func NewMethodHandleDataAccessor(pf *panda.File, id panda.EntityID) (*MethodHandleDataAccessor, error) {
	off := uint32(id)

	typByte, err := pf.ReadUint8(off)
	if err != nil {
		return nil, err
	}
	off++

	offset, next, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}

	return &MethodHandleDataAccessor{
		pf:     pf,
		id:     id,
		typ:    MethodHandleType(typByte),
		offset: offset,
		size:   next - uint32(id),
	}, nil
}

// Type returns the method handle's kind.
func (mhda *MethodHandleDataAccessor) Type() MethodHandleType { return mhda.typ }

// Offset returns the raw offset the handle points at; its interpretation
// (a field or method entity id) depends on Type.
func (mhda *MethodHandleDataAccessor) Offset() uint64 { return mhda.offset }

// EntityID returns Offset reinterpreted as an entity id, for handle kinds
// that point directly at a method or field record.
func (mhda *MethodHandleDataAccessor) EntityID() panda.EntityID { return panda.EntityID(mhda.offset) }

// Size returns the byte length of the method-handle record.
func (mhda *MethodHandleDataAccessor) Size() uint32 { return mhda.size }
