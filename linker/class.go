package linker

import (
	"github.com/avalon-vm/panda/internal/ident"
)

// Field access-flag bits the linker interprets. accessor.FieldDataAccessor
// exposes only the raw uint64, leaving bit assignment to the consumer the
// way accessor.ClassFlagExternal/accessor.MethodFlagStatic already do for
// classes and methods.
const (
	FieldFlagStatic   uint64 = 1 << 0
	FieldFlagExternal uint64 = 1 << 1
	FieldFlagVolatile uint64 = 1 << 2
)

// ObjectHeaderSize is the fixed prefix every instance carries before its
// first field (spec.md §4.8 names it without a byte count); a class pointer
// plus a monitor word, matching a typical two-word managed-object header.
const ObjectHeaderSize = 8

const (
	sizeRef = 4
	size64  = 8
	size32  = 4
	size16  = 2
	size8   = 1
)

// Field is a resolved, laid-out field belonging to a Class.
type Field struct {
	Name     string
	Type     ident.Type
	Static   bool
	Volatile bool
	Offset   uint32
}

// Method is a resolved method belonging to a Class.
type Method struct {
	Name        string
	Static      bool
	NumArgs     int
	VTableIndex int // -1 for static methods; every non-static method gets a slot
}

// Class is the linker's resolved view of one class record: its identity,
// its base and interfaces (already resolved), and its laid-out fields and
// methods. It deliberately does not model a v-table/i-table/i-m-table the
// way the original runtime's Class does (spec.md §4.8 treats those builders
// as opaque to the linker) — VTableIndex is assigned by a simple
// first-declared-first-slot rule instead, which is as much method layout as
// a linker without a real interpreter/compiler behind it needs.
type Class struct {
	ID          uint32 // class-identity id within its file (spec.md §4.8)
	Descriptor  string
	AccessFlags uint64
	Base        *Class // nil for the root of the hierarchy
	Interfaces  []*Class

	Fields       []*Field
	Methods      []*Method
	InstanceSize uint32 // ObjectHeaderSize when the class has no instance fields and no base
	StaticSize   uint32
}

// IsExternal reports whether the class was declared outside its file.
func (c *Class) IsExternal() bool { return c.AccessFlags&1 != 0 }

func alignUp(v, to uint32) uint32 {
	return (v + to - 1) &^ (to - 1)
}

// fieldBucket classifies a field's type into the size class LayoutFields
// partitions by (spec.md §4.8): references first, then 64/32/16/8-bit
// scalars, with a separate 64-bit-aligned "tagged" bucket for dynamically
// typed slots.
type fieldBucket int

const (
	bucketRef fieldBucket = iota
	bucket64
	bucket32
	bucket16
	bucket8
	bucketTagged
)

func classifyField(t ident.Type) fieldBucket {
	if t.Rank > 0 || t.IsRef {
		return bucketRef
	}
	switch t.Primitive {
	case ident.U1, ident.I8, ident.U8:
		return bucket8
	case ident.I16, ident.U16:
		return bucket16
	case ident.I32, ident.U32, ident.F32:
		return bucket32
	case ident.I64, ident.U64, ident.F64:
		return bucket64
	case ident.Tagged:
		return bucketTagged
	default:
		return bucket32
	}
}

// layoutFields lays fields out in-place (spec.md §4.8 "Field layout"),
// grounded on class_linker.cpp's LayoutFields/LayoutFieldsWithoutAlignment/
// LayoutReferenceFields: reference fields first (volatile ahead of
// non-volatile), then tagged and 64-bit fields aligned to 8 bytes (with
// 32/16/8-bit fields opportunistically filling any preceding padding), then
// 32-, 16-, 8-bit fields similarly. Returns the final offset, i.e. the
// size of the laid-out area.
func layoutFields(fields []*Field, baseOffset uint32) uint32 {
	var refs, f64, f32, f16, f8, tagged []*Field
	for _, f := range fields {
		switch classifyField(f.Type) {
		case bucketRef:
			refs = append(refs, f)
		case bucket64:
			f64 = append(f64, f)
		case bucket32:
			f32 = append(f32, f)
		case bucket16:
			f16 = append(f16, f)
		case bucket8:
			f8 = append(f8, f)
		case bucketTagged:
			tagged = append(tagged, f)
		}
	}

	offset := baseOffset
	const unlimited = ^uint32(0)

	if len(refs) > 0 {
		offset = alignUp(offset, sizeRef)
		offset = layoutReferenceFields(refs, offset)
	}

	if offset%size64 != 0 && (len(f64) > 0 || len(tagged) > 0) {
		padding := alignUp(offset, size64) - offset
		f32, offset, padding = drainWithoutAlignment(f32, offset, padding)
		f16, offset, padding = drainWithoutAlignment(f16, offset, padding)
		f8, offset, _ = drainWithoutAlignment(f8, offset, padding)
		offset = alignUp(offset, size64)
	}

	tagged, offset, _ = drainWithoutAlignment(tagged, offset, unlimited)
	f64, offset, _ = drainWithoutAlignment(f64, offset, unlimited)

	if offset%size32 != 0 && len(f32) > 0 {
		padding := alignUp(offset, size32) - offset
		f16, offset, padding = drainWithoutAlignment(f16, offset, padding)
		f8, offset, _ = drainWithoutAlignment(f8, offset, padding)
		offset = alignUp(offset, size32)
	}

	f32, offset, _ = drainWithoutAlignment(f32, offset, unlimited)

	if offset%size16 != 0 && len(f16) > 0 {
		padding := alignUp(offset, size16) - offset
		f8, offset, _ = drainWithoutAlignment(f8, offset, padding)
		offset = alignUp(offset, size16)
	}

	f16, offset, _ = drainWithoutAlignment(f16, offset, unlimited)
	f8, offset, _ = drainWithoutAlignment(f8, offset, unlimited)

	return offset
}

// drainWithoutAlignment assigns fields consecutive offsets of their
// declared size, consuming from space (an available-padding budget) until
// either space or fields run out; space == ^uint32(0) (unlimited) never
// runs out. Returns the fields left unassigned, the new offset, and the
// space remaining.
func drainWithoutAlignment(fields []*Field, offset, space uint32) ([]*Field, uint32, uint32) {
	if len(fields) == 0 {
		return fields, offset, space
	}
	size := fieldSize(fields[0].Type)
	const unlimited = ^uint32(0)
	i := 0
	for i < len(fields) && (space == unlimited || space >= size) {
		fields[i].Offset = offset
		offset += size
		if space != unlimited {
			space -= size
		}
		i++
	}
	return fields[i:], offset, space
}

func fieldSize(t ident.Type) uint32 {
	switch classifyField(t) {
	case bucketRef:
		return sizeRef
	case bucket64, bucketTagged:
		return size64
	case bucket32:
		return size32
	case bucket16:
		return size16
	default:
		return size8
	}
}

// layoutReferenceFields lays out volatile reference fields before
// non-volatile ones, each sizeRef wide, returning the offset following the
// last one.
func layoutReferenceFields(fields []*Field, offset uint32) uint32 {
	for _, f := range fields {
		if f.Volatile {
			f.Offset = offset
			offset += sizeRef
		}
	}
	for _, f := range fields {
		if !f.Volatile {
			f.Offset = offset
			offset += sizeRef
		}
	}
	return offset
}
