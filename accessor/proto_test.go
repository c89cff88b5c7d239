package accessor

import (
	"testing"

	"github.com/avalon-vm/panda"
	"github.com/avalon-vm/panda/internal/ident"
)

func appendShortyUnits(buf []byte, units []uint16) []byte {
	for _, u := range units {
		buf = appendU16(buf, u)
	}
	return buf
}

func TestProtoDataAccessorPrimitivesOnly(t *testing.T) {
	ret := ident.NewPrimitive(ident.I32)
	params := []ident.Type{ident.NewPrimitive(ident.U1), ident.NewPrimitive(ident.F64)}
	units := ident.EncodeShorty(ret, params)

	rec := appendShortyUnits(nil, units)

	f, base := openFileWithPayload(t, rec)
	pda, err := NewProtoDataAccessor(f, panda.EntityID(base))
	if err != nil {
		t.Fatalf("NewProtoDataAccessor: %v", err)
	}
	if pda.NumArgs() != 2 {
		t.Fatalf("NumArgs() = %d, want 2", pda.NumArgs())
	}
	if pda.ReturnType().IsReference() {
		t.Fatalf("ReturnType() unexpectedly a reference")
	}
	if pda.Size() != uint32(len(rec)) {
		t.Fatalf("Size() = %d, want %d", pda.Size(), len(rec))
	}
}

func TestProtoDataAccessorWithReferenceSlots(t *testing.T) {
	ret := ident.NewReference("Foo")
	params := []ident.Type{ident.NewPrimitive(ident.I32), ident.NewReference("Bar").Array()}
	units := ident.EncodeShorty(ret, params)

	rec := appendShortyUnits(nil, units)
	// Two reference slots (return + last param): their class-index slots
	// follow the shorty immediately, one u16 each.
	rec = appendU16(rec, 10)
	rec = appendU16(rec, 20)

	f, base := openFileWithPayload(t, rec)
	pda, err := NewProtoDataAccessor(f, panda.EntityID(base))
	if err != nil {
		t.Fatalf("NewProtoDataAccessor: %v", err)
	}
	if !pda.ReturnType().IsReference() {
		t.Fatalf("ReturnType() not a reference, want reference")
	}
	if pda.NumArgs() != 2 {
		t.Fatalf("NumArgs() = %d, want 2", pda.NumArgs())
	}
	if !pda.ArgType(1).IsReference() {
		t.Fatalf("ArgType(1) not a reference, want reference")
	}
	if pda.ReferenceType(0) != 10 || pda.ReferenceType(1) != 20 {
		t.Fatalf("reference types = %d/%d, want 10/20", pda.ReferenceType(0), pda.ReferenceType(1))
	}
	if pda.Size() != uint32(len(rec)) {
		t.Fatalf("Size() = %d, want %d", pda.Size(), len(rec))
	}
}
