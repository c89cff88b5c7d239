package accessor

import (
	"testing"

	"github.com/avalon-vm/panda"
)

func TestMethodDataAccessorCodeAndDebugInfo(t *testing.T) {
	var rec []byte
	rec = appendEntityID(rec, 1) // class id
	rec = appendEntityID(rec, 2) // proto id
	rec = appendEntityID(rec, 3) // name id
	rec = appendULEB(rec, MethodFlagStatic)

	rec = append(rec, byte(panda.TagCode))
	rec = appendEntityID(rec, 42)

	rec = append(rec, byte(panda.TagDebugInfo))
	rec = appendEntityID(rec, 77)

	rec = append(rec, byte(panda.TagNothing))

	f, base := openFileWithPayload(t, rec)
	mda, err := NewMethodDataAccessor(f, panda.EntityID(base))
	if err != nil {
		t.Fatalf("NewMethodDataAccessor: %v", err)
	}
	if mda.ClassID() != 1 || mda.ProtoID() != 2 || mda.NameID() != 3 {
		t.Fatalf("class/proto/name = %d/%d/%d, want 1/2/3", mda.ClassID(), mda.ProtoID(), mda.NameID())
	}
	if !mda.IsStatic() || mda.IsExternal() {
		t.Fatalf("IsStatic/IsExternal = %v/%v, want true/false", mda.IsStatic(), mda.IsExternal())
	}

	codeID, ok, err := mda.CodeID()
	if err != nil || !ok || codeID != 42 {
		t.Fatalf("CodeID() = %d, %v, %v; want 42, true, nil", codeID, ok, err)
	}

	debugID, ok, err := mda.DebugInfoID()
	if err != nil || !ok || debugID != 77 {
		t.Fatalf("DebugInfoID() = %d, %v, %v; want 77, true, nil", debugID, ok, err)
	}

	size, err := mda.Size()
	if err != nil || size != uint32(len(rec)) {
		t.Fatalf("size = %d, %v; want %d, nil", size, err, len(rec))
	}
}

func TestMethodDataAccessorExternalHasNoCode(t *testing.T) {
	var rec []byte
	rec = appendEntityID(rec, 1)
	rec = appendEntityID(rec, 2)
	rec = appendEntityID(rec, 3)
	rec = appendULEB(rec, MethodFlagExternal)
	rec = append(rec, byte(panda.TagNothing))

	f, base := openFileWithPayload(t, rec)
	mda, err := NewMethodDataAccessor(f, panda.EntityID(base))
	if err != nil {
		t.Fatalf("NewMethodDataAccessor: %v", err)
	}
	if !mda.IsExternal() {
		t.Fatalf("IsExternal() = false, want true")
	}
	if _, ok, err := mda.CodeID(); err != nil || ok {
		t.Fatalf("CodeID() = _, %v, %v; want false, nil", ok, err)
	}
}
