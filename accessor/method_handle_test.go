package accessor

import (
	"testing"

	"github.com/avalon-vm/panda"
)

func TestMethodHandleDataAccessor(t *testing.T) {
	var rec []byte
	rec = append(rec, byte(MethodHandleInvokeStatic))
	rec = appendULEB(rec, 1234)

	f, base := openFileWithPayload(t, rec)
	mhda, err := NewMethodHandleDataAccessor(f, panda.EntityID(base))
	if err != nil {
		t.Fatalf("NewMethodHandleDataAccessor: %v", err)
	}
	if mhda.Type() != MethodHandleInvokeStatic {
		t.Fatalf("Type() = %v, want MethodHandleInvokeStatic", mhda.Type())
	}
	if mhda.Offset() != 1234 {
		t.Fatalf("Offset() = %d, want 1234", mhda.Offset())
	}
	if mhda.Size() != uint32(len(rec)) {
		t.Fatalf("Size() = %d, want %d", mhda.Size(), len(rec))
	}
}
