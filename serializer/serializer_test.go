package serializer

import (
	"reflect"
	"testing"
)

func TestUint32RoundTrip(t *testing.T) {
	buf := PutUint32(nil, 0xDEADBEEF)
	v, n, err := GetUint32(buf)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xDEADBEEF || n != len(buf) {
		t.Fatalf("got %x, %d", v, n)
	}
}

func TestStringRoundTrip(t *testing.T) {
	buf := PutString(nil, "hello world")
	v, n, err := GetString(buf)
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello world" || n != len(buf) {
		t.Fatalf("got %q, %d", v, n)
	}
}

func TestUint32VectorRoundTrip(t *testing.T) {
	in := []uint32{1, 2, 3, 4}
	buf := PutUint32Vector(nil, in)
	out, n, err := GetUint32Vector(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) || n != len(buf) {
		t.Fatalf("got %v, %d", out, n)
	}
}

func TestStringMapRoundTrip(t *testing.T) {
	keys := []string{"a", "b"}
	values := []string{"1", "2"}
	buf := PutStringPairs(nil, keys, values)
	out, n, err := GetStringMap(buf)
	if err != nil {
		t.Fatal(err)
	}
	if out["a"] != "1" || out["b"] != "2" || n != len(buf) {
		t.Fatalf("got %v, %d", out, n)
	}
}

func TestDecodeTooSmallBufferFails(t *testing.T) {
	if _, _, err := GetUint32([]byte{1, 2}); err == nil {
		t.Fatal("expected error on truncated buffer")
	}
	if _, _, err := GetString([]byte{5, 0, 0, 0, 'a'}); err == nil {
		t.Fatal("expected error: declared length exceeds remaining buffer")
	}
}

func TestDeterministicEncoding(t *testing.T) {
	a := PutUint32(PutString(nil, "x"), 7)
	b := PutUint32(PutString(nil, "x"), 7)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical byte streams for identical input")
	}
}

func TestStructAsTuple(t *testing.T) {
	var id uint32
	var name string
	var payload []byte

	buf := StructToBuffer(nil,
		Uint32Field(&[]uint32{42}[0]),
		StringField(&[]string{"feature"}[0]),
		BytesField(&[]([]byte){{1, 2, 3}}[0]),
	)

	n, err := BufferToStruct(buf, true,
		Uint32Field(&id),
		StringField(&name),
		BytesField(&payload),
	)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d want %d", n, len(buf))
	}
	if id != 42 || name != "feature" || !reflect.DeepEqual(payload, []byte{1, 2, 3}) {
		t.Fatalf("got id=%d name=%q payload=%v", id, name, payload)
	}
}

func TestStructAsTupleResidualBytesFailsWhenExact(t *testing.T) {
	buf := PutUint32(nil, 1)
	buf = append(buf, 0xFF) // residual byte
	var id uint32
	if _, err := BufferToStruct(buf, true, Uint32Field(&id)); err == nil {
		t.Fatal("expected residual-bytes error")
	}
	if _, err := BufferToStruct(buf, false, Uint32Field(&id)); err != nil {
		t.Fatalf("expected success when exact=false: %v", err)
	}
}
