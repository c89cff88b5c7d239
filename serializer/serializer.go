// Package serializer implements a compact binary codec, with no type tags
// and no reflection, used for IPC between the profiling daemon and its clients: fixed
// binary encodings for integers, length-prefixed strings and POD slices,
// count-prefixed maps, and a fixed-arity struct-as-tuple adaptor.
package serializer

import (
	"encoding/binary"
	"fmt"
)

// byteOrder is little-endian throughout, matching the panda file format.
var byteOrder = binary.LittleEndian

// Error is returned by decoders on malformed or truncated input.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errf(format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// PutUint8/16/32/64 append a fixed-width unsigned integer to buf and return
// the extended slice.
func PutUint8(buf []byte, v uint8) []byte  { return append(buf, v) }
func PutUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	byteOrder.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}
func PutUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	byteOrder.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}
func PutUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	byteOrder.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// GetUint8 reads a fixed-width unsigned integer, returning bytes consumed.
func GetUint8(data []byte) (uint8, int, error) {
	if len(data) < 1 {
		return 0, 0, errf("cannot decode uint8, buffer too small")
	}
	return data[0], 1, nil
}

func GetUint16(data []byte) (uint16, int, error) {
	if len(data) < 2 {
		return 0, 0, errf("cannot decode uint16, buffer too small")
	}
	return byteOrder.Uint16(data), 2, nil
}

func GetUint32(data []byte) (uint32, int, error) {
	if len(data) < 4 {
		return 0, 0, errf("cannot decode uint32, buffer too small")
	}
	return byteOrder.Uint32(data), 4, nil
}

func GetUint64(data []byte) (uint64, int, error) {
	if len(data) < 8 {
		return 0, 0, errf("cannot decode uint64, buffer too small")
	}
	return byteOrder.Uint64(data), 8, nil
}

// PutString appends a 4-byte little-endian length prefix followed by the
// string's bytes.
func PutString(buf []byte, s string) []byte {
	buf = PutUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// GetString decodes a length-prefixed string, returning bytes consumed.
func GetString(data []byte) (string, int, error) {
	n, consumed, err := GetUint32(data)
	if err != nil {
		return "", 0, errf("cannot decode string length: %v", err)
	}
	total := consumed + int(n)
	if len(data) < total {
		return "", 0, errf("cannot decode string, buffer too small for %d bytes", n)
	}
	return string(data[consumed:total]), total, nil
}

// PutBytes appends a 4-byte length prefix followed by raw bytes (the POD
// vector case, specialized to byte payloads already encoded by the caller).
func PutBytes(buf []byte, v []byte) []byte {
	buf = PutUint32(buf, uint32(len(v)))
	return append(buf, v...)
}

// GetBytes decodes a length-prefixed byte slice.
func GetBytes(data []byte) ([]byte, int, error) {
	n, consumed, err := GetUint32(data)
	if err != nil {
		return nil, 0, errf("cannot decode bytes length: %v", err)
	}
	total := consumed + int(n)
	if len(data) < total {
		return nil, 0, errf("cannot decode bytes, buffer too small for %d bytes", n)
	}
	out := make([]byte, n)
	copy(out, data[consumed:total])
	return out, total, nil
}

// PutUint32Vector appends a byte-length-prefixed vector of uint32 (POD
// vector encoding: the prefix is the byte length, not the element count).
func PutUint32Vector(buf []byte, vs []uint32) []byte {
	buf = PutUint32(buf, uint32(len(vs)*4))
	for _, v := range vs {
		buf = PutUint32(buf, v)
	}
	return buf
}

// GetUint32Vector decodes a PutUint32Vector payload.
func GetUint32Vector(data []byte) ([]uint32, int, error) {
	byteLen, consumed, err := GetUint32(data)
	if err != nil {
		return nil, 0, errf("cannot decode vector length: %v", err)
	}
	if byteLen%4 != 0 {
		return nil, 0, errf("vector byte length %d not a multiple of element size 4", byteLen)
	}
	n := int(byteLen / 4)
	total := consumed
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		if total+4 > len(data) {
			return nil, 0, errf("cannot decode vector element %d, buffer too small", i)
		}
		out[i] = byteOrder.Uint32(data[total:])
		total += 4
	}
	return out, total, nil
}

// PutStringMap encodes a map[string]string as a 4-byte count
// followed by <key,value> length-prefixed string pairs.
func PutStringMap(buf []byte, m map[string]string) []byte {
	buf = PutUint32(buf, uint32(len(m)))
	// Deterministic output requires a stable key order; callers that need a
	// byte-stable encoding should sort keys before calling this with an
	// ordered pair slice via PutStringPairs instead.
	for k, v := range m {
		buf = PutString(buf, k)
		buf = PutString(buf, v)
	}
	return buf
}

// PutStringPairs encodes an already-ordered slice of key/value pairs,
// producing a deterministic byte stream (unlike PutStringMap, whose
// iteration order is unspecified).
func PutStringPairs(buf []byte, keys, values []string) []byte {
	buf = PutUint32(buf, uint32(len(keys)))
	for i := range keys {
		buf = PutString(buf, keys[i])
		buf = PutString(buf, values[i])
	}
	return buf
}

// GetStringMap decodes a PutStringMap/PutStringPairs payload.
func GetStringMap(data []byte) (map[string]string, int, error) {
	count, consumed, err := GetUint32(data)
	if err != nil {
		return nil, 0, errf("cannot decode map count: %v", err)
	}
	m := make(map[string]string, count)
	total := consumed
	for i := uint32(0); i < count; i++ {
		k, n, err := GetString(data[total:])
		if err != nil {
			return nil, 0, errf("cannot decode map key %d: %v", i, err)
		}
		total += n
		v, n, err := GetString(data[total:])
		if err != nil {
			return nil, 0, errf("cannot decode map value %d: %v", i, err)
		}
		total += n
		m[k] = v
	}
	return m, total, nil
}
