package panda

import (
	"bytes"

	"github.com/avalon-vm/panda/internal/mutf8"
)

// StringAt decodes the string-table entry at id: a ULEB128 count of UTF-16
// code units the decoded string holds, followed by that many modified-UTF8
// bytes terminated by a NUL the count does not include. The count is a
// UTF-16 code-unit count, not a byte count, so ASCII-only strings have
// count == len(bytes) but strings with supplementary-plane code points do
// not; StringAt itself only needs it to know a string record is present, the
// NUL terminator is what actually bounds the decode.
func (pf *File) StringAt(id EntityID) (string, error) {
	s, _, err := pf.StringSpan(id)
	return s, err
}

// StringSpan is StringAt plus the offset of the byte immediately following
// the record. Callers that treat a string record as a prefix to further
// data — the class linker locates a class's data record just past its
// descriptor string this way — use the second return to keep reading from
// the right place instead of recomputing the record's length themselves.
func (pf *File) StringSpan(id EntityID) (string, uint32, error) {
	if !id.Valid() {
		return "", uint32(id), nil
	}
	_, dataOff, err := pf.ReadULEB128(uint32(id))
	if err != nil {
		return "", 0, err
	}
	end := bytes.IndexByte(pf.data[dataOff:], 0)
	if end < 0 {
		return "", 0, ErrTruncatedRecord
	}
	raw, err := pf.ReadBytesAtOffset(dataOff, uint32(end))
	if err != nil {
		return "", 0, err
	}
	return mutf8.Decode(raw), dataOff + uint32(end) + 1, nil
}
