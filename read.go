package panda

import "encoding/binary"

// ReadUint8 reads a byte at offset, bounds-checked against the file size.
func (pf *File) ReadUint8(offset uint32) (uint8, error) {
	if uint64(offset)+1 > uint64(len(pf.data)) {
		return 0, ErrOutsideBoundary
	}
	return pf.data[offset], nil
}

// ReadUint16 reads a little-endian uint16 at offset, bounds-checked.
func (pf *File) ReadUint16(offset uint32) (uint16, error) {
	if uint64(offset)+2 > uint64(len(pf.data)) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(pf.data[offset:]), nil
}

// ReadUint32 reads a little-endian uint32 at offset, bounds-checked.
func (pf *File) ReadUint32(offset uint32) (uint32, error) {
	if uint64(offset)+4 > uint64(len(pf.data)) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(pf.data[offset:]), nil
}

// ReadUint64 reads a little-endian uint64 at offset, bounds-checked.
func (pf *File) ReadUint64(offset uint32) (uint64, error) {
	if uint64(offset)+8 > uint64(len(pf.data)) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint64(pf.data[offset:]), nil
}

// ReadBytesAtOffset returns the size bytes starting at offset, bounds-checked.
func (pf *File) ReadBytesAtOffset(offset, size uint32) ([]byte, error) {
	end := uint64(offset) + uint64(size)
	if end > uint64(len(pf.data)) {
		return nil, ErrOutsideBoundary
	}
	return pf.data[offset:end], nil
}

// ReadULEB128 decodes an unsigned LEB128 integer starting at offset,
// returning the value and the offset of the first byte following it.
func (pf *File) ReadULEB128(offset uint32) (uint64, uint32, error) {
	var result uint64
	var shift uint
	for {
		b, err := pf.ReadUint8(offset)
		if err != nil {
			return 0, 0, err
		}
		offset++
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, offset, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, ErrMalformedVarint
		}
	}
}

// ReadSLEB128 decodes a signed LEB128 integer starting at offset, returning
// the value and the offset of the first byte following it.
func (pf *File) ReadSLEB128(offset uint32) (int64, uint32, error) {
	var result int64
	var shift uint
	var b uint8
	var err error
	for {
		b, err = pf.ReadUint8(offset)
		if err != nil {
			return 0, 0, err
		}
		offset++
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, 0, ErrMalformedVarint
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, offset, nil
}
