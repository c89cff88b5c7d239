package accessor

import (
	"encoding/binary"
	"hash/adler32"

	"github.com/avalon-vm/panda"
)

// testHeaderSize mirrors the fixed-layout header length the root package
// parses (magic+version+checksum+file_size+foreign_off+foreign_size+
// num_classes+class_idx_off+4 reserved u32 slots); accessor tests need it to
// place a payload right after the header without depending on panda's
// unexported constant.
const testHeaderSize = 48

// buildMinimalTestFile assembles a header-only panda file with payload
// appended immediately after the header, and a correct checksum.
func buildMinimalTestFile(payload []byte) []byte {
	buf := make([]byte, testHeaderSize, testHeaderSize+len(payload))
	copy(buf[0:4], panda.Magic[:])
	copy(buf[4:8], []byte{1, 0, 0, 0})
	buf = append(buf, payload...)

	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(buf))) // file_size
	binary.LittleEndian.PutUint32(buf[16:20], 0)                // foreign_off
	binary.LittleEndian.PutUint32(buf[20:24], 0)                // foreign_size
	binary.LittleEndian.PutUint32(buf[24:28], 0)                // num_classes
	binary.LittleEndian.PutUint32(buf[28:32], testHeaderSize)   // class_idx_off

	sum := adler32.Checksum(buf[12:])
	binary.LittleEndian.PutUint32(buf[8:12], sum)
	return buf
}

func headerSizeForTest() uint32 { return testHeaderSize }
