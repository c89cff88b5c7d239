package panda

import (
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/mod/semver"
)

// Magic is the fixed 4-byte constant every panda file starts with.
var Magic = [4]byte{'P', 'A', 'N', 'D'}

// headerSize is the fixed-layout portion of the header (spec §6): magic(4)
// + version(4) + checksum(4) + file_size(4) + foreign_off(4) +
// foreign_size(4) + num_classes(4) + class_idx_off(4) + 4 reserved u32
// slots(16) = 48 bytes.
const headerSize = 48

// EntityID is a 32-bit unsigned offset into a panda file; 0 denotes "none".
type EntityID uint32

// Valid reports whether id refers to an actual entity (i.e. is non-zero).
func (id EntityID) Valid() bool { return id != 0 }

// Version is a panda file's 4-byte semantic version. Only the first three
// bytes (Major.Minor.Patch) participate in acceptance range checks; Build
// is reserved for forward compatibility and is intentionally excluded from
// comparisons, mirroring how semver build metadata never affects ordering.
type Version struct {
	Major, Minor, Patch, Build uint8
}

// String renders v as a semver string so it can be compared with
// golang.org/x/mod/semver.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d+%d", v.Major, v.Minor, v.Patch, v.Build)
}

func versionFromBytes(b [4]byte) Version {
	return Version{Major: b[0], Minor: b[1], Patch: b[2], Build: b[3]}
}

// within reports whether v falls inside [min, max] using semver ordering.
func (v Version) within(min, max Version) bool {
	return semver.Compare(v.String(), min.String()) >= 0 &&
		semver.Compare(v.String(), max.String()) <= 0
}

// Header is the fixed-layout prefix of a panda file.
type Header struct {
	Magic       [4]byte
	Version     Version
	Checksum    uint32
	FileSize    uint32
	ForeignOff  uint32
	ForeignSize uint32
	NumClasses  uint32
	ClassIdxOff uint32
	Reserved    [4]uint32
}

// File is an open, immutable view over a panda file's bytes, memory-mapped
// when opened from a path (mirrors the teacher's file.go: mmap-backed
// Options, a data []byte view, and a Close that unmaps).
type File struct {
	Header Header

	data   []byte
	region mmap.MMap // nil when opened from an in-memory byte slice
	f      *os.File  // nil when opened from an in-memory byte slice
	opts   *OpenOptions
}

// OpenFile memory-maps the panda file at name and parses its header,
// satisfying spec §4.6's "accept either a filename or a memory region" via
// the path branch; OpenBytes is the memory-region branch.
func OpenFile(name string, opts *OpenOptions) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := &File{data: region, region: region, f: f, opts: opts.withDefaults()}
	if err := file.parseHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// OpenBytes parses a panda file already resident in memory, without
// mapping or copying it.
func OpenBytes(data []byte, opts *OpenOptions) (*File, error) {
	file := &File{data: data, opts: opts.withDefaults()}
	if err := file.parseHeader(); err != nil {
		return nil, err
	}
	return file, nil
}

// Close unmaps the file's region (if mapped) and closes the underlying
// descriptor (if any).
func (pf *File) Close() error {
	if pf.region != nil {
		_ = pf.region.Unmap()
	}
	if pf.f != nil {
		return pf.f.Close()
	}
	return nil
}

// Bytes returns the file's full backing byte slice. The slice must not be
// retained past Close.
func (pf *File) Bytes() []byte { return pf.data }

func (pf *File) parseHeader() error {
	if len(pf.data) < headerSize {
		return ErrTooSmall
	}

	var magic [4]byte
	copy(magic[:], pf.data[0:4])
	if magic != Magic {
		return ErrBadMagic
	}

	var versionBytes [4]byte
	copy(versionBytes[:], pf.data[4:8])
	version := versionFromBytes(versionBytes)
	if !version.within(pf.opts.MinVersion, pf.opts.MaxVersion) {
		return ErrUnsupportedVersion
	}

	h := Header{Magic: magic, Version: version}
	h.Checksum = binary.LittleEndian.Uint32(pf.data[8:12])
	h.FileSize = binary.LittleEndian.Uint32(pf.data[12:16])
	h.ForeignOff = binary.LittleEndian.Uint32(pf.data[16:20])
	h.ForeignSize = binary.LittleEndian.Uint32(pf.data[20:24])
	h.NumClasses = binary.LittleEndian.Uint32(pf.data[24:28])
	h.ClassIdxOff = binary.LittleEndian.Uint32(pf.data[28:32])
	for i := 0; i < 4; i++ {
		off := 32 + i*4
		h.Reserved[i] = binary.LittleEndian.Uint32(pf.data[off : off+4])
	}
	pf.Header = h

	if !pf.opts.SkipChecksum {
		if err := pf.verifyChecksum(); err != nil {
			return err
		}
	}
	return nil
}

// verifyChecksum recomputes adler-32 over the payload following the
// checksum field and compares it against Header.Checksum.
func (pf *File) verifyChecksum() error {
	if uint32(len(pf.data)) < pf.Header.FileSize || pf.Header.FileSize < 12 {
		return ErrTooSmall
	}
	payload := pf.data[12:pf.Header.FileSize]
	if adler32.Checksum(payload) != pf.Header.Checksum {
		pf.opts.Logger.Warnf("panda: checksum mismatch (got %#x, want %#x)",
			adler32.Checksum(payload), pf.Header.Checksum)
	}
	return nil
}

// ForeignRegion returns the bytes of the "foreign" (external-reference)
// region described by the header.
func (pf *File) ForeignRegion() ([]byte, error) {
	return pf.ReadBytesAtOffset(pf.Header.ForeignOff, pf.Header.ForeignSize)
}

// ClassIDs returns the num_classes class-record offsets stored at
// class_idx_off, sorted ascending by descriptor bytes (spec §6).
func (pf *File) ClassIDs() ([]EntityID, error) {
	n := pf.Header.NumClasses
	raw, err := pf.ReadBytesAtOffset(pf.Header.ClassIdxOff, n*4)
	if err != nil {
		return nil, err
	}
	ids := make([]EntityID, n)
	for i := uint32(0); i < n; i++ {
		ids[i] = EntityID(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return ids, nil
}

// ClassIDFor performs a binary search of the class index on descriptor
// bytes, returning ErrClassNotFound when absent (spec §4.6).
func (pf *File) ClassIDFor(descriptor []byte, descriptorAt func(EntityID) ([]byte, error)) (EntityID, error) {
	ids, err := pf.ClassIDs()
	if err != nil {
		return 0, err
	}

	lo, hi := 0, len(ids)
	for lo < hi {
		mid := (lo + hi) / 2
		d, err := descriptorAt(ids[mid])
		if err != nil {
			return 0, err
		}
		switch compareBytes(d, descriptor) {
		case 0:
			return ids[mid], nil
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, ErrClassNotFound
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
