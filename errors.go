package panda

import "errors"

// Errors returned while opening or walking a panda file (spec §7, "Binary
// model errors").
var (
	// ErrTooSmall is returned when the input is smaller than a bare header.
	ErrTooSmall = errors.New("panda: file smaller than header size")

	// ErrBadMagic is returned when the 4-byte magic constant does not match.
	ErrBadMagic = errors.New("panda: magic not found")

	// ErrUnsupportedVersion is returned when the file's version falls
	// outside [MinVersion, MaxVersion].
	ErrUnsupportedVersion = errors.New("panda: version outside supported range")

	// ErrOutsideBoundary is returned when a read would run past the end of
	// the mapped region.
	ErrOutsideBoundary = errors.New("panda: read outside file boundary")

	// ErrTruncatedRecord is returned when an entity record's tagged section
	// runs off the end of the file before a NOTHING terminator is seen.
	ErrTruncatedRecord = errors.New("panda: truncated entity record")

	// ErrMalformedVarint is returned when a ULEB128/SLEB128 sequence never
	// terminates within the bytes available.
	ErrMalformedVarint = errors.New("panda: malformed variable-length integer")

	// ErrClassNotFound is returned by ClassIDFor when no class index entry
	// matches the requested descriptor.
	ErrClassNotFound = errors.New("panda: class descriptor not found")
)
