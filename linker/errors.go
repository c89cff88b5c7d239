package linker

import "errors"

// Errors returned while resolving a class (spec.md §4.8).
var (
	// ErrCircularity is returned when resolving a class re-enters its own
	// (file, class id) pair before the first attempt has finished —
	// cyclic inheritance or a self-referential interface list.
	ErrCircularity = errors.New("linker: class circularity detected")

	// ErrBaseClassNotFound is returned when a class's declared super
	// class or interface cannot be resolved in the same file.
	ErrBaseClassNotFound = errors.New("linker: base class or interface not found")

	// ErrUnknownFieldType is returned when a field's type descriptor does
	// not parse as a valid primitive or reference type.
	ErrUnknownFieldType = errors.New("linker: field has an unparsable type descriptor")
)
