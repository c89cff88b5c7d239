package panda

// OpenOptions configures OpenFile/OpenBytes, mirroring the teacher's
// pe.Options: boolean/threshold knobs with documented defaults, passed as
// a pointer and nil-safe.
type OpenOptions struct {
	// MinVersion is the lowest accepted file version, inclusive. Defaults
	// to DefaultMinVersion when the zero value.
	MinVersion Version

	// MaxVersion is the highest accepted file version, inclusive. Defaults
	// to DefaultMaxVersion when the zero value.
	MaxVersion Version

	// SkipChecksum disables the adler-32 payload checksum verification, by
	// default (false) the checksum is verified.
	SkipChecksum bool

	// A custom logger. Defaults to a log.Default()-backed implementation.
	Logger Logger
}

// DefaultMinVersion and DefaultMaxVersion bound the versions OpenFile
// accepts when the caller leaves OpenOptions.{Min,Max}Version unset.
var (
	DefaultMinVersion = Version{0, 0, 0, 1}
	DefaultMaxVersion = Version{255, 255, 255, 255}
)

func (o *OpenOptions) withDefaults() *OpenOptions {
	out := OpenOptions{}
	if o != nil {
		out = *o
	}
	if out.MinVersion == (Version{}) {
		out.MinVersion = DefaultMinVersion
	}
	if out.MaxVersion == (Version{}) {
		out.MaxVersion = DefaultMaxVersion
	}
	if out.Logger == nil {
		out.Logger = NewStdLogger(nil)
	}
	return &out
}
