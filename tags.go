package panda

// Tag identifies an entity record's optional tagged section (spec §4.6,
// §3 "entity records"). Every record's tagged-section list is terminated
// by TagNothing.
type Tag uint8

const (
	TagNothing Tag = iota
	TagSourceLang
	TagRuntimeAnnotations
	TagAnnotations
	TagSourceFile
	TagDebugInfo
	TagCode
	TagParamAnnotations
	TagRuntimeParamAnnotations
	TagFieldValue
)

// TagCursor walks a sequence of "u8 tag + payload" items terminated by
// TagNothing. It does not interpret payloads: callers advance the cursor
// themselves once they know how long a given tag's payload is.
type TagCursor struct {
	pf  *File
	off uint32
}

// NewTagCursor returns a cursor starting at off.
func (pf *File) NewTagCursor(off uint32) *TagCursor {
	return &TagCursor{pf: pf, off: off}
}

// Offset returns the cursor's current byte offset.
func (c *TagCursor) Offset() uint32 { return c.off }

// Next reads the tag at the cursor without consuming any payload; the
// caller must call Advance with the payload's length (0 for TagNothing)
// once it knows it, moving the cursor past tag byte + payload.
func (c *TagCursor) Next() (Tag, error) {
	b, err := c.pf.ReadUint8(c.off)
	if err != nil {
		return TagNothing, err
	}
	return Tag(b), nil
}

// Advance moves the cursor past the just-read tag byte and payloadLen
// bytes of payload.
func (c *TagCursor) Advance(payloadLen uint32) {
	c.off += 1 + payloadLen
}

// Skip repeatedly reads tags, calling payloadLen to size each one's
// payload, until TagNothing is consumed or an error occurs.
func (c *TagCursor) Skip(payloadLen func(Tag, *TagCursor) (uint32, error)) error {
	for {
		tag, err := c.Next()
		if err != nil {
			return err
		}
		if tag == TagNothing {
			c.Advance(0)
			return nil
		}
		n, err := payloadLen(tag, c)
		if err != nil {
			return err
		}
		c.Advance(n)
	}
}
