// Package mutf8 converts between Go strings and the modified UTF-8 byte
// encoding used for panda file descriptors and string-table entries: it is
// standard UTF-8 except that U+0000 is encoded as the two-byte overlong
// sequence 0xC0 0x80 and there is no 4-byte supplementary-plane form (those
// code points are encoded as a CESU-8 surrogate pair instead).
package mutf8

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// surrogateDecoder recombines the two 3-byte CESU-8 surrogate halves panda
// uses for supplementary-plane code points. Rather than hand-roll the
// UTF-16 surrogate math a second time, the two halves are packed as a
// little-endian UTF-16 byte stream and run through x/text's table-driven
// UTF-16 transform, the same decoder family the teacher reaches for when
// decoding Windows resource strings.
var surrogateDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

func decodeSurrogatePair(hi, lo uint16) (rune, bool) {
	buf := []byte{byte(hi), byte(hi >> 8), byte(lo), byte(lo >> 8)}
	out, err := surrogateDecoder.Bytes(buf)
	if err != nil || len(out) == 0 {
		return 0, false
	}
	r, _ := utf8.DecodeRune(out)
	return r, r != utf8.RuneError
}

// Encode converts a Go string (UTF-8, any valid code point) to mutf8 bytes.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out,
				byte(0xC0|(r>>6)),
				byte(0x80|(r&0x3F)))
		case r <= 0xFFFF:
			out = append(out, encode3(r)...)
		default:
			r1, r2 := utf16.EncodeRune(r)
			out = append(out, encode3(r1)...)
			out = append(out, encode3(r2)...)
		}
	}
	return out
}

func encode3(r rune) []byte {
	return []byte{
		byte(0xE0 | (r >> 12)),
		byte(0x80 | ((r >> 6) & 0x3F)),
		byte(0x80 | (r & 0x3F)),
	}
}

// Decode converts mutf8 bytes to a Go string.
func Decode(b []byte) string {
	var runes []rune
	i := 0
	for i < len(b) {
		c0 := b[i]
		switch {
		case c0 < 0x80:
			runes = append(runes, rune(c0))
			i++
		case c0&0xE0 == 0xC0 && i+1 < len(b):
			if c0 == 0xC0 && b[i+1] == 0x80 {
				runes = append(runes, 0)
			} else {
				r := (rune(c0&0x1F) << 6) | rune(b[i+1]&0x3F)
				runes = append(runes, r)
			}
			i += 2
		case c0&0xF0 == 0xE0 && i+2 < len(b):
			hi := (rune(c0&0x0F) << 12) | (rune(b[i+1]&0x3F) << 6) | rune(b[i+2]&0x3F)
			i += 3
			if utf16.IsSurrogate(hi) && i+2 < len(b) && b[i]&0xF0 == 0xE0 {
				lo := (rune(b[i]&0x0F) << 12) | (rune(b[i+1]&0x3F) << 6) | rune(b[i+2]&0x3F)
				if combined, ok := decodeSurrogatePair(uint16(hi), uint16(lo)); ok {
					runes = append(runes, combined)
					i += 3
					continue
				}
			}
			runes = append(runes, hi)
		default:
			runes = append(runes, utf8.RuneError)
			i++
		}
	}
	return string(runes)
}

// ByteLen returns the encoded length in bytes, useful for sizing
// string-table entries while walking an accessor. It measures the result of
// Encode, so it allocates just as Encode does.
func ByteLen(s string) int { return len(Encode(s)) }
