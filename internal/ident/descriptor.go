// Package ident implements the panda type-descriptor grammar and the
// packed "shorty" method-prototype encoding (spec.md §3, §6).
package ident

import (
	"fmt"
	"strings"
)

// Primitive is one of the fixed primitive type tags.
type Primitive uint8

const (
	Void Primitive = iota
	U1
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
	Tagged
	Reference // not a primitive; component is a record name
)

// primitiveDescriptors follows spec.md §6's explicit table
// (V,Z,B,H,S,C,I,J,F,D,A for void,u1,i8,u8,i16,u16,i32,i64,f32,f64,tagged).
// u32 and u64 are not covered by that table; 'U' and 'Q' are picked here,
// the reference project's own convention for the two descriptor letters it
// leaves unstated (see DESIGN.md Open Questions).
var primitiveDescriptors = map[Primitive]byte{
	Void: 'V', U1: 'Z', I8: 'B', U8: 'H', I16: 'S', U16: 'C',
	I32: 'I', U32: 'U', I64: 'J', U64: 'Q', F32: 'F', F64: 'D', Tagged: 'A',
}

var descriptorToPrimitive = func() map[byte]Primitive {
	m := make(map[byte]Primitive, len(primitiveDescriptors))
	for p, d := range primitiveDescriptors {
		m[d] = p
	}
	return m
}()

var primitiveNames = map[Primitive]string{
	Void: "void", U1: "u1", I8: "i8", U8: "u8", I16: "i16", U16: "u16",
	I32: "i32", U32: "u32", I64: "i64", U64: "u64", F32: "f32", F64: "f64", Tagged: "any",
}

var nameToPrimitive = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for p, n := range primitiveNames {
		m[n] = p
	}
	return m
}()

// LookupPrimitive returns the primitive for a keyword like "i32", and
// whether it was recognized.
func LookupPrimitive(keyword string) (Primitive, bool) {
	p, ok := nameToPrimitive[keyword]
	return p, ok
}

// Type is a fully resolved semantic type: either a primitive/tagged scalar,
// an object reference to a record, or either of those nested in array rank.
type Type struct {
	Primitive Primitive // scalar or array-element primitive; meaningful only when !IsRef
	IsVoid    bool
	IsRef     bool   // object reference (component is a record name)
	Component string // record name when IsRef; empty for primitives
	Rank      int    // array nesting depth; 0 for a scalar
}

// NewPrimitive returns a scalar primitive type.
func NewPrimitive(p Primitive) Type { return Type{Primitive: p, IsVoid: p == Void} }

// NewReference returns a scalar object-reference type naming record.
func NewReference(record string) Type { return Type{IsRef: true, Component: record} }

// Array returns t wrapped in one additional array dimension.
func (t Type) Array() Type {
	t.Rank++
	return t
}

// Name renders the type's assembly-source spelling, e.g. "i8[]", "R[][]".
func (t Type) Name() string {
	var base string
	if t.IsRef {
		base = t.Component
	} else {
		base = primitiveNames[t.Primitive]
	}
	return base + strings.Repeat("[]", t.Rank)
}

// Descriptor renders the type's mangled binary-format spelling, e.g. "[B",
// "[[LR;", "Lpkg_R;".
func (t Type) Descriptor() string {
	prefix := strings.Repeat("[", t.Rank)
	if t.IsRef {
		return prefix + "L" + mangleRecordName(t.Component) + ";"
	}
	return prefix + string(primitiveDescriptors[t.Primitive])
}

// mangleRecordName replaces the assembly qualified-name separator '.' with
// the binary descriptor separator '/', matching the reference mangling.
func mangleRecordName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// unmangleRecordName is the inverse of mangleRecordName.
func unmangleRecordName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// ParseDescriptor parses a binary-format descriptor string back into a Type.
func ParseDescriptor(d string) (Type, error) {
	rank := 0
	i := 0
	for i < len(d) && d[i] == '[' {
		rank++
		i++
	}
	if i >= len(d) {
		return Type{}, fmt.Errorf("empty descriptor after %d array markers", rank)
	}
	if d[i] == 'L' {
		end := strings.IndexByte(d[i:], ';')
		if end < 0 {
			return Type{}, fmt.Errorf("unterminated reference descriptor %q", d)
		}
		name := unmangleRecordName(d[i+1 : i+end])
		t := NewReference(name)
		t.Rank = rank
		return t, nil
	}
	p, ok := descriptorToPrimitive[d[i]]
	if !ok {
		return Type{}, fmt.Errorf("unknown primitive descriptor byte %q", d[i])
	}
	t := NewPrimitive(p)
	t.Rank = rank
	return t, nil
}
