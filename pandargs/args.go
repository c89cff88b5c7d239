// Package pandargs implements a typed command-line option parser in the
// style of the assembler and disassembler CLIs: long-name options with
// bool/int/uint32/uint64/double/string/list kinds, optional range checks on
// integers, ordered positional "tail" arguments, and a `--` remainder.
package pandargs

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies an argument's value type.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindUint32
	KindUint64
	KindDouble
	KindBool
	KindList // delimiter-joined ("," by default); see NewList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is the typed payload of a parsed argument.
type Value struct {
	Str    string
	Int    int64
	U32    uint32
	U64    uint64
	Double float64
	Bool   bool
	List   []string
}

// Arg describes one registered option or tail argument.
type Arg struct {
	Name      string
	Desc      string
	Kind      Kind
	Default   Value
	value     Value
	wasSet    bool
	hasRange  bool
	minI, maxI int64
	minU32, maxU32 uint32
	minU64, maxU64 uint64
	delimiter string
}

// NewString registers a string-valued option.
func NewString(name, def, desc string) *Arg {
	return &Arg{Name: name, Desc: desc, Kind: KindString, Default: Value{Str: def}, value: Value{Str: def}}
}

// NewBool registers a bool-valued option.
func NewBool(name string, def bool, desc string) *Arg {
	return &Arg{Name: name, Desc: desc, Kind: KindBool, Default: Value{Bool: def}, value: Value{Bool: def}}
}

// NewInt registers a signed-int option with no range restriction.
func NewInt(name string, def int64, desc string) *Arg {
	return &Arg{Name: name, Desc: desc, Kind: KindInt, Default: Value{Int: def}, value: Value{Int: def}}
}

// NewIntRange registers a signed-int option restricted to [min, max].
func NewIntRange(name string, def int64, desc string, min, max int64) *Arg {
	a := NewInt(name, def, desc)
	a.hasRange, a.minI, a.maxI = true, min, max
	return a
}

// NewUint32 registers a uint32 option.
func NewUint32(name string, def uint32, desc string) *Arg {
	return &Arg{Name: name, Desc: desc, Kind: KindUint32, Default: Value{U32: def}, value: Value{U32: def}}
}

// NewUint32Range registers a uint32 option restricted to [min, max].
func NewUint32Range(name string, def uint32, desc string, min, max uint32) *Arg {
	a := NewUint32(name, def, desc)
	a.hasRange, a.minU32, a.maxU32 = true, min, max
	return a
}

// NewUint64 registers a uint64 option.
func NewUint64(name string, def uint64, desc string) *Arg {
	return &Arg{Name: name, Desc: desc, Kind: KindUint64, Default: Value{U64: def}, value: Value{U64: def}}
}

// NewUint64Range registers a uint64 option restricted to [min, max].
func NewUint64Range(name string, def uint64, desc string, min, max uint64) *Arg {
	a := NewUint64(name, def, desc)
	a.hasRange, a.minU64, a.maxU64 = true, min, max
	return a
}

// NewDouble registers a float64 option.
func NewDouble(name string, def float64, desc string) *Arg {
	return &Arg{Name: name, Desc: desc, Kind: KindDouble, Default: Value{Double: def}, value: Value{Double: def}}
}

// NewList registers a delimited string-list option. delimiter defaults to
// "," when empty.
func NewList(name string, def []string, desc string, delimiter string) *Arg {
	if delimiter == "" {
		delimiter = ","
	}
	return &Arg{Name: name, Desc: desc, Kind: KindList, Default: Value{List: def}, value: Value{List: def}, delimiter: delimiter}
}

// Value returns the argument's current value.
func (a *Arg) Value() Value { return a.value }

// WasSet reports whether this argument was assigned during the last Parse.
func (a *Arg) WasSet() bool { return a.wasSet }

func (a *Arg) resetToDefault() {
	a.value = a.Default
	a.wasSet = false
}

func (a *Arg) setFrom(raw string) error {
	switch a.Kind {
	case KindString:
		a.value.Str = raw
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("value %q is not a valid bool", raw)
		}
		a.value.Bool = v
	case KindInt:
		v, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return fmt.Errorf("value %q is not a valid integer", raw)
		}
		if a.hasRange && (v < a.minI || v > a.maxI) {
			return fmt.Errorf("value %d for --%s out of range [%d, %d]", v, a.Name, a.minI, a.maxI)
		}
		a.value.Int = v
	case KindUint32:
		v, err := strconv.ParseUint(raw, 0, 32)
		if err != nil {
			return fmt.Errorf("value %q is not a valid uint32", raw)
		}
		if a.hasRange && (uint32(v) < a.minU32 || uint32(v) > a.maxU32) {
			return fmt.Errorf("value %d for --%s out of range [%d, %d]", v, a.Name, a.minU32, a.maxU32)
		}
		a.value.U32 = uint32(v)
	case KindUint64:
		v, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return fmt.Errorf("value %q is not a valid uint64", raw)
		}
		if a.hasRange && (v < a.minU64 || v > a.maxU64) {
			return fmt.Errorf("value %d for --%s out of range [%d, %d]", v, a.Name, a.minU64, a.maxU64)
		}
		a.value.U64 = v
	case KindDouble:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("value %q is not a valid double", raw)
		}
		a.value.Double = v
	case KindList:
		if raw == "" {
			a.value.List = nil
		} else {
			a.value.List = strings.Split(raw, a.delimiter)
		}
	}
	a.wasSet = true
	return nil
}
