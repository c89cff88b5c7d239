package assembler

import "github.com/avalon-vm/panda/internal/ident"

// Language is the source language a program declares via `.language`.
type Language int

const (
	LanguageUnspecified Language = iota
	LanguagePandaAssembly
	LanguageECMAScript
)

var languageNames = map[string]Language{
	"PandaAssembly": LanguagePandaAssembly,
	"ECMAScript":    LanguageECMAScript,
}

// Metadata is the parsed `< attr, attr=value, ... >` annotation attached to
// a record, function, or field declaration.
type Metadata struct {
	Attributes map[string]string // "" for value-less attributes (e.g. "external")
}

// NewMetadata returns an empty Metadata ready for attribute insertion.
func NewMetadata() *Metadata { return &Metadata{Attributes: map[string]string{}} }

// Has reports whether attr was given.
func (m *Metadata) Has(attr string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Attributes[attr]
	return ok
}

// Value returns attr's value and whether attr was given with one.
func (m *Metadata) Value(attr string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.Attributes[attr]
	return v, ok && v != ""
}

// Field is one `<type> <name> [<metadata>] [= <literal>]` record member.
type Field struct {
	Type     ident.Type
	Name     string
	Metadata *Metadata
	Value    string // raw literal text, unparsed; empty if absent
	Line     int
}

// Record is a `.record` declaration.
type Record struct {
	Name     string
	Metadata *Metadata
	Fields   []*Field
	Line     int
}

// IsExternal reports whether the record was declared with the `external`
// attribute (no field list, resolved against another file).
func (r *Record) IsExternal() bool { return r.Metadata.Has("external") }

// Parameter is one function parameter: `<type> a<k>`.
type Parameter struct {
	Type ident.Type
	Name string
}

// ScalarImm is a tagged immediate operand (spec.md §3: "int64 or double").
type ScalarImm struct {
	IsFloat bool
	Int     int64
	Float   float64
}

// Instruction is one parsed instruction, with its operands in the shape
// the opcode table declares and, if this line defines a label, that
// label's name.
type Instruction struct {
	Label  string // non-empty if this line is "label:"
	Opcode string
	Regs   []uint16
	Imms   []ScalarImm
	IDs    []string
	Strs   []string // string-literal operands, e.g. lda.str's argument
	Line   int
	Column int

	// IDHasArraySuffix is set when an ID operand was followed by one or
	// more "[]" pairs (e.g. "newobj v0, Foo[]"), which resolveID uses to
	// raise WarUnexpectedTypeID.
	IDHasArraySuffix bool

	// paramRegSlots holds, for each register operand parsed from an
	// "a<k>" token, the index into Regs holding its raw k — resolveProgram
	// rewrites Regs at these indices to FirstParam+k once a function's
	// register layout is known (computeRegisterLayout).
	paramRegSlots []int
}

// CatchDirective is a `.catch`/`.catchall` directive inside a function body.
type CatchDirective struct {
	IsCatchAll      bool
	ExceptionRecord string // empty when IsCatchAll
	TryBegin        string
	TryEnd          string
	CatchBegin      string
	CatchEnd        string // empty when absent
	Line            int
}

// Function is a `.function` declaration.
type Function struct {
	Name       string
	ReturnType ident.Type
	Params     []Parameter
	Metadata   *Metadata
	Body       []*Instruction
	Catches    []CatchDirective
	Line       int

	// Labels maps every label defined in Body to true, persisted here by
	// resolveProgram once the body is fully parsed (spec.md's "label table
	// (name -> defined/used location)").
	Labels map[string]bool

	// FirstParam is the register index of parameter a0 ("a<k>" maps to a
	// local at FirstParam+k), or -1 if the function takes no parameters.
	// RegsNum is the total register count (locals plus parameters).
	// Both are computed by resolveProgram's computeRegisterLayout once
	// every explicit "v<k>" reference in the body has been seen.
	FirstParam int
	RegsNum    uint16
}

// IsExternal reports whether the function has no body, declared external.
func (f *Function) IsExternal() bool { return f.Metadata.Has("external") }

// IsStatic reports whether the function is declared static.
func (f *Function) IsStatic() bool { return f.Metadata.Has("static") }

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.Params) }

// Program is the fully parsed translation unit: the declared language plus
// every record and function, in declaration order.
type Program struct {
	Language  Language
	Records   map[string]*Record
	Functions map[string]*Function
	// Strings is the ordered unique set of literal strings encountered in
	// lda.str operands across the whole program, in first-occurrence order.
	Strings []string

	recordOrder   []string
	functionOrder []string
	stringSeen    map[string]bool
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{
		Records:    map[string]*Record{},
		Functions:  map[string]*Function{},
		stringSeen: map[string]bool{},
	}
}

// addString records s in Strings the first time it is seen.
func (p *Program) addString(s string) {
	if p.stringSeen[s] {
		return
	}
	p.stringSeen[s] = true
	p.Strings = append(p.Strings, s)
}

// RecordNames returns record names in declaration order.
func (p *Program) RecordNames() []string { return p.recordOrder }

// FunctionNames returns function names in declaration order.
func (p *Program) FunctionNames() []string { return p.functionOrder }

func (p *Program) addRecord(r *Record) {
	p.Records[r.Name] = r
	p.recordOrder = append(p.recordOrder, r.Name)
}

func (p *Program) addFunction(f *Function) {
	p.Functions[f.Name] = f
	p.functionOrder = append(p.functionOrder, f.Name)
}
