package assembler

// OperandKind classifies one operand slot an opcode expects.
type OperandKind int

const (
	OperandReg   OperandKind = iota // vN
	OperandImm                      // integer or float literal
	OperandID                       // record/field/function qname
	OperandLabel                    // branch target
	OperandStr                      // string literal, e.g. lda.str's argument
)

// OpcodeDef describes one instruction mnemonic's fixed operand shape. The
// real table is generated from the ISA definition (spec.md §4.7); this is
// a representative hand-maintained subset covering the mnemonics spec.md's
// worked examples use, described in DESIGN.md's assembler section.
type OpcodeDef struct {
	Mnemonic string
	Operands []OperandKind
	// VariableRegs is true for call-family instructions whose trailing
	// register operands are a variable-length argument list rather than a
	// fixed shape; Operands holds only the fixed prefix in that case.
	VariableRegs bool
}

var opcodeTable = map[string]OpcodeDef{
	"mov":       {Mnemonic: "mov", Operands: []OperandKind{OperandReg, OperandReg}},
	"mov.64":    {Mnemonic: "mov.64", Operands: []OperandKind{OperandReg, OperandReg}},
	"mov.obj":   {Mnemonic: "mov.obj", Operands: []OperandKind{OperandReg, OperandReg}},
	"mov.null":  {Mnemonic: "mov.null", Operands: []OperandKind{OperandReg}},

	"ldai":  {Mnemonic: "ldai", Operands: []OperandKind{OperandImm}},
	"ldai.64": {Mnemonic: "ldai.64", Operands: []OperandKind{OperandImm}},
	"fldai": {Mnemonic: "fldai", Operands: []OperandKind{OperandImm}},
	"fldai.64": {Mnemonic: "fldai.64", Operands: []OperandKind{OperandImm}},

	"lda":     {Mnemonic: "lda", Operands: []OperandKind{OperandReg}},
	"lda.64":  {Mnemonic: "lda.64", Operands: []OperandKind{OperandReg}},
	"lda.obj": {Mnemonic: "lda.obj", Operands: []OperandKind{OperandReg}},
	"lda.str": {Mnemonic: "lda.str", Operands: []OperandKind{OperandStr}},
	"sta":     {Mnemonic: "sta", Operands: []OperandKind{OperandReg}},
	"sta.64":  {Mnemonic: "sta.64", Operands: []OperandKind{OperandReg}},
	"sta.obj": {Mnemonic: "sta.obj", Operands: []OperandKind{OperandReg}},

	"ldobj":     {Mnemonic: "ldobj", Operands: []OperandKind{OperandReg, OperandID}},
	"stobj":     {Mnemonic: "stobj", Operands: []OperandKind{OperandReg, OperandID}},
	"ldstatic":  {Mnemonic: "ldstatic", Operands: []OperandKind{OperandID}},
	"ststatic":  {Mnemonic: "ststatic", Operands: []OperandKind{OperandID}},

	"newobj":   {Mnemonic: "newobj", Operands: []OperandKind{OperandReg, OperandID}},
	"newarr":   {Mnemonic: "newarr", Operands: []OperandKind{OperandReg, OperandReg, OperandID}},
	"lenarr":   {Mnemonic: "lenarr", Operands: []OperandKind{OperandReg}},

	"call.short": {Mnemonic: "call.short", Operands: []OperandKind{OperandID}, VariableRegs: true},
	"call.virt.short": {Mnemonic: "call.virt.short", Operands: []OperandKind{OperandID}, VariableRegs: true},
	"call":        {Mnemonic: "call", Operands: []OperandKind{OperandID}, VariableRegs: true},
	"call.virt":   {Mnemonic: "call.virt", Operands: []OperandKind{OperandID}, VariableRegs: true},
	"call.range":  {Mnemonic: "call.range", Operands: []OperandKind{OperandID, OperandReg}},
	"call.virt.range": {Mnemonic: "call.virt.range", Operands: []OperandKind{OperandID, OperandReg}},

	"return":      {Mnemonic: "return", Operands: nil},
	"return.64":   {Mnemonic: "return.64", Operands: nil},
	"return.obj":  {Mnemonic: "return.obj", Operands: nil},
	"return.void": {Mnemonic: "return.void", Operands: nil},

	"jmp":    {Mnemonic: "jmp", Operands: []OperandKind{OperandLabel}},
	"jeqz":   {Mnemonic: "jeqz", Operands: []OperandKind{OperandLabel}},
	"jnez":   {Mnemonic: "jnez", Operands: []OperandKind{OperandLabel}},
	"jltz":   {Mnemonic: "jltz", Operands: []OperandKind{OperandLabel}},
	"jgtz":   {Mnemonic: "jgtz", Operands: []OperandKind{OperandLabel}},
	"jeq":    {Mnemonic: "jeq", Operands: []OperandKind{OperandReg, OperandLabel}},
	"jne":    {Mnemonic: "jne", Operands: []OperandKind{OperandReg, OperandLabel}},

	"add":  {Mnemonic: "add", Operands: []OperandKind{OperandReg, OperandReg}},
	"sub":  {Mnemonic: "sub", Operands: []OperandKind{OperandReg, OperandReg}},
	"mul":  {Mnemonic: "mul", Operands: []OperandKind{OperandReg, OperandReg}},
	"div":  {Mnemonic: "div", Operands: []OperandKind{OperandReg, OperandReg}},
	"mod":  {Mnemonic: "mod", Operands: []OperandKind{OperandReg, OperandReg}},
	"and":  {Mnemonic: "and", Operands: []OperandKind{OperandReg, OperandReg}},
	"or":   {Mnemonic: "or", Operands: []OperandKind{OperandReg, OperandReg}},
	"xor":  {Mnemonic: "xor", Operands: []OperandKind{OperandReg, OperandReg}},
	"neg":  {Mnemonic: "neg", Operands: nil},
	"not":  {Mnemonic: "not", Operands: nil},
	"inc":  {Mnemonic: "inc", Operands: []OperandKind{OperandReg}},

	"isinstance": {Mnemonic: "isinstance", Operands: []OperandKind{OperandReg, OperandID}},
	"checkcast":  {Mnemonic: "checkcast", Operands: []OperandKind{OperandID}},
	"throw":      {Mnemonic: "throw", Operands: []OperandKind{OperandReg}},
}

// LookupOpcode returns the operand shape for mnemonic and whether it is
// known to the table.
func LookupOpcode(mnemonic string) (OpcodeDef, bool) {
	d, ok := opcodeTable[mnemonic]
	return d, ok
}
