package assembler

import (
	"strconv"
	"strings"

	"github.com/avalon-vm/panda/internal/ident"
)

// recordTargetOpcodes are instructions whose ID operand names a record
// rather than a function, so the resolution pass checks the right table.
var recordTargetOpcodes = map[string]bool{
	"newobj": true, "isinstance": true, "checkcast": true,
}

// Parser turns tokenized lines into a Program, reporting errors into an
// ErrorList. ParseProgram stops at the first hard error: the declarations
// after the one that caused it are not parsed.
type Parser struct {
	errs *ErrorList
}

// NewParser returns a Parser reporting into errs.
func NewParser(errs *ErrorList) *Parser {
	return &Parser{errs: errs}
}

// ParseSource tokenizes and parses src in one step, returning the Program
// and the accumulated errors/warnings.
func ParseSource(src string) (*Program, *ErrorList) {
	errs := &ErrorList{}
	lines := NewLexer(errs).TokenizeSource(src)
	prog := NewParser(errs).ParseProgram(lines)
	return prog, errs
}

func isBlankLine(toks []Token) bool {
	return len(toks) == 0 || (len(toks) == 1 && toks[0].Kind == TokEOL)
}

// ParseProgram consumes every tokenized line and returns the declared
// records and functions. `.language` must appear at most once and before
// any `.record`/`.function` (ERR_MULTIPLE_DIRECTIVES,
// ERR_INCORRECT_DIRECTIVE_LOCATION).
func (p *Parser) ParseProgram(lines [][]Token) *Program {
	prog := NewProgram()
	langSeen := false
	declStarted := false

	i := 0
	for i < len(lines) && !p.errs.HasErrors() {
		line := lines[i]
		if isBlankLine(line) {
			i++
			continue
		}
		tok0 := line[0]
		if tok0.Kind != TokDirective {
			p.errs.addError(ErrBadDirectiveDeclaration, tok0.Line, tok0.Column, "expected a directive")
			i++
			continue
		}

		switch tok0.Text {
		case ".language":
			if declStarted {
				p.errs.addError(ErrIncorrectDirectiveLocation, tok0.Line, tok0.Column, ".language must precede any declaration")
			}
			if langSeen {
				p.errs.addError(ErrMultipleDirectives, tok0.Line, tok0.Column, ".language given more than once")
			}
			if len(line) >= 2 && line[1].Kind == TokIdent {
				if lang, ok := languageNames[line[1].Text]; ok {
					prog.Language = lang
				} else {
					p.errs.addError(ErrUnknownLanguage, tok0.Line, tok0.Column, "unknown language %q", line[1].Text)
				}
			} else {
				p.errs.addError(ErrUnknownLanguage, tok0.Line, tok0.Column, "missing language name")
			}
			langSeen = true
			i++

		case ".record":
			declStarted = true
			rec, consumed := p.parseRecord(lines, i)
			if rec != nil {
				if _, dup := prog.Records[rec.Name]; dup {
					p.errs.addError(ErrBadRecordName, rec.Line, 1, "record %q redeclared", rec.Name)
				} else {
					prog.addRecord(rec)
				}
			}
			i += consumed

		case ".function":
			declStarted = true
			fn, consumed := p.parseFunction(lines, i)
			if fn != nil {
				if _, dup := prog.Functions[fn.Name]; dup {
					p.errs.addError(ErrBadOperationName, fn.Line, 1, "function %q redeclared", fn.Name)
				} else {
					prog.addFunction(fn)
				}
			}
			i += consumed

		default:
			p.errs.addError(ErrBadDirectiveDeclaration, tok0.Line, tok0.Column, "unexpected directive %q at top level", tok0.Text)
			i++
		}
	}

	// spec.md §7: the assembler halts at the first hard error rather than
	// resolving cross-references against a program it already knows is
	// broken; warnings from resolution are only meaningful once parsing
	// itself came back clean.
	if !p.errs.HasErrors() {
		p.resolveProgram(prog)
	}
	return prog
}

// parseType reads one type expression (primitive keyword or record qname,
// with zero or more trailing "[]" pairs) starting at pos.
func parseType(toks []Token, pos int) (ident.Type, int, bool) {
	if pos >= len(toks) || toks[pos].Kind != TokIdent {
		return ident.Type{}, pos, false
	}
	var typ ident.Type
	if prim, ok := ident.LookupPrimitive(toks[pos].Text); ok {
		typ = ident.NewPrimitive(prim)
	} else {
		typ = ident.NewReference(toks[pos].Text)
	}
	pos++
	for pos+1 < len(toks) &&
		toks[pos].Kind == TokPunct && toks[pos].Text == "[" &&
		toks[pos+1].Kind == TokPunct && toks[pos+1].Text == "]" {
		typ = typ.Array()
		pos += 2
	}
	return typ, pos, true
}

// parseMetadataInline reads an optional "< attr, attr=value, ... >" block
// starting at pos, returning an empty Metadata if none is present.
func (p *Parser) parseMetadataInline(toks []Token, pos int) (*Metadata, int) {
	meta := NewMetadata()
	if pos >= len(toks) || toks[pos].Kind != TokPunct || toks[pos].Text != "<" {
		return meta, pos
	}
	pos++
	for pos < len(toks) {
		tok := toks[pos]
		if tok.Kind == TokPunct && tok.Text == ">" {
			pos++
			break
		}
		if tok.Kind == TokPunct && tok.Text == "," {
			pos++
			continue
		}
		if tok.Kind != TokIdent {
			p.errs.addError(ErrBadMetadataBound, tok.Line, tok.Column, "malformed metadata near %q", tok.Text)
			pos++
			continue
		}
		attr := tok.Text
		pos++
		value := ""
		if pos < len(toks) && toks[pos].Kind == TokPunct && toks[pos].Text == "=" {
			pos++
			if pos >= len(toks) {
				p.errs.addError(ErrBadMetadataInvalidValue, tok.Line, tok.Column, "attribute %q missing value", attr)
				break
			}
			value = toks[pos].Text
			pos++
		}
		if _, dup := meta.Attributes[attr]; dup {
			p.errs.addError(ErrBadMetadataMultipleAttribute, tok.Line, tok.Column, "attribute %q repeated", attr)
		}
		meta.Attributes[attr] = value
	}
	return meta, pos
}

// parseRecord parses one ".record Name <metadata> { fields... }"
// declaration possibly spanning multiple lines, returning the number of
// lines consumed.
func (p *Parser) parseRecord(lines [][]Token, start int) (*Record, int) {
	header := lines[start]
	pos := 1
	if pos >= len(header) || header[pos].Kind != TokIdent {
		p.errs.addError(ErrBadRecordName, header[0].Line, header[0].Column, "missing record name")
		return nil, 1
	}
	name := header[pos].Text
	pos++

	meta, pos := p.parseMetadataInline(header, pos)
	rec := &Record{Name: name, Metadata: meta, Line: header[0].Line}

	hasBody := pos < len(header) && header[pos].Kind == TokPunct && header[pos].Text == "{"
	if !hasBody {
		return rec, 1
	}
	pos++

	idx := start
	curLine := header
	for {
		if pos >= len(curLine) {
			idx++
			if idx >= len(lines) {
				return rec, idx - start
			}
			curLine = lines[idx]
			pos = 0
			continue
		}
		tok := curLine[pos]
		if tok.Kind == TokEOL {
			pos++
			continue
		}
		if tok.Kind == TokPunct && tok.Text == "}" {
			idx++
			return rec, idx - start
		}
		field, next, ok := p.parseField(curLine, pos)
		pos = next
		if ok {
			for _, existing := range rec.Fields {
				if existing.Name == field.Name {
					p.errs.addError(ErrRepeatingFieldName, field.Line, 1, "field %q repeated in record %q", field.Name, name)
				}
			}
			rec.Fields = append(rec.Fields, field)
		}
	}
}

// parseField reads one "<type> <name> [<metadata>] [= <literal>]" field
// declaration starting at pos within a single line, returning the position
// just past it. A "= <literal>" value takes precedence over a value=
// metadata attribute.
func (p *Parser) parseField(toks []Token, pos int) (*Field, int, bool) {
	typ, pos, ok := parseType(toks, pos)
	if !ok {
		if pos < len(toks) {
			p.errs.addError(ErrBadFieldMissingName, toks[pos].Line, toks[pos].Column, "malformed field declaration")
		}
		return nil, len(toks), false
	}
	if pos >= len(toks) || toks[pos].Kind != TokIdent {
		p.errs.addError(ErrBadFieldMissingName, toks[0].Line, toks[0].Column, "field missing name")
		return nil, len(toks), false
	}
	line := toks[pos].Line
	name := toks[pos].Text
	pos++
	meta, pos := p.parseMetadataInline(toks, pos)
	value, _ := meta.Value("value")
	if pos+1 < len(toks) && toks[pos].Kind == TokPunct && toks[pos].Text == "=" && toks[pos+1].Kind != TokEOL {
		value = toks[pos+1].Text
		pos += 2
	}
	return &Field{Type: typ, Name: name, Metadata: meta, Value: value, Line: line}, pos, true
}

// parseFunction parses one ".function <type> name(params) <metadata> { body }"
// declaration, returning the number of lines consumed.
func (p *Parser) parseFunction(lines [][]Token, start int) (*Function, int) {
	header := lines[start]
	pos := 1
	rettype, pos, ok := parseType(header, pos)
	if !ok {
		p.errs.addError(ErrBadOperationName, header[0].Line, header[0].Column, "missing function return type")
		return nil, 1
	}
	if pos >= len(header) || header[pos].Kind != TokIdent {
		p.errs.addError(ErrBadOperationName, header[0].Line, header[0].Column, "missing function name")
		return nil, 1
	}
	name := header[pos].Text
	pos++

	if pos >= len(header) || header[pos].Kind != TokPunct || header[pos].Text != "(" {
		p.errs.addError(ErrBadOperationName, header[0].Line, header[0].Column, "expected '(' after function name")
		return nil, 1
	}
	pos++

	var params []Parameter
	for pos < len(header) {
		if header[pos].Kind == TokPunct && header[pos].Text == ")" {
			pos++
			break
		}
		ptyp, next, ok := parseType(header, pos)
		if !ok {
			p.errs.addError(ErrBadNameReg, header[pos].Line, header[pos].Column, "malformed parameter")
			break
		}
		pos = next
		if pos >= len(header) || (header[pos].Kind != TokIdent && header[pos].Kind != TokRegister) {
			p.errs.addError(ErrBadNameReg, header[0].Line, header[0].Column, "parameter missing name")
			break
		}
		params = append(params, Parameter{Type: ptyp, Name: header[pos].Text})
		pos++
		if pos < len(header) && header[pos].Kind == TokPunct && header[pos].Text == "," {
			pos++
			continue
		}
		if pos < len(header) && header[pos].Kind == TokPunct && header[pos].Text == ")" {
			pos++
			break
		}
		break
	}

	meta, pos := p.parseMetadataInline(header, pos)
	fn := &Function{Name: name, ReturnType: rettype, Params: params, Metadata: meta, Line: header[0].Line}

	hasBody := pos < len(header) && header[pos].Kind == TokPunct && header[pos].Text == "{"
	if !hasBody {
		return fn, 1
	}
	pos++

	body, catches, linesUsed := p.parseBody(lines, start, pos)
	fn.Body = body
	fn.Catches = catches
	return fn, linesUsed
}

// parseBody consumes tokens starting at lines[start][headerPos:] up to and
// including the closing "}", across as many lines as needed, and parses
// each instruction/label/.catch line it finds in between.
func (p *Parser) parseBody(lines [][]Token, start, headerPos int) ([]*Instruction, []CatchDirective, int) {
	var body []*Instruction
	var catches []CatchDirective
	var buf []Token
	var pendingLabel string

	idx := start
	pos := headerPos
	curLine := lines[start]

	flush := func() {
		if len(buf) > 0 {
			p.parseBodyLine(buf, &pendingLabel, &body, &catches)
			buf = nil
		}
	}
	finish := func() {
		flush()
		if pendingLabel != "" {
			body = append(body, &Instruction{Label: pendingLabel})
			pendingLabel = ""
		}
	}

	for idx < len(lines) {
		if pos >= len(curLine) {
			idx++
			if idx >= len(lines) {
				break
			}
			curLine = lines[idx]
			pos = 0
			continue
		}
		tok := curLine[pos]
		if tok.Kind == TokEOL {
			flush()
			pos++
			continue
		}
		if tok.Kind == TokPunct && tok.Text == "}" {
			finish()
			return body, catches, idx - start + 1
		}
		buf = append(buf, tok)
		pos++
	}
	finish()
	return body, catches, idx - start
}

// parseBodyLine parses one logical body line already split on EOL/"}"
// boundaries. A line that is only "label:" does not produce an
// Instruction by itself — it sets *pendingLabel, which the next
// instruction-bearing line (or, if none follows, finish()) attaches to.
func (p *Parser) parseBodyLine(toks []Token, pendingLabel *string, body *[]*Instruction, catches *[]CatchDirective) {
	if len(toks) == 0 {
		return
	}
	pos := 0
	label := ""
	if toks[0].Kind == TokIdent && len(toks) > 1 && toks[1].Kind == TokPunct && toks[1].Text == ":" {
		label = toks[0].Text
		pos = 2
		if pos >= len(toks) {
			*pendingLabel = label
			return
		}
	}
	if label == "" {
		label = *pendingLabel
	}
	*pendingLabel = ""

	if toks[pos].Kind == TokDirective && (toks[pos].Text == ".catch" || toks[pos].Text == ".catchall") {
		*catches = append(*catches, p.parseCatch(toks, pos))
		return
	}

	if toks[pos].Kind != TokIdent {
		p.errs.addError(ErrBadOperationName, toks[pos].Line, toks[pos].Column, "expected instruction mnemonic, got %q", toks[pos].Text)
		return
	}
	mnemonic := toks[pos].Text
	mnemTok := toks[pos]
	pos++

	def, ok := LookupOpcode(mnemonic)
	if !ok {
		p.errs.addError(ErrBadOperationName, mnemTok.Line, mnemTok.Column, "unknown instruction %q", mnemonic)
		return
	}

	instr := &Instruction{Label: label, Opcode: mnemonic, Line: mnemTok.Line, Column: mnemTok.Column}
	opIdx := 0
	for opIdx < len(def.Operands) || (def.VariableRegs && pos < len(toks)) {
		if pos >= len(toks) {
			if opIdx < len(def.Operands) {
				p.errs.addError(ErrBadNumberOperands, mnemTok.Line, mnemTok.Column, "too few operands for %q", mnemonic)
			}
			break
		}
		tok := toks[pos]
		if tok.Kind == TokPunct && tok.Text == "," {
			pos++
			continue
		}
		kind := OperandReg
		if opIdx < len(def.Operands) {
			kind = def.Operands[opIdx]
		}
		p.parseOperand(tok, kind, instr)
		pos++
		if kind == OperandID {
			for pos+1 < len(toks) &&
				toks[pos].Kind == TokPunct && toks[pos].Text == "[" &&
				toks[pos+1].Kind == TokPunct && toks[pos+1].Text == "]" {
				instr.IDHasArraySuffix = true
				pos += 2
			}
		}
		opIdx++
	}
	if pos < len(toks) {
		p.errs.addError(ErrBadNumberOperands, mnemTok.Line, mnemTok.Column, "too many operands for %q", mnemonic)
	}

	*body = append(*body, instr)
}

func (p *Parser) parseOperand(tok Token, kind OperandKind, instr *Instruction) {
	switch kind {
	case OperandReg:
		if tok.Kind != TokRegister {
			p.errs.addError(ErrBadNameReg, tok.Line, tok.Column, "expected register operand, got %q", tok.Text)
			return
		}
		reg, err := parseRegNumber(tok.Text)
		if err != nil {
			p.errs.addError(ErrBadNameReg, tok.Line, tok.Column, "malformed register %q", tok.Text)
			return
		}
		if tok.Text[0] == 'a' {
			instr.paramRegSlots = append(instr.paramRegSlots, len(instr.Regs))
		}
		instr.Regs = append(instr.Regs, reg)

	case OperandImm:
		if tok.Kind != TokInteger && tok.Kind != TokFloat {
			p.errs.addError(ErrBadOperand, tok.Line, tok.Column, "expected immediate operand, got %q", tok.Text)
			return
		}
		imm, err := parseImmediate(tok)
		if err != nil {
			p.errs.addError(ErrBadIntegerName, tok.Line, tok.Column, "malformed immediate %q", tok.Text)
			return
		}
		instr.Imms = append(instr.Imms, imm)

	case OperandID:
		if tok.Kind != TokIdent {
			p.errs.addError(ErrBadNameID, tok.Line, tok.Column, "expected identifier operand, got %q", tok.Text)
			return
		}
		instr.IDs = append(instr.IDs, tok.Text)

	case OperandLabel:
		if tok.Kind != TokIdent {
			p.errs.addError(ErrBadLabel, tok.Line, tok.Column, "expected label operand, got %q", tok.Text)
			return
		}
		instr.IDs = append(instr.IDs, tok.Text)

	case OperandStr:
		if tok.Kind != TokString {
			p.errs.addError(ErrBadOperand, tok.Line, tok.Column, "expected string operand, got %q", tok.Text)
			return
		}
		instr.Strs = append(instr.Strs, tok.Text)
	}
}

func (p *Parser) parseCatch(toks []Token, pos int) CatchDirective {
	cd := CatchDirective{IsCatchAll: toks[pos].Text == ".catchall", Line: toks[0].Line}
	pos++
	if !cd.IsCatchAll && pos < len(toks) && toks[pos].Kind == TokIdent {
		cd.ExceptionRecord = toks[pos].Text
		pos++
	}
	var labels []string
	for pos < len(toks) {
		if toks[pos].Kind == TokPunct && toks[pos].Text == "," {
			pos++
			continue
		}
		if toks[pos].Kind == TokIdent {
			labels = append(labels, toks[pos].Text)
		}
		pos++
	}
	if len(labels) > 0 {
		cd.TryBegin = labels[0]
	}
	if len(labels) > 1 {
		cd.TryEnd = labels[1]
	}
	if len(labels) > 2 {
		cd.CatchBegin = labels[2]
	}
	if len(labels) > 3 {
		cd.CatchEnd = labels[3]
	}
	return cd
}

func parseRegNumber(text string) (uint16, error) {
	n, err := strconv.ParseUint(text[1:], 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

func parseImmediate(tok Token) (ScalarImm, error) {
	if tok.Kind == TokFloat {
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return ScalarImm{}, err
		}
		return ScalarImm{IsFloat: true, Float: f}, nil
	}
	n, err := strconv.ParseInt(tok.Text, 0, 64)
	if err != nil {
		return ScalarImm{}, err
	}
	return ScalarImm{Int: n}, nil
}

// fieldAccessOpcodes are instructions whose ID operand names a field
// qualified by its owning record ("Record.field"), checked against check
// (2) of the resolution pass.
var fieldAccessOpcodes = map[string]bool{
	"ldobj": true, "stobj": true, "ldstatic": true, "ststatic": true,
}

// resolveProgram is the second pass: once every record and function is
// known, validate cross-references that a single-pass parse cannot —
// record/field/function names, label targets, register layout, and
// call-family arity. It walks functions and, within each, instructions, in
// declaration order so that diagnostics and Program.Strings come out in a
// deterministic, source-following order rather than Go's randomized map
// iteration. It stops at the first hard error (spec.md §7), leaving any
// functions/instructions after that point unresolved.
func (p *Parser) resolveProgram(prog *Program) {
	for _, fnName := range prog.functionOrder {
		if p.errs.HasErrors() {
			return
		}
		fn := prog.Functions[fnName]

		labels := map[string]bool{}
		for _, instr := range fn.Body {
			if instr.Label == "" {
				continue
			}
			if labels[instr.Label] {
				p.errs.addError(ErrBadLabelExt, instr.Line, instr.Column, "label %q redefined in function %q", instr.Label, fn.Name)
			}
			labels[instr.Label] = true
		}
		fn.Labels = labels

		computeRegisterLayout(fn)

		for _, instr := range fn.Body {
			if p.errs.HasErrors() {
				return
			}
			if instr.Opcode != "" {
				def, _ := LookupOpcode(instr.Opcode)
				p.resolveInstruction(prog, fn, instr, def, labels)
			}
			for _, s := range instr.Strs {
				prog.addString(s)
			}
		}
	}
}

// computeRegisterLayout derives fn.RegsNum and fn.FirstParam from the
// highest explicit "v<k>" register referenced in the body (spec.md's
// vregs_number convention: parameters occupy the registers immediately
// above the declared locals), then rewrites every "a<k>" operand recorded
// in paramRegSlots from its raw k to FirstParam+k.
func computeRegisterLayout(fn *Function) {
	maxV := -1
	for _, instr := range fn.Body {
		isParam := make(map[int]bool, len(instr.paramRegSlots))
		for _, slot := range instr.paramRegSlots {
			isParam[slot] = true
		}
		for idx, reg := range instr.Regs {
			if isParam[idx] {
				continue
			}
			if int(reg) > maxV {
				maxV = int(reg)
			}
		}
	}

	numParams := len(fn.Params)
	regsNum := maxV + 1
	if regsNum < numParams {
		regsNum = numParams
	}
	fn.RegsNum = uint16(regsNum)

	fn.FirstParam = -1
	if numParams == 0 {
		return
	}
	fn.FirstParam = regsNum - numParams
	for _, instr := range fn.Body {
		for _, slot := range instr.paramRegSlots {
			instr.Regs[slot] = uint16(fn.FirstParam) + instr.Regs[slot]
		}
	}
}

func (p *Parser) resolveInstruction(prog *Program, fn *Function, instr *Instruction, def OpcodeDef, labels map[string]bool) {
	// spec.md:173, resolution check (4): every register reference is within
	// 0..regs_num for the enclosing function.
	for _, reg := range instr.Regs {
		if reg >= fn.RegsNum {
			p.errs.addError(ErrBadOperand, instr.Line, instr.Column,
				"register v%d out of range for function %q (regs_num=%d)", reg, fn.Name, fn.RegsNum)
		}
	}

	idIdx := 0
	for _, kind := range def.Operands {
		switch kind {
		case OperandID:
			if idIdx >= len(instr.IDs) {
				break
			}
			name := instr.IDs[idIdx]
			idIdx++
			p.resolveID(prog, fn, instr, name)
		case OperandLabel:
			if idIdx >= len(instr.IDs) {
				break
			}
			name := instr.IDs[idIdx]
			idIdx++
			if !labels[name] {
				p.errs.addError(ErrBadLabel, instr.Line, instr.Column, "undefined label %q in function %q", name, fn.Name)
			}
		}
	}
}

func (p *Parser) resolveID(prog *Program, fn *Function, instr *Instruction, name string) {
	baseName := name
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		baseName = name[idx+1:]
	}

	if recordTargetOpcodes[instr.Opcode] {
		if _, ok := prog.Records[name]; !ok {
			if _, ok := prog.Records[baseName]; !ok {
				p.errs.addError(ErrBadIDRecord, instr.Line, instr.Column, "undefined record %q", name)
			}
		}
		if instr.Opcode == "newobj" && instr.IDHasArraySuffix {
			p.errs.addError(WarUnexpectedTypeID, instr.Line, instr.Column, "newobj given an array type %q", name)
		}
		return
	}

	if fieldAccessOpcodes[instr.Opcode] {
		idx := strings.LastIndexByte(name, '.')
		if idx < 0 {
			return // unqualified id: no owning record to check the field against
		}
		recName, fieldName := name[:idx], name[idx+1:]
		rec, ok := prog.Records[recName]
		if !ok {
			p.errs.addError(ErrBadIDRecord, instr.Line, instr.Column, "undefined record %q", recName)
			return
		}
		if rec.IsExternal() {
			return // no local field list to check an external record against
		}
		for _, f := range rec.Fields {
			if f.Name == fieldName {
				return
			}
		}
		p.errs.addError(ErrBadIDField, instr.Line, instr.Column, "undefined field %q in record %q", fieldName, recName)
		return
	}

	if strings.HasPrefix(instr.Opcode, "call") {
		callee, ok := prog.Functions[name]
		if !ok {
			p.errs.addError(ErrBadIDFunction, instr.Line, instr.Column, "undefined function %q", name)
			return
		}
		// Only the bare "call" form is checked here, and only for too few
		// registers: it needs at least enough registers to cover the
		// callee's declared parameters, and extra registers are accepted.
		// No maximum register count is enforced for any call-family form,
		// and the length of a call.range register range is not checked.
		if instr.Opcode == "call" && len(instr.Regs) < callee.Arity() {
			p.errs.addError(ErrFunctionArgumentMismatch, instr.Line, instr.Column,
				"call to %q given %d register operands, expects at least %d", name, len(instr.Regs), callee.Arity())
		}
		return
	}
}
