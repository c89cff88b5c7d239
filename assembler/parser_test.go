package assembler

import "testing"

func TestParseRecordWithFieldsAndMetadata(t *testing.T) {
	src := `.record Point {
	i32 x
	i32 y <value=0>
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	rec, ok := prog.Records["Point"]
	if !ok {
		t.Fatalf("record Point not found")
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(rec.Fields))
	}
	if rec.Fields[0].Name != "x" || rec.Fields[1].Name != "y" {
		t.Fatalf("field names = %q, %q", rec.Fields[0].Name, rec.Fields[1].Name)
	}
	if v, _ := rec.Fields[1].Metadata.Value("value"); v != "0" {
		t.Fatalf("field y value = %q, want 0", v)
	}
}

func TestParseExternalRecordHasNoBody(t *testing.T) {
	prog, errs := ParseSource(".record Foo <external>\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	rec := prog.Records["Foo"]
	if rec == nil || !rec.IsExternal() {
		t.Fatalf("record Foo should be external, got %+v", rec)
	}
	if len(rec.Fields) != 0 {
		t.Fatalf("external record should have no fields")
	}
}

func TestParseRepeatingFieldNameReported(t *testing.T) {
	src := `.record Foo {
	i32 x
	i32 x
}
`
	_, errs := ParseSource(src)
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrRepeatingFieldName {
		t.Fatalf("errors = %v, want one ErrRepeatingFieldName", errs.Errors)
	}
}

func TestParseFunctionOneLinerBody(t *testing.T) {
	prog, errs := ParseSource(".function u8 main(){ mov v1, v2 }\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["main"]
	if fn == nil {
		t.Fatalf("function main not found")
	}
	if len(fn.Body) != 1 || fn.Body[0].Opcode != "mov" {
		t.Fatalf("body = %+v", fn.Body)
	}
	if len(fn.Body[0].Regs) != 2 || fn.Body[0].Regs[0] != 1 || fn.Body[0].Regs[1] != 2 {
		t.Fatalf("regs = %+v", fn.Body[0].Regs)
	}
}

func TestParseFunctionMultilineBodyWithParams(t *testing.T) {
	src := `.function i32 add(i32 a0, i32 a1) {
	add v0, v1
	return
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["add"]
	if fn == nil {
		t.Fatalf("function add not found")
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a0" || fn.Params[1].Name != "a1" {
		t.Fatalf("params = %+v", fn.Params)
	}
	if len(fn.Body) != 2 || fn.Body[0].Opcode != "add" || fn.Body[1].Opcode != "return" {
		t.Fatalf("body = %+v", fn.Body)
	}
}

func TestParseExternalFunctionHasNoBody(t *testing.T) {
	prog, errs := ParseSource(".function u8 foo() <external>\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["foo"]
	if fn == nil || !fn.IsExternal() {
		t.Fatalf("function foo should be external, got %+v", fn)
	}
}

func TestParseLanguageDirective(t *testing.T) {
	prog, errs := ParseSource(".language PandaAssembly\n.record Foo {}\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	if prog.Language != LanguagePandaAssembly {
		t.Fatalf("language = %v, want LanguagePandaAssembly", prog.Language)
	}
}

func TestParseLanguageAfterDeclarationIsMisplaced(t *testing.T) {
	src := ".record Foo {}\n.language PandaAssembly\n"
	_, errs := ParseSource(src)
	found := false
	for _, e := range errs.Errors {
		if e.Kind == ErrIncorrectDirectiveLocation {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want ErrIncorrectDirectiveLocation", errs.Errors)
	}
}

func TestParseUnknownLanguageReported(t *testing.T) {
	_, errs := ParseSource(".language Nonsense\n")
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrUnknownLanguage {
		t.Fatalf("errors = %v, want one ErrUnknownLanguage", errs.Errors)
	}
}

func TestParseLabelsAndJump(t *testing.T) {
	src := `.function u8 loop() {
	jmp end
	mov v0, v1
end:
	return.void
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["loop"]
	if len(fn.Body) != 3 {
		t.Fatalf("body = %+v", fn.Body)
	}
	if fn.Body[2].Label != "end" || fn.Body[2].Opcode != "return.void" {
		t.Fatalf("label line = %+v", fn.Body[2])
	}
}

func TestParseUndefinedLabelReported(t *testing.T) {
	src := `.function u8 f() {
	jmp nowhere
}
`
	_, errs := ParseSource(src)
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrBadLabel {
		t.Fatalf("errors = %v, want one ErrBadLabel", errs.Errors)
	}
}

func TestParseDuplicateLabelReported(t *testing.T) {
	src := `.function u8 f() {
top:
	mov v0, v1
top:
	return.void
}
`
	_, errs := ParseSource(src)
	found := false
	for _, e := range errs.Errors {
		if e.Kind == ErrBadLabelExt {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want ErrBadLabelExt", errs.Errors)
	}
}

func TestParseCallToUndefinedFunctionReported(t *testing.T) {
	src := `.function u8 f() {
	call.short missing, v0
}
`
	_, errs := ParseSource(src)
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrBadIDFunction {
		t.Fatalf("errors = %v, want one ErrBadIDFunction", errs.Errors)
	}
}

// TestParseCallShortScenarioFromSpec exercises the assembler's end-to-end
// call.short arity scenario: a callee with zero declared parameters still
// accepts extra register operands in the short form, since only the bare
// call form is checked against the callee's arity, and then only for too
// few registers.
func TestParseCallShortScenarioFromSpec(t *testing.T) {
	src := `.function u8 main(){ call.short nain, v1, v2 }
.function u8 nain(){}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["main"]
	if fn == nil || len(fn.Body) != 1 {
		t.Fatalf("body = %+v", fn)
	}
	instr := fn.Body[0]
	if instr.Opcode != "call.short" {
		t.Fatalf("opcode = %q, want call.short", instr.Opcode)
	}
	if len(instr.IDs) != 1 || instr.IDs[0] != "nain" {
		t.Fatalf("ids = %+v, want [nain]", instr.IDs)
	}
	if len(instr.Regs) != 2 || instr.Regs[0] != 1 || instr.Regs[1] != 2 {
		t.Fatalf("regs = %+v, want [1 2]", instr.Regs)
	}
}

func TestParseCallTooFewRegistersForArityReported(t *testing.T) {
	src := `.function u8 nain(i32 a0, i32 a1) {
	return.void
}
.function u8 main() {
	call nain, v0
}
`
	_, errs := ParseSource(src)
	found := false
	for _, e := range errs.Errors {
		if e.Kind == ErrFunctionArgumentMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want ErrFunctionArgumentMismatch", errs.Errors)
	}
}

func TestParseCallExtraRegistersForArityIsClean(t *testing.T) {
	src := `.function u8 nain(i32 a0, i32 a1) {
	return.void
}
.function u8 main() {
	call nain, v0, v1, v2, v3
}
`
	_, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
}

func TestParseNewobjUndefinedRecordReported(t *testing.T) {
	src := `.function u8 f() {
	newobj v0, Missing
}
`
	_, errs := ParseSource(src)
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrBadIDRecord {
		t.Fatalf("errors = %v, want one ErrBadIDRecord", errs.Errors)
	}
}

func TestParseNewobjKnownRecordResolvesCleanly(t *testing.T) {
	src := `.record Point {
	i32 x
}
.function u8 f() {
	newobj v0, Point
}
`
	_, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
}

func TestParseCatchDirective(t *testing.T) {
	src := `.function u8 f() {
try_begin:
	mov v0, v1
try_end:
	return.void
catch_begin:
	return.void
	.catch Exception, try_begin, try_end, catch_begin
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["f"]
	if len(fn.Catches) != 1 {
		t.Fatalf("catches = %+v", fn.Catches)
	}
	cd := fn.Catches[0]
	if cd.IsCatchAll || cd.ExceptionRecord != "Exception" {
		t.Fatalf("catch = %+v", cd)
	}
	if cd.TryBegin != "try_begin" || cd.TryEnd != "try_end" || cd.CatchBegin != "catch_begin" {
		t.Fatalf("catch labels = %+v", cd)
	}
}

func TestParseCatchAllDirective(t *testing.T) {
	src := `.function u8 f() {
a:
	mov v0, v1
b:
	return.void
c:
	return.void
	.catchall a, b, c
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["f"]
	if len(fn.Catches) != 1 || !fn.Catches[0].IsCatchAll {
		t.Fatalf("catches = %+v", fn.Catches)
	}
}

func TestParseArrayTypeField(t *testing.T) {
	src := ".record Foo {\n\ti32[] xs\n}\n"
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	f := prog.Records["Foo"].Fields[0]
	if f.Type.Rank != 1 {
		t.Fatalf("field type rank = %d, want 1", f.Type.Rank)
	}
}

func TestParseUnknownOpcodeReported(t *testing.T) {
	src := `.function u8 f() {
	frobnicate v0
}
`
	_, errs := ParseSource(src)
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrBadOperationName {
		t.Fatalf("errors = %v, want one ErrBadOperationName", errs.Errors)
	}
}

func TestParseTooFewOperandsReported(t *testing.T) {
	src := `.function u8 f() {
	mov v0
}
`
	_, errs := ParseSource(src)
	found := false
	for _, e := range errs.Errors {
		if e.Kind == ErrBadNumberOperands {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want ErrBadNumberOperands", errs.Errors)
	}
}

func TestParseLdaStrAddsToProgramStrings(t *testing.T) {
	src := `.function u8 f() {
	lda.str "hello"
	lda.str "world"
	lda.str "hello"
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["f"]
	if len(fn.Body) != 3 {
		t.Fatalf("body = %+v", fn.Body)
	}
	for _, instr := range fn.Body {
		if instr.Opcode != "lda.str" || len(instr.Strs) != 1 {
			t.Fatalf("instr = %+v, want one string operand", instr)
		}
	}
	want := []string{"hello", "world"}
	if len(prog.Strings) != len(want) || prog.Strings[0] != want[0] || prog.Strings[1] != want[1] {
		t.Fatalf("prog.Strings = %+v, want %+v (unique, first-occurrence order)", prog.Strings, want)
	}
}

func TestParseFieldAccessUnknownFieldReported(t *testing.T) {
	src := `.record Point {
	i32 x
}
.function u8 f() {
	ldobj v0, Point.missing
}
`
	_, errs := ParseSource(src)
	if len(errs.Errors) != 1 || errs.Errors[0].Kind != ErrBadIDField {
		t.Fatalf("errors = %v, want one ErrBadIDField", errs.Errors)
	}
}

func TestParseFieldAccessKnownFieldResolvesCleanly(t *testing.T) {
	src := `.record Point {
	i32 x
}
.function u8 f() {
	ldobj v0, Point.x
}
`
	_, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
}

func TestParseNewobjArrayTypeWarns(t *testing.T) {
	src := `.record Foo {
	i32 x
}
.function u8 f() {
	newobj v0, Foo[]
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected hard errors: %v", errs.Errors)
	}
	if len(errs.Warnings) != 1 || errs.Warnings[0].Kind != WarUnexpectedTypeID {
		t.Fatalf("warnings = %v, want one WarUnexpectedTypeID", errs.Warnings)
	}
	fn := prog.Functions["f"]
	if !fn.Body[0].IDHasArraySuffix {
		t.Fatalf("instr = %+v, want IDHasArraySuffix", fn.Body[0])
	}
}

// TestFunctionRegisterLayout mirrors the original vregs_number scenario: a
// function with no explicit v-register use and no parameters gets
// RegsNum==0 and FirstParam==-1 (sentinel, no parameters); a function
// whose body references up to v5 and declares 3 parameters gets
// RegsNum==6 and FirstParam==3, with a<k> operands remapped to FirstParam+k.
func TestFunctionRegisterLayout(t *testing.T) {
	src := `.function u8 niam1() {
	ldai -1
}
.function u8 niam2(u1 a0, i64 a1, i32 a2) {
	mov v0, v5
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	niam1 := prog.Functions["niam1"]
	if niam1.RegsNum != 0 || niam1.FirstParam != -1 {
		t.Fatalf("niam1 layout = regs_num:%d first_param:%d, want 0,-1", niam1.RegsNum, niam1.FirstParam)
	}
	niam2 := prog.Functions["niam2"]
	if niam2.RegsNum != 6 || niam2.FirstParam != 3 {
		t.Fatalf("niam2 layout = regs_num:%d first_param:%d, want 6,3", niam2.RegsNum, niam2.FirstParam)
	}
}

func TestFunctionParamRegisterRemapsToFirstParamPlusK(t *testing.T) {
	src := `.function u8 f(i32 a0, i32 a1) {
	mov v2, v2
	add a0, a1
}
`
	prog, errs := ParseSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	fn := prog.Functions["f"]
	if fn.FirstParam != 1 {
		t.Fatalf("first_param = %d, want 1", fn.FirstParam)
	}
	mov := fn.Body[0]
	if len(mov.Regs) != 2 || mov.Regs[0] != 2 || mov.Regs[1] != 2 {
		t.Fatalf("literal v-register operands should be untouched, got %+v", mov.Regs)
	}
	add := fn.Body[1]
	if len(add.Regs) != 2 || add.Regs[0] != 1 || add.Regs[1] != 2 {
		t.Fatalf("a0,a1 remapped regs = %+v, want [1 2]", add.Regs)
	}
}

// TestParseHaltsAtFirstHardError exercises spec.md §7: once a hard error
// is recorded, the parser stops consuming further top-level declarations
// rather than accumulating every error in the file.
func TestParseHaltsAtFirstHardError(t *testing.T) {
	src := `.function u8 f() {
	frobnicate v0
}
.function u8 g() {
	call.short missing, v0
}
`
	prog, errs := ParseSource(src)
	if len(errs.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one (halt at first hard error)", errs.Errors)
	}
	if errs.Errors[0].Kind != ErrBadOperationName {
		t.Fatalf("errors = %v, want ErrBadOperationName from the first declaration", errs.Errors)
	}
	if _, ok := prog.Functions["g"]; ok {
		t.Fatalf("function g should not be parsed once a hard error halted the pass")
	}
}
