package assembler

import "testing"

func tokenize(t *testing.T, src string) [][]Token {
	t.Helper()
	errs := &ErrorList{}
	lines := NewLexer(errs).TokenizeSource(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", errs.Errors)
	}
	return lines
}

func kinds(toks []Token) []TokenKind {
	ks := make([]TokenKind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexerDirectiveAndIdent(t *testing.T) {
	lines := tokenize(t, ".record Foo {")
	toks := lines[0]
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(toks), toks)
	}
	if toks[0].Kind != TokDirective || toks[0].Text != ".record" {
		t.Fatalf("tok0 = %+v", toks[0])
	}
	if toks[1].Kind != TokIdent || toks[1].Text != "Foo" {
		t.Fatalf("tok1 = %+v", toks[1])
	}
	if toks[2].Kind != TokPunct || toks[2].Text != "{" {
		t.Fatalf("tok2 = %+v", toks[2])
	}
	if toks[3].Kind != TokEOL {
		t.Fatalf("tok3 = %+v, want TokEOL", toks[3])
	}
}

func TestLexerRegisterVsLeadingZeroIdent(t *testing.T) {
	lines := tokenize(t, "mov v1, v01")
	toks := lines[0]
	if toks[1].Kind != TokRegister || toks[1].Text != "v1" {
		t.Fatalf("v1 tok = %+v, want register", toks[1])
	}
	if toks[3].Kind != TokIdent || toks[3].Text != "v01" {
		t.Fatalf("v01 tok = %+v, want ident (leading zero)", toks[3])
	}
}

func TestLexerIntegerHexBinaryOctalNegative(t *testing.T) {
	lines := tokenize(t, "ldai 0x1F")
	if lines[0][1].Kind != TokInteger || lines[0][1].Text != "0x1F" {
		t.Fatalf("hex = %+v", lines[0][1])
	}
	lines = tokenize(t, "ldai 0b101")
	if lines[0][1].Kind != TokInteger || lines[0][1].Text != "0b101" {
		t.Fatalf("binary = %+v", lines[0][1])
	}
	lines = tokenize(t, "ldai -42")
	if lines[0][1].Kind != TokInteger || lines[0][1].Text != "-42" {
		t.Fatalf("negative = %+v", lines[0][1])
	}
}

func TestLexerFloatWithExponent(t *testing.T) {
	lines := tokenize(t, "fldai 3.14e-2")
	tok := lines[0][1]
	if tok.Kind != TokFloat || tok.Text != "3.14e-2" {
		t.Fatalf("float tok = %+v", tok)
	}
}

func TestLexerIntegerNotConfusedWithFloat(t *testing.T) {
	lines := tokenize(t, "ldai 42")
	tok := lines[0][1]
	if tok.Kind != TokInteger || tok.Text != "42" {
		t.Fatalf("int tok = %+v", tok)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	lines := tokenize(t, `.record Foo <value="a\tb\x41\101">`)
	var str Token
	for _, tok := range lines[0] {
		if tok.Kind == TokString {
			str = tok
		}
	}
	want := "a\tbAA"
	if str.Text != want {
		t.Fatalf("decoded string = %q, want %q", str.Text, want)
	}
}

func TestLexerCommentStylesBothAccepted(t *testing.T) {
	lines := tokenize(t, "mov v1, v2 // trailing slash comment")
	last := lines[0][len(lines[0])-1]
	if last.Kind != TokEOL {
		t.Fatalf("expected comment stripped before EOL, got %+v", lines[0])
	}
	lines = tokenize(t, "mov v1, v2 # trailing hash comment")
	last = lines[0][len(lines[0])-1]
	if last.Kind != TokEOL {
		t.Fatalf("expected comment stripped before EOL, got %+v", lines[0])
	}
}

func TestLexerBadHexEscapeReportsError(t *testing.T) {
	errs := &ErrorList{}
	NewLexer(errs).TokenizeSource(`.record Foo <value="\xZZ">`)
	if !errs.HasErrors() {
		t.Fatalf("expected a lex error for bad hex escape")
	}
	if errs.Errors[0].Kind != ErrBadStringInvalidHexEscapeSequence {
		t.Fatalf("kind = %v, want ErrBadStringInvalidHexEscapeSequence", errs.Errors[0].Kind)
	}
}

// TestLexerUnknownEscapeReportsBackslashPosition exercises the spec's
// worked example: on line 2, `lda.str "123\z"`, the error column must
// point at the backslash itself, not the opening quote.
func TestLexerUnknownEscapeReportsBackslashPosition(t *testing.T) {
	errs := &ErrorList{}
	NewLexer(errs).TokenizeSource(".function u8 f() {\nlda.str \"123\\z\"\n}\n")
	if len(errs.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs.Errors)
	}
	e := errs.Errors[0]
	if e.Kind != ErrBadStringUnknownEscapeSequence {
		t.Fatalf("kind = %v, want ErrBadStringUnknownEscapeSequence", e.Kind)
	}
	if e.Line != 2 {
		t.Fatalf("line = %d, want 2", e.Line)
	}
	// lda.str "123\z" -- the backslash is the 13th rune on the line.
	const wantColumn = 13
	if e.Column != wantColumn {
		t.Fatalf("column = %d, want %d", e.Column, wantColumn)
	}
	if e.Message != "Unknown escape sequence" {
		t.Fatalf("message = %q, want %q", e.Message, "Unknown escape sequence")
	}
}

func TestLexerPunctuationSet(t *testing.T) {
	lines := tokenize(t, "{}(),:<>[]=")
	want := "{}(),:<>[]="
	toks := lines[0]
	if len(toks) != len(want)+1 { // +1 for EOL
		t.Fatalf("got %d tokens, want %d", len(toks), len(want)+1)
	}
	for i, want := range want {
		if toks[i].Kind != TokPunct || toks[i].Text != string(want) {
			t.Fatalf("tok[%d] = %+v, want punct %q", i, toks[i], want)
		}
	}
}
