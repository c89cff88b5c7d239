package pandargs

import (
	"fmt"
	"sort"
	"strings"
)

// Parser collects registered options/tail arguments and parses an argv
// slice (os.Args[1:]-shaped) against them, accumulating diagnostics into a
// single human-readable error string like the reference implementation.
type Parser struct {
	options  map[string]*Arg
	tail     []*Arg
	tailFlag bool
	remFlag  bool
	remainder []string
	errs     []string
}

// NewParser returns an empty Parser.
func NewParser() *Parser {
	return &Parser{options: make(map[string]*Arg)}
}

// Add registers a named option. Returns false (and records a diagnostic) on
// a duplicate name.
func (p *Parser) Add(a *Arg) bool {
	if a == nil {
		p.errs = append(p.errs, "pandargs: can't add nil argument")
		return false
	}
	if _, exists := p.options[a.Name]; exists {
		p.errs = append(p.errs, fmt.Sprintf("pandargs: argument %s has duplicate", a.Name))
		return false
	}
	p.options[a.Name] = a
	return true
}

// PushBackTail appends a to the positional tail-argument list.
func (p *Parser) PushBackTail(a *Arg) bool {
	if a == nil {
		p.errs = append(p.errs, "pandargs: can't add nil tail argument")
		return false
	}
	for _, t := range p.tail {
		if t == a {
			p.errs = append(p.errs, fmt.Sprintf("pandargs: tail argument %s is already in tail arguments list", a.Name))
			return false
		}
	}
	p.tail = append(p.tail, a)
	return true
}

// EnableTail turns on positional tail-argument matching.
func (p *Parser) EnableTail() { p.tailFlag = true }

// DisableTail turns off positional tail-argument matching.
func (p *Parser) DisableTail() { p.tailFlag = false }

// EnableRemainder turns on capture of arguments after `--`.
func (p *Parser) EnableRemainder() { p.remFlag = true }

// DisableRemainder turns off capture of arguments after `--`.
func (p *Parser) DisableRemainder() { p.remFlag = false }

// Remainder returns the arguments captured after `--`.
func (p *Parser) Remainder() []string { return p.remainder }

// Get returns the registered option by name, or nil.
func (p *Parser) Get(name string) *Arg { return p.options[name] }

// ErrorString returns every diagnostic accumulated so far, joined into a
// single human-readable string.
func (p *Parser) ErrorString() string { return strings.Join(p.errs, "\n") }

func (p *Parser) fail(format string, args ...interface{}) {
	p.errs = append(p.errs, fmt.Sprintf(format, args...))
}

// Parse consumes argv against the registered options, tail arguments and
// remainder. It returns true on success; on failure, ErrorString carries
// every accumulated diagnostic.
func (p *Parser) Parse(argv []string) bool {
	p.errs = nil
	p.remainder = nil
	for _, a := range p.options {
		a.resetToDefault()
	}
	for _, a := range p.tail {
		a.resetToDefault()
	}

	var tailValues []string
	i := 0
	for i < len(argv) {
		tok := argv[i]
		if tok == "--" {
			i++
			if !p.remFlag {
				if i < len(argv) {
					p.fail("pandargs: remainder given without enablement")
				}
				break
			}
			p.remainder = append(p.remainder, argv[i:]...)
			break
		}
		if !strings.HasPrefix(tok, "--") {
			tailValues = append(tailValues, tok)
			i++
			continue
		}

		body := tok[2:]
		name := body
		inlineValue := ""
		hasInline := false
		if eq := strings.IndexByte(body, '='); eq >= 0 {
			name = body[:eq]
			inlineValue = body[eq+1:]
			hasInline = true
		}

		if name == "help" {
			i++
			continue
		}

		arg, ok := p.options[name]
		if !ok {
			p.fail("pandargs: unknown option --%s", name)
			i++
			continue
		}

		if arg.Kind == KindBool {
			if hasInline {
				if err := arg.setFrom(inlineValue); err != nil {
					p.fail("pandargs: %v", err)
				}
			} else {
				arg.value.Bool = true
				arg.wasSet = true
			}
			i++
			continue
		}

		if hasInline {
			if err := arg.setFrom(inlineValue); err != nil {
				p.fail("pandargs: %v", err)
			}
			i++
			continue
		}

		if i+1 >= len(argv) {
			p.fail("pandargs: option --%s requires a value", name)
			i++
			continue
		}
		if err := arg.setFrom(argv[i+1]); err != nil {
			p.fail("pandargs: %v", err)
		}
		i += 2
	}

	if p.tailFlag {
		if len(tailValues) > len(p.tail) {
			p.fail("pandargs: too many tail arguments (got %d, expected at most %d)", len(tailValues), len(p.tail))
		} else {
			for idx, v := range tailValues {
				if err := p.tail[idx].setFrom(v); err != nil {
					p.fail("pandargs: %v", err)
				}
			}
		}
	} else if len(tailValues) > 0 {
		p.fail("pandargs: unexpected positional arguments: %s", strings.Join(tailValues, " "))
	}

	return len(p.errs) == 0
}

// HelpString renders declared help strings sorted by long name, plus a tail
// section, matching the reference parser's GetHelpString.
func (p *Parser) HelpString() string {
	names := make([]string, 0, len(p.options))
	for name := range p.options {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		a := p.options[name]
		fmt.Fprintf(&b, "--%s: %s\n", a.Name, a.Desc)
	}
	if len(p.tail) > 0 {
		b.WriteString("Tail arguments:\n")
		for _, a := range p.tail {
			fmt.Fprintf(&b, "%s: %s\n", a.Name, a.Desc)
		}
	}
	return b.String()
}
