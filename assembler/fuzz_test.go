package assembler

import (
	"os"
	"testing"
)

// FuzzParseProgram exercises ParseSource against arbitrary text, the Go
// native-fuzzing replacement for the teacher's go-fuzz harness: ParseSource
// must never panic, regardless of how malformed the input is, instead
// reporting failures through its returned ErrorList.
func FuzzParseProgram(f *testing.F) {
	f.Add(".record Foo {\n\ti32 x\n}\n.function u8 main() {\n\tmov v0, v1\n\treturn\n}\n")
	if sample, err := os.ReadFile("../testdata/sample.pa"); err == nil {
		f.Add(string(sample))
	}
	f.Add("")
	f.Add(".language Nonsense\n")

	f.Fuzz(func(t *testing.T, src string) {
		prog, errs := ParseSource(src)
		if prog == nil || errs == nil {
			t.Fatal("ParseSource returned nil Program or ErrorList")
		}
	})
}
