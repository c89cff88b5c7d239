package main

import (
	"fmt"
	"log"
	"os"

	"github.com/avalon-vm/panda/assembler"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	optimize   bool
	sizeStat   bool
	scopesFile string
	logFile    string
)

func dumpScopes(prog *assembler.Program, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, name := range prog.FunctionNames() {
		fn := prog.Functions[name]
		fmt.Fprintf(f, "%s: %d instruction(s), %d catch block(s)\n", name, len(fn.Body), len(fn.Catches))
	}
	return nil
}

func assemble(cmd *cobra.Command, args []string) {
	input := args[0]

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("pandasm: cannot open log file %s: %v", logFile, err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	src, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("pandasm: cannot read %s: %v", input, err)
	}

	prog, errs := assembler.ParseSource(string(src))
	for _, w := range errs.Warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %v\n", input, w)
	}
	for _, e := range errs.Errors {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", input, e)
	}
	if errs.HasErrors() {
		os.Exit(1)
	}

	if verbose {
		log.Printf("parsed %s: %d record(s), %d function(s)", input, len(prog.RecordNames()), len(prog.FunctionNames()))
	}

	if optimize && verbose {
		log.Printf("pandasm: --optimize has no effect; no code generation backend is implemented")
	}

	if sizeStat {
		for _, name := range prog.RecordNames() {
			r := prog.Records[name]
			fmt.Printf("record %s: %d field(s)\n", name, len(r.Fields))
		}
		for _, name := range prog.FunctionNames() {
			fn := prog.Functions[name]
			fmt.Printf("function %s: %d instruction(s)\n", name, len(fn.Body))
		}
	}

	if scopesFile != "" {
		if err := dumpScopes(prog, scopesFile); err != nil {
			log.Fatalf("pandasm: cannot write scopes file %s: %v", scopesFile, err)
		}
	}

	if len(args) > 1 {
		if verbose {
			log.Printf("pandasm: output path %s requested; no panda binary writer is implemented, nothing written", args[1])
		}
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pandasm [input.pa] [output]",
		Short: "Panda assembly front end",
		Long:  "Parses panda assembly source and reports records, functions and any syntax errors",
		Args:  cobra.RangeArgs(1, 2),
		Run:   assemble,
	}

	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "print progress to the log")
	rootCmd.Flags().BoolVar(&optimize, "optimize", false, "reserved for a future optimization pass")
	rootCmd.Flags().BoolVar(&sizeStat, "size-stat", false, "print a per-record/per-function size summary")
	rootCmd.Flags().StringVar(&scopesFile, "scopes-file", "", "write a debug-scope summary to this path")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "redirect log output to this file instead of stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
