package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/kkuwata/lr1gen/grammar"
	"github.com/kkuwata/lr1gen/lexspec"
	"github.com/kkuwata/lr1gen/spec"
	"github.com/kkuwata/lr1gen/surface"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	strict *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into a parsing table",
		Example: `  lr1gen compile grammar.lr1 -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.strict = cmd.Flags().Bool("strict", false, "treat any shift/reduce or reduce/reduce conflict as a fatal error")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var src io.Reader
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open the grammar file %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
	} else {
		src = os.Stdin
	}

	res, err := surface.Parse(src)
	if err != nil {
		return err
	}

	gram, err := res.Builder.Build()
	if err != nil {
		return err
	}

	var opts []grammar.CompileOption
	if *compileFlags.strict {
		opts = append(opts, grammar.Strict())
	}
	if len(res.Patterns) > 0 {
		ls, err := lexspec.Compile(gram.SymbolTable(), res.Patterns)
		if err != nil {
			return err
		}
		opts = append(opts, grammar.WithLexicalSpecification(ls))
	}

	cgram, err := grammar.Compile(gram, opts...)
	if err != nil {
		return err
	}

	return writeCompiledGrammar(cgram, *compileFlags.output)
}

func writeCompiledGrammar(cgram *spec.CompiledGrammar, path string) error {
	b, err := json.Marshal(cgram)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
		return nil
	}
	return ioutil.WriteFile(path, append(b, '\n'), 0644)
}
