package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kkuwata/lr1gen/grammar"
	"github.com/kkuwata/lr1gen/lexspec"
	"github.com/kkuwata/lr1gen/spec"
	"github.com/kkuwata/lr1gen/surface"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a grammar's conflicts, productions, and per-state actions and gotos in readable form (item sets are not printed)",
		Example: `  lr1gen show grammar.lr1`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open the grammar file %s: %w", args[0], err)
	}
	defer f.Close()

	res, err := surface.Parse(f)
	if err != nil {
		return err
	}

	gram, err := res.Builder.Build()
	if err != nil {
		return err
	}

	var opts []grammar.CompileOption
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

	return writeDescription(os.Stdout, cgram)
}

// writeDescription renders a spec.CompiledGrammar's productions, dense
// action/goto table, and conflicts as text, decoding the table's
// shift/reduce/accept/error encoding the same way ParsingTable.GetAction
// does internally.
func writeDescription(w io.Writer, cg *spec.CompiledGrammar) error {
	termName := func(num int) string {
		if num >= 0 && num < len(cg.Symbols.Terminals) {
			return cg.Symbols.Terminals[num]
		}
		return fmt.Sprintf("t%v", num)
	}
	nonTermName := func(num int) string {
		if num >= 0 && num < len(cg.Symbols.NonTerminals) {
			return cg.Symbols.NonTerminals[num]
		}
		return fmt.Sprintf("n%v", num)
	}
	symName := func(num int) string {
		if num < 0 {
			return nonTermName(-num)
		}
		return termName(num)
	}

	fmt.Fprintf(w, "# Conflicts\n\n")
	if len(cg.Conflicts) == 0 {
		fmt.Fprintf(w, "no conflicts\n")
	}
	for _, c := range cg.Conflicts {
		switch c.Type {
		case spec.ConflictTypeShiftReduce:
			fmt.Fprintf(w, "shift/reduce conflict: state %v, symbol %v, shift wins over reduce %v\n", c.State, termName(c.Symbol), c.Prod1)
		case spec.ConflictTypeReduceReduce:
			fmt.Fprintf(w, "reduce/reduce conflict: state %v, symbol %v, reduce %v wins over reduce %v\n", c.State, termName(c.Symbol), c.Prod1, c.Prod2)
		}
	}

	fmt.Fprintf(w, "\n# Productions\n\n")
	for _, p := range cg.Productions {
		var b strings.Builder
		fmt.Fprintf(&b, "%v →", nonTermName(p.LHS))
		if len(p.RHS) == 0 {
			fmt.Fprintf(&b, " ε")
		}
		for _, s := range p.RHS {
			fmt.Fprintf(&b, " %v", symName(s))
		}
		fmt.Fprintf(w, "%4v %v\n", p.Num, b.String())
	}

	t := cg.ParsingTable
	fmt.Fprintf(w, "\n# States\n")
	for s := 0; s < t.StateCount; s++ {
		fmt.Fprintf(w, "\n## State %v\n\n", s)
		for sym := 0; sym < t.TerminalCount; sym++ {
			v := t.Action[s*t.TerminalCount+sym]
			switch {
			case v == 0:
				continue
			case v == t.AcceptValue:
				fmt.Fprintf(w, "accept on %v\n", termName(sym))
			case v < 0:
				fmt.Fprintf(w, "shift  %4v on %v\n", -v, termName(sym))
			default:
				fmt.Fprintf(w, "reduce %4v on %v\n", v, termName(sym))
			}
		}
		for sym := 0; sym < t.NonTerminalCount; sym++ {
			v := t.GoTo[s*t.NonTerminalCount+sym]
			if v < 0 {
				continue
			}
			fmt.Fprintf(w, "goto   %4v on %v\n", v, nonTermName(sym))
		}
	}

	return nil
}
