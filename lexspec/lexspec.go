// Package lexspec compiles the regex patterns a surface grammar
// attaches to its terminals into a maleeni lexical specification. The
// result is never executed by this module (runtime lexing is a
// separate artifact, per the core scope); it is only compiled,
// validated, and carried in the output artifact for a downstream
// driver to consume.
package lexspec

import (
	"fmt"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/kkuwata/lr1gen/grammar/symbol"
	lr1spec "github.com/kkuwata/lr1gen/spec"
)

// Pattern associates a terminal name with the regex that recognizes
// it. Name must match a terminal already declared to a
// grammar.GrammarBuilder.
type Pattern struct {
	Name    string
	Pattern string
	// Literal marks Pattern as a literal string rather than a regex
	// (an anonymous terminal synthesized from a quoted RHS element,
	// e.g. "+"): it is escaped before compiling, the same way the
	// teacher escapes literal elements but leaves explicit named
	// patterns (id: "[A-Za-z_]...";) raw.
	Literal bool
	// Skip marks the terminal as whitespace/comment-like: a
	// downstream lexer should recognize but discard it, mirroring
	// the teacher's #skip directive.
	Skip bool
}

// Compile builds a mlspec.LexSpec from patterns and runs it through
// maleeni's compiler, matching the teacher's
// mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(...))
// call in grammar.go, then rebuilds the kind-id -> terminal-number
// translation table (plus the per-kind skip vector) the same way: by
// walking the compiled spec's
// KindNames and resolving each one back through the symbol table.
func Compile(reader *symbol.SymbolTableReader, patterns []Pattern) (*lr1spec.LexicalSpecification, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("lexspec: no patterns to compile")
	}

	entries := make([]*mlspec.LexEntry, 0, len(patterns))
	skipKinds := map[mlspec.LexKindName]bool{}
	for _, p := range patterns {
		pattern := p.Pattern
		if p.Literal {
			pattern = mlspec.EscapePattern(pattern)
		}
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(p.Name),
			Pattern: mlspec.LexPattern(pattern),
		})
		if p.Skip {
			skipKinds[mlspec.LexKindName(p.Name)] = true
		}
	}

	lexSpec := &mlspec.LexSpec{
		Entries: entries,
	}

	compiled, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			for i, cErr := range cErrs {
				if i > 0 {
					fmt.Fprintf(&b, "; ")
				}
				fmt.Fprintf(&b, "%v", cErr)
			}
			return nil, fmt.Errorf("lexspec: %v", b.String())
		}
		return nil, fmt.Errorf("lexspec: compiling lexical specification: %w", err)
	}

	kindToTerminal := make([]int, len(compiled.KindNames))
	skip := make([]int, len(compiled.KindNames))
	for i, k := range compiled.KindNames {
		if k == mlspec.LexKindNameNil {
			kindToTerminal[i] = symbol.SymbolNil.Num().Int()
			continue
		}
		sym, ok := reader.ToSymbol(k.String())
		if !ok {
			return nil, fmt.Errorf("lexspec: terminal symbol %q compiled by maleeni was not declared in the grammar", k)
		}
		kindToTerminal[i] = sym.Num().Int()
		if skipKinds[k] {
			skip[i] = 1
		}
	}

	return &lr1spec.LexicalSpecification{
		Lexer: "maleeni",
		Maleeni: &lr1spec.Maleeni{
			Spec:           compiled,
			KindToTerminal: kindToTerminal,
			Skip:           skip,
		},
	}, nil
}
