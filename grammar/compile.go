package grammar

import (
	"fmt"

	"github.com/kkuwata/lr1gen/grammar/symbol"
	"github.com/kkuwata/lr1gen/lrerr"
	"github.com/kkuwata/lr1gen/spec"
)

// CompileOption configures Compile. Options are applied in order, so
// later options win on conflicting settings.
type CompileOption func(*compileConfig)

type compileConfig struct {
	strict  bool
	lexical *spec.LexicalSpecification
}

// Strict turns a non-empty conflict report into a hard error instead
// of a diagnostic that rides along with an otherwise-usable table,
// matching §7's "unless strict mode is requested."
func Strict() CompileOption {
	return func(c *compileConfig) { c.strict = true }
}

// WithLexicalSpecification attaches a pre-compiled lexical
// specification (typically produced by the lexspec package) to the
// output artifact. Compile never inspects or executes it.
func WithLexicalSpecification(ls *spec.LexicalSpecification) CompileOption {
	return func(c *compileConfig) { c.lexical = ls }
}

// Compile runs the full pipeline described in §4: build the canonical
// LR(1) automaton from gram, emit the dense parsing table, compact it,
// and assemble the stable output artifact. internal-invariant panics
// raised anywhere in the pipeline are recovered here so a library
// caller never observes a raw panic, matching §7's guidance that
// should-never-happen conditions surface as a single fatal error.
func Compile(gram *Grammar, opts ...CompileOption) (cg *spec.CompiledGrammar, err error) {
	cfg := &compileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal-invariant: %v", r)
		}
	}()

	first, err := genFirstSet(gram.productions())
	if err != nil {
		return nil, err
	}

	a, err := buildAutomaton(gram.productions(), gram.AugmentedStart(), symbol.SymbolEOF, first)
	if err != nil {
		return nil, err
	}

	tb := newTableBuilder(gram, a)
	table, err := tb.build()
	if err != nil {
		return nil, err
	}

	if cfg.strict && (len(table.ShiftReduceConflicts) > 0 || len(table.ReduceReduceConflicts) > 0) {
		return nil, table.Conflicts(gram)
	}

	compacted, err := Compact(gram, table)
	if err != nil {
		return nil, err
	}

	out, err := assembleOutput(gram, table, compacted, cfg.lexical)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func assembleOutput(gram *Grammar, table *ParsingTable, compacted *CompactedTables, lexical *spec.LexicalSpecification) (*spec.CompiledGrammar, error) {
	reader := gram.SymbolTable()

	termTexts, err := reader.TerminalTexts()
	if err != nil {
		return nil, lrerr.Diagnostics{{Cause: lrerr.ErrInternalInvariant, Detail: err.Error()}}
	}
	nonTermTexts, err := reader.NonTerminalTexts()
	if err != nil {
		return nil, lrerr.Diagnostics{{Cause: lrerr.ErrInternalInvariant, Detail: err.Error()}}
	}

	prodMap := gram.productions().getAllProductions()
	prods := make([]*spec.Production, 0, len(prodMap))
	for _, p := range prodMap {
		rhs := make([]int, len(p.rhs))
		for i, s := range p.rhs {
			// A bare symbol number is ambiguous: terminals and
			// non-terminals both start numbering at 2. Encode the kind
			// in the sign, positive for a terminal and negative for a
			// non-terminal, the same convention writeDescription in
			// cmd/lr1gen/show.go decodes.
			if s.IsTerminal() {
				rhs[i] = s.Num().Int()
			} else {
				rhs[i] = -s.Num().Int()
			}
		}
		prods = append(prods, &spec.Production{
			Num:    p.num.Int(),
			LHS:    p.lhs.Num().Int(),
			RHS:    rhs,
			RHSLen: p.rhsLen,
		})
	}

	actionInts := make([]int, len(table.actionTable))
	for i, e := range table.actionTable {
		actionInts[i] = int(e)
	}
	gotoInts := make([]int, len(table.goToTable))
	for i, e := range table.goToTable {
		gotoInts[i] = int(e)
	}

	var conflicts []*spec.Conflict
	for _, c := range table.ShiftReduceConflicts {
		conflicts = append(conflicts, &spec.Conflict{
			Type:   spec.ConflictTypeShiftReduce,
			State:  c.State.Int(),
			Symbol: c.Sym.Num().Int(),
			Prod1:  c.Prod.Int(),
		})
	}
	for _, c := range table.ReduceReduceConflicts {
		conflicts = append(conflicts, &spec.Conflict{
			Type:   spec.ConflictTypeReduceReduce,
			State:  c.State.Int(),
			Symbol: c.Sym.Num().Int(),
			Prod1:  c.Prod1.Int(),
			Prod2:  c.Prod2.Int(),
		})
	}

	return &spec.CompiledGrammar{
		Symbols: &spec.SymbolTable{
			Terminals:        termTexts,
			TerminalCount:    table.TerminalCount,
			NonTerminals:     nonTermTexts,
			NonTerminalCount: table.NonTerminalCount,
			EOFSymbol:        symbol.SymbolEOF.Num().Int(),
			StartSymbol:      gram.Start().Num().Int(),
			AugmentedStart:   gram.AugmentedStart().Num().Int(),
		},
		Productions: prods,
		ParsingTable: &spec.ParsingTable{
			Action:           actionInts,
			GoTo:             gotoInts,
			StateCount:       table.StateCount,
			TerminalCount:    table.TerminalCount,
			NonTerminalCount: table.NonTerminalCount,
			InitialState:     table.InitialState.Int(),
			AcceptValue:      int(actionEntryAccept),
		},
		CompactedTable: &spec.CompactedTable{
			YYR1:        compacted.YYR1,
			YYR2:        compacted.YYR2,
			ActionTable: compacted.ActionTable,
			ActionCheck: compacted.ActionCheck,
			ActionBase:  compacted.ActionBase,
			GotoTable:   compacted.GotoTable,
			GotoCheck:   compacted.GotoCheck,
			GotoBase:    compacted.GotoBase,
		},
		Conflicts:            conflicts,
		LexicalSpecification: lexical,
	}, nil
}
