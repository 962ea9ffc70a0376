package grammar

import (
	"sort"

	"github.com/kkuwata/lr1gen/grammar/symbol"
	"github.com/kkuwata/lr1gen/lrerr"
)

// Rule is the abstract production contract described by the input
// interface: a left-hand non-terminal and an ordered right-hand
// sequence of symbol names. A nil or empty RHS denotes an
// ε-production.
type Rule struct {
	LHS string
	RHS []string
}

// Grammar is the read-only, validated grammar store: numbered
// productions grouped by LHS, plus the augmented start production
// S' → S synthesized as production 0.
type Grammar struct {
	symbolTable    *symbol.SymbolTable
	productionSet  *productionSet
	start          symbol.Symbol
	augmentedStart symbol.Symbol
}

// SymbolTable returns the read interface to the grammar's interned
// symbols.
func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symbolTable.Reader()
}

// Start returns the grammar's (non-augmented) start symbol.
func (g *Grammar) Start() symbol.Symbol {
	return g.start
}

// AugmentedStart returns S', the LHS of production 0.
func (g *Grammar) AugmentedStart() symbol.Symbol {
	return g.augmentedStart
}

func (g *Grammar) productions() *productionSet {
	return g.productionSet
}

// GrammarBuilder validates and interns an abstract grammar description
// into a Grammar. Terminal/non-terminal classification is by explicit
// declaration, never by lexical convention: a symbol that is never
// declared into either list but appears in a Rule's RHS is
// undefined-symbol, and a symbol declared into both lists is
// symbol-kind-conflict.
type GrammarBuilder struct {
	// Start names the grammar's start non-terminal.
	Start string

	// Terminals and NonTerminals declare every symbol the grammar's
	// rules may reference. A name must appear in exactly one of the
	// two lists.
	Terminals    []string
	NonTerminals []string

	// Rules lists every production alternative. Productions with
	// identical LHS and RHS are deduplicated on load.
	Rules []Rule

	errs lrerr.Diagnostics
}

func (b *GrammarBuilder) fail(cause error, detail string) {
	b.errs = append(b.errs, &lrerr.Diagnostic{Cause: cause, Detail: detail})
}

// Build interns every declared symbol, synthesizes the augmented start
// production, and validates the result. It collects every structural
// error it can find before returning them together, matching the
// "input and structural errors are collected where possible" policy.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	b.errs = nil

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	if b.Start == "" {
		b.fail(lrerr.ErrNoStartSymbol, "")
	}
	if len(b.Rules) == 0 {
		b.fail(lrerr.ErrNoProduction, "")
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	declared := map[string]symbol.Kind{}
	for _, name := range b.Terminals {
		if prevKind, ok := declared[name]; ok && prevKind != symbol.KindTerminal {
			b.fail(lrerr.ErrSymbolKindConflict, name)
			continue
		}
		declared[name] = symbol.KindTerminal
		if _, err := w.Intern(symbol.KindTerminal, name); err != nil {
			b.fail(lrerr.ErrSymbolKindConflict, name)
		}
	}
	for _, name := range b.NonTerminals {
		if prevKind, ok := declared[name]; ok && prevKind != symbol.KindNonTerminal {
			b.fail(lrerr.ErrSymbolKindConflict, name)
			continue
		}
		declared[name] = symbol.KindNonTerminal
		if _, err := w.Intern(symbol.KindNonTerminal, name); err != nil {
			b.fail(lrerr.ErrSymbolKindConflict, name)
		}
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	startSym, ok := symTab.Reader().ToSymbol(b.Start)
	if !ok || startSym.Kind() != symbol.KindNonTerminal {
		b.fail(lrerr.ErrUndefinedSymbol, b.Start)
		return nil, b.errs
	}

	augStartSym, err := w.RegisterStartSymbol(b.Start + "'")
	if err != nil {
		b.fail(lrerr.ErrInternalInvariant, err.Error())
		return nil, b.errs
	}

	prods := newProductionSet()

	for _, r := range b.Rules {
		lhsSym, ok := symTab.Reader().ToSymbol(r.LHS)
		if !ok {
			b.fail(lrerr.ErrUndefinedSymbol, r.LHS)
			continue
		}
		if lhsSym.Kind() != symbol.KindNonTerminal {
			b.fail(lrerr.ErrUndefinedSymbol, r.LHS+" is a terminal and cannot be a production LHS")
			continue
		}

		rhsSyms := make([]symbol.Symbol, 0, len(r.RHS))
		rhsOK := true
		for _, name := range r.RHS {
			sym, ok := symTab.Reader().ToSymbol(name)
			if !ok {
				b.fail(lrerr.ErrUndefinedSymbol, name)
				rhsOK = false
				continue
			}
			rhsSyms = append(rhsSyms, sym)
		}
		if !rhsOK {
			continue
		}

		prod, err := newProduction(lhsSym, rhsSyms)
		if err != nil {
			b.fail(lrerr.ErrInternalInvariant, err.Error())
			continue
		}
		prods.append(prod)
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	// S' → S
	augProd, err := newProduction(augStartSym, []symbol.Symbol{startSym})
	if err != nil {
		b.fail(lrerr.ErrInternalInvariant, err.Error())
		return nil, b.errs
	}
	prods.append(augProd)

	// unreachable-rule: every declared non-terminal must have at
	// least one production.
	defined := map[string]bool{}
	for _, r := range b.Rules {
		defined[r.LHS] = true
	}
	sortedNonTerms := append([]string{}, b.NonTerminals...)
	sort.Strings(sortedNonTerms)
	for _, name := range sortedNonTerms {
		if !defined[name] {
			b.fail(lrerr.ErrUnreachableRule, name)
		}
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return &Grammar{
		symbolTable:    symTab,
		productionSet:  prods,
		start:          startSym,
		augmentedStart: augStartSym,
	}, nil
}
