// Package surface implements the minimal concrete grammar syntax
// described by the generator's external interface: a free-form
// `LHS : RHS1 | RHS2 ;` notation (newlines are ordinary whitespace;
// `;` ends a rule), the reference surface encoding
// callers may use to load a grammar from text instead of building a
// grammar.GrammarBuilder by hand. It is not a mandated syntax; any
// caller is free to feed the programmatic API directly.
package surface

import (
	"fmt"
	"io"

	"github.com/kkuwata/lr1gen/grammar"
	"github.com/kkuwata/lr1gen/lexspec"
	"github.com/kkuwata/lr1gen/lrerr"
)

// Result is what Parse recovers from a surface-syntax source: a
// ready-to-build GrammarBuilder, plus the regex patterns (if any)
// declared for named terminals via `name : ~ "regex" ;`.
type Result struct {
	Builder  *grammar.GrammarBuilder
	Patterns []lexspec.Pattern
}

type parser struct {
	lex  *lexer
	errs lrerr.Diagnostics

	start        string
	nonTerminals []string
	terminals    []string
	rules        []grammar.Rule
	patterns     []lexspec.Pattern
	// anonLiterals dedups quoted literals that appear directly on an
	// RHS into a single anonymous terminal per distinct text,
	// mirroring the teacher's sym2AnonPat handling.
	anonLiterals map[string]string
}

// Parse reads a surface grammar and returns the programmatic
// equivalent. Syntax errors are collected (not failed fast) and
// returned together as lrerr.Diagnostics, matching the programmatic
// GrammarBuilder's own error-collection policy.
func Parse(src io.Reader) (*Result, error) {
	p := &parser{
		lex:          newLexer(src),
		anonLiterals: map[string]string{},
	}
	p.parseRoot()
	if len(p.errs) > 0 {
		return nil, p.errs
	}

	return &Result{
		Builder: &grammar.GrammarBuilder{
			Start:        p.start,
			Terminals:    p.terminals,
			NonTerminals: p.nonTerminals,
			Rules:        p.rules,
		},
		Patterns: p.patterns,
	}, nil
}

func (p *parser) fail(detail string, pos Position) {
	p.errs = append(p.errs, &lrerr.Diagnostic{
		Cause:  lrerr.ErrGrammarSyntax,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

func (p *parser) parseRoot() {
	for {
		tok, err := p.lex.peekToken()
		if err != nil {
			p.fail(err.Error(), Position{})
			return
		}
		if tok.kind == tokenKindEOF {
			return
		}
		if !p.parseRule() {
			// parseRule already recorded an error; skip to the next
			// semicolon so later rules can still be checked.
			p.recoverToSemicolon()
		}
	}
}

func (p *parser) recoverToSemicolon() {
	for {
		tok, err := p.lex.next()
		if err != nil || tok.kind == tokenKindEOF || tok.kind == tokenKindSemicolon {
			return
		}
	}
}

func (p *parser) parseRule() bool {
	lhsTok, err := p.lex.next()
	if err != nil {
		p.fail(err.Error(), Position{})
		return false
	}
	if lhsTok.kind != tokenKindID {
		p.fail("expected a rule name", lhsTok.pos)
		return false
	}
	lhs := lhsTok.text

	colonTok, err := p.lex.next()
	if err != nil {
		p.fail(err.Error(), Position{})
		return false
	}
	if colonTok.kind != tokenKindColon {
		p.fail(fmt.Sprintf("expected ':' after '%v'", lhs), colonTok.pos)
		return false
	}

	if p.start == "" {
		p.start = lhs
	}

	// `name : ~ "regex" ;` declares a terminal with a compiled
	// pattern instead of a production.
	if tildeTok, err := p.lex.peekToken(); err == nil && tildeTok.kind == tokenKindTilde {
		p.lex.next()
		litTok, err := p.lex.next()
		if err != nil {
			p.fail(err.Error(), Position{})
			return false
		}
		if litTok.kind != tokenKindLiteral {
			p.fail("expected a quoted regex pattern after '~'", litTok.pos)
			return false
		}
		semiTok, err := p.lex.next()
		if err != nil {
			p.fail(err.Error(), Position{})
			return false
		}
		if semiTok.kind != tokenKindSemicolon {
			p.fail("expected ';' to close the rule", semiTok.pos)
			return false
		}
		p.terminals = append(p.terminals, lhs)
		p.patterns = append(p.patterns, lexspec.Pattern{Name: lhs, Pattern: litTok.text})
		return true
	}

	p.nonTerminals = append(p.nonTerminals, lhs)

	for {
		rhs, ok := p.parseAlternative()
		if !ok {
			return false
		}
		p.rules = append(p.rules, grammar.Rule{LHS: lhs, RHS: rhs})

		sepTok, err := p.lex.next()
		if err != nil {
			p.fail(err.Error(), Position{})
			return false
		}
		switch sepTok.kind {
		case tokenKindBar:
			continue
		case tokenKindSemicolon:
			return true
		default:
			p.fail("expected '|' or ';'", sepTok.pos)
			return false
		}
	}
}

func (p *parser) parseAlternative() ([]string, bool) {
	var rhs []string
	for {
		tok, err := p.lex.peekToken()
		if err != nil {
			p.fail(err.Error(), Position{})
			return nil, false
		}
		switch tok.kind {
		case tokenKindID:
			p.lex.next()
			rhs = append(rhs, tok.text)
		case tokenKindLiteral:
			p.lex.next()
			rhs = append(rhs, p.anonTerminal(tok.text))
		case tokenKindBar, tokenKindSemicolon:
			return rhs, true
		default:
			p.fail("expected a symbol, '|', or ';'", tok.pos)
			return nil, false
		}
	}
}

// anonTerminal interns a quoted literal used directly on an RHS as an
// anonymous terminal, reusing the same terminal for repeated
// occurrences of the same literal text. Anonymous terminals are named
// x_N in declaration order, mirroring the teacher's sym2AnonPat
// naming in grammar.go.
func (p *parser) anonTerminal(text string) string {
	if name, ok := p.anonLiterals[text]; ok {
		return name
	}
	name := fmt.Sprintf("x_%d", len(p.anonLiterals)+1)
	p.anonLiterals[text] = name
	p.terminals = append(p.terminals, name)
	p.patterns = append(p.patterns, lexspec.Pattern{Name: name, Pattern: text, Literal: true})
	return name
}
