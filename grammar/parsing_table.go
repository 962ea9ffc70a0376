package grammar

import (
	"fmt"

	"github.com/kkuwata/lr1gen/grammar/symbol"
	"github.com/kkuwata/lr1gen/lrerr"
)

// ActionType enumerates the four possibilities an action table cell
// can hold, per §3's Action entry.
type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// actionEntry packs a dense action cell into a single int: 0 is
// error, a negative value is a shift to state |value|, a positive
// value is a reduce by that production number. accept is represented
// out of band by actionEntryAccept, a sentinel no real production
// number or state number can collide with.
type actionEntry int

const (
	actionEntryEmpty  = actionEntry(0)
	actionEntryAccept = actionEntry(-1 << 30)
)

func newShiftActionEntry(s stateNum) actionEntry {
	return actionEntry(s * -1)
}

func newReduceActionEntry(p productionNum) actionEntry {
	return actionEntry(p)
}

func (e actionEntry) isEmpty() bool { return e == actionEntryEmpty }

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	switch {
	case e == actionEntryEmpty:
		return ActionTypeError, stateNumInitial, productionNumNil
	case e == actionEntryAccept:
		return ActionTypeAccept, stateNumInitial, productionNumNil
	case e < 0:
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	default:
		return ActionTypeReduce, stateNumInitial, productionNum(e)
	}
}

// GoToType mirrors ActionType for the goto table, which only ever
// holds a successor state or error.
type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type goToEntry int

const goToEntryEmpty = goToEntry(-1)

func newGoToEntry(s stateNum) goToEntry { return goToEntry(s) }

func (e goToEntry) isEmpty() bool { return e == goToEntryEmpty }

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

// ShiftReduceConflict and ReduceReduceConflict are the two conflict
// shapes §4.5/§7 describe. Both are diagnostic, not fatal, unless the
// caller asks for strict mode.
type ShiftReduceConflict struct {
	State     stateNum
	Sym       symbol.Symbol
	NextState stateNum
	Prod      productionNum
}

type ReduceReduceConflict struct {
	State stateNum
	Sym   symbol.Symbol
	Prod1 productionNum
	Prod2 productionNum
}

// ParsingTable is the dense state × symbol action/goto representation
// described in §6 "Output — tables", indexed directly by symbol
// number so lookups never need a translation step.
type ParsingTable struct {
	actionTable []actionEntry
	goToTable   []goToEntry

	StateCount       int
	TerminalCount    int
	NonTerminalCount int
	InitialState     stateNum

	ShiftReduceConflicts  []*ShiftReduceConflict
	ReduceReduceConflicts []*ReduceReduceConflict
}

func (t *ParsingTable) GetAction(s stateNum, sym symbol.SymbolNum) (ActionType, stateNum, productionNum) {
	return t.actionTable[s.Int()*t.TerminalCount+sym.Int()].describe()
}

func (t *ParsingTable) GetGoTo(s stateNum, sym symbol.SymbolNum) (GoToType, stateNum) {
	return t.goToTable[s.Int()*t.NonTerminalCount+sym.Int()].describe()
}

func (t *ParsingTable) readAction(s stateNum, col int) actionEntry {
	return t.actionTable[s.Int()*t.TerminalCount+col]
}

func (t *ParsingTable) writeAction(s stateNum, col int, e actionEntry) {
	t.actionTable[s.Int()*t.TerminalCount+col] = e
}

func (t *ParsingTable) writeGoTo(s stateNum, sym symbol.Symbol, next stateNum) {
	t.goToTable[s.Int()*t.NonTerminalCount+sym.Num().Int()] = newGoToEntry(next)
}

// tableBuilder turns an automaton into a ParsingTable, following the
// cell-assignment rules of §4.5 exactly: shift on a dotted terminal,
// reduce on a completed item's lookahead, accept on the augmented
// item, goto on a non-terminal transition.
type tableBuilder struct {
	automaton *automaton
	prods     *productionSet
	gram      *Grammar
	termCount int
	nonTermCount int
}

func newTableBuilder(gram *Grammar, a *automaton) *tableBuilder {
	nonTerms := gram.SymbolTable().NonTerminalSymbols()
	terms := gram.SymbolTable().TerminalSymbols()
	maxNonTerm, maxTerm := 0, 0
	for _, s := range nonTerms {
		if n := s.Num().Int(); n > maxNonTerm {
			maxNonTerm = n
		}
	}
	for _, s := range terms {
		if n := s.Num().Int(); n > maxTerm {
			maxTerm = n
		}
	}
	return &tableBuilder{
		automaton:    a,
		prods:        gram.productions(),
		gram:         gram,
		termCount:    maxTerm + 1,
		nonTermCount: maxNonTerm + 1,
	}
}

func (b *tableBuilder) build() (*ParsingTable, error) {
	states := b.automaton.orderedStates()

	t := &ParsingTable{
		actionTable:      make([]actionEntry, len(states)*b.termCount),
		goToTable:        make([]goToEntry, len(states)*b.nonTermCount),
		StateCount:       len(states),
		TerminalCount:    b.termCount,
		NonTerminalCount: b.nonTermCount,
		InitialState:     b.automaton.states[b.automaton.initialState].num,
	}
	for i := range t.goToTable {
		t.goToTable[i] = goToEntryEmpty
	}

	for _, st := range states {
		for sym, kID := range st.next {
			nextState := b.automaton.stateByKernel(kID)
			if sym.IsTerminal() {
				b.writeShift(t, st.num, sym, nextState.num)
			} else {
				t.writeGoTo(st.num, sym, nextState.num)
			}
		}

		for prodID, items := range st.reducible {
			prod, ok := b.prods.findByID(prodID)
			if !ok {
				return nil, internalErrorf("reducible production not found: %v", prodID)
			}
			for _, it := range items {
				if prod.lhs.IsStart() {
					t.writeAction(st.num, it.lookahead.Num().Int(), actionEntryAccept)
					continue
				}
				b.writeReduce(t, st.num, it.lookahead, prod.num)
			}
		}
	}

	return t, nil
}

// writeShift prioritizes shift on a shift/reduce conflict, matching
// the conventional yacc default.
func (b *tableBuilder) writeShift(t *ParsingTable, s stateNum, sym symbol.Symbol, next stateNum) {
	col := sym.Num().Int()
	cur := t.readAction(s, col)
	if !cur.isEmpty() {
		ty, _, p := cur.describe()
		if ty == ActionTypeReduce {
			t.ShiftReduceConflicts = append(t.ShiftReduceConflicts, &ShiftReduceConflict{
				State: s, Sym: sym, NextState: next, Prod: p,
			})
		}
	}
	t.writeAction(s, col, newShiftActionEntry(next))
}

// writeReduce resolves a reduce/reduce conflict in favor of the
// lower-numbered (earliest declared) production, and a shift/reduce
// conflict in favor of the existing shift.
func (b *tableBuilder) writeReduce(t *ParsingTable, s stateNum, sym symbol.Symbol, prod productionNum) {
	col := sym.Num().Int()
	cur := t.readAction(s, col)
	if !cur.isEmpty() {
		ty, next, p := cur.describe()
		switch ty {
		case ActionTypeReduce:
			if p == prod {
				return
			}
			winner, loser := p, prod
			if prod < p {
				winner, loser = prod, p
			}
			t.ReduceReduceConflicts = append(t.ReduceReduceConflicts, &ReduceReduceConflict{
				State: s, Sym: sym, Prod1: winner, Prod2: loser,
			})
			if winner != p {
				t.writeAction(s, col, newReduceActionEntry(winner))
			}
			return
		case ActionTypeShift, ActionTypeAccept:
			t.ShiftReduceConflicts = append(t.ShiftReduceConflicts, &ShiftReduceConflict{
				State: s, Sym: sym, NextState: next, Prod: prod,
			})
			return
		}
	}
	t.writeAction(s, col, newReduceActionEntry(prod))
}

// Conflicts converts the table's internal conflict slices into
// lrerr.Diagnostics, for callers that want a single uniform error
// type (e.g. strict-mode compilation).
func (t *ParsingTable) Conflicts(gram *Grammar) lrerr.Diagnostics {
	var ds lrerr.Diagnostics
	for _, c := range t.ShiftReduceConflicts {
		name, _ := gram.SymbolTable().ToText(c.Sym)
		ds = append(ds, &lrerr.Diagnostic{
			Cause:  lrerr.ErrShiftReduceConflict,
			Detail: fmt.Sprintf("state %v, shift %v vs reduce %v, on %v", c.State, c.NextState, c.Prod, name),
		})
	}
	for _, c := range t.ReduceReduceConflicts {
		name, _ := gram.SymbolTable().ToText(c.Sym)
		ds = append(ds, &lrerr.Diagnostic{
			Cause:  lrerr.ErrReduceReduceConflict,
			Detail: fmt.Sprintf("state %v, reduce %v vs reduce %v, on %v", c.State, c.Prod1, c.Prod2, name),
		})
	}
	return ds
}
