package grammar

import (
	"fmt"

	"github.com/kkuwata/lr1gen/grammar/symbol"
)

// firstEntry is FIRST(α) for some symbol or production tail: the set
// of terminals that can begin α, plus whether α can derive ε.
type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{symbols: map[symbol.Symbol]struct{}{}}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

func (e *firstEntry) mergeExceptEmpty(other *firstEntry) bool {
	if other == nil {
		return false
	}
	changed := false
	for sym := range other.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

// firstSet is FIRST(A) for every non-terminal A in a grammar, computed
// once by genFirstSet and then queried per production tail during
// CLOSURE (firstOfTail below) — the one consumer this type exists for.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func (fst *firstSet) bySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

// find computes FIRST of the RHS suffix of prod starting at position
// head: the union of the FIRST sets met while scanning left to right
// through nullable non-terminals, stopping at the first terminal or at
// the first non-terminal whose FIRST set isn't nullable. It reports ε
// when every symbol from head onward is nullable (including when head
// is already past the end of the RHS).
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if prod.rhsLen <= head {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range prod.rhs[head:] {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.bySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("FIRST(%v) was not computed", sym)
		}
		for s := range e.symbols {
			entry.add(s)
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

// genFirstSet runs the standard fixed-point iteration over every
// production's LHS until no production's FIRST entry grows any
// further. Canonical LR(1) needs this exactly where LALR(1) does: only
// to seed each closure item's lookahead (firstOfTail), never to merge
// lookaheads after the fact.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := &firstSet{set: map[symbol.Symbol]*firstEntry{}}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; !ok {
			fst.set[prod.lhs] = newFirstEntry()
		}
	}

	for {
		changedAny := false
		for _, prod := range prods.getAllProductions() {
			acc := fst.bySymbol(prod.lhs)
			changed, err := fst.absorbProduction(acc, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				changedAny = true
			}
		}
		if !changedAny {
			break
		}
	}
	return fst, nil
}

// absorbProduction folds prod's contribution to FIRST(prod.lhs) into
// acc: an ε-production contributes ε directly, otherwise the RHS is
// scanned left to right the same way find does, stopping at the first
// terminal or non-nullable non-terminal.
func (fst *firstSet) absorbProduction(acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym), nil
		}

		e := fst.bySymbol(sym)
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty(), nil
}

// closure implements CLOSURE(I) from §4.3: the least set J ⊇ I such
// that for every [A → α · B β, a] ∈ J with B a non-terminal, and for
// every production B → γ, for every b ∈ FIRST(βa), [B → · γ, b] ∈ J.
//
// It runs as a FIFO worklist over newly discovered items, expanding
// only from the items popped off the front (§4.3 "on each pop, expand
// only from the front of that item"), so it terminates at the fixed
// point and is both idempotent and monotone in its input.
func closure(seed []*item, prods *productionSet, first *firstSet) ([]*item, error) {
	items := make([]*item, 0, len(seed))
	known := map[itemID]struct{}{}
	queue := make([]*item, 0, len(seed))
	for _, it := range seed {
		if _, ok := known[it.id]; ok {
			continue
		}
		items = append(items, it)
		known[it.id] = struct{}{}
		queue = append(queue, it)
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		if it.dottedSymbol.IsNil() || it.dottedSymbol.IsTerminal() {
			continue
		}

		prod, ok := prods.findByID(it.prod)
		if !ok {
			return nil, internalErrorf("production not found for item %v", it.id)
		}

		lookaheads, err := firstOfTail(first, prod, it.dot+1, it.lookahead)
		if err != nil {
			return nil, err
		}

		expansions, _ := prods.findByLHS(it.dottedSymbol)
		for _, p := range expansions {
			for _, a := range lookaheads {
				newIt, err := newItem(p, 0, a)
				if err != nil {
					return nil, err
				}
				if _, ok := known[newIt.id]; ok {
					continue
				}
				items = append(items, newIt)
				known[newIt.id] = struct{}{}
				queue = append(queue, newIt)
			}
		}
	}

	return items, nil
}

// firstOfTail computes FIRST(β a): the FIRST set of the production's
// RHS starting at position head, extended with the single terminal a
// if that tail is nullable. a is always a terminal (the enclosing
// item's lookahead), so FIRST({a}) = {a}.
func firstOfTail(first *firstSet, prod *production, head int, a symbol.Symbol) ([]symbol.Symbol, error) {
	entry, err := first.find(prod, head)
	if err != nil {
		return nil, err
	}

	out := make([]symbol.Symbol, 0, len(entry.symbols)+1)
	for s := range entry.symbols {
		out = append(out, s)
	}
	if entry.empty {
		out = append(out, a)
	}
	return out, nil
}

// goTo implements GOTO(I, X) from §4.3: advance the dot over every
// item in the (closed) set I that has X immediately after its dot,
// then close the result. It is empty when no item has X after the
// dot.
func goTo(closedItems []*item, x symbol.Symbol, prods *productionSet, first *firstSet) ([]*item, error) {
	var advanced []*item
	for _, it := range closedItems {
		if it.dottedSymbol != x {
			continue
		}
		prod, ok := prods.findByID(it.prod)
		if !ok {
			return nil, internalErrorf("production not found for item %v", it.id)
		}
		next, err := newItem(prod, it.dot+1, it.lookahead)
		if err != nil {
			return nil, err
		}
		advanced = append(advanced, next)
	}
	if len(advanced) == 0 {
		return nil, nil
	}
	return closure(advanced, prods, first)
}
