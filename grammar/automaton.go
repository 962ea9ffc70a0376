package grammar

import (
	"sort"

	"github.com/kkuwata/lr1gen/grammar/symbol"
)

// automaton is the canonical collection of LR(1) states (§4.4) plus
// the transition relation discovered while building it.
type automaton struct {
	initialState kernelID
	states       map[kernelID]*state
	// order records the sequence states were assigned, so callers that
	// need to walk the automaton deterministically (table emission,
	// diagnostics) don't have to re-derive it from a map.
	order []kernelID
}

func (a *automaton) stateByKernel(id kernelID) *state {
	return a.states[id]
}

func (a *automaton) orderedStates() []*state {
	out := make([]*state, len(a.order))
	for i, id := range a.order {
		out[i] = a.states[id]
	}
	return out
}

// buildAutomaton runs the worklist algorithm of §4.4: seed state 0
// with CLOSURE({[S' → · S, $]}), then repeatedly discover successor
// states via GOTO over every symbol that follows a dot in the current
// state, assigning state numbers in the (deterministic) order they are
// first discovered.
func buildAutomaton(prods *productionSet, startSym symbol.Symbol, eof symbol.Symbol, first *firstSet) (*automaton, error) {
	if !startSym.IsStart() {
		return nil, internalErrorf("passed symbol is not the augmented start symbol")
	}

	a := &automaton{
		states: map[kernelID]*state{},
	}

	startProds, ok := prods.findByLHS(startSym)
	if !ok || len(startProds) == 0 {
		return nil, internalErrorf("no production for the augmented start symbol")
	}
	initialItem, err := newItem(startProds[0], 0, eof)
	if err != nil {
		return nil, err
	}
	initialKernel, err := newKernel([]*item{initialItem})
	if err != nil {
		return nil, err
	}

	a.initialState = initialKernel.id
	known := map[kernelID]struct{}{initialKernel.id: {}}
	pending := []*kernel{initialKernel}

	nextNum := stateNumInitial
	for len(pending) > 0 {
		var nextPending []*kernel
		for _, k := range pending {
			st, neighbourKernels, err := buildState(k, prods, first)
			if err != nil {
				return nil, err
			}
			st.num = nextNum
			nextNum = nextNum.next()

			a.states[st.id] = st
			a.order = append(a.order, st.id)

			for _, nk := range neighbourKernels {
				if _, ok := known[nk.id]; ok {
					continue
				}
				known[nk.id] = struct{}{}
				nextPending = append(nextPending, nk)
			}
		}
		pending = nextPending
	}

	return a, nil
}

// buildState closes a kernel into a full state, discovers every
// successor kernel reachable by GOTO, and records which productions
// the state can reduce by.
func buildState(k *kernel, prods *productionSet, first *firstSet) (*state, []*kernel, error) {
	closedItems, err := closure(k.items, prods, first)
	if err != nil {
		return nil, nil, err
	}

	// Deterministic successor order: §4.4 "iterating symbols in a
	// deterministic order (e.g., by symbol id) when expanding
	// successors."
	symSet := map[symbol.Symbol]struct{}{}
	for _, it := range closedItems {
		if it.dottedSymbol.IsNil() {
			continue
		}
		symSet[it.dottedSymbol] = struct{}{}
	}
	syms := make([]symbol.Symbol, 0, len(symSet))
	for s := range symSet {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	next := map[symbol.Symbol]kernelID{}
	var neighbours []*kernel
	for _, sym := range syms {
		successorItems, err := goTo(closedItems, sym, prods, first)
		if err != nil {
			return nil, nil, err
		}
		if len(successorItems) == 0 {
			continue
		}
		var kernelItems []*item
		for _, it := range successorItems {
			if it.kernel {
				kernelItems = append(kernelItems, it)
			}
		}
		nk, err := newKernel(kernelItems)
		if err != nil {
			return nil, nil, err
		}
		next[sym] = nk.id
		neighbours = append(neighbours, nk)
	}

	reducible := map[productionID][]*item{}
	for _, it := range closedItems {
		if it.reducible {
			reducible[it.prod] = append(reducible[it.prod], it)
		}
	}

	return &state{
		kernel:    k,
		items:     closedItems,
		next:      next,
		reducible: reducible,
	}, neighbours, nil
}
