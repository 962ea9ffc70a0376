package grammar

import (
	"github.com/kkuwata/lr1gen/compressor"
)

// CompactedTables is the yacc-style compacted encoding of a
// ParsingTable, per §8's "compact table emission": two row-displaced
// tables (one for actions, one for gotos) plus the per-production
// yyr1/yyr2 vectors a driver needs to pop the RHS and push the LHS on
// a reduce.
//
// The action and goto tables are compacted separately rather than
// merged into one combined table. §9 leaves the compaction scheme
// open as long as it satisfies the round-trip property, and actions
// and gotos are indexed by disjoint symbol spaces (terminal vs
// non-terminal) with very different fill patterns, so keeping them
// apart avoids forcing one sparse table to accommodate both.
type CompactedTables struct {
	// YYR1[p] is the symbol number of production p's LHS.
	YYR1 []int
	// YYR2[p] is the length of production p's RHS.
	YYR2 []int

	ActionTable []int
	ActionCheck []int
	ActionBase  []int

	GotoTable []int
	GotoCheck []int
	GotoBase  []int
}

// actionEmptyValue reuses actionEntryEmpty's own int(0): state 0 is
// always the initial state and is never a GOTO or shift target (no
// item's dot can retreat back to the seed [S' → · S, $]), and
// production 0 (S' → S) is only ever emitted as accept while every
// other production is numbered from 1, so 0 never collides with a
// real shift or reduce entry.
const actionEmptyValue = int(actionEntryEmpty)

// gotoEmptyValue reuses goToEntryEmpty for the same reason: real
// goto targets are state numbers, never negative.
const gotoEmptyValue = int(goToEntryEmpty)

// Compact runs the row-displacement compactor (grounded in
// compressor.RowDisplacementTable) over the dense action and goto
// tables, and builds the yyr1/yyr2 vectors from the grammar's
// productions.
func Compact(gram *Grammar, t *ParsingTable) (*CompactedTables, error) {
	actionOrig := make([]int, t.StateCount*t.TerminalCount)
	for s := 0; s < t.StateCount; s++ {
		for c := 0; c < t.TerminalCount; c++ {
			e := t.readAction(stateNum(s), c)
			if e.isEmpty() {
				actionOrig[s*t.TerminalCount+c] = actionEmptyValue
			} else {
				actionOrig[s*t.TerminalCount+c] = int(e)
			}
		}
	}
	actionTab, err := compressor.NewOriginalTable(actionOrig, t.TerminalCount)
	if err != nil {
		return nil, internalErrorf("compacting action table: %v", err)
	}
	actionComp := compressor.NewRowDisplacementTable(actionEmptyValue)
	if err := actionComp.Compress(actionTab); err != nil {
		return nil, internalErrorf("compacting action table: %v", err)
	}

	gotoOrig := make([]int, t.StateCount*t.NonTerminalCount)
	for s := 0; s < t.StateCount; s++ {
		for c := 0; c < t.NonTerminalCount; c++ {
			e := t.goToTable[s*t.NonTerminalCount+c]
			if e.isEmpty() {
				gotoOrig[s*t.NonTerminalCount+c] = gotoEmptyValue
			} else {
				gotoOrig[s*t.NonTerminalCount+c] = int(e)
			}
		}
	}
	gotoTab, err := compressor.NewOriginalTable(gotoOrig, t.NonTerminalCount)
	if err != nil {
		return nil, internalErrorf("compacting goto table: %v", err)
	}
	gotoComp := compressor.NewRowDisplacementTable(gotoEmptyValue)
	if err := gotoComp.Compress(gotoTab); err != nil {
		return nil, internalErrorf("compacting goto table: %v", err)
	}

	prods := gram.productions().getAllProductions()
	maxNum := productionNumNil
	for _, p := range prods {
		if p.num > maxNum {
			maxNum = p.num
		}
	}
	yyr1 := make([]int, maxNum+1)
	yyr2 := make([]int, maxNum+1)
	for _, p := range prods {
		yyr1[p.num] = p.lhs.Num().Int()
		yyr2[p.num] = p.rhsLen
	}

	return &CompactedTables{
		YYR1:        yyr1,
		YYR2:        yyr2,
		ActionTable: actionComp.Entries,
		ActionCheck: actionComp.Bounds,
		ActionBase:  actionComp.RowDisplacement,
		GotoTable:   gotoComp.Entries,
		GotoCheck:   gotoComp.Bounds,
		GotoBase:    gotoComp.RowDisplacement,
	}, nil
}

// LookupAction replays the round-trip read the compacted action table
// must support: base[state] + col, guarded by check.
func (c *CompactedTables) LookupAction(state, col int) (int, bool) {
	d := c.ActionBase[state]
	if d+col < 0 || d+col >= len(c.ActionCheck) || c.ActionCheck[d+col] != state {
		return 0, false
	}
	return c.ActionTable[d+col], true
}

// LookupGoto mirrors LookupAction for the goto table.
func (c *CompactedTables) LookupGoto(state, col int) (int, bool) {
	d := c.GotoBase[state]
	if d+col < 0 || d+col >= len(c.GotoCheck) || c.GotoCheck[d+col] != state {
		return 0, false
	}
	return c.GotoTable[d+col], true
}
