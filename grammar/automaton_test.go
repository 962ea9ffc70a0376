package grammar

import (
	"testing"

	"github.com/kkuwata/lr1gen/grammar/symbol"
)

func buildTestAutomaton(t *testing.T, b *GrammarBuilder) (*Grammar, *automaton) {
	t.Helper()

	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	first, err := genFirstSet(gram.productions())
	if err != nil {
		t.Fatal(err)
	}
	a, err := buildAutomaton(gram.productions(), gram.AugmentedStart(), symbol.SymbolEOF, first)
	if err != nil {
		t.Fatal(err)
	}
	return gram, a
}

// TestBuildAutomaton_Trivial covers §8 scenario 1: S → a has exactly
// three states: 0 ([S'→·S,$] closed with [S→·a,$]), 1 (goto on S,
// the accepting [S'→S·,$]), and 2 (goto on a, the reducing
// [S→a·,$]).
func TestBuildAutomaton_Trivial(t *testing.T) {
	_, a := buildTestAutomaton(t, &GrammarBuilder{
		Start:        "s",
		Terminals:    []string{"a"},
		NonTerminals: []string{"s"},
		Rules: []Rule{
			{LHS: "s", RHS: []string{"a"}},
		},
	})

	states := a.orderedStates()
	if len(states) != 3 {
		t.Fatalf("expected 3 states for S → a, got %v", len(states))
	}
	if states[0].num != stateNumInitial {
		t.Fatalf("expected the first state to be numbered 0, got %v", states[0].num)
	}
}

// TestBuildAutomaton_Deterministic covers §8's determinism property:
// building the same grammar twice must assign the same state numbers
// to the same kernels.
func TestBuildAutomaton_Deterministic(t *testing.T) {
	newBuilder := func() *GrammarBuilder {
		return &GrammarBuilder{
			Start:        "expr",
			Terminals:    []string{"add", "mul", "l_paren", "r_paren", "id"},
			NonTerminals: []string{"expr", "term", "factor"},
			Rules: []Rule{
				{LHS: "expr", RHS: []string{"expr", "add", "term"}},
				{LHS: "expr", RHS: []string{"term"}},
				{LHS: "term", RHS: []string{"term", "mul", "factor"}},
				{LHS: "term", RHS: []string{"factor"}},
				{LHS: "factor", RHS: []string{"l_paren", "expr", "r_paren"}},
				{LHS: "factor", RHS: []string{"id"}},
			},
		}
	}

	_, a1 := buildTestAutomaton(t, newBuilder())
	_, a2 := buildTestAutomaton(t, newBuilder())

	if len(a1.order) != len(a2.order) {
		t.Fatalf("state counts differ across builds: %v vs %v", len(a1.order), len(a2.order))
	}
	for i, id := range a1.order {
		if id != a2.order[i] {
			t.Fatalf("state order differs at position %v", i)
		}
	}
}

// TestBuildAutomaton_ReduceReduceConflict covers §8 scenario 4: S →
// A | B; A → a; B → a, which must produce a state with two distinct
// reducible productions on the same lookahead.
func TestBuildAutomaton_ReduceReduceConflict(t *testing.T) {
	gram, a := buildTestAutomaton(t, &GrammarBuilder{
		Start:        "s",
		Terminals:    []string{"a"},
		NonTerminals: []string{"s", "A", "B"},
		Rules: []Rule{
			{LHS: "s", RHS: []string{"A"}},
			{LHS: "s", RHS: []string{"B"}},
			{LHS: "A", RHS: []string{"a"}},
			{LHS: "B", RHS: []string{"a"}},
		},
	})

	tb := newTableBuilder(gram, a)
	table, err := tb.build()
	if err != nil {
		t.Fatal(err)
	}
	if len(table.ReduceReduceConflicts) != 1 {
		t.Fatalf("expected exactly one reduce/reduce conflict, got %v: %+v", len(table.ReduceReduceConflicts), table.ReduceReduceConflicts)
	}
}

// TestBuildAutomaton_EpsilonProduction covers §8 scenario 5: S → A b;
// A → ε | a.
func TestBuildAutomaton_EpsilonProduction(t *testing.T) {
	gram, a := buildTestAutomaton(t, &GrammarBuilder{
		Start:        "s",
		Terminals:    []string{"a", "b"},
		NonTerminals: []string{"s", "A"},
		Rules: []Rule{
			{LHS: "s", RHS: []string{"A", "b"}},
			{LHS: "A", RHS: nil},
			{LHS: "A", RHS: []string{"a"}},
		},
	})

	tb := newTableBuilder(gram, a)
	table, err := tb.build()
	if err != nil {
		t.Fatal(err)
	}
	if len(table.ShiftReduceConflicts) != 0 || len(table.ReduceReduceConflicts) != 0 {
		t.Fatalf("unexpected conflicts for an unambiguous epsilon grammar: %+v %+v", table.ShiftReduceConflicts, table.ReduceReduceConflicts)
	}
}
