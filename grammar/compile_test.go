package grammar

import (
	"testing"

	"github.com/kkuwata/lr1gen/spec"
)

func TestCompile(t *testing.T) {
	gram, err := (&GrammarBuilder{
		Start:        "s",
		Terminals:    []string{"a"},
		NonTerminals: []string{"s"},
		Rules: []Rule{
			{LHS: "s", RHS: []string{"a"}},
		},
	}).Build()
	if err != nil {
		t.Fatal(err)
	}

	cg, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}
	if cg.ParsingTable.StateCount != 3 {
		t.Fatalf("expected 3 states, got %v", cg.ParsingTable.StateCount)
	}
	if len(cg.Conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", cg.Conflicts)
	}
	if cg.CompactedTable == nil {
		t.Fatal("expected a non-nil compacted table")
	}
}

func TestCompile_RHSEncodesSymbolKind(t *testing.T) {
	// "a" and "A" are deliberately each other's first declared terminal
	// and non-terminal, so they share the same bare symbol number; only
	// the sign of the RHS entry can tell them apart.
	gram, err := (&GrammarBuilder{
		Start:        "s",
		Terminals:    []string{"a"},
		NonTerminals: []string{"A", "s"},
		Rules: []Rule{
			{LHS: "s", RHS: []string{"A", "a"}},
			{LHS: "A", RHS: []string{"a"}},
		},
	}).Build()
	if err != nil {
		t.Fatal(err)
	}

	cg, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}

	var sProd *spec.Production
	for _, p := range cg.Productions {
		if p.LHS == cg.Symbols.StartSymbol && len(p.RHS) == 2 {
			sProd = p
		}
	}
	if sProd == nil {
		t.Fatal("could not find production s -> A a")
	}
	if sProd.RHS[0] >= 0 {
		t.Fatalf("expected the non-terminal A to be encoded as a negative RHS entry, got %v", sProd.RHS[0])
	}
	if sProd.RHS[1] <= 0 {
		t.Fatalf("expected the terminal a to be encoded as a positive RHS entry, got %v", sProd.RHS[1])
	}
}

func TestCompile_Strict(t *testing.T) {
	gram, err := (&GrammarBuilder{
		Start:        "s",
		Terminals:    []string{"a"},
		NonTerminals: []string{"s", "A", "B"},
		Rules: []Rule{
			{LHS: "s", RHS: []string{"A"}},
			{LHS: "s", RHS: []string{"B"}},
			{LHS: "A", RHS: []string{"a"}},
			{LHS: "B", RHS: []string{"a"}},
		},
	}).Build()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Compile(gram, Strict()); err == nil {
		t.Fatal("expected Strict to turn the reduce/reduce conflict into an error")
	}
}
