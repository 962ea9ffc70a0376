package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kkuwata/lr1gen/grammar"
	"github.com/kkuwata/lr1gen/surface"
)

// TestWriteDescription_DistinguishesRHSKind guards against a bare RHS
// symbol number being resolved against the wrong table: the grammar
// below gives its non-terminal "a" and the anonymous terminal x_2 (the
// literal "x") the same underlying number, so a production that
// forgets to carry the kind would render "a" in s's RHS as the
// terminal that happens to share its number instead.
func TestWriteDescription_DistinguishesRHSKind(t *testing.T) {
	src := `
s : a "+" a ;
a : "x" ;
`
	res, err := surface.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	gram, err := res.Builder.Build()
	if err != nil {
		t.Fatal(err)
	}
	cgram, err := grammar.Compile(gram)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeDescription(&buf, cgram); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	var sLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "s →") {
			sLine = line
			break
		}
	}
	if sLine == "" {
		t.Fatalf("no production line for 's' found in output:\n%v", out)
	}
	if strings.Count(sLine, " a") != 2 {
		t.Fatalf("expected s's RHS to name the non-terminal 'a' twice, got: %v", sLine)
	}
	if strings.Contains(sLine, "x_2") {
		t.Fatalf("s's RHS non-terminal 'a' rendered as the terminal it shares a number with: %v", sLine)
	}
}
