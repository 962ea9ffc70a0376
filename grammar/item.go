package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/kkuwata/lr1gen/grammar/symbol"
)

// itemID identifies an LR(1) item by value: two items with the same
// production, dot position, and lookahead always compute the same id.
// Unlike LALR(1) construction, the lookahead is part of the id, so
// items that would be merged under LALR(1) stay distinct here.
type itemID [32]byte

func (id itemID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// item is the value triple [A → α · β, a] from §3 of the
// specification: a production, a dot position, and a single
// lookahead terminal.
type item struct {
	id   itemID
	prod productionID

	dot          int
	dottedSymbol symbol.Symbol
	lookahead    symbol.Symbol

	// initial is true for [S' → · S, $], the seed of state 0.
	initial bool

	// reducible is true when the dot has reached the end of the RHS.
	reducible bool

	// kernel is true for items that belong to a state's kernel: the
	// initial item, or any item with dot > 0. Every other item is
	// produced purely by closure and is redundant to carry across
	// GOTO, since closure regenerates it deterministically from the
	// kernel.
	kernel bool
}

func newItem(prod *production, dot int, lookahead symbol.Symbol) (*item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}
	if lookahead.IsNil() || !lookahead.IsTerminal() {
		return nil, fmt.Errorf("lookahead must be a non-nil terminal symbol")
	}

	var id itemID
	{
		b := make([]byte, 0, len(prod.id)+8+2)
		b = append(b, prod.id[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		b = append(b, lookahead.Byte()...)
		id = sha256.Sum256(b)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.lhs.IsStart() && dot == 0
	reducible := dot == prod.rhsLen
	kernel := initial || dot > 0

	return &item{
		id:           id,
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		lookahead:    lookahead,
		initial:      initial,
		reducible:    reducible,
		kernel:       kernel,
	}, nil
}

// kernelID identifies a canonical item set by the sha256 digest of its
// sorted kernel item ids. Because closure is a pure function of the
// kernel, two states have equal full item sets (§3 "Two states are
// identical iff their item sets are equal") iff their kernels are
// equal, so the kernel alone is a valid, cheaper state fingerprint.
type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

type kernel struct {
	id    kernelID
	items []*item
}

func newKernel(items []*item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	m := map[itemID]*item{}
	for _, it := range items {
		if !it.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", it.id)
		}
		m[it.id] = it
	}
	sorted := make([]*item, 0, len(m))
	for _, it := range m {
		sorted = append(sorted, it)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].id.String() < sorted[j].id.String()
	})

	h := sha256.New()
	for _, it := range sorted {
		h.Write(it.id[:])
	}
	var id kernelID
	copy(id[:], h.Sum(nil))

	return &kernel{id: id, items: sorted}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int { return int(n) }

func (n stateNum) String() string { return strconv.Itoa(int(n)) }

func (n stateNum) next() stateNum { return stateNum(n + 1) }

// state is a fully-closed LR(1) item set plus the transitions leaving
// it: next[X] for a symbol that appears after some dot, and the set
// of productions this state can reduce by.
type state struct {
	*kernel
	num       stateNum
	items     []*item // full closure, kernel ∪ derived items
	next      map[symbol.Symbol]kernelID
	reducible map[productionID][]*item
}
