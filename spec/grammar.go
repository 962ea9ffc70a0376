// Package spec defines the stable, serializable form of a compiled
// LR(1) grammar: the artifact grammar.Compile produces and the CLI
// writes out as JSON.
package spec

import mlspec "github.com/nihei9/maleeni/spec"

// CompiledGrammar is the top-level output artifact. A downstream
// driver (out of scope for this module) needs only this value to
// parse: the dense tables for straightforward table-walking, the
// compacted tables for a yacc-style driver, and the symbol/production
// metadata to translate numbers back into names for diagnostics.
type CompiledGrammar struct {
	Symbols              *SymbolTable          `json:"symbols"`
	Productions          []*Production         `json:"productions"`
	ParsingTable         *ParsingTable         `json:"parsing_table"`
	CompactedTable       *CompactedTable       `json:"compacted_table"`
	Conflicts            []*Conflict           `json:"conflicts"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification,omitempty"`
}

// SymbolTable enumerates every interned symbol name by number, split
// by kind so a reader never has to guess which array a number indexes
// into.
type SymbolTable struct {
	Terminals        []string `json:"terminals"`
	TerminalCount    int      `json:"terminal_count"`
	NonTerminals     []string `json:"non_terminals"`
	NonTerminalCount int      `json:"non_terminal_count"`
	EOFSymbol        int      `json:"eof_symbol"`
	StartSymbol      int      `json:"start_symbol"`
	AugmentedStart   int      `json:"augmented_start_symbol"`
}

// Production is a single numbered grammar rule. LHS is always a
// non-terminal number. Terminal and non-terminal numbers both start at
// 2 (see SymbolTable), so a bare RHS number would be ambiguous; RHS
// entries carry their kind in the sign instead: a positive entry is a
// terminal number, a negative entry is the negation of a non-terminal
// number.
type Production struct {
	Num    int   `json:"num"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
	RHSLen int   `json:"rhs_len"`
}

// ParsingTable is the dense state x symbol encoding: Action is
// StateCount x TerminalCount, GoTo is StateCount x NonTerminalCount,
// both row-major. Action cells match grammar.actionEntry: 0 is error,
// negative is shift-to-state, positive is reduce-by-production, and
// AcceptValue marks acceptance. GoTo cells match grammar.goToEntry:
// -1 is error, any other value is the target state number.
type ParsingTable struct {
	Action           []int `json:"action"`
	GoTo             []int `json:"goto"`
	StateCount       int   `json:"state_count"`
	TerminalCount    int   `json:"terminal_count"`
	NonTerminalCount int   `json:"non_terminal_count"`
	InitialState     int   `json:"initial_state"`
	AcceptValue      int   `json:"accept_value"`
}

// CompactedTable is the yacc-style yyr1/yyr2/yytable/yycheck
// compaction of ParsingTable, split into an action half and a goto
// half (see grammar.CompactedTables for why they aren't merged).
type CompactedTable struct {
	YYR1 []int `json:"yyr1"`
	YYR2 []int `json:"yyr2"`

	ActionTable []int `json:"action_table"`
	ActionCheck []int `json:"action_check"`
	ActionBase  []int `json:"action_base"`

	GotoTable []int `json:"goto_table"`
	GotoCheck []int `json:"goto_check"`
	GotoBase  []int `json:"goto_base"`
}

// ConflictType names which of the two conflict shapes a Conflict
// record describes.
type ConflictType string

const (
	ConflictTypeShiftReduce  = ConflictType("shift/reduce")
	ConflictTypeReduceReduce = ConflictType("reduce/reduce")
)

// Conflict is a non-fatal diagnostic recorded during table emission;
// State and Symbol are symbol/state numbers, resolved against
// SymbolTable for display.
type Conflict struct {
	Type    ConflictType `json:"type"`
	State   int          `json:"state"`
	Symbol  int          `json:"symbol"`
	Prod1   int          `json:"prod1"`
	Prod2   int          `json:"prod2"`
}

// LexicalSpecification carries an optional compiled maleeni lexer
// alongside the parsing table, populated only when the surface
// grammar declared regex-pattern terminals. This module never
// executes the compiled lexer; it only validates and ships it for a
// downstream runtime to consume.
type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

// Maleeni carries the compiled maleeni lexer plus the translation
// tables a driver needs to bridge maleeni's kind ids and this
// module's terminal symbol numbers: KindToTerminal[kindID] is the
// terminal symbol number that kind denotes, and Skip[kindID] is
// non-zero when that kind should be discarded rather than handed to
// the parser (matching the teacher's kind2Term/skip vectors).
type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	Skip           []int                   `json:"skip"`
}
