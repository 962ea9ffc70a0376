package grammar

import "fmt"

// internalError marks a condition the construction algorithm should
// never reach (a missing production lookup, a closure that failed to
// converge). It is distinct from the validation errors GrammarBuilder
// collects: those come from a malformed grammar, this comes from a
// bug in this package.
type internalError struct {
	msg string
}

func (e *internalError) Error() string { return "internal-invariant: " + e.msg }

func internalErrorf(format string, args ...interface{}) error {
	return &internalError{msg: fmt.Sprintf(format, args...)}
}
