package scoring

import "fmt"

// ErrDuplicateEmission signals two same-authority emissions for one
// signal id in a single audit. Signal ownership is exclusive upstream, so
// this is a contract violation and must fail fast rather than be resolved
// by picking one.
type ErrDuplicateEmission struct {
	error
}

func NewErrDuplicateEmission(signalID, firstSource, secondSource string) *ErrDuplicateEmission {
	return &ErrDuplicateEmission{fmt.Errorf("duplicate emission for signal %q: sources %q and %q", signalID, firstSource, secondSource)}
}

// ErrEmptyCatalog signals a missing or structurally unusable signal
// catalog; scoring cannot run for the audit.
type ErrEmptyCatalog struct {
	error
}

func NewErrEmptyCatalog(cause error) *ErrEmptyCatalog {
	return &ErrEmptyCatalog{fmt.Errorf("unusable signal catalog: %w", cause)}
}
