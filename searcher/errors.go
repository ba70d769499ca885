package searcher

import "errors"

var (
	// ErrOracle wraps a failed or malformed oracle evaluation. It aborts the
	// in-flight simulation; statistics accumulated before it remain valid.
	ErrOracle = errors.New("oracle evaluation failed")
	// ErrInvariant denotes an engine correctness bug, such as a non-terminal
	// position with no legal moves. It must never be swallowed.
	ErrInvariant = errors.New("internal invariant violated")
)
