// Package sid provides the fresh-name service used to mint globally unique
// identifiers for Symbols during Rename and during every pass that
// introduces new binders (FlatExpr temporaries, CaseSimplify's bound
// sub-scrutinees, UnnestFunc's lifted function names, ...).
//
// This is the one piece of state shared across passes in an otherwise
// purely functional pipeline (spec.md §5): it only ever grows, and every
// pass observes it strictly through Next.
package sid

import "sync/atomic"

// Source mints monotonically increasing identifiers. It is the boundary
// contract for "identifier minting" (spec.md §1, out of scope as a
// component in its own right) — wasmc's pipeline depends only on this
// interface, never on the concrete counter below.
type Source interface {
	// Next returns a fresh id, never returned by a prior call on the same
	// Source.
	Next() uint64
}

// Counter is the default Source: a process-local monotonic counter. One
// Counter is created per call to pipeline.Compile and is never shared
// across compilations.
type Counter struct {
	n uint64
}

// NewCounter creates a Counter whose first Next() call returns 1 (0 is
// reserved as "no id").
func NewCounter() *Counter {
	return &Counter{n: 0}
}

// Next returns the next fresh id. Safe for concurrent use, though the
// pipeline itself is single-threaded (spec.md §5).
func (c *Counter) Next() uint64 {
	return atomic.AddUint64(&c.n, 1)
}
