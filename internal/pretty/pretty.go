// Package pretty implements deterministic, indentation-parameterized
// renderers for each IR tier the compiler passes through (AST, HIR, MIR,
// LIR), one function per tier, driven by cmd/wasmc's `dump-ir` subcommand.
// Grounded on the teacher's internal/core.Pretty stub shape — walk a
// Program's top-level declarations, join their string forms — but
// generalized: one renderer per tier instead of one for Core alone, and
// indentation is actually threaded through nested structure instead of
// being ignored the way the stub ignores it.
package pretty

import (
	"fmt"
	"strings"
)

// printer accumulates rendered lines at a mutable indentation depth. Every
// tier's renderer builds one of these and walks its tree top to bottom;
// none of the IR packages need to know this type exists.
type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.b.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteString("\n")
}

func (p *printer) nest(f func()) {
	p.indent++
	f()
	p.indent--
}

func (p *printer) String() string { return p.b.String() }
