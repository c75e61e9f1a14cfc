// Package ast defines the surface syntax tree (spec.md §3.2): the tree
// produced by the external parser boundary and consumed by Desugar,
// Rename, VarToConstructor, and the Typer.
package ast

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/types"
)

// Pos is a source position, supplied by the parser boundary (spec.md §6.3)
// and carried on every node for diagnostics.
type Pos struct {
	Line, Column int
	File         string
	Offset       int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Symbol is a (name, id) pair (spec.md §3.1). name is preserved across all
// passes for diagnostics; id, once assigned by Rename, guarantees
// freshness. A Symbol with ID == 0 is "unresolved" — only valid before
// Rename has run.
type Symbol struct {
	Name string
	ID   uint64
}

// Equals reports structural equality: both Name and ID must match.
func (s Symbol) Equals(o Symbol) bool { return s.Name == o.Name && s.ID == o.ID }

func (s Symbol) String() string {
	if s.ID == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s.%d", s.Name, s.ID)
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Position() Pos
}

// Program is an ordered sequence of top-level declarations (spec.md §3.2).
type Program struct {
	Decls []Decl
}

// Decl is a top-level declaration: Datatype, Val, or (pre-Desugar) the
// derived Fun/Infix forms.
type Decl interface {
	Node
	declNode()
}

// Datatype declares an algebraic datatype with a fixed set of
// constructors, each optionally carrying one payload type.
type Datatype struct {
	Pos          Pos
	Name         string
	Constructors []CtorDecl
}

// CtorDecl is one constructor case of a Datatype declaration.
type CtorDecl struct {
	Name string
	Arg  types.Type // nil for a nullary constructor
}

func (d *Datatype) Position() Pos { return d.Pos }
func (d *Datatype) declNode()     {}

// Val is a (possibly recursive) value binding.
type Val struct {
	DeclPos Pos
	Pattern Pattern
	Expr    Expr
	Rec     bool
}

func (v *Val) Position() Pos { return v.DeclPos }
func (v *Val) declNode()     {}

// Fun is sugar for a recursive function defined by clauses; Desugar
// rewrites it into a Val{Rec:true, Expr:Fn...} with a Case dispatch (spec.md
// §3.2 "Derived").
type Fun struct {
	DeclPos Pos
	Name    string
	Clauses []Clause
}

// Clause is one `fun name pat1 pat2 ... = body` arm.
type Clause struct {
	Params []Pattern
	Body   Expr
}

func (f *Fun) Position() Pos { return f.DeclPos }
func (f *Fun) declNode()     {}

// Infix declares operator priority and associativity; resolved by the
// parser boundary and passed through Desugar only for pipeline-shape
// parity with spec.md's diagram (see SPEC_FULL.md §7).
type Infix struct {
	DeclPos  Pos
	Priority int
	Names    []string
	Right    bool // infixr vs infix
}

func (i *Infix) Position() Pos { return i.DeclPos }
func (i *Infix) declNode()     {}
