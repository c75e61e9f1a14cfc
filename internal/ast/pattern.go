package ast

import "github.com/wasmc/wasmc/internal/types"

// Pattern is the base interface for surface patterns (spec.md §3.2). Like
// Expr, every pattern carries a type slot populated by the Typer.
type Pattern interface {
	Node
	patternNode()
	Type() types.Type
	SetType(types.Type)
}

type patternBase struct {
	PatPos Pos
	Typ    types.Type
}

func (p *patternBase) Position() Pos        { return p.PatPos }
func (p *patternBase) patternNode()         {}
func (p *patternBase) Type() types.Type     { return p.Typ }
func (p *patternBase) SetType(t types.Type) { p.Typ = t }

// ConstantPattern matches an int or real literal.
type ConstantPattern struct {
	patternBase
	Kind  LitKind
	Value interface{}
}

// CharPattern matches a literal character.
type CharPattern struct {
	patternBase
	Value rune
}

// ConstructorPattern matches a datatype constructor, optionally binding its
// payload with a sub-pattern.
type ConstructorPattern struct {
	patternBase
	Name string
	Arg  Pattern // nil for a nullary constructor
}

// TuplePattern destructures a tuple value.
type TuplePattern struct {
	patternBase
	Elems []Pattern
}

// VariablePattern binds the scrutinee to a fresh name.
type VariablePattern struct {
	patternBase
	Sym Symbol
}

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct {
	patternBase
}
