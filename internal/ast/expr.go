package ast

import "github.com/wasmc/wasmc/internal/types"

// Expr is the base interface for surface expressions (spec.md §3.2). Every
// expression carries a type slot, initially nil, populated by the Typer.
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// exprBase implements the common parts of Expr; every concrete expression
// kind embeds it.
type exprBase struct {
	ExprPos Pos
	Typ     types.Type
}

func (e *exprBase) Position() Pos       { return e.ExprPos }
func (e *exprBase) exprNode()           {}
func (e *exprBase) Type() types.Type    { return e.Typ }
func (e *exprBase) SetType(t types.Type) { e.Typ = t }

// LocalBind is one binding inside a Binds expression; shares the shape of a
// top-level Val but scoped to the enclosing expression.
type LocalBind struct {
	Pattern Pattern
	Expr    Expr
	Rec     bool
}

// Binds is a sequence of local value bindings followed by a return
// expression (spec.md §3.3's HIR carries the same shape; at the surface
// level this is what a `let`-like construct desugars to, or what the
// parser produces directly for a `val ... in ...` sequence).
type Binds struct {
	exprBase
	BindsList []LocalBind
	Ret       Expr
}

// BuiltinCall invokes a fixed, compiler-known operator (+, *, =, ...).
type BuiltinCall struct {
	exprBase
	Fun  string
	Args []Expr
}

// ExternCall invokes a foreign function through the runtime ABI (spec.md
// §6.2); argty/retty are surface type annotations required because the
// Typer cannot infer an extern's signature from usage alone.
type ExternCall struct {
	exprBase
	Module string
	Fun    string
	Args   []Expr
	ArgTy  []types.Type
	RetTy  types.Type
}

// Fn is a single-parameter lambda. Multi-parameter surface functions are
// curried Fn nodes.
type Fn struct {
	exprBase
	Param Symbol
	Body  Expr
}

// App is function application.
type App struct {
	exprBase
	Fun Expr
	Arg Expr
}

// CaseClause is one `pattern => expr` arm of a Case expression.
type CaseClause struct {
	Pattern Pattern
	Expr    Expr
}

// Case is pattern-match dispatch over a scrutinee; If desugars into a
// two-arm Case (spec.md §3.2).
type Case struct {
	exprBase
	Cond    Expr
	Clauses []CaseClause
}

// Tuple constructs a fixed-arity product value.
type Tuple struct {
	exprBase
	Elems []Expr
}

// SymbolRef is a reference to a bound identifier.
type SymbolRef struct {
	exprBase
	Sym Symbol
}

// Constructor applies (or, with Arg == nil, names) a datatype constructor.
type Constructor struct {
	exprBase
	Name string
	Arg  Expr // nil for a nullary constructor
}

// LitKind distinguishes the literal's underlying Go representation.
type LitKind int

const (
	IntLit LitKind = iota
	RealLit
	CharLit
)

// Literal is a constant int/real/char value.
type Literal struct {
	exprBase
	Kind  LitKind
	Value interface{}
}

// If is sugar for a two-arm Case over true/false constructors; Desugar
// removes every If node before Rename runs (spec.md §3.2).
type If struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

// Proj reads one component of a tuple value. Not part of the parser
// boundary's surface grammar (spec.md §3.2 lists no such node there);
// CaseSimplify synthesizes it to eliminate TuplePattern columns, mirroring
// HIR's own Proj{tuple,index,ty} (spec.md §3.3) one level earlier so that
// AST2HIR's rewrite into HIR is a mechanical 1:1 mapping.
type Proj struct {
	exprBase
	Tuple Expr
	Index int
}
