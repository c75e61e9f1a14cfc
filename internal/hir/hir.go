// Package hir defines the post-lowering intermediate representation
// (spec.md §3.3): the surface tree with every type resolved, constructors
// represented as tagged values, case reduced to simple tests, and (once
// ForceClosure has run) every function closed. Grounded on
// internal/core/core.go's CoreExpr variant shape (one struct per kind, a
// closed marker-method interface), generalized to the node kinds spec.md
// §3.3 requires — Closure, Proj, SimplePattern, and captures have no
// equivalent there, since the teacher evaluates Core directly instead of
// closure-converting it.
package hir

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/types"
)

// Expr is the base interface for HIR expressions. Unlike the surface ast
// package, every HIR node's type is populated at construction time —
// AST2HIR carries the Typer's already-ground types verbatim (spec.md
// §4.3), so there is no mutable type slot to fill in later.
type Expr interface {
	Position() ast.Pos
	Type() types.Type
	hirExpr()
}

type hirBase struct {
	Pos ast.Pos
	Ty  types.Type
}

func (b hirBase) Position() ast.Pos { return b.Pos }
func (b hirBase) Type() types.Type  { return b.Ty }
func (hirBase) hirExpr()            {}

// Bind is one binding inside a Binds expression (or a recursive group).
type Bind struct {
	Name ast.Symbol
	Ty   types.Type
	Rec  bool
	Expr Expr
}

// Binds sequences local bindings before a return expression.
type Binds struct {
	hirBase
	Binds []Bind
	Ret   Expr
}

// BinOp is a fully-resolved binary builtin (+, *, comparisons, ...);
// AST2HIR narrows BuiltinCall's generic argument list to exactly two
// operands wherever the surface operator is binary, since that is the
// only arity FlatExpr's ANF rules need to reason about specially.
type BinOp struct {
	hirBase
	Name string
	L, R Expr
}

// BuiltinCall invokes a compiler-known operator of any other arity.
type BuiltinCall struct {
	hirBase
	Fun  string
	Args []Expr
}

// ExternCall invokes a foreign function through the runtime ABI.
type ExternCall struct {
	hirBase
	Module string
	Fun    string
	Args   []Expr
}

// App is function application; by the time ForceClosure has run, Fun
// always evaluates to a Closure value.
type App struct {
	hirBase
	Fun Expr
	Arg Expr
}

// Arm is one tested pattern of a Case.
type Arm struct {
	Pattern SimplePattern
	Expr    Expr
}

// Case dispatches on scrutinee against a sequence of SimplePattern tests;
// after CaseSimplify, Arms already forms a decision tree (each Case node
// tests exactly one thing).
type Case struct {
	hirBase
	Scrutinee Expr
	Arms      []Arm
}

// Fun is a single-parameter lambda. Captures is carried through every pass
// unchanged and no pass fills it in: UnnestFunc records a lifted Fun's
// free variables on the Closure that replaces it (Closure.FreeVars).
type Fun struct {
	hirBase
	Param    ast.Symbol
	Body     Expr
	BodyTy   types.Type
	Captures []ast.Symbol
}

// Closure packages a lifted top-level function with the free variables its
// original body captured; FreeVars is ordered deterministically by
// (Name, ID) (spec.md §4.5) so environment-record layout is reproducible.
type Closure struct {
	hirBase
	Fun      ast.Symbol
	FreeVars []ast.Symbol
}

// Tuple constructs a fixed-arity product value.
type Tuple struct {
	hirBase
	Tys   []types.Type
	Elems []Expr
}

// Proj reads one component of a tuple or a constructor's payload record.
type Proj struct {
	hirBase
	Tuple Expr
	Index int
}

// Sym references a bound identifier.
type Sym struct {
	hirBase
	Name ast.Symbol
}

// Lit is a constant int/real/char value, or (post ConstructorToEnum) a
// constructor's tag.
type Lit struct {
	hirBase
	Kind  ast.LitKind
	Value interface{}
}

// Ctor applies (or, with Arg == nil, names) a datatype constructor. This
// kind only exists between AST2HIR and ConstructorToEnum: AST2HIR carries
// surface constructor uses across mechanically, and ConstructorToEnum
// immediately eliminates every Ctor by rewriting it into the tag/record
// representation spec.md §4.3 describes (a Lit for an all-nullary
// datatype, a 2-element Tuple(tag, payload) otherwise) — no later pass
// ever sees a Ctor node.
type Ctor struct {
	hirBase
	Name string
	Arg  Expr // nil for a nullary constructor
}

func NewCtor(pos ast.Pos, ty types.Type, name string, arg Expr) *Ctor {
	return &Ctor{hirBase: hirBase{pos, ty}, Name: name, Arg: arg}
}

// Val is a top-level binding.
type Val struct {
	Name ast.Symbol
	Ty   types.Type
	Rec  bool
	Expr Expr
}

// Program is an ordered sequence of top-level Vals.
type Program struct {
	Vals []Val
}

func NewBinds(pos ast.Pos, ty types.Type, binds []Bind, ret Expr) *Binds {
	return &Binds{hirBase: hirBase{pos, ty}, Binds: binds, Ret: ret}
}

func NewBinOp(pos ast.Pos, ty types.Type, name string, l, r Expr) *BinOp {
	return &BinOp{hirBase: hirBase{pos, ty}, Name: name, L: l, R: r}
}

func NewBuiltinCall(pos ast.Pos, ty types.Type, fun string, args []Expr) *BuiltinCall {
	return &BuiltinCall{hirBase: hirBase{pos, ty}, Fun: fun, Args: args}
}

func NewExternCall(pos ast.Pos, ty types.Type, module, fun string, args []Expr) *ExternCall {
	return &ExternCall{hirBase: hirBase{pos, ty}, Module: module, Fun: fun, Args: args}
}

func NewApp(pos ast.Pos, ty types.Type, fn, arg Expr) *App {
	return &App{hirBase: hirBase{pos, ty}, Fun: fn, Arg: arg}
}

func NewCase(pos ast.Pos, ty types.Type, scrutinee Expr, arms []Arm) *Case {
	return &Case{hirBase: hirBase{pos, ty}, Scrutinee: scrutinee, Arms: arms}
}

func NewFun(pos ast.Pos, ty types.Type, param ast.Symbol, body Expr, bodyTy types.Type, captures []ast.Symbol) *Fun {
	return &Fun{hirBase: hirBase{pos, ty}, Param: param, Body: body, BodyTy: bodyTy, Captures: captures}
}

func NewClosure(pos ast.Pos, ty types.Type, fn ast.Symbol, freeVars []ast.Symbol) *Closure {
	return &Closure{hirBase: hirBase{pos, ty}, Fun: fn, FreeVars: freeVars}
}

func NewTuple(pos ast.Pos, ty types.Type, tys []types.Type, elems []Expr) *Tuple {
	return &Tuple{hirBase: hirBase{pos, ty}, Tys: tys, Elems: elems}
}

func NewProj(pos ast.Pos, ty types.Type, tuple Expr, index int) *Proj {
	return &Proj{hirBase: hirBase{pos, ty}, Tuple: tuple, Index: index}
}

func NewSym(pos ast.Pos, ty types.Type, name ast.Symbol) *Sym {
	return &Sym{hirBase: hirBase{pos, ty}, Name: name}
}

func NewLit(pos ast.Pos, ty types.Type, kind ast.LitKind, value interface{}) *Lit {
	return &Lit{hirBase: hirBase{pos, ty}, Kind: kind, Value: value}
}
