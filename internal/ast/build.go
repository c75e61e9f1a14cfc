package ast

import "github.com/wasmc/wasmc/internal/types"

// The constructors below give later passes (CaseSimplify, AST2HIR, ...) a
// way to synthesize new tree nodes without reaching into this package's
// unexported embedded base fields.

func NewSymbolRef(pos Pos, typ types.Type, sym Symbol) *SymbolRef {
	return &SymbolRef{exprBase: exprBase{ExprPos: pos, Typ: typ}, Sym: sym}
}

func NewProj(pos Pos, typ types.Type, tuple Expr, index int) *Proj {
	return &Proj{exprBase: exprBase{ExprPos: pos, Typ: typ}, Tuple: tuple, Index: index}
}

func NewBinds(pos Pos, typ types.Type, binds []LocalBind, ret Expr) *Binds {
	return &Binds{exprBase: exprBase{ExprPos: pos, Typ: typ}, BindsList: binds, Ret: ret}
}

func NewCase(pos Pos, typ types.Type, cond Expr, clauses []CaseClause) *Case {
	return &Case{exprBase: exprBase{ExprPos: pos, Typ: typ}, Cond: cond, Clauses: clauses}
}

func NewConstructor(pos Pos, typ types.Type, name string, arg Expr) *Constructor {
	return &Constructor{exprBase: exprBase{ExprPos: pos, Typ: typ}, Name: name, Arg: arg}
}

func NewFn(pos Pos, typ types.Type, param Symbol, body Expr) *Fn {
	return &Fn{exprBase: exprBase{ExprPos: pos, Typ: typ}, Param: param, Body: body}
}

func NewApp(pos Pos, typ types.Type, fn, arg Expr) *App {
	return &App{exprBase: exprBase{ExprPos: pos, Typ: typ}, Fun: fn, Arg: arg}
}

func NewBuiltinCall(pos Pos, typ types.Type, fun string, args []Expr) *BuiltinCall {
	return &BuiltinCall{exprBase: exprBase{ExprPos: pos, Typ: typ}, Fun: fun, Args: args}
}

func NewExternCall(pos Pos, typ types.Type, module, fun string, args []Expr, argTy []types.Type, retTy types.Type) *ExternCall {
	return &ExternCall{exprBase: exprBase{ExprPos: pos, Typ: typ}, Module: module, Fun: fun, Args: args, ArgTy: argTy, RetTy: retTy}
}

func NewTuple(pos Pos, typ types.Type, elems []Expr) *Tuple {
	return &Tuple{exprBase: exprBase{ExprPos: pos, Typ: typ}, Elems: elems}
}

func NewIf(pos Pos, typ types.Type, cond, then, els Expr) *If {
	return &If{exprBase: exprBase{ExprPos: pos, Typ: typ}, Cond: cond, Then: then, Else: els}
}

func NewWildcardPattern(pos Pos, typ types.Type) *WildcardPattern {
	return &WildcardPattern{patternBase: patternBase{PatPos: pos, Typ: typ}}
}

func NewVariablePattern(pos Pos, typ types.Type, sym Symbol) *VariablePattern {
	return &VariablePattern{patternBase: patternBase{PatPos: pos, Typ: typ}, Sym: sym}
}

func NewConstructorPattern(pos Pos, typ types.Type, name string, arg Pattern) *ConstructorPattern {
	return &ConstructorPattern{patternBase: patternBase{PatPos: pos, Typ: typ}, Name: name, Arg: arg}
}

func NewTuplePattern(pos Pos, typ types.Type, elems []Pattern) *TuplePattern {
	return &TuplePattern{patternBase: patternBase{PatPos: pos, Typ: typ}, Elems: elems}
}

func NewConstantPattern(pos Pos, typ types.Type, kind LitKind, value interface{}) *ConstantPattern {
	return &ConstantPattern{patternBase: patternBase{PatPos: pos, Typ: typ}, Kind: kind, Value: value}
}

func NewCharPattern(pos Pos, typ types.Type, value rune) *CharPattern {
	return &CharPattern{patternBase: patternBase{PatPos: pos, Typ: typ}, Value: value}
}

func NewLiteral(pos Pos, typ types.Type, kind LitKind, value interface{}) *Literal {
	return &Literal{exprBase: exprBase{ExprPos: pos, Typ: typ}, Kind: kind, Value: value}
}
