package ast

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/sid"
)

// Desugar lowers derived surface forms into the core grammar spec.md §3.2
// calls out as canonical: Fun clauses become a recursive Val binding a
// chain of Fn's dispatching through a Case, If becomes a two-arm Case over
// true/false, and Infix declarations are dropped (the parser boundary
// already applied their precedence — see SPEC_FULL.md §7 for why this
// pass still exists as a no-op filter rather than being folded away).
func Desugar(prog *Program, src sid.Source) *Program {
	out := &Program{}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *Infix:
			// precedence already applied by the parser boundary; drop.
			continue
		case *Fun:
			out.Decls = append(out.Decls, desugarFun(decl, src))
		case *Datatype:
			out.Decls = append(out.Decls, decl)
		case *Val:
			out.Decls = append(out.Decls, &Val{
				DeclPos: decl.DeclPos,
				Pattern: decl.Pattern,
				Expr:    desugarExpr(decl.Expr, src),
				Rec:     decl.Rec,
			})
		}
	}
	return out
}

// desugarFun rewrites `fun f p1 = e1 | p2 = e2 ...` into
// `val rec f = fn x1 => ... => case (x1, ...) of p1 => e1 | p2 => e2`.
func desugarFun(f *Fun, src sid.Source) *Val {
	arity := len(f.Clauses[0].Params)
	params := make([]Symbol, arity)
	for i := range params {
		params[i] = Symbol{Name: fmt.Sprintf("_arg%d", i), ID: src.Next()}
	}

	var scrutinee Expr
	if arity == 1 {
		scrutinee = &SymbolRef{exprBase: exprBase{ExprPos: f.DeclPos}, Sym: params[0]}
	} else {
		elems := make([]Expr, arity)
		for i, p := range params {
			elems[i] = &SymbolRef{exprBase: exprBase{ExprPos: f.DeclPos}, Sym: p}
		}
		scrutinee = &Tuple{exprBase: exprBase{ExprPos: f.DeclPos}, Elems: elems}
	}

	clauses := make([]CaseClause, len(f.Clauses))
	for i, c := range f.Clauses {
		var pat Pattern
		if arity == 1 {
			pat = c.Params[0]
		} else {
			pat = &TuplePattern{patternBase: patternBase{PatPos: f.DeclPos}, Elems: c.Params}
		}
		clauses[i] = CaseClause{Pattern: pat, Expr: desugarExpr(c.Body, src)}
	}

	body := Expr(&Case{exprBase: exprBase{ExprPos: f.DeclPos}, Cond: scrutinee, Clauses: clauses})
	for i := arity - 1; i >= 0; i-- {
		body = &Fn{exprBase: exprBase{ExprPos: f.DeclPos}, Param: params[i], Body: body}
	}

	return &Val{
		DeclPos: f.DeclPos,
		Pattern: &VariablePattern{patternBase: patternBase{PatPos: f.DeclPos}, Sym: Symbol{Name: f.Name}},
		Expr:    body,
		Rec:     true,
	}
}

// desugarExpr recursively lowers If nodes into Case and desugars every
// sub-expression.
func desugarExpr(e Expr, src sid.Source) Expr {
	switch ex := e.(type) {
	case *If:
		return &Case{
			exprBase: ex.exprBase,
			Cond:     desugarExpr(ex.Cond, src),
			Clauses: []CaseClause{
				{Pattern: &ConstructorPattern{patternBase: patternBase{PatPos: ex.ExprPos}, Name: "true"}, Expr: desugarExpr(ex.Then, src)},
				{Pattern: &ConstructorPattern{patternBase: patternBase{PatPos: ex.ExprPos}, Name: "false"}, Expr: desugarExpr(ex.Else, src)},
			},
		}
	case *Binds:
		binds := make([]LocalBind, len(ex.BindsList))
		for i, b := range ex.BindsList {
			binds[i] = LocalBind{Pattern: b.Pattern, Expr: desugarExpr(b.Expr, src), Rec: b.Rec}
		}
		return &Binds{exprBase: ex.exprBase, BindsList: binds, Ret: desugarExpr(ex.Ret, src)}
	case *BuiltinCall:
		return &BuiltinCall{exprBase: ex.exprBase, Fun: ex.Fun, Args: desugarExprs(ex.Args, src)}
	case *ExternCall:
		return &ExternCall{exprBase: ex.exprBase, Module: ex.Module, Fun: ex.Fun, Args: desugarExprs(ex.Args, src), ArgTy: ex.ArgTy, RetTy: ex.RetTy}
	case *Fn:
		return &Fn{exprBase: ex.exprBase, Param: ex.Param, Body: desugarExpr(ex.Body, src)}
	case *App:
		return &App{exprBase: ex.exprBase, Fun: desugarExpr(ex.Fun, src), Arg: desugarExpr(ex.Arg, src)}
	case *Case:
		clauses := make([]CaseClause, len(ex.Clauses))
		for i, c := range ex.Clauses {
			clauses[i] = CaseClause{Pattern: c.Pattern, Expr: desugarExpr(c.Expr, src)}
		}
		return &Case{exprBase: ex.exprBase, Cond: desugarExpr(ex.Cond, src), Clauses: clauses}
	case *Tuple:
		return &Tuple{exprBase: ex.exprBase, Elems: desugarExprs(ex.Elems, src)}
	case *Constructor:
		var arg Expr
		if ex.Arg != nil {
			arg = desugarExpr(ex.Arg, src)
		}
		return &Constructor{exprBase: ex.exprBase, Name: ex.Name, Arg: arg}
	default:
		return e // SymbolRef, Literal: nothing to desugar
	}
}

func desugarExprs(es []Expr, src sid.Source) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = desugarExpr(e, src)
	}
	return out
}
