// Package lower implements the HIR-side pipeline stages (spec.md §4.3–
// §4.5): AST2HIR, ConstructorToEnum, Simplify, FlatExpr, FlatLet,
// UnnestFunc, and ForceClosure. Grounded on
// internal/elaborate/elaborate.go's ANF-normalization pass shape (a single
// `normalize` function with one case arm per surface node kind) for
// ast2hir.go; the later passes have no direct teacher analog (the teacher
// evaluates Core directly rather than lowering it to closed, block-ready
// form) and are designed straight from spec.md §4.4/§4.5's algorithms.
package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/types"
)

// AST2HIR mechanically rewrites a CaseSimplify-simplified, fully-typed AST
// into HIR, carrying every node's resolved type verbatim (spec.md §4.3).
func AST2HIR(prog *ast.Program) (*hir.Program, *errors.CompileError) {
	out := &hir.Program{}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.Datatype:
			continue
		case *ast.Val:
			name, err := topLevelName(decl.Pattern)
			if err != nil {
				return nil, err
			}
			expr, err := lowerExpr(decl.Expr)
			if err != nil {
				return nil, err
			}
			out.Vals = append(out.Vals, hir.Val{Name: name, Ty: expr.Type(), Rec: decl.Rec, Expr: expr})
		default:
			return nil, errors.New(errors.Internal, d.Position().String(), fmt.Sprintf("unexpected declaration kind in AST2HIR: %T", d))
		}
	}
	return out, nil
}

// topLevelName requires a top-level Val's pattern to be a bare name: HIR's
// Val carries exactly one Symbol (spec.md §3.3), so a destructuring
// top-level binding has no HIR representation.
func topLevelName(p ast.Pattern) (ast.Symbol, *errors.CompileError) {
	vp, ok := p.(*ast.VariablePattern)
	if !ok {
		return ast.Symbol{}, errors.New(errors.Internal, p.Position().String(), "top-level bindings must bind a single name")
	}
	return vp.Sym, nil
}

func lowerExpr(e ast.Expr) (hir.Expr, *errors.CompileError) {
	switch ex := e.(type) {
	case *ast.Literal:
		return hir.NewLit(ex.Position(), ex.Type(), ex.Kind, ex.Value), nil

	case *ast.SymbolRef:
		return hir.NewSym(ex.Position(), ex.Type(), ex.Sym), nil

	case *ast.Proj:
		tup, err := lowerExpr(ex.Tuple)
		if err != nil {
			return nil, err
		}
		return hir.NewProj(ex.Position(), ex.Type(), tup, ex.Index), nil

	case *ast.Constructor:
		var arg hir.Expr
		if ex.Arg != nil {
			a, err := lowerExpr(ex.Arg)
			if err != nil {
				return nil, err
			}
			arg = a
		}
		return hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg), nil

	case *ast.Fn:
		body, err := lowerExpr(ex.Body)
		if err != nil {
			return nil, err
		}
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), nil), nil

	case *ast.App:
		fn, err := lowerExpr(ex.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := lowerExpr(ex.Arg)
		if err != nil {
			return nil, err
		}
		return hir.NewApp(ex.Position(), ex.Type(), fn, arg), nil

	case *ast.BuiltinCall:
		args, err := lowerExprs(ex.Args)
		if err != nil {
			return nil, err
		}
		if len(args) == 2 {
			return hir.NewBinOp(ex.Position(), ex.Type(), ex.Fun, args[0], args[1]), nil
		}
		return hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, args), nil

	case *ast.ExternCall:
		args, err := lowerExprs(ex.Args)
		if err != nil {
			return nil, err
		}
		return hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, args), nil

	case *ast.Tuple:
		elems, err := lowerExprs(ex.Elems)
		if err != nil {
			return nil, err
		}
		return hir.NewTuple(ex.Position(), ex.Type(), tupleElemTypes(elems), elems), nil

	case *ast.Binds:
		binds := make([]hir.Bind, len(ex.BindsList))
		for i, b := range ex.BindsList {
			v, err := lowerExpr(b.Expr)
			if err != nil {
				return nil, err
			}
			sym, err := topLevelName(b.Pattern)
			if err != nil {
				return nil, err
			}
			binds[i] = hir.Bind{Name: sym, Ty: v.Type(), Rec: b.Rec, Expr: v}
		}
		ret, err := lowerExpr(ex.Ret)
		if err != nil {
			return nil, err
		}
		return hir.NewBinds(ex.Position(), ex.Type(), binds, ret), nil

	case *ast.Case:
		cond, err := lowerExpr(ex.Cond)
		if err != nil {
			return nil, err
		}
		arms := make([]hir.Arm, len(ex.Clauses))
		for i, cl := range ex.Clauses {
			pat, err := lowerPattern(cl.Pattern)
			if err != nil {
				return nil, err
			}
			body, err := lowerExpr(cl.Expr)
			if err != nil {
				return nil, err
			}
			arms[i] = hir.Arm{Pattern: pat, Expr: body}
		}
		return hir.NewCase(ex.Position(), ex.Type(), cond, arms), nil

	default:
		return nil, errors.New(errors.Internal, e.Position().String(), fmt.Sprintf("unexpected expression kind in AST2HIR: %T", e))
	}
}

func lowerExprs(es []ast.Expr) ([]hir.Expr, *errors.CompileError) {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		h, err := lowerExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func tupleElemTypes(elems []hir.Expr) []types.Type {
	tys := make([]types.Type, len(elems))
	for i, e := range elems {
		tys[i] = e.Type()
	}
	return tys
}

// lowerPattern narrows a (post-CaseSimplify) surface pattern to HIR's
// SimplePattern grammar: CaseSimplify guarantees every Case's clause
// pattern by this point is exactly one of these kinds.
func lowerPattern(p ast.Pattern) (hir.SimplePattern, *errors.CompileError) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return hir.WildcardPattern{}, nil
	case *ast.VariablePattern:
		return hir.VariablePattern{Sym: pt.Sym}, nil
	case *ast.ConstantPattern:
		return hir.LiteralPattern{Kind: pt.Kind, Value: pt.Value}, nil
	case *ast.CharPattern:
		return hir.LiteralPattern{Kind: ast.CharLit, Value: pt.Value}, nil
	case *ast.ConstructorPattern:
		var arg *ast.Symbol
		if pt.Arg != nil {
			vp, ok := pt.Arg.(*ast.VariablePattern)
			if !ok {
				return nil, errors.New(errors.Internal, pt.Position().String(), fmt.Sprintf("unexpected constructor payload pattern %T after CaseSimplify", pt.Arg))
			}
			arg = &vp.Sym
		}
		return hir.ConstructorPattern{Name: pt.Name, Arg: arg}, nil
	default:
		return nil, errors.New(errors.Internal, p.Position().String(), fmt.Sprintf("unexpected pattern kind in AST2HIR: %T", p))
	}
}
