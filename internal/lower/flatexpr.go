package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/sid"
)

// FlatExpr lifts every non-trivial operand into a let-bound temporary
// (spec.md §4.4), producing A-normal form: after this pass, every operand
// sub-position of BinOp, App, BuiltinCall, Tuple, Proj, and a Case's
// scrutinee is a Sym or a Lit. Bindings are introduced left to right, so
// binding i always precedes binding j for operand i preceding operand j.
func FlatExpr(prog *hir.Program, src sid.Source) *hir.Program {
	f := &flattener{src: src}
	out := &hir.Program{}
	for _, v := range prog.Vals {
		out.Vals = append(out.Vals, hir.Val{Name: v.Name, Ty: v.Ty, Rec: v.Rec, Expr: f.flatten(v.Expr)})
	}
	return out
}

type flattener struct {
	src sid.Source
}

// lift reduces e to a trivial operand (Sym or Lit), recording any
// bindings this required into pending in evaluation order.
func (f *flattener) lift(e hir.Expr, pending *[]hir.Bind) hir.Expr {
	flat := f.flatten(e)
	switch flat.(type) {
	case *hir.Sym, *hir.Lit:
		return flat
	}
	name := ast.Symbol{Name: "t", ID: f.src.Next()}
	*pending = append(*pending, hir.Bind{Name: name, Ty: flat.Type(), Expr: flat})
	return hir.NewSym(flat.Position(), flat.Type(), name)
}

func (f *flattener) wrap(pending []hir.Bind, ret hir.Expr) hir.Expr {
	if len(pending) == 0 {
		return ret
	}
	return hir.NewBinds(ret.Position(), ret.Type(), pending, ret)
}

func (f *flattener) flatten(e hir.Expr) hir.Expr {
	switch ex := e.(type) {
	case *hir.Lit, *hir.Sym:
		return ex

	case *hir.Ctor:
		var pending []hir.Bind
		var arg hir.Expr
		if ex.Arg != nil {
			arg = f.lift(ex.Arg, &pending)
		}
		return f.wrap(pending, hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg))

	case *hir.BinOp:
		var pending []hir.Bind
		l := f.lift(ex.L, &pending)
		r := f.lift(ex.R, &pending)
		return f.wrap(pending, hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, l, r))

	case *hir.BuiltinCall:
		var pending []hir.Bind
		args := make([]hir.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = f.lift(a, &pending)
		}
		return f.wrap(pending, hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, args))

	case *hir.ExternCall:
		var pending []hir.Bind
		args := make([]hir.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = f.lift(a, &pending)
		}
		return f.wrap(pending, hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, args))

	case *hir.App:
		var pending []hir.Bind
		fn := f.lift(ex.Fun, &pending)
		arg := f.lift(ex.Arg, &pending)
		return f.wrap(pending, hir.NewApp(ex.Position(), ex.Type(), fn, arg))

	case *hir.Tuple:
		var pending []hir.Bind
		elems := make([]hir.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = f.lift(el, &pending)
		}
		return f.wrap(pending, hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, elems))

	case *hir.Proj:
		var pending []hir.Bind
		tup := f.lift(ex.Tuple, &pending)
		return f.wrap(pending, hir.NewProj(ex.Position(), ex.Type(), tup, ex.Index))

	case *hir.Fun:
		body := f.flatten(ex.Body)
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), ex.Captures)

	case *hir.Closure:
		return ex

	case *hir.Binds:
		binds := make([]hir.Bind, len(ex.Binds))
		for i, b := range ex.Binds {
			binds[i] = hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: f.flatten(b.Expr)}
		}
		ret := f.flatten(ex.Ret)
		return hir.NewBinds(ex.Position(), ex.Type(), binds, ret)

	case *hir.Case:
		var pending []hir.Bind
		scrutinee := f.lift(ex.Scrutinee, &pending)
		arms := make([]hir.Arm, len(ex.Arms))
		for i, arm := range ex.Arms {
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: f.flatten(arm.Expr)}
		}
		return f.wrap(pending, hir.NewCase(ex.Position(), ex.Type(), scrutinee, arms))

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in FlatExpr: %T", e))
	}
}
