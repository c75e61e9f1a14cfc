package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/hir"
)

// FlatLet splices nested Binds (spec.md §4.4): after this pass, every
// Binds' Ret is itself a non-Binds expression, and a Binds nested inside
// any operand position has had its own bindings pulled up into the
// enclosing Binds, preserving left-to-right operand order.
func FlatLet(prog *hir.Program) *hir.Program {
	out := &hir.Program{}
	for _, v := range prog.Vals {
		out.Vals = append(out.Vals, hir.Val{Name: v.Name, Ty: v.Ty, Rec: v.Rec, Expr: flatLetExpr(v.Expr)})
	}
	return out
}

// spliceOperand flattens a single operand position: if it reduces to a
// Binds, its bindings are appended to pending (in order) and its Ret is
// returned in the operand's place.
func spliceOperand(e hir.Expr, pending *[]hir.Bind) hir.Expr {
	flat := flatLetExpr(e)
	if b, ok := flat.(*hir.Binds); ok {
		*pending = append(*pending, b.Binds...)
		return b.Ret
	}
	return flat
}

func wrapBinds(pending []hir.Bind, ret hir.Expr) hir.Expr {
	if len(pending) == 0 {
		return ret
	}
	return hir.NewBinds(ret.Position(), ret.Type(), pending, ret)
}

func flatLetExpr(e hir.Expr) hir.Expr {
	switch ex := e.(type) {
	case *hir.Lit, *hir.Sym:
		return ex

	case *hir.Ctor:
		var pending []hir.Bind
		var arg hir.Expr
		if ex.Arg != nil {
			arg = spliceOperand(ex.Arg, &pending)
		}
		return wrapBinds(pending, hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg))

	case *hir.BinOp:
		var pending []hir.Bind
		l := spliceOperand(ex.L, &pending)
		r := spliceOperand(ex.R, &pending)
		return wrapBinds(pending, hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, l, r))

	case *hir.BuiltinCall:
		var pending []hir.Bind
		args := make([]hir.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = spliceOperand(a, &pending)
		}
		return wrapBinds(pending, hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, args))

	case *hir.ExternCall:
		var pending []hir.Bind
		args := make([]hir.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = spliceOperand(a, &pending)
		}
		return wrapBinds(pending, hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, args))

	case *hir.App:
		var pending []hir.Bind
		fn := spliceOperand(ex.Fun, &pending)
		arg := spliceOperand(ex.Arg, &pending)
		return wrapBinds(pending, hir.NewApp(ex.Position(), ex.Type(), fn, arg))

	case *hir.Tuple:
		var pending []hir.Bind
		elems := make([]hir.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = spliceOperand(el, &pending)
		}
		return wrapBinds(pending, hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, elems))

	case *hir.Proj:
		var pending []hir.Bind
		tup := spliceOperand(ex.Tuple, &pending)
		return wrapBinds(pending, hir.NewProj(ex.Position(), ex.Type(), tup, ex.Index))

	case *hir.Fun:
		body := flatLetExpr(ex.Body)
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), ex.Captures)

	case *hir.Closure:
		return ex

	case *hir.Binds:
		// Splice this node's own bindings' RHSs, then splice nested Binds
		// found among them, then merge its Ret (if Ret is itself a Binds)
		// into the same flat list, preserving order throughout.
		var flatBinds []hir.Bind
		for _, b := range ex.Binds {
			rhs := flatLetExpr(b.Expr)
			if nested, ok := rhs.(*hir.Binds); ok {
				flatBinds = append(flatBinds, nested.Binds...)
				flatBinds = append(flatBinds, hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: nested.Ret})
			} else {
				flatBinds = append(flatBinds, hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: rhs})
			}
		}
		ret := flatLetExpr(ex.Ret)
		if nestedRet, ok := ret.(*hir.Binds); ok {
			flatBinds = append(flatBinds, nestedRet.Binds...)
			ret = nestedRet.Ret
		}
		return wrapBinds(flatBinds, ret)

	case *hir.Case:
		var pending []hir.Bind
		scrutinee := spliceOperand(ex.Scrutinee, &pending)
		arms := make([]hir.Arm, len(ex.Arms))
		for i, arm := range ex.Arms {
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: flatLetExpr(arm.Expr)}
		}
		return wrapBinds(pending, hir.NewCase(ex.Position(), ex.Type(), scrutinee, arms))

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in FlatLet: %T", e))
	}
}
