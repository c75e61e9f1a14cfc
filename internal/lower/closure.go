package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
)

// ForceClosure makes every call site uniform (spec.md §4.5): every
// reference to a top-level function, including ones UnnestFunc never
// touched because they were already top-level, is materialized into a
// Closure with an empty free-variable list on first use. This is kept
// unconditional even where the target is statically known — Open
// Question 2 (see DESIGN.md): a backend is free to recover the
// direct-call opportunity from Closure.Fun's identity, but this pass does
// not special-case it.
func ForceClosure(prog *hir.Program) *hir.Program {
	topLevelFns := make(map[uint64]ast.Symbol)
	for _, v := range prog.Vals {
		if _, ok := v.Expr.(*hir.Fun); ok {
			topLevelFns[v.Name.ID] = v.Name
		}
	}

	fc := &closureForcer{topLevelFns: topLevelFns}
	out := &hir.Program{}
	for _, v := range prog.Vals {
		out.Vals = append(out.Vals, hir.Val{Name: v.Name, Ty: v.Ty, Rec: v.Rec, Expr: fc.force(v.Expr)})
	}
	return out
}

type closureForcer struct {
	topLevelFns map[uint64]ast.Symbol
}

func (fc *closureForcer) force(e hir.Expr) hir.Expr {
	switch ex := e.(type) {
	case *hir.Lit:
		return ex

	case *hir.Sym:
		if name, ok := fc.topLevelFns[ex.Name.ID]; ok {
			return hir.NewClosure(ex.Position(), ex.Type(), name, nil)
		}
		return ex

	case *hir.Ctor:
		var arg hir.Expr
		if ex.Arg != nil {
			arg = fc.force(ex.Arg)
		}
		return hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg)

	case *hir.BinOp:
		return hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, fc.force(ex.L), fc.force(ex.R))

	case *hir.BuiltinCall:
		return hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, fc.forceAll(ex.Args))

	case *hir.ExternCall:
		return hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, fc.forceAll(ex.Args))

	case *hir.App:
		return hir.NewApp(ex.Position(), ex.Type(), fc.force(ex.Fun), fc.force(ex.Arg))

	case *hir.Tuple:
		return hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, fc.forceAll(ex.Elems))

	case *hir.Proj:
		return hir.NewProj(ex.Position(), ex.Type(), fc.force(ex.Tuple), ex.Index)

	case *hir.Closure:
		return ex

	case *hir.Fun:
		// Only reachable for a top-level Val's own Fun RHS (UnnestFunc has
		// already lifted every other Fun away); its body is still a tree
		// to recurse into, but the Fun node itself is the thing call
		// sites will reference via Closure, not something to replace.
		body := fc.force(ex.Body)
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), ex.Captures)

	case *hir.Case:
		arms := make([]hir.Arm, len(ex.Arms))
		for i, arm := range ex.Arms {
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: fc.force(arm.Expr)}
		}
		return hir.NewCase(ex.Position(), ex.Type(), fc.force(ex.Scrutinee), arms)

	case *hir.Binds:
		binds := make([]hir.Bind, len(ex.Binds))
		for i, b := range ex.Binds {
			binds[i] = hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: fc.force(b.Expr)}
		}
		return hir.NewBinds(ex.Position(), ex.Type(), binds, fc.force(ex.Ret))

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in ForceClosure: %T", e))
	}
}

func (fc *closureForcer) forceAll(es []hir.Expr) []hir.Expr {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		out[i] = fc.force(e)
	}
	return out
}
