package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/sid"
	"github.com/wasmc/wasmc/internal/types"
)

// UnnestFunc lifts every inner Fun to a fresh top-level Val (spec.md
// §4.5): each inner Fun's free variables become an explicit environment
// parameter, the Fun itself is replaced in place by a Closure{fun,
// free_vars} referencing the lifted Val's name, and the lifted body
// rewrites every former free variable as a projection out of the
// environment record. After this pass no Fun remains except directly as
// a top-level Val's RHS.
func UnnestFunc(prog *hir.Program, src sid.Source) *hir.Program {
	u := &unnester{src: src}
	out := &hir.Program{}
	for _, v := range prog.Vals {
		out.Vals = append(out.Vals, hir.Val{Name: v.Name, Ty: v.Ty, Rec: v.Rec, Expr: u.unnestTop(v.Expr)})
	}
	out.Vals = append(out.Vals, u.lifted...)
	return out
}

type unnester struct {
	src    sid.Source
	lifted []hir.Val
}

// unnestTop unnests a top-level Val's RHS. A Fun appearing directly here
// is the top-level function itself (already where it belongs) — only its
// body is recursed into, never the Fun node itself.
func (u *unnester) unnestTop(e hir.Expr) hir.Expr {
	if fn, ok := e.(*hir.Fun); ok {
		body := u.unnest(fn.Body)
		return hir.NewFun(fn.Position(), fn.Type(), fn.Param, body, body.Type(), nil)
	}
	return u.unnest(e)
}

func (u *unnester) unnest(e hir.Expr) hir.Expr {
	switch ex := e.(type) {
	case *hir.Lit, *hir.Sym:
		return ex

	case *hir.Ctor:
		var arg hir.Expr
		if ex.Arg != nil {
			arg = u.unnest(ex.Arg)
		}
		return hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg)

	case *hir.BinOp:
		return hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, u.unnest(ex.L), u.unnest(ex.R))

	case *hir.BuiltinCall:
		return hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, u.unnestAll(ex.Args))

	case *hir.ExternCall:
		return hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, u.unnestAll(ex.Args))

	case *hir.App:
		return hir.NewApp(ex.Position(), ex.Type(), u.unnest(ex.Fun), u.unnest(ex.Arg))

	case *hir.Tuple:
		return hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, u.unnestAll(ex.Elems))

	case *hir.Proj:
		return hir.NewProj(ex.Position(), ex.Type(), u.unnest(ex.Tuple), ex.Index)

	case *hir.Closure:
		return ex

	case *hir.Case:
		arms := make([]hir.Arm, len(ex.Arms))
		for i, arm := range ex.Arms {
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: u.unnest(arm.Expr)}
		}
		return hir.NewCase(ex.Position(), ex.Type(), u.unnest(ex.Scrutinee), arms)

	case *hir.Binds:
		binds := make([]hir.Bind, len(ex.Binds))
		for i, b := range ex.Binds {
			binds[i] = hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: u.unnest(b.Expr)}
		}
		return hir.NewBinds(ex.Position(), ex.Type(), binds, u.unnest(ex.Ret))

	case *hir.Fun:
		return u.lift(ex)

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in UnnestFunc: %T", e))
	}
}

func (u *unnester) unnestAll(es []hir.Expr) []hir.Expr {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		out[i] = u.unnest(e)
	}
	return out
}

// lift replaces an inner Fun with a Closure referencing a freshly minted
// top-level Val, and records that Val to be appended to the program.
func (u *unnester) lift(fn *hir.Fun) hir.Expr {
	free := freeVars(fn.Body)
	free.remove(fn.Param)
	freeList := sortedSymbols(free)

	envSym := ast.Symbol{Name: "env", ID: u.src.Next()}
	envTy := &types.Tuple{Elems: symbolTypes(freeList, fn)}

	body := u.unnest(fn.Body)
	body = rebindFreeVars(body, freeList, envSym, envTy)

	fnName := ast.Symbol{Name: "lifted", ID: u.src.Next()}

	// Parameter order is (env, original_param) (spec.md §4.5): expressed
	// as a curried Fun(env)(param), so the lifted Val's type spells out
	// both formal parameters explicitly.
	innerFn := hir.NewFun(fn.Position(), fn.Type(), fn.Param, body, body.Type(), nil)
	outerTy := &types.Fun{Param: envTy, Ret: fn.Type()}
	outerFn := hir.NewFun(fn.Position(), outerTy, envSym, innerFn, innerFn.Type(), nil)

	u.lifted = append(u.lifted, hir.Val{Name: fnName, Ty: outerTy, Expr: outerFn})

	return hir.NewClosure(fn.Position(), fn.Type(), fnName, freeList)
}

// rebindFreeVars wraps body in a Binds that re-expresses each of
// freeList's members as a projection out of envSym, in the same order
// they were sorted into the environment record.
func rebindFreeVars(body hir.Expr, freeList []ast.Symbol, envSym ast.Symbol, envTy *types.Tuple) hir.Expr {
	if len(freeList) == 0 {
		return body
	}
	binds := make([]hir.Bind, len(freeList))
	for i, sym := range freeList {
		binds[i] = hir.Bind{
			Name: sym,
			Ty:   envTy.Elems[i],
			Expr: hir.NewProj(body.Position(), envTy.Elems[i], hir.NewSym(body.Position(), envTy, envSym), i),
		}
	}
	return hir.NewBinds(body.Position(), body.Type(), binds, body)
}

func symbolTypes(syms []ast.Symbol, fn *hir.Fun) []types.Type {
	// The type of each captured free variable is recovered from its use
	// inside fn.Body, not re-derived here: UnnestFunc runs after AST2HIR,
	// so every Sym occurrence already carries its resolved type. We read
	// it off a reference found by a small local scan (findSymTypes keeps
	// the last one it visits), since freeVars itself only tracks names,
	// not types.
	types_ := make([]types.Type, len(syms))
	found := findSymTypes(fn.Body, syms)
	for i, s := range syms {
		types_[i] = found[s.ID]
	}
	return types_
}

func findSymTypes(e hir.Expr, want []ast.Symbol) map[uint64]types.Type {
	wantSet := make(map[uint64]bool, len(want))
	for _, s := range want {
		wantSet[s.ID] = true
	}
	out := make(map[uint64]types.Type)
	var walk func(hir.Expr)
	walk = func(e hir.Expr) {
		switch ex := e.(type) {
		case *hir.Sym:
			if wantSet[ex.Name.ID] {
				out[ex.Name.ID] = ex.Type()
			}
		case *hir.Lit:
		case *hir.Ctor:
			if ex.Arg != nil {
				walk(ex.Arg)
			}
		case *hir.BinOp:
			walk(ex.L)
			walk(ex.R)
		case *hir.BuiltinCall:
			for _, a := range ex.Args {
				walk(a)
			}
		case *hir.ExternCall:
			for _, a := range ex.Args {
				walk(a)
			}
		case *hir.App:
			walk(ex.Fun)
			walk(ex.Arg)
		case *hir.Tuple:
			for _, el := range ex.Elems {
				walk(el)
			}
		case *hir.Proj:
			walk(ex.Tuple)
		case *hir.Fun:
			walk(ex.Body)
		case *hir.Closure:
		case *hir.Case:
			walk(ex.Scrutinee)
			for _, arm := range ex.Arms {
				walk(arm.Expr)
			}
		case *hir.Binds:
			for _, b := range ex.Binds {
				walk(b.Expr)
			}
			walk(ex.Ret)
		}
	}
	walk(e)
	return out
}
