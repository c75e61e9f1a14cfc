package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
)

// Simplify removes dead single-use renames (spec.md §4.4's normalization
// scope; this codebase narrows it to exactly this one rewrite — literal
// BinOp folding and other constant-leaning optimizations are out of scope,
// since the language's Non-goals exclude optimization beyond
// normalization). CaseSimplify's leaf compilation (internal/casesimplify)
// produces binds of exactly this shape whenever a column's pattern was a
// bare variable rather than a wildcard: `Binds{[x = Sym{y}], ret}`. Such a
// binding contributes nothing once inlined, so Simplify substitutes y for
// every occurrence of x in ret and drops the binding.
func Simplify(prog *hir.Program) *hir.Program {
	out := &hir.Program{}
	for _, v := range prog.Vals {
		out.Vals = append(out.Vals, hir.Val{Name: v.Name, Ty: v.Ty, Rec: v.Rec, Expr: simplifyExpr(v.Expr)})
	}
	return out
}

// subst maps a renamed Symbol's ID to the name it was renamed to; a Symbol
// ID is globally unique (minted by sid.Source), so a flat map suffices
// without any explicit scoping machinery for the substitution itself —
// substituteSym below still has to respect shadowing so it never rewrites
// a *new* binder that happens to reuse one of these IDs, which cannot
// happen post-Rename but is guarded anyway for robustness against a
// misbehaving earlier pass.
type subst map[uint64]ast.Symbol

func (s subst) resolve(sym ast.Symbol) ast.Symbol {
	for {
		next, ok := s[sym.ID]
		if !ok {
			return sym
		}
		sym = next
	}
}

func simplifyExpr(e hir.Expr) hir.Expr {
	switch ex := e.(type) {
	case *hir.Lit, *hir.Sym:
		return ex

	case *hir.Ctor:
		var arg hir.Expr
		if ex.Arg != nil {
			arg = simplifyExpr(ex.Arg)
		}
		return hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg)

	case *hir.BinOp:
		return hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, simplifyExpr(ex.L), simplifyExpr(ex.R))

	case *hir.BuiltinCall:
		return hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, simplifyExprs(ex.Args))

	case *hir.ExternCall:
		return hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, simplifyExprs(ex.Args))

	case *hir.App:
		return hir.NewApp(ex.Position(), ex.Type(), simplifyExpr(ex.Fun), simplifyExpr(ex.Arg))

	case *hir.Tuple:
		return hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, simplifyExprs(ex.Elems))

	case *hir.Proj:
		return hir.NewProj(ex.Position(), ex.Type(), simplifyExpr(ex.Tuple), ex.Index)

	case *hir.Fun:
		body := simplifyExpr(ex.Body)
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), ex.Captures)

	case *hir.Closure:
		return ex

	case *hir.Case:
		arms := make([]hir.Arm, len(ex.Arms))
		for i, arm := range ex.Arms {
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: simplifyExpr(arm.Expr)}
		}
		return hir.NewCase(ex.Position(), ex.Type(), simplifyExpr(ex.Scrutinee), arms)

	case *hir.Binds:
		return simplifyBinds(ex)

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in Simplify: %T", e))
	}
}

func simplifyExprs(es []hir.Expr) []hir.Expr {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		out[i] = simplifyExpr(e)
	}
	return out
}

// simplifyBinds processes a Binds' bindings in order, accumulating a
// substitution for every rename it finds so later bindings (and the
// final Ret) see the fully-resolved target rather than the dropped name.
func simplifyBinds(ex *hir.Binds) hir.Expr {
	s := subst{}
	var kept []hir.Bind
	for _, b := range ex.Binds {
		rhs := simplifyExpr(substituteSym(b.Expr, s))
		if rename, ok := rhs.(*hir.Sym); ok && !b.Rec {
			s[b.Name.ID] = rename.Name
			continue
		}
		kept = append(kept, hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: rhs})
	}
	ret := simplifyExpr(substituteSym(ex.Ret, s))
	if len(kept) == 0 {
		return ret
	}
	return hir.NewBinds(ex.Position(), ex.Type(), kept, ret)
}

// substituteSym rewrites every Sym reference in e according to s,
// resolving through any chain of renames. Binders that shadow a name in s
// (a Fun parameter, a Binds name, a pattern-bound arm variable) stop the
// substitution from applying to the rest of their scope, matching the
// scoping Rename established — this cannot arise for the specific renames
// Simplify introduces (CaseSimplify never reuses a bound scrutinee's name
// as an inner binder), but the check costs nothing and keeps the helper
// correct standalone.
func substituteSym(e hir.Expr, s subst) hir.Expr {
	if len(s) == 0 {
		return e
	}
	switch ex := e.(type) {
	case *hir.Lit:
		return ex

	case *hir.Sym:
		resolved := s.resolve(ex.Name)
		if resolved.Equals(ex.Name) {
			return ex
		}
		return hir.NewSym(ex.Position(), ex.Type(), resolved)

	case *hir.Ctor:
		var arg hir.Expr
		if ex.Arg != nil {
			arg = substituteSym(ex.Arg, s)
		}
		return hir.NewCtor(ex.Position(), ex.Type(), ex.Name, arg)

	case *hir.BinOp:
		return hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, substituteSym(ex.L, s), substituteSym(ex.R, s))

	case *hir.BuiltinCall:
		return hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, substituteSymAll(ex.Args, s))

	case *hir.ExternCall:
		return hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, substituteSymAll(ex.Args, s))

	case *hir.App:
		return hir.NewApp(ex.Position(), ex.Type(), substituteSym(ex.Fun, s), substituteSym(ex.Arg, s))

	case *hir.Tuple:
		return hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, substituteSymAll(ex.Elems, s))

	case *hir.Proj:
		return hir.NewProj(ex.Position(), ex.Type(), substituteSym(ex.Tuple, s), ex.Index)

	case *hir.Fun:
		inner := withoutKey(s, ex.Param.ID)
		body := substituteSym(ex.Body, inner)
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), ex.Captures)

	case *hir.Closure:
		return ex

	case *hir.Case:
		scrutinee := substituteSym(ex.Scrutinee, s)
		arms := make([]hir.Arm, len(ex.Arms))
		for i, arm := range ex.Arms {
			inner := withoutPatternBinder(s, arm.Pattern)
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: substituteSym(arm.Expr, inner)}
		}
		return hir.NewCase(ex.Position(), ex.Type(), scrutinee, arms)

	case *hir.Binds:
		binds := make([]hir.Bind, len(ex.Binds))
		inner := s
		for i, b := range ex.Binds {
			binds[i] = hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: substituteSym(b.Expr, inner)}
			inner = withoutKey(inner, b.Name.ID)
		}
		return hir.NewBinds(ex.Position(), ex.Type(), binds, substituteSym(ex.Ret, inner))

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in substituteSym: %T", e))
	}
}

func substituteSymAll(es []hir.Expr, s subst) []hir.Expr {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		out[i] = substituteSym(e, s)
	}
	return out
}

func withoutKey(s subst, id uint64) subst {
	if _, ok := s[id]; !ok {
		return s
	}
	out := make(subst, len(s))
	for k, v := range s {
		if k != id {
			out[k] = v
		}
	}
	return out
}

func withoutPatternBinder(s subst, pat hir.SimplePattern) subst {
	switch p := pat.(type) {
	case hir.VariablePattern:
		return withoutKey(s, p.Sym.ID)
	case hir.ConstructorPattern:
		if p.Arg != nil {
			return withoutKey(s, p.Arg.ID)
		}
	}
	return s
}
