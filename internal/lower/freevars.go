package lower

import (
	"fmt"
	"sort"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
)

// symbolSet is a free-variable accumulator keyed by Symbol ID (unique post
// Rename), carrying the Symbol value alongside so callers can recover
// (Name, ID) without a second lookup.
type symbolSet map[uint64]ast.Symbol

func (s symbolSet) add(sym ast.Symbol)    { s[sym.ID] = sym }
func (s symbolSet) remove(sym ast.Symbol) { delete(s, sym.ID) }
func (s symbolSet) union(o symbolSet) {
	for id, sym := range o {
		s[id] = sym
	}
}

// sortedSymbols returns s's members ordered by (Name, ID), the
// deterministic order spec.md §4.5 requires for environment-record layout.
func sortedSymbols(s symbolSet) []ast.Symbol {
	out := make([]ast.Symbol, 0, len(s))
	for _, sym := range s {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// freeVars computes the free variables of e by bottom-up traversal,
// subtracting binders at each Binds, Fun, and Case arm (spec.md §4.5).
func freeVars(e hir.Expr) symbolSet {
	switch ex := e.(type) {
	case *hir.Lit:
		return symbolSet{}

	case *hir.Sym:
		return symbolSet{ex.Name.ID: ex.Name}

	case *hir.Ctor:
		if ex.Arg == nil {
			return symbolSet{}
		}
		return freeVars(ex.Arg)

	case *hir.BinOp:
		fv := freeVars(ex.L)
		fv.union(freeVars(ex.R))
		return fv

	case *hir.BuiltinCall:
		return freeVarsAll(ex.Args)

	case *hir.ExternCall:
		return freeVarsAll(ex.Args)

	case *hir.App:
		fv := freeVars(ex.Fun)
		fv.union(freeVars(ex.Arg))
		return fv

	case *hir.Tuple:
		return freeVarsAll(ex.Elems)

	case *hir.Proj:
		return freeVars(ex.Tuple)

	case *hir.Fun:
		fv := freeVars(ex.Body)
		fv.remove(ex.Param)
		return fv

	case *hir.Closure:
		fv := symbolSet{}
		for _, v := range ex.FreeVars {
			fv.add(v)
		}
		return fv

	case *hir.Case:
		fv := freeVars(ex.Scrutinee)
		for _, arm := range ex.Arms {
			armFv := freeVars(arm.Expr)
			for _, bound := range patternBinders(arm.Pattern) {
				armFv.remove(bound)
			}
			fv.union(armFv)
		}
		return fv

	case *hir.Binds:
		// Each binding's RHS sees only the binders introduced strictly
		// before it (this language has no forward reference except
		// through an explicit Rec binding, whose own name is therefore
		// subtracted from its own RHS's free set too).
		fv := symbolSet{}
		bound := symbolSet{}
		for _, b := range ex.Binds {
			rhsFv := freeVars(b.Expr)
			if b.Rec {
				rhsFv.remove(b.Name)
			}
			for id := range bound {
				delete(rhsFv, id)
			}
			fv.union(rhsFv)
			bound.add(b.Name)
		}
		retFv := freeVars(ex.Ret)
		for id := range bound {
			delete(retFv, id)
		}
		fv.union(retFv)
		return fv

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in freeVars: %T", e))
	}
}

func freeVarsAll(es []hir.Expr) symbolSet {
	fv := symbolSet{}
	for _, e := range es {
		fv.union(freeVars(e))
	}
	return fv
}

// patternBinders lists the names a single SimplePattern introduces into its
// arm's scope.
func patternBinders(pat hir.SimplePattern) []ast.Symbol {
	switch p := pat.(type) {
	case hir.VariablePattern:
		return []ast.Symbol{p.Sym}
	case hir.ConstructorPattern:
		if p.Arg != nil {
			return []ast.Symbol{*p.Arg}
		}
	}
	return nil
}
