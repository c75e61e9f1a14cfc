package typecheck

import "github.com/wasmc/wasmc/internal/ast"

// zonk walks every node of prog and replaces its stored type with the
// pool's final resolution of it. Eager unification means a node's type can
// still contain a free variable at the moment it is first stored (that
// variable is only pinned down by a later constraint elsewhere in the same
// program); zonking after inference completes is what makes every node's
// Type() trustworthy for the passes downstream of the Typer.
func (tc *Infer) zonk(prog *ast.Program) {
	for _, d := range prog.Decls {
		if v, ok := d.(*ast.Val); ok {
			tc.zonkPattern(v.Pattern)
			tc.zonkExpr(v.Expr)
		}
	}
}

func (tc *Infer) zonkExpr(e ast.Expr) {
	if e == nil {
		return
	}
	e.SetType(tc.pool.Apply(e.Type()))

	switch ex := e.(type) {
	case *ast.Constructor:
		tc.zonkExpr(ex.Arg)
	case *ast.Fn:
		tc.zonkExpr(ex.Body)
	case *ast.App:
		tc.zonkExpr(ex.Fun)
		tc.zonkExpr(ex.Arg)
	case *ast.BuiltinCall:
		for _, a := range ex.Args {
			tc.zonkExpr(a)
		}
	case *ast.ExternCall:
		for _, a := range ex.Args {
			tc.zonkExpr(a)
		}
	case *ast.Tuple:
		for _, el := range ex.Elems {
			tc.zonkExpr(el)
		}
	case *ast.Case:
		tc.zonkExpr(ex.Cond)
		for _, c := range ex.Clauses {
			tc.zonkPattern(c.Pattern)
			tc.zonkExpr(c.Expr)
		}
	case *ast.Binds:
		for _, b := range ex.BindsList {
			tc.zonkPattern(b.Pattern)
			tc.zonkExpr(b.Expr)
		}
		tc.zonkExpr(ex.Ret)
	}
}

func (tc *Infer) zonkPattern(p ast.Pattern) {
	if p == nil {
		return
	}
	p.SetType(tc.pool.Apply(p.Type()))

	switch pat := p.(type) {
	case *ast.ConstructorPattern:
		tc.zonkPattern(pat.Arg)
	case *ast.TuplePattern:
		for _, el := range pat.Elems {
			tc.zonkPattern(el)
		}
	}
}
