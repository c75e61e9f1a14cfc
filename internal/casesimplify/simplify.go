// Package casesimplify compiles arbitrarily nested case patterns into a
// decision tree of single-constructor tests (spec.md §4.2), grounded on the
// pattern-matrix algorithm of internal/dtree/decision_tree.go
// (matchRow/compileMatrix/buildSwitch/specializeRows), generalized with
// leftmost-non-wildcard column selection, tuple-Proj expansion, and an
// exhaustiveness/redundancy warning channel the teacher's FailNode has no
// equivalent of.
package casesimplify

import (
	"fmt"
	"sort"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/config"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/sid"
	"github.com/wasmc/wasmc/internal/typecheck"
	"github.com/wasmc/wasmc/internal/types"
)

// column is one position of the pending pattern matrix: the expression that
// reads the scrutinee value at this position, and its resolved type.
type column struct {
	Scrutinee ast.Expr
	Typ       types.Type
}

// row is one pending match arm: one pattern per column, plus the (already
// recursively simplified) body it dispatches to.
type row struct {
	cols     []ast.Pattern
	body     ast.Expr
	armIndex int
}

type compiler struct {
	ctors     typecheck.CtorTable
	datatypes map[string][]string // datatype name -> constructor names in tag order
	cfg       config.Config
	sink      *errors.Sink
	src       sid.Source
}

// Run rewrites every Case in prog so each individual Case node tests
// exactly one thing (a literal, a constructor tag with a variable-only
// payload bind, or is a default/wildcard dispatch); TuplePattern columns are
// eliminated via synthesized Proj reads.
func Run(prog *ast.Program, src sid.Source, cfg config.Config, sink *errors.Sink) (*ast.Program, *errors.CompileError) {
	c := &compiler{
		ctors: typecheck.BuildCtorTable(prog),
		cfg:   cfg,
		sink:  sink,
		src:   src,
	}
	c.datatypes = datatypeCtorNames(c.ctors)

	out := &ast.Program{}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.Datatype:
			out.Decls = append(out.Decls, decl)
		case *ast.Val:
			expr, err := c.simplifyExpr(decl.Expr)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, &ast.Val{DeclPos: decl.DeclPos, Pattern: decl.Pattern, Expr: expr, Rec: decl.Rec})
		default:
			return nil, errors.New(errors.Internal, d.Position().String(), fmt.Sprintf("unexpected declaration kind in CaseSimplify: %T", d))
		}
	}
	return out, nil
}

func datatypeCtorNames(ctors typecheck.CtorTable) map[string][]string {
	type tagged struct {
		name string
		tag  int
	}
	byType := make(map[string][]tagged)
	for name, info := range ctors {
		byType[info.Datatype] = append(byType[info.Datatype], tagged{name, info.Tag})
	}
	out := make(map[string][]string, len(byType))
	for dt, cs := range byType {
		sort.Slice(cs, func(i, j int) bool { return cs[i].tag < cs[j].tag })
		names := make([]string, len(cs))
		for i, c := range cs {
			names[i] = c.name
		}
		out[dt] = names
	}
	return out
}

// simplifyExpr recurses through every expression kind, rewriting each Case
// it finds (post-order: nested cases are simplified before the enclosing
// one is matrix-compiled).
func (c *compiler) simplifyExpr(e ast.Expr) (ast.Expr, *errors.CompileError) {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex, nil

	case *ast.SymbolRef:
		return ex, nil

	case *ast.Proj:
		tup, err := c.simplifyExpr(ex.Tuple)
		if err != nil {
			return nil, err
		}
		return ast.NewProj(ex.Position(), ex.Type(), tup, ex.Index), nil

	case *ast.Constructor:
		if ex.Arg == nil {
			return ex, nil
		}
		arg, err := c.simplifyExpr(ex.Arg)
		if err != nil {
			return nil, err
		}
		return ast.NewConstructor(ex.Position(), ex.Type(), ex.Name, arg), nil

	case *ast.Fn:
		body, err := c.simplifyExpr(ex.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewFn(ex.Position(), ex.Type(), ex.Param, body), nil

	case *ast.App:
		fn, err := c.simplifyExpr(ex.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := c.simplifyExpr(ex.Arg)
		if err != nil {
			return nil, err
		}
		return ast.NewApp(ex.Position(), ex.Type(), fn, arg), nil

	case *ast.BuiltinCall:
		args, err := c.simplifyExprs(ex.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, args), nil

	case *ast.ExternCall:
		args, err := c.simplifyExprs(ex.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, args, ex.ArgTy, ex.RetTy), nil

	case *ast.Tuple:
		elems, err := c.simplifyExprs(ex.Elems)
		if err != nil {
			return nil, err
		}
		return ast.NewTuple(ex.Position(), ex.Type(), elems), nil

	case *ast.Binds:
		binds := make([]ast.LocalBind, len(ex.BindsList))
		for i, b := range ex.BindsList {
			v, err := c.simplifyExpr(b.Expr)
			if err != nil {
				return nil, err
			}
			binds[i] = ast.LocalBind{Pattern: b.Pattern, Expr: v, Rec: b.Rec}
		}
		ret, err := c.simplifyExpr(ex.Ret)
		if err != nil {
			return nil, err
		}
		return ast.NewBinds(ex.Position(), ex.Type(), binds, ret), nil

	case *ast.Case:
		return c.simplifyCase(ex)

	default:
		return nil, errors.New(errors.Internal, e.Position().String(), fmt.Sprintf("unexpected expression kind in CaseSimplify: %T", e))
	}
}

func (c *compiler) simplifyExprs(es []ast.Expr) ([]ast.Expr, *errors.CompileError) {
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		ne, err := c.simplifyExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = ne
	}
	return out, nil
}

func (c *compiler) simplifyCase(ex *ast.Case) (ast.Expr, *errors.CompileError) {
	cond, err := c.simplifyExpr(ex.Cond)
	if err != nil {
		return nil, err
	}

	rows := make([]row, len(ex.Clauses))
	for i, cl := range ex.Clauses {
		body, err := c.simplifyExpr(cl.Expr)
		if err != nil {
			return nil, err
		}
		rows[i] = row{cols: []ast.Pattern{cl.Pattern}, body: body, armIndex: i}
	}

	cols := []column{{Scrutinee: cond, Typ: cond.Type()}}
	return c.compileMatrix(cols, rows, ex.Position(), ex.Type())
}
