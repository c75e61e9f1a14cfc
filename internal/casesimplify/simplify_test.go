package casesimplify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/casesimplify"
	"github.com/wasmc/wasmc/internal/config"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/sid"
	"github.com/wasmc/wasmc/internal/types"
)

func tDatatype() *ast.Datatype {
	return &ast.Datatype{
		Name: "t",
		Constructors: []ast.CtorDecl{
			{Name: "A"},
			{Name: "B", Arg: types.Int},
		},
	}
}

// case (B 3) of A => 0 | B n => n + 1
func TestExhaustiveConstructorMatchCompiles(t *testing.T) {
	dt := &types.Datatype{Name: "t"}
	nSym := ast.Symbol{Name: "n", ID: 100}

	cond := ast.NewConstructor(ast.Pos{}, dt, "B", ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 3))
	body := ast.NewBuiltinCall(ast.Pos{}, types.Int, "+", []ast.Expr{
		ast.NewSymbolRef(ast.Pos{}, types.Int, nSym),
		ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 1),
	})
	caseExpr := ast.NewCase(ast.Pos{}, types.Int, cond, []ast.CaseClause{
		{Pattern: ast.NewConstructorPattern(ast.Pos{}, dt, "A", nil), Expr: ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 0)},
		{Pattern: ast.NewConstructorPattern(ast.Pos{}, dt, "B", ast.NewVariablePattern(ast.Pos{}, types.Int, nSym)), Expr: body},
	})

	prog := &ast.Program{Decls: []ast.Decl{
		tDatatype(),
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "main", ID: 1}), Expr: caseExpr},
	}}

	sink := errors.NewSink()
	out, err := casesimplify.Run(prog, sid.NewCounter(), config.Default(), sink)
	require.Nil(t, err)
	require.Empty(t, sink.Warnings)
	require.Len(t, out.Decls, 2)

	val := out.Decls[1].(*ast.Val)
	result, ok := val.Expr.(*ast.Case)
	require.True(t, ok, "expected a Case dispatching on the constructor tag, got %T", val.Expr)
	require.Len(t, result.Clauses, 2)
	for _, cl := range result.Clauses {
		ctorPat, ok := cl.Pattern.(*ast.ConstructorPattern)
		require.True(t, ok)
		if ctorPat.Name == "B" {
			_, ok := ctorPat.Arg.(*ast.VariablePattern)
			require.True(t, ok, "B's payload pattern should be a plain variable after simplification")
		} else {
			require.Nil(t, ctorPat.Arg)
		}
	}
}

// case A of A => 0   (missing B arm: should warn and synthesize a trap arm)
func TestNonExhaustiveConstructorMatchWarnsAndTraps(t *testing.T) {
	dt := &types.Datatype{Name: "t"}
	cond := ast.NewConstructor(ast.Pos{}, dt, "A", nil)
	caseExpr := ast.NewCase(ast.Pos{}, types.Int, cond, []ast.CaseClause{
		{Pattern: ast.NewConstructorPattern(ast.Pos{}, dt, "A", nil), Expr: ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 0)},
	})

	prog := &ast.Program{Decls: []ast.Decl{
		tDatatype(),
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "main", ID: 1}), Expr: caseExpr},
	}}

	sink := errors.NewSink()
	out, err := casesimplify.Run(prog, sid.NewCounter(), config.Default(), sink)
	require.Nil(t, err)
	require.Len(t, sink.Warnings, 1)
	require.Equal(t, errors.NonExhaustiveMatch, sink.Warnings[0].Code)

	val := out.Decls[1].(*ast.Val)
	result, ok := val.Expr.(*ast.Case)
	require.True(t, ok)
	require.Len(t, result.Clauses, 2)
	_, isWildcard := result.Clauses[1].Pattern.(*ast.WildcardPattern)
	require.True(t, isWildcard)
	extern, ok := result.Clauses[1].Expr.(*ast.ExternCall)
	require.True(t, ok, "default trap arm should be an ExternCall to the runtime's match-failure helper")
	require.Equal(t, "matchFailure", extern.Fun)
}

// case A of _ => 0 | A => 1   (second arm is unreachable; optimize on => warning)
func TestRedundantArmWarnsWhenOptimizeEnabled(t *testing.T) {
	dt := &types.Datatype{Name: "t"}
	cond := ast.NewConstructor(ast.Pos{}, dt, "A", nil)
	caseExpr := ast.NewCase(ast.Pos{}, types.Int, cond, []ast.CaseClause{
		{Pattern: ast.NewWildcardPattern(ast.Pos{}, dt), Expr: ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 0)},
		{Pattern: ast.NewConstructorPattern(ast.Pos{}, dt, "A", nil), Expr: ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 1)},
	})

	prog := &ast.Program{Decls: []ast.Decl{
		tDatatype(),
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "main", ID: 1}), Expr: caseExpr},
	}}

	sink := errors.NewSink()
	_, err := casesimplify.Run(prog, sid.NewCounter(), config.Default(), sink)
	require.Nil(t, err)
	require.Len(t, sink.Warnings, 1)
	require.Equal(t, errors.RedundantMatchArm, sink.Warnings[0].Code)
}

// case (1, 2) of (a, b) => a + b   (tuple pattern column eliminated via Proj)
func TestTuplePatternExpandsToProj(t *testing.T) {
	tupTy := &types.Tuple{Elems: []types.Type{types.Int, types.Int}}
	aSym := ast.Symbol{Name: "a", ID: 10}
	bSym := ast.Symbol{Name: "b", ID: 11}

	cond := ast.NewTuple(ast.Pos{}, tupTy, []ast.Expr{
		ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 1),
		ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 2),
	})
	body := ast.NewBuiltinCall(ast.Pos{}, types.Int, "+", []ast.Expr{
		ast.NewSymbolRef(ast.Pos{}, types.Int, aSym),
		ast.NewSymbolRef(ast.Pos{}, types.Int, bSym),
	})
	caseExpr := ast.NewCase(ast.Pos{}, types.Int, cond, []ast.CaseClause{
		{
			Pattern: ast.NewTuplePattern(ast.Pos{}, tupTy, []ast.Pattern{
				ast.NewVariablePattern(ast.Pos{}, types.Int, aSym),
				ast.NewVariablePattern(ast.Pos{}, types.Int, bSym),
			}),
			Expr: body,
		},
	})

	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "main", ID: 1}), Expr: caseExpr},
	}}

	sink := errors.NewSink()
	out, err := casesimplify.Run(prog, sid.NewCounter(), config.Default(), sink)
	require.Nil(t, err)
	require.Empty(t, sink.Warnings)

	val := out.Decls[0].(*ast.Val)
	binds, ok := val.Expr.(*ast.Binds)
	require.True(t, ok, "tuple expansion should surface as a Binds of two Proj reads, got %T", val.Expr)
	require.Len(t, binds.BindsList, 2)
	for i, b := range binds.BindsList {
		proj, ok := b.Expr.(*ast.Proj)
		require.True(t, ok)
		require.Equal(t, i, proj.Index)
	}

	// a and b bind the projected components in turn before body runs.
	inner, ok := binds.Ret.(*ast.Binds)
	require.True(t, ok, "expected a nested Binds rebinding a/b to the projected values, got %T", binds.Ret)
	require.Len(t, inner.BindsList, 2)
	require.Equal(t, body, inner.Ret)
}
