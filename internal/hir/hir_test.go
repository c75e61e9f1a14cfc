package hir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/types"
)

func TestCaseArmsAcceptEveryPatternKind(t *testing.T) {
	sym := ast.Symbol{Name: "n", ID: 1}
	scrutinee := hir.NewSym(ast.Pos{}, types.Int, sym)
	arms := []hir.Arm{
		{Pattern: hir.ConstructorPattern{Name: "A"}, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 0)},
		{Pattern: hir.ConstructorPattern{Name: "B", Arg: &sym}, Expr: scrutinee},
		{Pattern: hir.LiteralPattern{Kind: ast.IntLit, Value: 3}, Expr: scrutinee},
		{Pattern: hir.VariablePattern{Sym: sym}, Expr: scrutinee},
		{Pattern: hir.WildcardPattern{}, Expr: scrutinee},
	}
	c := hir.NewCase(ast.Pos{}, types.Int, scrutinee, arms)
	require.Len(t, c.Arms, 5)
	require.Equal(t, types.Int, c.Type())
}

func TestClosureCarriesDeterministicFreeVarOrder(t *testing.T) {
	fn := ast.Symbol{Name: "f", ID: 7}
	free := []ast.Symbol{{Name: "x", ID: 2}, {Name: "y", ID: 3}}
	cl := hir.NewClosure(ast.Pos{}, &types.Fun{Param: types.Int, Ret: types.Int}, fn, free)
	require.Equal(t, fn, cl.Fun)
	require.Equal(t, free, cl.FreeVars)
}

func TestProjReadsTupleComponent(t *testing.T) {
	tupTy := &types.Tuple{Elems: []types.Type{types.Int, types.Char}}
	tuple := hir.NewTuple(ast.Pos{}, tupTy, tupTy.Elems, []hir.Expr{
		hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 1),
		hir.NewLit(ast.Pos{}, types.Char, ast.CharLit, 'a'),
	})
	p := hir.NewProj(ast.Pos{}, types.Char, tuple, 1)
	require.Equal(t, 1, p.Index)
	require.Equal(t, types.Char, p.Type())
}
