package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/lower"
	"github.com/wasmc/wasmc/internal/sid"
	"github.com/wasmc/wasmc/internal/types"
)

func TestFlatExprLiftsNestedBinOpOperand(t *testing.T) {
	// (1 + 2) + 3 — the left operand of the outer + is itself a BinOp, so
	// FlatExpr must lift it into its own binding before the outer BinOp
	// can reference it as a bare Sym.
	inner := hir.NewBinOp(ast.Pos{}, types.Int, "+",
		hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 1),
		hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 2))
	outer := hir.NewBinOp(ast.Pos{}, types.Int, "+", inner, hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 3))

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "r", ID: 1}, Ty: types.Int, Expr: outer}}}
	out := lower.FlatExpr(prog, sid.NewCounter())

	binds, ok := out.Vals[0].Expr.(*hir.Binds)
	require.True(t, ok, "lifting the inner BinOp must introduce a Binds, got %T", out.Vals[0].Expr)
	require.Len(t, binds.Binds, 1)

	_, innerIsBinOp := binds.Binds[0].Expr.(*hir.BinOp)
	require.True(t, innerIsBinOp)

	outerBinOp, ok := binds.Ret.(*hir.BinOp)
	require.True(t, ok)
	lSym, ok := outerBinOp.L.(*hir.Sym)
	require.True(t, ok, "the outer BinOp's left operand must become a Sym referencing the lifted temporary")
	require.Equal(t, binds.Binds[0].Name, lSym.Name)
}

func TestFlatExprPreservesLeftToRightOrder(t *testing.T) {
	left := hir.NewBinOp(ast.Pos{}, types.Int, "+",
		hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 1), hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 2))
	right := hir.NewBinOp(ast.Pos{}, types.Int, "*",
		hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 3), hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 4))
	tuple := hir.NewTuple(ast.Pos{}, &types.Tuple{Elems: []types.Type{types.Int, types.Int}},
		[]types.Type{types.Int, types.Int}, []hir.Expr{left, right})

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "p", ID: 1}, Ty: tuple.Type(), Expr: tuple}}}
	out := lower.FlatExpr(prog, sid.NewCounter())

	binds, ok := out.Vals[0].Expr.(*hir.Binds)
	require.True(t, ok)
	require.Len(t, binds.Binds, 2)

	_, firstIsAdd := binds.Binds[0].Expr.(*hir.BinOp)
	require.True(t, firstIsAdd)
	require.Equal(t, "+", binds.Binds[0].Expr.(*hir.BinOp).Name)
	require.Equal(t, "*", binds.Binds[1].Expr.(*hir.BinOp).Name)
}

func TestFlatLetSplicesNestedBinds(t *testing.T) {
	// let x = (let a = 1 in a) in x + 2
	innerBind := hir.Bind{Name: ast.Symbol{Name: "a", ID: 1}, Ty: types.Int, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 1)}
	innerBinds := hir.NewBinds(ast.Pos{}, types.Int, []hir.Bind{innerBind}, hir.NewSym(ast.Pos{}, types.Int, innerBind.Name))

	outerBind := hir.Bind{Name: ast.Symbol{Name: "x", ID: 2}, Ty: types.Int, Expr: innerBinds}
	ret := hir.NewBinOp(ast.Pos{}, types.Int, "+", hir.NewSym(ast.Pos{}, types.Int, outerBind.Name), hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 2))
	outerBinds := hir.NewBinds(ast.Pos{}, types.Int, []hir.Bind{outerBind}, ret)

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "r", ID: 3}, Ty: types.Int, Expr: outerBinds}}}
	out := lower.FlatLet(prog)

	spliced, ok := out.Vals[0].Expr.(*hir.Binds)
	require.True(t, ok)
	require.Len(t, spliced.Binds, 2, "the nested Binds' own binding must be pulled into the outer Binds")
	require.Equal(t, "a", spliced.Binds[0].Name.Name)
	require.Equal(t, "x", spliced.Binds[1].Name.Name)

	_, retIsBinds := spliced.Ret.(*hir.Binds)
	require.False(t, retIsBinds, "FlatLet's result invariant: a Binds' Ret is never itself a Binds")
}

func TestSimplifyInlinesDeadSingleUseRename(t *testing.T) {
	y := ast.Symbol{Name: "y", ID: 1}
	x := ast.Symbol{Name: "x", ID: 2}
	bind := hir.Bind{Name: x, Ty: types.Int, Expr: hir.NewSym(ast.Pos{}, types.Int, y)}
	ret := hir.NewSym(ast.Pos{}, types.Int, x)
	binds := hir.NewBinds(ast.Pos{}, types.Int, []hir.Bind{bind}, ret)

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "r", ID: 3}, Ty: types.Int, Expr: binds}}}
	out := lower.Simplify(prog)

	sym, ok := out.Vals[0].Expr.(*hir.Sym)
	require.True(t, ok, "a Binds whose only binding is a rename must disappear entirely, got %T", out.Vals[0].Expr)
	require.Equal(t, y, sym.Name)
}
