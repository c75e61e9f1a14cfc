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

func TestUnnestFuncLiftsInnerFunAndCapturesFreeVariable(t *testing.T) {
	// let f = fn x => fn y => x + y  -- the inner `fn y => x + y` closes
	// over `x`, so UnnestFunc must lift it to a fresh top-level Val and
	// replace it in place with a Closure naming that Val and listing `x`.
	x := ast.Symbol{Name: "x", ID: 1}
	y := ast.Symbol{Name: "y", ID: 2}
	innerBody := hir.NewBinOp(ast.Pos{}, types.Int, "+", hir.NewSym(ast.Pos{}, types.Int, x), hir.NewSym(ast.Pos{}, types.Int, y))
	innerFn := hir.NewFun(ast.Pos{}, &types.Fun{Param: types.Int, Ret: types.Int}, y, innerBody, types.Int, nil)
	outerFn := hir.NewFun(ast.Pos{}, &types.Fun{Param: types.Int, Ret: innerFn.Type()}, x, innerFn, innerFn.Type(), nil)

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "f", ID: 3}, Ty: outerFn.Type(), Rec: false, Expr: outerFn}}}
	out := lower.UnnestFunc(prog, sid.NewCounter())

	require.Len(t, out.Vals, 2, "one original Val plus one lifted Val for the inner Fun")

	topFn, ok := out.Vals[0].Expr.(*hir.Fun)
	require.True(t, ok)
	closure, ok := topFn.Body.(*hir.Closure)
	require.True(t, ok, "the inner Fun must be replaced by a Closure, got %T", topFn.Body)
	require.Equal(t, []ast.Symbol{x}, closure.FreeVars)
	require.Equal(t, out.Vals[1].Name, closure.Fun)

	liftedFn, ok := out.Vals[1].Expr.(*hir.Fun)
	require.True(t, ok, "the lifted Val's RHS must be a Fun")
	_, liftedBodyIsFun := liftedFn.Body.(*hir.Fun)
	require.True(t, liftedBodyIsFun, "lifted function parameter order is (env, original_param): curried as Fun(env)(param)")
}

func TestUnnestFuncProducesNoFreeVarsForClosedInnerFun(t *testing.T) {
	z := ast.Symbol{Name: "z", ID: 1}
	innerFn := hir.NewFun(ast.Pos{}, &types.Fun{Param: types.Int, Ret: types.Int}, z, hir.NewSym(ast.Pos{}, types.Int, z), types.Int, nil)
	outerBind := hir.Bind{Name: ast.Symbol{Name: "unused", ID: 2}, Ty: types.Int, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 0)}
	outerBody := hir.NewBinds(ast.Pos{}, innerFn.Type(), []hir.Bind{outerBind}, innerFn)
	outerFn := hir.NewFun(ast.Pos{}, &types.Fun{Param: types.Int, Ret: innerFn.Type()},
		ast.Symbol{Name: "w", ID: 3}, outerBody, outerBody.Type(), nil)

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "f", ID: 4}, Ty: outerFn.Type(), Expr: outerFn}}}
	out := lower.UnnestFunc(prog, sid.NewCounter())

	require.Len(t, out.Vals, 2)
	liftedFn := out.Vals[1].Expr.(*hir.Fun)
	// A closed inner Fun still gets curried through an (empty) env
	// parameter, for uniformity with the captured case.
	envTy := liftedFn.Type().(*types.Fun).Param.(*types.Tuple)
	require.Empty(t, envTy.Elems)
}

func TestForceClosureWrapsTopLevelFunctionReferences(t *testing.T) {
	fn := hir.NewFun(ast.Pos{}, &types.Fun{Param: types.Int, Ret: types.Int},
		ast.Symbol{Name: "n", ID: 1}, hir.NewSym(ast.Pos{}, types.Int, ast.Symbol{Name: "n", ID: 1}), types.Int, nil)
	fName := ast.Symbol{Name: "f", ID: 2}

	caller := hir.NewApp(ast.Pos{}, types.Int,
		hir.NewSym(ast.Pos{}, fn.Type(), fName), hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 5))

	prog := &hir.Program{
		Vals: []hir.Val{
			{Name: fName, Ty: fn.Type(), Expr: fn},
			{Name: ast.Symbol{Name: "r", ID: 3}, Ty: types.Int, Expr: caller},
		},
	}

	out := lower.ForceClosure(prog)

	app, ok := out.Vals[1].Expr.(*hir.App)
	require.True(t, ok)
	closure, ok := app.Fun.(*hir.Closure)
	require.True(t, ok, "a reference to a top-level function must be forced into a Closure, got %T", app.Fun)
	require.Equal(t, fName, closure.Fun)
	require.Empty(t, closure.FreeVars)
}
