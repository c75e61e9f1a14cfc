package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/lower"
	"github.com/wasmc/wasmc/internal/typecheck"
	"github.com/wasmc/wasmc/internal/types"
)

// boolTable models a nullary-only datatype: `datatype bool = True | False`.
func boolTable() typecheck.CtorTable {
	return typecheck.CtorTable{
		"True":  {Datatype: "bool", Arg: nil, Tag: 0},
		"False": {Datatype: "bool", Arg: nil, Tag: 1},
	}
}

// optionTable models a mixed datatype with one payload-carrying and one
// nullary constructor: `datatype option = Some of int | None`.
func optionTable() typecheck.CtorTable {
	return typecheck.CtorTable{
		"Some": {Datatype: "option", Arg: types.Int, Tag: 0},
		"None": {Datatype: "option", Arg: nil, Tag: 1},
	}
}

func TestConstructorToEnumCollapsesAllNullaryDatatypeToBareLit(t *testing.T) {
	boolTy := &types.Datatype{Name: "bool"}
	ctor := hir.NewCtor(ast.Pos{}, boolTy, "True", nil)
	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "x", ID: 1}, Ty: boolTy, Expr: ctor}}}

	out, err := lower.ConstructorToEnum(prog, boolTable())
	require.Nil(t, err)
	require.Len(t, out.Vals, 1)

	lit, ok := out.Vals[0].Expr.(*hir.Lit)
	require.True(t, ok, "expected bare Lit, got %T", out.Vals[0].Expr)
	require.Equal(t, 0, lit.Value)
	require.Equal(t, types.Int, lit.Type())
}

func TestConstructorToEnumGivesMixedDatatypeUniformTaggedTuple(t *testing.T) {
	optTy := &types.Datatype{Name: "option"}

	none := hir.NewCtor(ast.Pos{}, optTy, "None", nil)
	some := hir.NewCtor(ast.Pos{}, optTy, "Some", hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 7))

	prog := &hir.Program{Vals: []hir.Val{
		{Name: ast.Symbol{Name: "a", ID: 1}, Ty: optTy, Expr: none},
		{Name: ast.Symbol{Name: "b", ID: 2}, Ty: optTy, Expr: some},
	}}

	out, err := lower.ConstructorToEnum(prog, optionTable())
	require.Nil(t, err)
	require.Len(t, out.Vals, 2)

	noneTup, ok := out.Vals[0].Expr.(*hir.Tuple)
	require.True(t, ok, "None should become a tagged tuple, got %T", out.Vals[0].Expr)
	require.Len(t, noneTup.Elems, 2)
	tag0 := noneTup.Elems[0].(*hir.Lit)
	require.Equal(t, 1, tag0.Value)
	payload0 := noneTup.Elems[1].(*hir.Lit)
	require.Equal(t, 0, payload0.Value, "nullary sibling of a payload-carrying datatype needs a zero placeholder payload")

	someTup, ok := out.Vals[1].Expr.(*hir.Tuple)
	require.True(t, ok, "Some should become a tagged tuple, got %T", out.Vals[1].Expr)
	tag1 := someTup.Elems[0].(*hir.Lit)
	require.Equal(t, 0, tag1.Value)
	payload1 := someTup.Elems[1].(*hir.Lit)
	require.Equal(t, 7, payload1.Value)
}

func TestConstructorToEnumRewritesCaseOverMixedDatatype(t *testing.T) {
	optTy := &types.Datatype{Name: "option"}
	sym := ast.Symbol{Name: "n", ID: 3}

	scrutinee := hir.NewSym(ast.Pos{}, optTy, ast.Symbol{Name: "opt", ID: 1})
	caseExpr := hir.NewCase(ast.Pos{}, types.Int, scrutinee, []hir.Arm{
		{Pattern: hir.ConstructorPattern{Name: "Some", Arg: &sym}, Expr: hir.NewSym(ast.Pos{}, types.Int, sym)},
		{Pattern: hir.ConstructorPattern{Name: "None"}, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 0)},
	})

	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "f", ID: 2}, Ty: types.Int, Expr: caseExpr}}}

	out, err := lower.ConstructorToEnum(prog, optionTable())
	require.Nil(t, err)

	newCase, ok := out.Vals[0].Expr.(*hir.Case)
	require.True(t, ok)

	_, scrutineeIsProj := newCase.Scrutinee.(*hir.Proj)
	require.True(t, scrutineeIsProj, "case over a payload-carrying datatype must dispatch on the tag projection")

	require.Len(t, newCase.Arms, 2)

	somePat, ok := newCase.Arms[0].Pattern.(hir.LiteralPattern)
	require.True(t, ok)
	require.Equal(t, 0, somePat.Value)

	binds, ok := newCase.Arms[0].Expr.(*hir.Binds)
	require.True(t, ok, "payload-binding arm must wrap its body in a Binds projecting the payload")
	require.Len(t, binds.Binds, 1)
	require.Equal(t, sym, binds.Binds[0].Name)
	proj, ok := binds.Binds[0].Expr.(*hir.Proj)
	require.True(t, ok)
	require.Equal(t, 1, proj.Index)

	nonePat, ok := newCase.Arms[1].Pattern.(hir.LiteralPattern)
	require.True(t, ok)
	require.Equal(t, 1, nonePat.Value)
	_, noneHasBinds := newCase.Arms[1].Expr.(*hir.Binds)
	require.False(t, noneHasBinds, "nullary arm has no payload to bind")
}

func TestConstructorToEnumLeavesNonConstructorCaseUntouched(t *testing.T) {
	scrutinee := hir.NewSym(ast.Pos{}, types.Int, ast.Symbol{Name: "n", ID: 1})
	caseExpr := hir.NewCase(ast.Pos{}, types.Int, scrutinee, []hir.Arm{
		{Pattern: hir.LiteralPattern{Kind: ast.IntLit, Value: 3}, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 1)},
		{Pattern: hir.WildcardPattern{}, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 0)},
	})
	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "g", ID: 1}, Ty: types.Int, Expr: caseExpr}}}

	out, err := lower.ConstructorToEnum(prog, typecheck.CtorTable{})
	require.Nil(t, err)

	newCase, ok := out.Vals[0].Expr.(*hir.Case)
	require.True(t, ok)
	require.Equal(t, scrutinee, newCase.Scrutinee)
	require.Len(t, newCase.Arms, 2)
}
