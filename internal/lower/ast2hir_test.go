package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/lower"
	"github.com/wasmc/wasmc/internal/types"
)

func TestAST2HIRLowersLiteralsAndBinOp(t *testing.T) {
	lit1 := ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 1)
	lit2 := ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 2)
	add := ast.NewBuiltinCall(ast.Pos{}, types.Int, "+", []ast.Expr{lit1, lit2})

	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "x", ID: 1}), Expr: add},
	}}

	out, err := lower.AST2HIR(prog)
	require.Nil(t, err)
	require.Len(t, out.Vals, 1)

	binop, ok := out.Vals[0].Expr.(*hir.BinOp)
	require.True(t, ok, "a 2-arg builtin call must lower to BinOp, got %T", out.Vals[0].Expr)
	require.Equal(t, "+", binop.Name)
}

func TestAST2HIRLowersTupleAndProj(t *testing.T) {
	lit := ast.NewLiteral(ast.Pos{}, types.Char, ast.CharLit, 'a')
	tuple := ast.NewTuple(ast.Pos{}, &types.Tuple{Elems: []types.Type{types.Int, types.Char}},
		[]ast.Expr{ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 1), lit})
	proj := ast.NewProj(ast.Pos{}, types.Char, tuple, 1)

	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Char, ast.Symbol{Name: "y", ID: 1}), Expr: proj},
	}}

	out, err := lower.AST2HIR(prog)
	require.Nil(t, err)

	hproj, ok := out.Vals[0].Expr.(*hir.Proj)
	require.True(t, ok)
	require.Equal(t, 1, hproj.Index)
	htuple, ok := hproj.Tuple.(*hir.Tuple)
	require.True(t, ok)
	require.Len(t, htuple.Elems, 2)
}

func TestAST2HIRLowersConstructorToCtorNode(t *testing.T) {
	optTy := &types.Datatype{Name: "option"}
	ctor := ast.NewConstructor(ast.Pos{}, optTy, "Some", ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 5))

	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, optTy, ast.Symbol{Name: "o", ID: 1}), Expr: ctor},
	}}

	out, err := lower.AST2HIR(prog)
	require.Nil(t, err)

	hctor, ok := out.Vals[0].Expr.(*hir.Ctor)
	require.True(t, ok, "AST2HIR must leave constructor uses as hir.Ctor for ConstructorToEnum, got %T", out.Vals[0].Expr)
	require.Equal(t, "Some", hctor.Name)
	require.NotNil(t, hctor.Arg)
}

func TestAST2HIRLowersCaseArmsToMatchingSimplePatternKinds(t *testing.T) {
	sym := ast.Symbol{Name: "n", ID: 1}
	scrutinee := ast.NewSymbolRef(ast.Pos{}, types.Int, sym)
	cond := ast.NewSymbolRef(ast.Pos{}, types.Int, sym)

	clause1 := ast.CaseClause{Pattern: ast.NewConstantPattern(ast.Pos{}, types.Int, ast.IntLit, 0), Expr: cond}
	clause2 := ast.CaseClause{Pattern: ast.NewWildcardPattern(ast.Pos{}, types.Int), Expr: cond}
	caseExpr := ast.NewCase(ast.Pos{}, types.Int, scrutinee, []ast.CaseClause{clause1, clause2})

	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{Pattern: ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "f", ID: 2}), Expr: caseExpr},
	}}

	out, err := lower.AST2HIR(prog)
	require.Nil(t, err)

	hcase, ok := out.Vals[0].Expr.(*hir.Case)
	require.True(t, ok)
	require.Len(t, hcase.Arms, 2)

	_, lit := hcase.Arms[0].Pattern.(hir.LiteralPattern)
	require.True(t, lit)
	_, wild := hcase.Arms[1].Pattern.(hir.WildcardPattern)
	require.True(t, wild)
}

func TestAST2HIRRejectsDestructuringTopLevelPattern(t *testing.T) {
	tuplePat := ast.NewTuplePattern(ast.Pos{}, &types.Tuple{Elems: []types.Type{types.Int, types.Int}}, []ast.Pattern{
		ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "a", ID: 1}),
		ast.NewVariablePattern(ast.Pos{}, types.Int, ast.Symbol{Name: "b", ID: 2}),
	})
	tuple := ast.NewTuple(ast.Pos{}, &types.Tuple{Elems: []types.Type{types.Int, types.Int}}, []ast.Expr{
		ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 1),
		ast.NewLiteral(ast.Pos{}, types.Int, ast.IntLit, 2),
	})
	prog := &ast.Program{Decls: []ast.Decl{&ast.Val{Pattern: tuplePat, Expr: tuple}}}

	_, err := lower.AST2HIR(prog)
	require.NotNil(t, err)
}
