package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/typecheck"
	"github.com/wasmc/wasmc/internal/types"
)

func boolDatatype() *ast.Datatype {
	return &ast.Datatype{Name: "bool", Constructors: []ast.CtorDecl{{Name: "true"}, {Name: "false"}}}
}

func TestInferArithmeticIsRestrictedToInt(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "x", ID: 1}},
			Expr: &ast.BuiltinCall{Fun: "+", Args: []ast.Expr{
				&ast.Literal{Kind: ast.IntLit, Value: 1},
				&ast.BuiltinCall{Fun: "*", Args: []ast.Expr{
					&ast.Literal{Kind: ast.IntLit, Value: 2},
					&ast.Literal{Kind: ast.IntLit, Value: 3},
				}},
			}},
		},
	}}
	sink := errors.NewSink()
	out, cerr := typecheck.Run(prog, sink)
	require.Nil(t, cerr)
	val := out.Decls[0].(*ast.Val)
	require.Equal(t, types.Int, val.Expr.Type())
}

func TestInferRejectsIntPlusBool(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		boolDatatype(),
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "x", ID: 1}},
			Expr: &ast.BuiltinCall{Fun: "+", Args: []ast.Expr{
				&ast.Literal{Kind: ast.IntLit, Value: 1},
				&ast.Constructor{Name: "true"},
			}},
		},
	}}
	_, cerr := typecheck.Run(prog, errors.NewSink())
	require.NotNil(t, cerr)
	require.Equal(t, errors.Mismatch, cerr.Code)
}

func TestInferIdentityIsGeneralized(t *testing.T) {
	// val id = fn x => x; val a = id 1; val b = id true
	prog := &ast.Program{Decls: []ast.Decl{
		boolDatatype(),
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "id", ID: 1}},
			Expr:    &ast.Fn{Param: ast.Symbol{Name: "x", ID: 2}, Body: &ast.SymbolRef{Sym: ast.Symbol{Name: "x", ID: 2}}},
		},
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "a", ID: 3}},
			Expr:    &ast.App{Fun: &ast.SymbolRef{Sym: ast.Symbol{Name: "id", ID: 1}}, Arg: &ast.Literal{Kind: ast.IntLit, Value: 1}},
		},
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "b", ID: 4}},
			Expr:    &ast.App{Fun: &ast.SymbolRef{Sym: ast.Symbol{Name: "id", ID: 1}}, Arg: &ast.Constructor{Name: "true"}},
		},
	}}
	out, cerr := typecheck.Run(prog, errors.NewSink())
	require.Nil(t, cerr)
	a := out.Decls[2].(*ast.Val)
	b := out.Decls[3].(*ast.Val)
	require.Equal(t, types.Int, a.Expr.Type())
	require.Equal(t, &types.Datatype{Name: "bool"}, b.Expr.Type())
}

func TestInferRecursiveFactorial(t *testing.T) {
	// val rec f = fn n => if n = 0 then 1 else n * f (n - 1)
	one := &ast.Literal{Kind: ast.IntLit, Value: 1}
	zero := &ast.Literal{Kind: ast.IntLit, Value: 0}
	nRef := func() *ast.SymbolRef { return &ast.SymbolRef{Sym: ast.Symbol{Name: "n", ID: 2}} }
	fRef := &ast.SymbolRef{Sym: ast.Symbol{Name: "f", ID: 1}}

	body := &ast.Case{
		Cond: &ast.BuiltinCall{Fun: "=", Args: []ast.Expr{nRef(), zero}},
		Clauses: []ast.CaseClause{
			{Pattern: &ast.ConstructorPattern{Name: "true"}, Expr: one},
			{Pattern: &ast.ConstructorPattern{Name: "false"}, Expr: &ast.BuiltinCall{Fun: "*", Args: []ast.Expr{
				nRef(),
				&ast.App{Fun: fRef, Arg: &ast.BuiltinCall{Fun: "-", Args: []ast.Expr{nRef(), one}}},
			}}},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{
		boolDatatype(),
		&ast.Val{
			Rec:     true,
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "f", ID: 1}},
			Expr:    &ast.Fn{Param: ast.Symbol{Name: "n", ID: 2}, Body: body},
		},
	}}
	out, cerr := typecheck.Run(prog, errors.NewSink())
	require.Nil(t, cerr)
	val := out.Decls[1].(*ast.Val)
	fn := val.Expr.(*ast.Fn)
	require.Equal(t, types.Int, fn.Type().(*types.Fun).Param)
	require.Equal(t, types.Int, fn.Type().(*types.Fun).Ret)
}

func TestInferConstructorArityMismatch(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Datatype{Name: "option", Constructors: []ast.CtorDecl{{Name: "None"}, {Name: "Some", Arg: types.Int}}},
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "bad", ID: 1}},
			Expr:    &ast.Constructor{Name: "None", Arg: &ast.Literal{Kind: ast.IntLit, Value: 1}},
		},
	}}
	_, cerr := typecheck.Run(prog, errors.NewSink())
	require.NotNil(t, cerr)
	require.Equal(t, errors.ConstructorArityMismatch, cerr.Code)
}

func TestInferAppOnNonFunction(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "bad", ID: 1}},
			Expr:    &ast.App{Fun: &ast.Literal{Kind: ast.IntLit, Value: 1}, Arg: &ast.Literal{Kind: ast.IntLit, Value: 2}},
		},
	}}
	_, cerr := typecheck.Run(prog, errors.NewSink())
	require.NotNil(t, cerr)
	require.Equal(t, errors.NotAFunction, cerr.Code)
}

func TestInferExternCallUsesDeclaredSignature(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{
			Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "_", ID: 1}},
			Expr: &ast.ExternCall{
				Module: "js-ffi", Fun: "print",
				Args:  []ast.Expr{&ast.Literal{Kind: ast.IntLit, Value: 42}},
				ArgTy: []types.Type{types.Int},
				RetTy: &types.Tuple{},
			},
		},
	}}
	out, cerr := typecheck.Run(prog, errors.NewSink())
	require.Nil(t, cerr)
	val := out.Decls[0].(*ast.Val)
	require.Equal(t, &types.Tuple{}, val.Expr.Type())
}
