package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/pretty"
	"github.com/wasmc/wasmc/internal/types"
)

func TestPrintASTRendersValAndBuiltinCall(t *testing.T) {
	lit := &ast.Literal{Kind: ast.IntLit, Value: 1}
	lit.SetType(types.Int)
	call := &ast.BuiltinCall{Fun: "+", Args: []ast.Expr{lit, lit}}
	call.SetType(types.Int)
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.Val{Pattern: &ast.VariablePattern{Sym: ast.Symbol{Name: "x", ID: 1}}, Expr: call},
	}}

	out := pretty.PrintAST(prog)
	require.Contains(t, out, "val x.1 =")
	require.Contains(t, out, "+(1, 1)")
}

func TestPrintHIRRendersNestedBindsAndCase(t *testing.T) {
	n := ast.Symbol{Name: "n", ID: 1}
	x := ast.Symbol{Name: "x", ID: 2}
	scrutinee := hir.NewSym(ast.Pos{}, types.Int, n)
	arms := []hir.Arm{
		{Pattern: hir.LiteralPattern{Kind: ast.IntLit, Value: 0}, Expr: hir.NewLit(ast.Pos{}, types.Int, ast.IntLit, 10)},
		{Pattern: hir.VariablePattern{Sym: x}, Expr: hir.NewSym(ast.Pos{}, types.Int, x)},
	}
	caseExpr := hir.NewCase(ast.Pos{}, types.Int, scrutinee, arms)
	prog := &hir.Program{Vals: []hir.Val{{Name: ast.Symbol{Name: "f", ID: 3}, Ty: types.Int, Expr: caseExpr}}}

	out := pretty.PrintHIR(prog)
	require.Contains(t, out, "val f.3 : int =")
	require.Contains(t, out, "case n.1 of")
	require.Contains(t, out, "| 0 =>")
	require.Contains(t, out, "| x.2 =>")

	// Nested lines are indented deeper than their containing case.
	lines := strings.Split(out, "\n")
	var caseIndent, armIndent int
	for i, l := range lines {
		if strings.Contains(l, "case n.1 of") {
			caseIndent = leadingSpaces(l)
		}
		if strings.Contains(l, "| 0 =>") {
			armIndent = leadingSpaces(l)
			require.Greater(t, armIndent, caseIndent)
			require.Greater(t, leadingSpaces(lines[i+1]), armIndent)
		}
	}
}

func TestPrintMIRRendersBlockWithOpsAndBranch(t *testing.T) {
	n := ast.Symbol{Name: "n", ID: 1}
	zero := ast.Symbol{Name: "z", ID: 2}
	cond := ast.Symbol{Name: "c", ID: 3}
	thenBlk := ast.Symbol{Name: "then", ID: 4}
	elseBlk := ast.Symbol{Name: "else", ID: 5}

	prog := &mir.Program{Functions: []mir.Function{{
		Name: ast.Symbol{Name: "f", ID: 6},
		Params: []mir.Param{{Sym: n, Ty: types.Int}},
		RetTy: types.Int,
		Body: []mir.EBB{{
			Name: ast.Symbol{Name: "entry", ID: 7},
			Body: []mir.Op{
				mir.Lit{Var: zero, Value: 0, Kind: ast.IntLit},
				mir.BinOp{Var: cond, Name: "=", L: n, R: zero},
			},
			Terminator: mir.Branch{Cond: cond, Then: thenBlk, Else: elseBlk},
		}},
	}}}

	out := pretty.PrintMIR(prog)
	require.Contains(t, out, "fn f.6(n.1 : int) : int")
	require.Contains(t, out, "entry.7():")
	require.Contains(t, out, "z.2 = lit 0")
	require.Contains(t, out, "c.3 = = n.1 z.2")
	require.Contains(t, out, "branch c.3 then then.4() else else.5()")
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}
