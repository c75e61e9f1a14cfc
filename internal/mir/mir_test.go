package mir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/types"
)

func TestEBBAcceptsEveryOpAndOneTerminator(t *testing.T) {
	x := ast.Symbol{Name: "x", ID: 1}
	y := ast.Symbol{Name: "y", ID: 2}
	entry := mir.EBB{
		Name: ast.Symbol{Name: "entry", ID: 3},
		Body: []mir.Op{
			mir.Lit{Var: x, Value: 1, Kind: ast.IntLit},
			mir.Add{Var: y, L: x, R: x},
			mir.Proj{Var: x, Tuple: y, Index: 0},
			mir.Alias{Var: y, Sym: x},
		},
		Terminator: mir.Ret{Value: y},
	}
	require.Len(t, entry.Body, 4)
	_, ok := entry.Terminator.(mir.Ret)
	require.True(t, ok)
}

func TestBranchNamesBothTargetsWithBlockArgs(t *testing.T) {
	cond := ast.Symbol{Name: "c", ID: 1}
	br := mir.Branch{
		Cond:     cond,
		Then:     ast.Symbol{Name: "thenBlock", ID: 2},
		ThenArgs: []ast.Symbol{cond},
		Else:     ast.Symbol{Name: "elseBlock", ID: 3},
	}
	require.Equal(t, "thenBlock", br.Then.Name)
	require.Empty(t, br.ElseArgs)
}

func TestFunctionCarriesOrderedEBBList(t *testing.T) {
	f := mir.Function{
		Name:  ast.Symbol{Name: "f", ID: 1},
		Params: []mir.Param{{Sym: ast.Symbol{Name: "n", ID: 2}, Ty: types.Int}},
		RetTy: types.Int,
		Body: []mir.EBB{
			{Name: ast.Symbol{Name: "entry", ID: 3}, Terminator: mir.Ret{Value: ast.Symbol{Name: "n", ID: 2}}},
		},
	}
	require.Len(t, f.Body, 1)
	require.Equal(t, "entry", f.Body[0].Name.Name)
}
