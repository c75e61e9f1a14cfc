package unalias_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/unalias"
)

func TestFunctionDropsAliasAndRewritesLaterUses(t *testing.T) {
	x := ast.Symbol{Name: "x", ID: 1}
	y := ast.Symbol{Name: "y", ID: 2}
	z := ast.Symbol{Name: "z", ID: 3}

	fn := mir.Function{
		Name: ast.Symbol{Name: "f", ID: 4},
		Body: []mir.EBB{{
			Name: ast.Symbol{Name: "entry", ID: 5},
			Body: []mir.Op{
				mir.Lit{Var: x, Value: 1, Kind: ast.IntLit},
				mir.Alias{Var: y, Sym: x},
				mir.Add{Var: z, L: y, R: y},
			},
			Terminator: mir.Ret{Value: z},
		}},
	}

	out := unalias.Function(fn)

	require.Len(t, out.Body[0].Body, 2, "the Alias op must be dropped")
	add, ok := out.Body[0].Body[1].(mir.Add)
	require.True(t, ok)
	require.Equal(t, x, add.L, "a use of y must be rewritten to resolve through to x")
	require.Equal(t, x, add.R)
}

func TestFunctionFollowsAliasChainTransitively(t *testing.T) {
	x := ast.Symbol{Name: "x", ID: 1}
	y := ast.Symbol{Name: "y", ID: 2}
	w := ast.Symbol{Name: "w", ID: 3}

	fn := mir.Function{
		Name: ast.Symbol{Name: "f", ID: 4},
		Body: []mir.EBB{{
			Name: ast.Symbol{Name: "entry", ID: 5},
			Body: []mir.Op{
				mir.Lit{Var: x, Value: 1, Kind: ast.IntLit},
				mir.Alias{Var: y, Sym: x},
				mir.Alias{Var: w, Sym: y},
			},
			Terminator: mir.Ret{Value: w},
		}},
	}

	out := unalias.Function(fn)

	require.Empty(t, out.Body[0].Body, "both Alias ops must be dropped")
	ret, ok := out.Body[0].Terminator.(mir.Ret)
	require.True(t, ok)
	require.Equal(t, x, ret.Value, "w must resolve all the way through to the original producer x")
}

func TestFunctionLeavesDefinitionSitesAlone(t *testing.T) {
	x := ast.Symbol{Name: "x", ID: 1}
	y := ast.Symbol{Name: "y", ID: 2}

	fn := mir.Function{
		Name: ast.Symbol{Name: "f", ID: 3},
		Body: []mir.EBB{{
			Name: ast.Symbol{Name: "entry", ID: 4},
			Body: []mir.Op{
				mir.Lit{Var: x, Value: 1, Kind: ast.IntLit},
				mir.Alias{Var: y, Sym: x},
			},
			Terminator: mir.Ret{Value: y},
		}},
	}

	out := unalias.Function(fn)

	lit, ok := out.Body[0].Body[0].(mir.Lit)
	require.True(t, ok)
	require.Equal(t, x, lit.Var, "the Lit's own definition site must be untouched")
}

func TestFunctionRewritesAcrossBlocksWithAliasTableScopedToEntry(t *testing.T) {
	x := ast.Symbol{Name: "x", ID: 1}
	y := ast.Symbol{Name: "y", ID: 2}
	joinParam := ast.Symbol{Name: "v", ID: 3}

	fn := mir.Function{
		Name: ast.Symbol{Name: "f", ID: 4},
		Body: []mir.EBB{
			{
				Name: ast.Symbol{Name: "entry", ID: 5},
				Body: []mir.Op{
					mir.Lit{Var: x, Value: 1, Kind: ast.IntLit},
					mir.Alias{Var: y, Sym: x},
				},
				Terminator: mir.Jump{Target: ast.Symbol{Name: "join", ID: 6}, Args: []ast.Symbol{y}},
			},
			{
				Name:       ast.Symbol{Name: "join", ID: 6},
				Params:     []mir.Param{{Sym: joinParam}},
				Terminator: mir.Ret{Value: joinParam},
			},
		},
	}

	out := unalias.Function(fn)

	jmp, ok := out.Body[0].Terminator.(mir.Jump)
	require.True(t, ok)
	require.Equal(t, []ast.Symbol{x}, jmp.Args, "the jump's block argument must resolve to x, not y")
}
