package lir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/lir"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/types"
)

func TestFromMIRConvertsSingleBlockFunction(t *testing.T) {
	n := ast.Symbol{Name: "n", ID: 1}
	prog := &mir.Program{Functions: []mir.Function{{
		Name:   ast.Symbol{Name: "f", ID: 2},
		Params: []mir.Param{{Sym: n, Ty: types.Int}},
		RetTy:  types.Int,
		Body: []mir.EBB{{
			Name:       ast.Symbol{Name: "entry", ID: 3},
			Terminator: mir.Ret{Value: n},
		}},
	}}}

	out := lir.FromMIR(prog)

	require.Len(t, out.Functions, 1)
	fn := out.Functions[0]
	require.Equal(t, "f", fn.Name.Name)
	require.Len(t, fn.Body, 1)
	require.Equal(t, "entry", fn.Body[0].Name.Name)
}

func TestFromMIRPanicsOnDanglingJumpTarget(t *testing.T) {
	prog := &mir.Program{Functions: []mir.Function{{
		Name: ast.Symbol{Name: "f", ID: 1},
		Body: []mir.EBB{{
			Name:       ast.Symbol{Name: "entry", ID: 2},
			Terminator: mir.Jump{Target: ast.Symbol{Name: "nowhere", ID: 99}},
		}},
	}}}

	require.Panics(t, func() { lir.FromMIR(prog) })
}

func TestFromMIRPanicsOnMissingTerminator(t *testing.T) {
	prog := &mir.Program{Functions: []mir.Function{{
		Name: ast.Symbol{Name: "f", ID: 1},
		Body: []mir.EBB{{Name: ast.Symbol{Name: "entry", ID: 2}}},
	}}}

	require.Panics(t, func() { lir.FromMIR(prog) })
}
