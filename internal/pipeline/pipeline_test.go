package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/config"
	"github.com/wasmc/wasmc/internal/interp"
	"github.com/wasmc/wasmc/internal/pipeline"
)

const boolPrelude = "datatype bool = true | false\n"

func TestCompileArithmeticAndPrint(t *testing.T) {
	cfg := config.Default()
	cfg.Prelude = boolPrelude

	src := `val x = extern js-ffi.print(1 + 2 * 3 : int) : ()`

	it := interp.New(nil)
	res, err := pipeline.Compile(src, "t.ml", cfg, it)
	require.Nil(t, err)
	require.NotNil(t, res.LIR)
	require.Equal(t, "7\n", string(res.Output))
}

func TestCompileIfExpression(t *testing.T) {
	cfg := config.Default()
	cfg.Prelude = boolPrelude

	src := `
datatype option = None | Some of int

val pick = fn b =>
  if b then 1 else 0

val x = extern js-ffi.print(pick true : int) : ()
`
	it := interp.New(nil)
	res, err := pipeline.Compile(src, "t.ml", cfg, it)
	require.Nil(t, err)
	require.Equal(t, "1\n", string(res.Output))
}

func TestCompileCaseOverDatatype(t *testing.T) {
	cfg := config.Default()
	cfg.Prelude = boolPrelude

	src := `
datatype option = None | Some of int

fun unwrap o =
  case o of
    | None => 0
    | Some n => n

val x = extern js-ffi.print(unwrap (Some 42) : int) : ()
`
	it := interp.New(nil)
	res, err := pipeline.Compile(src, "t.ml", cfg, it)
	require.Nil(t, err)
	require.Equal(t, "42\n", string(res.Output))
}

func TestCompileReportsTypeMismatch(t *testing.T) {
	cfg := config.Default()
	cfg.Prelude = boolPrelude

	src := `val x = 1 + 'a'`

	it := interp.New(nil)
	_, err := pipeline.Compile(src, "t.ml", cfg, it)
	require.NotNil(t, err)
}
