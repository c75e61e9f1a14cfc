// Package pipeline orchestrates the whole-program compilation sequence
// spec.md §2's diagram lays out end to end: surface parsing through every
// AST/HIR/MIR pass down to a backend-supplied LIR consumer. Grounded on
// the teacher's own internal/pipeline.Compile, which threads a single
// source text through a fixed, ordered list of passes and collects
// diagnostics into one Sink rather than returning on the first warning.
package pipeline

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/casesimplify"
	"github.com/wasmc/wasmc/internal/config"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/hir2mir"
	"github.com/wasmc/wasmc/internal/lir"
	"github.com/wasmc/wasmc/internal/lower"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/sid"
	"github.com/wasmc/wasmc/internal/surfaceparse"
	"github.com/wasmc/wasmc/internal/typecheck"
	"github.com/wasmc/wasmc/internal/unalias"
)

// Result bundles every intermediate form the pipeline produced, so callers
// (tests, `dump-ir`) can inspect any tier without recompiling.
type Result struct {
	Surface *ast.Program
	HIR     *hir.Program
	MIR     *mir.Program
	LIR     *lir.Program
	Output  []byte
	Sink    *errors.Sink
}

// Compile runs src through every pass named in the pipeline diagram, in
// order, then hands the resulting LIR to backend.Emit. cfg.Prelude (if
// set) is prepended to src before parsing, the only way built-in
// datatypes like bool reach the compiler (internal/config.Config's doc
// comment). Compilation stops at the first CompileError; non-fatal
// diagnostics accumulate in Result.Sink regardless of outcome.
func Compile(src string, filename string, cfg config.Config, backend lir.Backend) (*Result, *errors.CompileError) {
	sink := errors.NewSink()
	src = cfg.Prelude + src

	prog, perrs := surfaceparse.Parse(src, filename)
	if len(perrs) > 0 {
		return &Result{Sink: sink}, perrs[0]
	}

	ids := sid.NewCounter()

	prog = ast.Desugar(prog, ids)

	prog, cerr := ast.Rename(prog, ids)
	if cerr != nil {
		return &Result{Sink: sink}, cerr
	}

	prog, cerr = ast.VarToConstructor(prog)
	if cerr != nil {
		return &Result{Sink: sink}, cerr
	}

	prog, cerr = typecheck.Run(prog, sink)
	if cerr != nil {
		return &Result{Sink: sink}, cerr
	}

	ctors := typecheck.BuildCtorTable(prog)

	prog, cerr = casesimplify.Run(prog, ids, cfg, sink)
	if cerr != nil {
		return &Result{Surface: prog, Sink: sink}, cerr
	}

	hirProg, cerr := lower.AST2HIR(prog)
	if cerr != nil {
		return &Result{Surface: prog, Sink: sink}, cerr
	}

	hirProg, cerr = lower.ConstructorToEnum(hirProg, ctors)
	if cerr != nil {
		return &Result{Surface: prog, HIR: hirProg, Sink: sink}, cerr
	}

	hirProg = lower.Simplify(hirProg)
	hirProg = lower.FlatExpr(hirProg, ids)
	hirProg = lower.FlatLet(hirProg)
	hirProg = lower.UnnestFunc(hirProg, ids)
	hirProg = lower.ForceClosure(hirProg)

	mirProg := hir2mir.HIR2MIR(hirProg, ids)

	mirProg = unalias.Program(mirProg)

	for i := range mirProg.Functions {
		mirProg.Functions[i].Body = hir2mir.BlockArrange(mirProg.Functions[i].Body)
	}

	lirProg := lir.FromMIR(mirProg)

	out, err := backend.Emit(lirProg)
	if err != nil {
		return &Result{Surface: prog, HIR: hirProg, MIR: mirProg, LIR: lirProg, Sink: sink},
			errors.New(errors.Internal, "", err.Error())
	}

	return &Result{Surface: prog, HIR: hirProg, MIR: mirProg, LIR: lirProg, Output: out, Sink: sink}, nil
}
