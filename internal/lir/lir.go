// Package lir defines the backend-facing boundary spec.md names only in
// the pipeline diagram and §3.4's closing sentence ("MIR2LIR — (backend,
// external)"): spec.md never specifies LIR's shape because LIR belongs to
// whatever external backend receives it. wasmc still defines the boundary
// concretely so the pipeline has something to hand off and a test harness
// can drive it end-to-end without a real WASM encoder (see
// internal/interp). Grounded on internal/mir's closed-interface/
// marker-method idiom for stylistic consistency with the rest of the IR
// stack; the shape itself is just MIR with the "extended" flattened out
// of EBB, verifying MIR2LIR's single-entry/single-exit block invariant.
package lir

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/types"
)

// Param is one (Symbol, Type) formal — identical shape to mir.Param but a
// distinct type of lir's own, which FromMIR copies each mir.Param into.
// lir still imports mir: Block carries mir.Op bodies and mir.Terminator
// values as they are.
type Param struct {
	Sym ast.Symbol
	Ty  types.Type
}

// Block is MIR's EBB, renamed: by the time MIR2LIR runs, BlockArrange and
// UnAlias have already run, so every Block here is already ordered and
// alias-free — "extended" never described anything a Block still needs to
// track, it only named the fact that a pre-arrangement EBB could contain
// its own internal branching before this tier existed.
type Block struct {
	Name       ast.Symbol
	Params     []Param
	Body       []mir.Op
	Terminator mir.Terminator
}

// Function is one compiled function: single-entry (Body[0]), with every
// exit an explicit mir.Ret terminator somewhere in its Body.
type Function struct {
	Name   ast.Symbol
	Params []Param
	RetTy  types.Type
	Body   []Block
}

// Program is the complete unit MIR2LIR hands to a Backend.
type Program struct {
	Functions []Function
}

// Backend is the external boundary contract (spec.md §1's "Backend ...
// external"): anything that can turn a Program into bytes — a real WASM
// encoder, or (for tests) internal/interp's tree-walking stand-in.
type Backend interface {
	Emit(prog *Program) ([]byte, error)
}
