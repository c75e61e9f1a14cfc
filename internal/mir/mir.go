// Package mir defines the block-structured intermediate representation
// HIR2MIR linearizes HIR into (spec.md §3.4): an ordered list of
// Functions, each a list of extended basic blocks threading values
// between each other exclusively through block parameters. Grounded on
// internal/core/core.go's CoreExpr variant shape for the closed-
// interface/marker-method idiom (Op/opNode(), Terminator/termNode()); no
// direct teacher analog exists at this tier, since the teacher interprets
// Core directly rather than lowering it to blocks.
package mir

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/types"
)

// Param is one (Symbol, Type) formal — shared shape for both Function
// parameters and EBB block parameters.
type Param struct {
	Sym ast.Symbol
	Ty  types.Type
}

// Op is one operation within an EBB's straight-line body.
type Op interface {
	opNode()
}

// Alias{var, sym} binds var directly to an existing symbol's value. Every
// Alias op is eliminated by UnAlias (spec.md §4.7); no later pass sees one.
type Alias struct {
	Var ast.Symbol
	Sym ast.Symbol
}

func (Alias) opNode() {}

// Lit materializes a constant value.
type Lit struct {
	Var   ast.Symbol
	Value interface{}
	Kind  ast.LitKind
}

func (Lit) opNode() {}

// Add and Mul are the two binary arithmetic ops MIR distinguishes at this
// tier (spec.md §3.4); every other BinOp from HIR (subtraction,
// comparisons) lowers to the generic BinOp op below.
type Add struct {
	Var  ast.Symbol
	L, R ast.Symbol
}

func (Add) opNode() {}

type Mul struct {
	Var  ast.Symbol
	L, R ast.Symbol
}

func (Mul) opNode() {}

// BinOp covers every binary builtin spec.md §3.4 doesn't call out by its
// own op (subtraction, the comparison family) — "Operations include..."
// names Add/Mul specifically because a backend typically special-cases
// them (e.g. native instruction selection), but every other binary
// operator still needs a home at this tier, and inventing one MIR op per
// surface operator name would just duplicate BinOp's own Name field.
type BinOp struct {
	Var  ast.Symbol
	Name string
	L, R ast.Symbol
}

func (BinOp) opNode() {}

// Closure allocates a closure value: fun names the lifted top-level
// function, env lists the captured (Type, Symbol) pairs in the order
// UnnestFunc sorted them.
type Closure struct {
	Var ast.Symbol
	Fun ast.Symbol
	Env []EnvSlot
}

func (Closure) opNode() {}

// EnvSlot is one captured-variable slot of a Closure op's environment.
type EnvSlot struct {
	Ty  types.Type
	Sym ast.Symbol
}

// Call invokes a closure value with a list of argument symbols.
type Call struct {
	Var  ast.Symbol
	Fun  ast.Symbol
	Args []ast.Symbol
}

func (Call) opNode() {}

// ExternCall invokes a foreign function directly through the runtime ABI
// (no closure indirection — spec.md §3.4 lists Op kinds for the closed
// call-graph only; an extern call is not a closure value, so it gets its
// own op rather than overloading Call).
type ExternCall struct {
	Var    ast.Symbol
	Module string
	Fun    string
	Args   []ast.Symbol
}

func (ExternCall) opNode() {}

// Proj reads one component out of a tuple-valued symbol.
type Proj struct {
	Var   ast.Symbol
	Tuple ast.Symbol
	Index int
}

func (Proj) opNode() {}

// Tuple constructs a fixed-arity tuple value from a list of symbols; MIR
// needs this explicitly (HIR's Tuple construction has nowhere else to
// land once operands are reduced to bare symbols by FlatExpr).
type Tuple struct {
	Var   ast.Symbol
	Elems []ast.Symbol
}

func (Tuple) opNode() {}

// Terminator ends an EBB's body and names where control flows next.
type Terminator interface {
	termNode()
}

// Jump unconditionally transfers control to target, passing args as its
// block parameters.
type Jump struct {
	Target ast.Symbol
	Args   []ast.Symbol
}

func (Jump) termNode() {}

// Branch tests cond and transfers control to Then or Else depending on
// its truth, passing the matching argument list as block parameters.
type Branch struct {
	Cond     ast.Symbol
	Then     ast.Symbol
	ThenArgs []ast.Symbol
	Else     ast.Symbol
	ElseArgs []ast.Symbol
}

func (Branch) termNode() {}

// Ret returns value from the enclosing Function.
type Ret struct {
	Value ast.Symbol
}

func (Ret) termNode() {}

// EBB is one extended basic block: straight-line Body followed by exactly
// one Terminator. Params are the values this block expects its
// predecessors to supply.
type EBB struct {
	Name       ast.Symbol
	Params     []Param
	Body       []Op
	Terminator Terminator
}

// Function is one top-level MIR function: a non-empty ordered list of
// EBBs with Body[0] as the entry block.
type Function struct {
	Name   ast.Symbol
	Params []Param
	RetTy  types.Type
	Body   []EBB
}

// Program is an ordered list of Functions (spec.md §3.4).
type Program struct {
	Functions []Function
}
