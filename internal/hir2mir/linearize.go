// Package hir2mir implements HIR2MIR and BlockArrange (spec.md §4.6):
// linearizing the closed, ANF-normalized HIR tree into MIR's extended
// basic blocks, then ordering those blocks so that (for the non-loop
// majority) every predecessor precedes its successors textually. No
// direct teacher analog exists at this tier — the teacher evaluates Core
// directly rather than lowering it to blocks — so this package is
// designed straight from spec.md §3.4/§4.6, using the same closed-
// interface/marker-method idiom as internal/hir and the teacher's
// internal/core for stylistic consistency across IR tiers.
package hir2mir

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/mir"
	"github.com/wasmc/wasmc/internal/sid"
	"github.com/wasmc/wasmc/internal/types"
)

// HIR2MIR linearizes every top-level Val into a mir.Function. A Val whose
// RHS is a Fun becomes a function taking (env, param): a Val lifted by
// UnnestFunc peels its curried Fun(env)(param) into those two parameters,
// and a never-lifted top-level function gets a synthetic leading env
// parameter (see lowerFunction and DESIGN.md). A Val whose RHS is not a Fun — a top-level constant — becomes
// a zero-parameter Function computing it once; this case isn't named in
// spec.md §4.6, which documents only the Fun case, but the language never
// forbids a non-function top-level binding, so HIR2MIR still needs
// something to do with one (see DESIGN.md).
func HIR2MIR(prog *hir.Program, src sid.Source) *mir.Program {
	out := &mir.Program{}
	for _, v := range prog.Vals {
		out.Functions = append(out.Functions, lowerFunction(v, src))
	}
	for i := range out.Functions {
		out.Functions[i].Body = BlockArrange(out.Functions[i].Body)
	}
	return out
}

func lowerFunction(v hir.Val, src sid.Source) mir.Function {
	b := &builder{src: src, symTypes: make(map[uint64]types.Type)}

	if _, ok := v.Expr.(*hir.Fun); !ok {
		entry := b.newBlock()
		b.cur = entry
		result := b.linearize(v.Expr)
		b.terminate(mir.Ret{Value: result})
		return mir.Function{Name: v.Name, Params: nil, RetTy: v.Ty, Body: b.blocks}
	}

	// Peel every directly-nested Fun off the top. UnnestFunc never lifts
	// a top-level Val's own outermost Fun, so an original (never-lifted)
	// top-level function peels to exactly one param; a Val produced by
	// UnnestFunc's lift() is the curried (env, origParam) shape and peels
	// to exactly two, with the env already first (see DESIGN.md). Nothing
	// in the pipeline curries any deeper than that, but the loop makes no
	// assumption about the depth.
	var params []mir.Param
	var body hir.Expr = v.Expr
	for {
		f, ok := body.(*hir.Fun)
		if !ok {
			break
		}
		ty := paramType(f.Type())
		b.symTypes[f.Param.ID] = ty
		params = append(params, mir.Param{Sym: f.Param, Ty: ty})
		body = f.Body
	}

	if len(params) == 1 {
		// ForceClosure wraps every reference to this Val in a Closure
		// with an empty FreeVars list, exactly like a lifted closure with
		// nothing captured — so this function's calling convention must
		// match a lifted one's (env, param) shape, or a caller would need
		// to know which kind of top-level function it's invoking. The
		// env parameter is never read by this function's body; it exists
		// purely so every closure call, lifted or not, passes the same
		// (env-value, arg) pair.
		envSym := ast.Symbol{Name: "env", ID: src.Next()}
		envTy := &types.Tuple{}
		b.symTypes[envSym.ID] = envTy
		params = append([]mir.Param{{Sym: envSym, Ty: envTy}}, params...)
	}

	entry := b.newBlock()
	b.cur = entry
	result := b.linearize(body)
	b.terminate(mir.Ret{Value: result})
	return mir.Function{Name: v.Name, Params: params, RetTy: body.Type(), Body: b.blocks}
}

func paramType(fnTy types.Type) types.Type {
	f, ok := fnTy.(*types.Fun)
	if !ok {
		panic(fmt.Sprintf("top-level Fun Val must carry a Fun type, got %T", fnTy))
	}
	return f.Param
}

// builder accumulates a single Function's blocks. blocks[len-1] is always
// the block currently being appended to; cur points at the same block so
// callers needn't re-index. symTypes records every symbol's type as soon
// as it's bound, so a later Closure op can look up its captured
// variables' types (hir.Closure itself carries only names, per
// freeVars' name-only tracking — see DESIGN.md).
type builder struct {
	src      sid.Source
	blocks   []mir.EBB
	cur      *mir.EBB
	symTypes map[uint64]types.Type
}

// typeOf returns the type recorded for sym, which must already have been
// bound by a preceding op, block parameter, or enclosing Binds — every
// free variable of a Closure appearing in the function body was
// necessarily bound earlier in that same body.
func (b *builder) typeOf(sym ast.Symbol) types.Type {
	ty, ok := b.symTypes[sym.ID]
	if !ok {
		panic(fmt.Sprintf("HIR2MIR: no recorded type for symbol %s", sym.String()))
	}
	return ty
}

func (b *builder) bindType(sym ast.Symbol, ty types.Type) {
	b.symTypes[sym.ID] = ty
}

func (b *builder) newBlock() *mir.EBB {
	b.blocks = append(b.blocks, mir.EBB{Name: ast.Symbol{Name: "bb", ID: b.src.Next()}})
	return &b.blocks[len(b.blocks)-1]
}

func (b *builder) emit(op mir.Op) {
	b.cur.Body = append(b.cur.Body, op)
}

func (b *builder) terminate(t mir.Terminator) {
	b.cur.Terminator = t
}

func (b *builder) fresh() ast.Symbol {
	return ast.Symbol{Name: "v", ID: b.src.Next()}
}

// asSym forces a trivial HIR operand (a Sym or Lit post-FlatExpr, or a
// Closure that ForceClosure put in place of a top-level function's Sym)
// down to the ast.Symbol MIR ops index by: a Lit or Closure gets
// materialized through its own op first.
func (b *builder) asSym(e hir.Expr) ast.Symbol {
	switch ex := e.(type) {
	case *hir.Sym:
		return ex.Name
	case *hir.Lit:
		v := b.fresh()
		b.emit(mir.Lit{Var: v, Value: ex.Value, Kind: ex.Kind})
		b.bindType(v, ex.Type())
		return v
	case *hir.Closure:
		return b.linearize(ex)
	default:
		panic(fmt.Sprintf("operand must be a Sym or Lit after FlatExpr, got %T", e))
	}
}

// linearize lowers a Binds-normalized HIR expression into the current
// block's Ops, returning the symbol holding the final value. It may
// allocate new blocks (and move b.cur forward) when it encounters a Case.
func (b *builder) linearize(e hir.Expr) ast.Symbol {
	switch ex := e.(type) {
	case *hir.Sym:
		return ex.Name

	case *hir.Lit:
		return b.asSym(ex)

	case *hir.BinOp:
		v := b.fresh()
		l, r := b.asSym(ex.L), b.asSym(ex.R)
		switch ex.Name {
		case "+":
			b.emit(mir.Add{Var: v, L: l, R: r})
		case "*":
			b.emit(mir.Mul{Var: v, L: l, R: r})
		default:
			b.emit(mir.BinOp{Var: v, Name: ex.Name, L: l, R: r})
		}
		b.bindType(v, ex.Type())
		return v

	case *hir.BuiltinCall:
		v := b.fresh()
		args := symsOf(b, ex.Args)
		b.emit(mir.Call{Var: v, Fun: ast.Symbol{Name: "$builtin$" + ex.Fun}, Args: args})
		b.bindType(v, ex.Type())
		return v

	case *hir.ExternCall:
		v := b.fresh()
		b.emit(mir.ExternCall{Var: v, Module: ex.Module, Fun: ex.Fun, Args: symsOf(b, ex.Args)})
		b.bindType(v, ex.Type())
		return v

	case *hir.App:
		v := b.fresh()
		fn := b.asSym(ex.Fun)
		arg := b.asSym(ex.Arg)
		b.emit(mir.Call{Var: v, Fun: fn, Args: []ast.Symbol{arg}})
		b.bindType(v, ex.Type())
		return v

	case *hir.Tuple:
		v := b.fresh()
		b.emit(mir.Tuple{Var: v, Elems: symsOf(b, ex.Elems)})
		b.bindType(v, ex.Type())
		return v

	case *hir.Proj:
		v := b.fresh()
		b.emit(mir.Proj{Var: v, Tuple: b.asSym(ex.Tuple), Index: ex.Index})
		b.bindType(v, ex.Type())
		return v

	case *hir.Closure:
		v := b.fresh()
		env := make([]mir.EnvSlot, len(ex.FreeVars))
		for i, fv := range ex.FreeVars {
			env[i] = mir.EnvSlot{Ty: b.typeOf(fv), Sym: fv}
		}
		b.emit(mir.Closure{Var: v, Fun: ex.Fun, Env: env})
		b.bindType(v, ex.Type())
		return v

	case *hir.Binds:
		for _, bind := range ex.Binds {
			v := b.linearize(bind.Expr)
			b.bindType(bind.Name, bind.Ty)
			if v != bind.Name {
				b.emit(mir.Alias{Var: bind.Name, Sym: v})
			}
		}
		return b.linearize(ex.Ret)

	case *hir.Case:
		return b.linearizeCase(ex)

	default:
		panic(fmt.Sprintf("unexpected HIR expression kind in HIR2MIR: %T", e))
	}
}

func symsOf(b *builder, es []hir.Expr) []ast.Symbol {
	out := make([]ast.Symbol, len(es))
	for i, e := range es {
		out[i] = b.asSym(e)
	}
	return out
}

// linearizeCase lowers a (post-CaseSimplify/ConstructorToEnum) decision
// Case into a cascade of binary Branch tests, one per LiteralPattern arm,
// falling through to an unconditional Jump at the first Variable/Wildcard
// arm (the default): MIR's only branching terminator is binary (spec.md
// §3.4), while a decision-tree Case can have any number of arms, so an
// N-ary dispatch is expressed as N-1 chained equality tests. Every arm's
// result is joined back through a continuation block parameter.
func (b *builder) linearizeCase(c *hir.Case) ast.Symbol {
	scrutinee := b.asSym(c.Scrutinee)
	scrutineeTy := c.Scrutinee.Type()
	resultTy := c.Type()

	cont := &mir.EBB{Name: ast.Symbol{Name: "bb", ID: b.src.Next()}}
	joinParam := ast.Symbol{Name: "v", ID: b.src.Next()}
	cont.Params = []mir.Param{{Sym: joinParam, Ty: resultTy}}
	b.bindType(joinParam, resultTy)

	for i, arm := range c.Arms {
		armBlock := &mir.EBB{Name: ast.Symbol{Name: "bb", ID: b.src.Next()}}
		isLast := i == len(c.Arms)-1

		if lit, ok := arm.Pattern.(hir.LiteralPattern); ok && !isLast {
			testVal := b.fresh()
			litSym := b.fresh()
			b.emit(mir.Lit{Var: litSym, Value: lit.Value, Kind: lit.Kind})
			b.emit(mir.BinOp{Var: testVal, Name: "=", L: scrutinee, R: litSym})

			nextTest := &mir.EBB{Name: ast.Symbol{Name: "bb", ID: b.src.Next()}}
			b.terminate(mir.Branch{Cond: testVal, Then: armBlock.Name, Else: nextTest.Name})
			b.blocks = append(b.blocks, *armBlock)
			b.fillArm(armBlock, arm, scrutinee, scrutineeTy, cont.Name, joinParam)
			b.blocks = append(b.blocks, *nextTest)
			b.cur = &b.blocks[len(b.blocks)-1]
			continue
		}

		// A trailing LiteralPattern with no further arm, or a
		// Variable/Wildcard arm, needs no test: whatever reaches here
		// falls into it unconditionally.
		b.terminate(mir.Jump{Target: armBlock.Name})
		b.blocks = append(b.blocks, *armBlock)
		b.fillArm(armBlock, arm, scrutinee, scrutineeTy, cont.Name, joinParam)
	}

	b.blocks = append(b.blocks, *cont)
	b.cur = &b.blocks[len(b.blocks)-1]
	return joinParam
}

// fillArm lowers one arm's body into armBlock (already appended to
// b.blocks) and terminates it with a Jump to cont carrying the arm's
// result as the join block parameter. A Variable pattern binds the
// scrutinee's name via Alias before the body runs.
func (b *builder) fillArm(armBlock *mir.EBB, arm hir.Arm, scrutinee ast.Symbol, scrutineeTy types.Type, contName, joinParam ast.Symbol) {
	idx := b.blockIndex(armBlock.Name)
	b.cur = &b.blocks[idx]
	if vp, ok := arm.Pattern.(hir.VariablePattern); ok {
		b.emit(mir.Alias{Var: vp.Sym, Sym: scrutinee})
		b.bindType(vp.Sym, scrutineeTy)
	}
	result := b.linearize(arm.Expr)
	b.terminate(mir.Jump{Target: contName, Args: []ast.Symbol{result}})
}

func (b *builder) blockIndex(name ast.Symbol) int {
	for i := range b.blocks {
		if b.blocks[i].Name.Equals(name) {
			return i
		}
	}
	panic("block not found: " + name.String())
}
