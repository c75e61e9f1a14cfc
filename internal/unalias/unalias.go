// Package unalias implements UnAlias (spec.md §4.7): eliminating the
// trivial copy operations (mir.Alias) introduced by earlier lowerings
// (UnnestFunc's env re-projection, Simplify's dead-rename bypass,
// HIR2MIR's Binds-to-same-name and Variable-pattern arm binds) so that
// every use, by the time a backend sees the program, resolves directly
// to its producing op.
package unalias

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/mir"
)

// Program rewrites every Function in prog independently.
func Program(prog *mir.Program) *mir.Program {
	out := &mir.Program{Functions: make([]mir.Function, len(prog.Functions))}
	for i, fn := range prog.Functions {
		out.Functions[i] = Function(fn)
	}
	return out
}

// Function runs UnAlias over one function's EBBs in program order,
// maintaining a flat alias: Symbol -> Symbol table that starts empty at
// function entry (spec.md §3.5's "Alias table ... emptied at the start of
// each function").
func Function(fn mir.Function) mir.Function {
	a := alias{}
	blocks := make([]mir.EBB, len(fn.Body))
	for i, ebb := range fn.Body {
		blocks[i] = a.ebb(ebb)
	}
	return mir.Function{Name: fn.Name, Params: fn.Params, RetTy: fn.RetTy, Body: blocks}
}

// alias is the per-function table, keyed by Symbol.ID (globally unique
// post-Rename). Entries are kept flat at insertion (spec.md §4.7:
// "resolve sym transitively ... then record alias[var] = resolved_sym"),
// so every later lookup is a single hop — resolve never needs to loop.
type alias map[uint64]ast.Symbol

func (a alias) resolve(sym ast.Symbol) ast.Symbol {
	if r, ok := a[sym.ID]; ok {
		return r
	}
	return sym
}

func (a alias) ebb(ebb mir.EBB) mir.EBB {
	body := make([]mir.Op, 0, len(ebb.Body))
	for _, op := range ebb.Body {
		if al, ok := op.(mir.Alias); ok {
			a[al.Var.ID] = a.resolve(al.Sym)
			continue
		}
		body = append(body, a.rewriteOp(op))
	}
	return mir.EBB{
		Name:       ebb.Name,
		Params:     ebb.Params,
		Body:       body,
		Terminator: a.rewriteTerm(ebb.Terminator),
	}
}

// rewriteOp rewrites every input (use-site) symbol of op through the
// alias table. Definition sites (the Var each op produces) are left
// untouched — spec.md §4.7: "Do not rewrite definition sites: only uses."
func (a alias) rewriteOp(op mir.Op) mir.Op {
	switch o := op.(type) {
	case mir.Lit:
		return o
	case mir.Add:
		return mir.Add{Var: o.Var, L: a.resolve(o.L), R: a.resolve(o.R)}
	case mir.Mul:
		return mir.Mul{Var: o.Var, L: a.resolve(o.L), R: a.resolve(o.R)}
	case mir.BinOp:
		return mir.BinOp{Var: o.Var, Name: o.Name, L: a.resolve(o.L), R: a.resolve(o.R)}
	case mir.Closure:
		env := make([]mir.EnvSlot, len(o.Env))
		for i, slot := range o.Env {
			env[i] = mir.EnvSlot{Ty: slot.Ty, Sym: a.resolve(slot.Sym)}
		}
		return mir.Closure{Var: o.Var, Fun: o.Fun, Env: env}
	case mir.Call:
		return mir.Call{Var: o.Var, Fun: a.resolve(o.Fun), Args: a.resolveAll(o.Args)}
	case mir.ExternCall:
		return mir.ExternCall{Var: o.Var, Module: o.Module, Fun: o.Fun, Args: a.resolveAll(o.Args)}
	case mir.Proj:
		return mir.Proj{Var: o.Var, Tuple: a.resolve(o.Tuple), Index: o.Index}
	case mir.Tuple:
		return mir.Tuple{Var: o.Var, Elems: a.resolveAll(o.Elems)}
	default:
		panic("unalias: unexpected mir.Op kind, unreachable after a prior Alias op is already dropped")
	}
}

func (a alias) rewriteTerm(t mir.Terminator) mir.Terminator {
	switch term := t.(type) {
	case mir.Jump:
		return mir.Jump{Target: term.Target, Args: a.resolveAll(term.Args)}
	case mir.Branch:
		return mir.Branch{
			Cond:     a.resolve(term.Cond),
			Then:     term.Then,
			ThenArgs: a.resolveAll(term.ThenArgs),
			Else:     term.Else,
			ElseArgs: a.resolveAll(term.ElseArgs),
		}
	case mir.Ret:
		return mir.Ret{Value: a.resolve(term.Value)}
	default:
		panic("unalias: unexpected mir.Terminator kind")
	}
}

func (a alias) resolveAll(syms []ast.Symbol) []ast.Symbol {
	if syms == nil {
		return nil
	}
	out := make([]ast.Symbol, len(syms))
	for i, s := range syms {
		out[i] = a.resolve(s)
	}
	return out
}
