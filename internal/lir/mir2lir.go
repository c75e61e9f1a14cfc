package lir

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/mir"
)

// FromMIR converts an already BlockArrange-ordered, UnAlias-cleaned
// mir.Program into a lir.Program, verifying along the way that every
// function is single-entry (Body[0] is its only entry point — nothing
// jumps back into a function from outside it, which MIR2LIR cannot check
// on its own and simply assumes, since HIR2MIR never produces a
// cross-function edge) and single-exit per block (exactly one
// Terminator, which mir.EBB's shape already guarantees structurally).
func FromMIR(prog *mir.Program) *Program {
	out := &Program{Functions: make([]Function, len(prog.Functions))}
	for i, fn := range prog.Functions {
		out.Functions[i] = fromMIRFunction(fn)
	}
	return out
}

func fromMIRFunction(fn mir.Function) Function {
	if len(fn.Body) == 0 {
		panic(fmt.Sprintf("MIR2LIR: function %s has no blocks", fn.Name.String()))
	}

	blocks := make([]Block, len(fn.Body))
	names := make(map[string]bool, len(fn.Body))
	for i, ebb := range fn.Body {
		if ebb.Terminator == nil {
			panic(fmt.Sprintf("MIR2LIR: block %s has no terminator", ebb.Name.String()))
		}
		names[ebb.Name.String()] = true
		blocks[i] = Block{
			Name:       ebb.Name,
			Params:     convertParams(ebb.Params),
			Body:       ebb.Body,
			Terminator: ebb.Terminator,
		}
	}
	for _, ebb := range fn.Body {
		for _, target := range targetsOf(ebb.Terminator) {
			if !names[target.String()] {
				panic(fmt.Sprintf("MIR2LIR: function %s jumps to unknown block %s", fn.Name.String(), target.String()))
			}
		}
	}

	return Function{
		Name:   fn.Name,
		Params: convertParams(fn.Params),
		RetTy:  fn.RetTy,
		Body:   blocks,
	}
}

func convertParams(ps []mir.Param) []Param {
	if ps == nil {
		return nil
	}
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Sym: p.Sym, Ty: p.Ty}
	}
	return out
}

func targetsOf(t mir.Terminator) []fmt.Stringer {
	switch term := t.(type) {
	case mir.Jump:
		return []fmt.Stringer{term.Target}
	case mir.Branch:
		return []fmt.Stringer{term.Then, term.Else}
	case mir.Ret:
		return nil
	default:
		return nil
	}
}
