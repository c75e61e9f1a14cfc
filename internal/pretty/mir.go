package pretty

import (
	"fmt"
	"strings"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/mir"
)

// PrintMIR renders prog's functions, one block per indented group, each op
// on its own line followed by the block's terminator.
func PrintMIR(prog *mir.Program) string {
	p := &printer{}
	for _, fn := range prog.Functions {
		printMIRFunction(p, fn.Name, fn.Params, fn.RetTy.String(), fn.Body)
	}
	return p.String()
}

func printMIRFunction(p *printer, name ast.Symbol, params []mir.Param, retTy string, blocks []mir.EBB) {
	p.line("fn %s(%s) : %s", name.String(), paramListString(params), retTy)
	p.nest(func() {
		for _, ebb := range blocks {
			p.line("%s(%s):", ebb.Name.String(), paramListString(ebb.Params))
			p.nest(func() {
				for _, op := range ebb.Body {
					p.line("%s", opString(op))
				}
				p.line("%s", termString(ebb.Terminator))
			})
		}
	})
}

func paramListString(params []mir.Param) string {
	parts := make([]string, len(params))
	for i, pm := range params {
		ty := "?"
		if pm.Ty != nil {
			ty = pm.Ty.String()
		}
		parts[i] = fmt.Sprintf("%s : %s", pm.Sym.String(), ty)
	}
	return strings.Join(parts, ", ")
}

func symListString(syms []ast.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func opString(op mir.Op) string {
	switch o := op.(type) {
	case mir.Alias:
		return fmt.Sprintf("%s = alias %s", o.Var.String(), o.Sym.String())
	case mir.Lit:
		return fmt.Sprintf("%s = lit %v", o.Var.String(), o.Value)
	case mir.Add:
		return fmt.Sprintf("%s = add %s %s", o.Var.String(), o.L.String(), o.R.String())
	case mir.Mul:
		return fmt.Sprintf("%s = mul %s %s", o.Var.String(), o.L.String(), o.R.String())
	case mir.BinOp:
		return fmt.Sprintf("%s = %s %s %s", o.Var.String(), o.Name, o.L.String(), o.R.String())
	case mir.Closure:
		slots := make([]string, len(o.Env))
		for i, slot := range o.Env {
			ty := "?"
			if slot.Ty != nil {
				ty = slot.Ty.String()
			}
			slots[i] = fmt.Sprintf("%s : %s", slot.Sym.String(), ty)
		}
		return fmt.Sprintf("%s = closure %s [%s]", o.Var.String(), o.Fun.String(), strings.Join(slots, ", "))
	case mir.Call:
		return fmt.Sprintf("%s = call %s(%s)", o.Var.String(), o.Fun.String(), symListString(o.Args))
	case mir.ExternCall:
		return fmt.Sprintf("%s = extern %s.%s(%s)", o.Var.String(), o.Module, o.Fun, symListString(o.Args))
	case mir.Proj:
		return fmt.Sprintf("%s = proj %s.%d", o.Var.String(), o.Tuple.String(), o.Index)
	case mir.Tuple:
		return fmt.Sprintf("%s = tuple(%s)", o.Var.String(), symListString(o.Elems))
	default:
		return fmt.Sprintf("<unknown mir op %T>", op)
	}
}

func termString(t mir.Terminator) string {
	switch term := t.(type) {
	case mir.Jump:
		return fmt.Sprintf("jump %s(%s)", term.Target.String(), symListString(term.Args))
	case mir.Branch:
		return fmt.Sprintf("branch %s then %s(%s) else %s(%s)",
			term.Cond.String(), term.Then.String(), symListString(term.ThenArgs),
			term.Else.String(), symListString(term.ElseArgs))
	case mir.Ret:
		return fmt.Sprintf("ret %s", term.Value.String())
	default:
		return fmt.Sprintf("<unknown mir terminator %T>", t)
	}
}
