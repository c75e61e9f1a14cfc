package pretty

import (
	"fmt"
	"strings"

	"github.com/wasmc/wasmc/internal/lir"
)

// lirParamListString duplicates paramListString's rendering for lir.Param,
// a structurally identical but distinct type from mir.Param (see lir.go's
// own comment on Param).
func lirParamListString(params []lir.Param) string {
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

// PrintLIR renders prog's functions the same way PrintMIR does — LIR's
// Block is MIR's EBB renamed, so it shares every op/terminator string
// helper; only the container types at the function/block boundary differ.
func PrintLIR(prog *lir.Program) string {
	p := &printer{}
	for _, fn := range prog.Functions {
		retTy := "?"
		if fn.RetTy != nil {
			retTy = fn.RetTy.String()
		}
		p.line("fn %s(%s) : %s", fn.Name.String(), lirParamListString(fn.Params), retTy)
		p.nest(func() {
			for _, blk := range fn.Body {
				p.line("%s(%s):", blk.Name.String(), lirParamListString(blk.Params))
				p.nest(func() {
					for _, op := range blk.Body {
						p.line("%s", opString(op))
					}
					p.line("%s", termString(blk.Terminator))
				})
			}
		})
	}
	return p.String()
}
