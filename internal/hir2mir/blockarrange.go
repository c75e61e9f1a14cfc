package hir2mir

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/mir"
)

// BlockArrange orders a function's EBBs by reverse postorder over the
// control-flow graph rooted at blocks[0] (the entry block HIR2MIR always
// produces first). Reverse postorder gives exactly the property spec.md
// §4.6 asks for: every block's predecessors precede it textually, except
// across a loop back-edge, where the header (visited first, hence first
// in the reverse postorder) still comes before the body that loops back
// to it. HIR2MIR itself never introduces a loop — Case only branches
// forward into an arm and a shared continuation — but BlockArrange is
// written against the general CFG shape so it keeps this property for
// any backend or future pass that builds one.
func BlockArrange(blocks []mir.EBB) []mir.EBB {
	if len(blocks) == 0 {
		return blocks
	}

	byName := make(map[string]int, len(blocks))
	for i, b := range blocks {
		byName[b.Name.String()] = i
	}

	visited := make([]bool, len(blocks))
	var postorder []int

	var visit func(idx int)
	visit = func(idx int) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		for _, succ := range successors(blocks[idx].Terminator) {
			if i, ok := byName[succ.String()]; ok {
				visit(i)
			}
		}
		postorder = append(postorder, idx)
	}
	visit(0)

	out := make([]mir.EBB, 0, len(blocks))
	for i := len(postorder) - 1; i >= 0; i-- {
		out = append(out, blocks[postorder[i]])
	}
	// Defensive: a block unreachable from the entry (shouldn't arise from
	// HIR2MIR's own output) still needs to appear somewhere rather than
	// being silently dropped.
	for i, b := range blocks {
		if !visited[i] {
			out = append(out, b)
		}
	}
	return out
}

func successors(t mir.Terminator) []ast.Symbol {
	switch term := t.(type) {
	case mir.Jump:
		return []ast.Symbol{term.Target}
	case mir.Branch:
		return []ast.Symbol{term.Then, term.Else}
	case mir.Ret:
		return nil
	default:
		return nil
	}
}
