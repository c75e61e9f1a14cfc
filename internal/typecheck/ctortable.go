// Package typecheck implements Algorithm W over the surface tree (spec.md
// §4.1): it is the one module that depends on both internal/ast (the tree
// shape) and internal/types (the type system), since the unifier itself
// stays ast-agnostic.
package typecheck

import (
	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/types"
)

// CtorInfo describes one declared constructor: which datatype it belongs
// to, its argument type (nil for nullary), and its tag index within that
// datatype's declaration order (the index later lowerings use to pick a
// runtime discriminant).
type CtorInfo struct {
	Datatype string
	Arg      types.Type // nil for nullary
	Tag      int
}

// CtorTable maps every declared constructor name to its CtorInfo.
type CtorTable map[string]CtorInfo

// BuildCtorTable walks every Datatype declaration in prog and records each
// of its constructors. Built once, up front: this language has no separate
// compilation (spec.md §6 Non-goals), so every constructor is visible to
// every Val regardless of declaration order.
func BuildCtorTable(prog *ast.Program) CtorTable {
	table := make(CtorTable)
	for _, d := range prog.Decls {
		dt, ok := d.(*ast.Datatype)
		if !ok {
			continue
		}
		for i, c := range dt.Constructors {
			table[c.Name] = CtorInfo{Datatype: dt.Name, Arg: c.Arg, Tag: i}
		}
	}
	return table
}
