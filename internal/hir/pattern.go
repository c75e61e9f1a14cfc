package hir

import "github.com/wasmc/wasmc/internal/ast"

// SimplePattern is the restricted pattern grammar HIR's Case tests against
// (spec.md §3.3): a constructor-tag test, a literal test, a variable bind,
// or a wildcard. CaseSimplify has already eliminated everything else
// (nested patterns, tuple patterns) by the time AST2HIR runs.
type SimplePattern interface {
	simplePatternNode()
}

// ConstructorPattern tests the scrutinee's tag against Name, optionally
// binding its payload to Arg. ConstructorToEnum rewrites every occurrence
// of this kind into a LiteralPattern tag test plus an explicit Proj
// binding for Arg (spec.md §4.3), so it only ever appears between AST2HIR
// and ConstructorToEnum.
type ConstructorPattern struct {
	Name string
	Arg  *ast.Symbol
}

func (ConstructorPattern) simplePatternNode() {}

// LiteralPattern tests the scrutinee against a constant int/real/char
// value, or (post ConstructorToEnum) an integer tag.
type LiteralPattern struct {
	Kind  ast.LitKind
	Value interface{}
}

func (LiteralPattern) simplePatternNode() {}

// VariablePattern binds the scrutinee to a name.
type VariablePattern struct {
	Sym ast.Symbol
}

func (VariablePattern) simplePatternNode() {}

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct{}

func (WildcardPattern) simplePatternNode() {}
