package typecheck

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/types"
)

// Env is a type environment: a parent-chained stack of Symbol->Scheme
// bindings. Keyed by Symbol (name+id, not name alone) since the tree has
// already been through Rename, so shadowing is already resolved to
// distinct ids and a plain name map would conflate shadowed binders.
// Grounded on the teacher's TypeEnv parent-chain shape, pruned of effect
// rows and builtin-binding bootstrapping (this language has no effect
// system; builtins are typed directly by inferExpr's BuiltinCall case).
type Env struct {
	bindings map[ast.Symbol]*types.Scheme
	parent   *Env
}

// NewEnv creates an empty top-level environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[ast.Symbol]*types.Scheme)}
}

// Extend returns a new environment with sym bound to scheme, chained to env.
func (env *Env) Extend(sym ast.Symbol, scheme *types.Scheme) *Env {
	return &Env{bindings: map[ast.Symbol]*types.Scheme{sym: scheme}, parent: env}
}

// Lookup searches env and its ancestors for sym.
func (env *Env) Lookup(sym ast.Symbol) (*types.Scheme, error) {
	for e := env; e != nil; e = e.parent {
		if s, ok := e.bindings[sym]; ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unbound symbol: %s", sym.String())
}

// FreeTypeVars returns the free type-variable ids across every binding
// reachable from env, used by generalize to avoid quantifying a variable
// still constrained by an enclosing scope.
func (env *Env) FreeTypeVars() map[int]bool {
	free := make(map[int]bool)
	for e := env; e != nil; e = e.parent {
		for _, s := range e.bindings {
			for v := range schemeFtv(s) {
				free[v] = true
			}
		}
	}
	return free
}

func schemeFtv(s *types.Scheme) map[int]bool {
	free := types.FreeTypeVars(s.Type)
	for _, v := range s.Vars {
		delete(free, v)
	}
	return free
}
