package typecheck

import (
	"fmt"
	"sort"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/types"
)

// Infer runs Algorithm W over the whole program (spec.md §4.1), after
// Desugar/Rename/VarToConstructor have run. It mutates every node's type
// slot via SetType and returns the same *ast.Program on success; the first
// type error aborts inference immediately (spec.md §5's per-pass
// fail-fast contract). Non-exhaustiveness/redundancy are CaseSimplify's
// concern, not the Typer's — warnings is accepted here only so future
// extensions (e.g. an unreachable-arm-by-type check) have somewhere to
// report without changing the signature.
type Infer struct {
	pool     *types.Pool
	ctors    CtorTable
	warnings *errors.Sink
}

// NewInfer builds an inference engine with a fresh unification pool.
func NewInfer(ctors CtorTable, warnings *errors.Sink) *Infer {
	return &Infer{pool: types.NewPool(), ctors: ctors, warnings: warnings}
}

// Run type-checks prog in place.
func Run(prog *ast.Program, warnings *errors.Sink) (*ast.Program, *errors.CompileError) {
	tc := NewInfer(BuildCtorTable(prog), warnings)
	env := NewEnv()
	for _, d := range prog.Decls {
		v, ok := d.(*ast.Val)
		if !ok {
			continue // Datatype: no code to type-check
		}
		var err *errors.CompileError
		env, err = tc.bindTopLevel(env, v)
		if err != nil {
			return nil, err
		}
	}
	tc.zonk(prog)
	return prog, nil
}

func (tc *Infer) bindTopLevel(env *Env, v *ast.Val) (*Env, *errors.CompileError) {
	bind := ast.LocalBind{Pattern: v.Pattern, Expr: v.Expr, Rec: v.Rec}
	return tc.bindLocal(env, bind)
}

// bindLocal type-checks one binding and returns the environment extended
// with its (possibly generalized) scheme(s). Shared between top-level Val
// decls and Binds expressions, since both have identical Rec/generalization
// semantics (spec.md §4.1).
func (tc *Infer) bindLocal(env *Env, b ast.LocalBind) (*Env, *errors.CompileError) {
	pos := b.Expr.Position().String()

	if b.Rec {
		sym, ok := variableSymbol(b.Pattern)
		if !ok {
			return nil, errors.New(errors.Internal, pos, "val rec requires a variable pattern")
		}
		tv := tc.pool.Fresh()
		// Monomorphic placeholder: the recursive occurrence inside Expr
		// sees an unquantified type variable, so recursive calls cannot
		// be used polymorphically within their own defining group.
		recEnv := env.Extend(sym, &types.Scheme{Type: tv})
		exprT, err := tc.inferExpr(recEnv, b.Expr)
		if err != nil {
			return nil, err
		}
		if err := tc.pool.Unify(tv, exprT, pos); err != nil {
			return nil, err
		}
		scheme := tc.generalize(env, tv)
		b.Pattern.SetType(tc.pool.Apply(tv))
		return env.Extend(sym, scheme), nil
	}

	exprT, err := tc.inferExpr(env, b.Expr)
	if err != nil {
		return nil, err
	}
	if sym, ok := variableSymbol(b.Pattern); ok {
		scheme := tc.generalize(env, exprT)
		b.Pattern.SetType(tc.pool.Apply(exprT))
		return env.Extend(sym, scheme), nil
	}
	// Non-variable pattern (tuple destructure, constructor, literal guard
	// used as a binder): bound monomorphically, matching the syntactic
	// value restriction every HM implementation applies to non-variable
	// let-patterns.
	return tc.inferPattern(env, b.Pattern, exprT)
}

func variableSymbol(p ast.Pattern) (ast.Symbol, bool) {
	v, ok := p.(*ast.VariablePattern)
	if !ok {
		return ast.Symbol{}, false
	}
	return v.Sym, true
}

// generalize quantifies every type variable free in t but not free in env
// (spec.md §4.1's let-generalization).
func (tc *Infer) generalize(env *Env, t types.Type) *types.Scheme {
	resolved := tc.pool.Apply(t)
	envFree := env.FreeTypeVars()
	typeFree := types.FreeTypeVars(resolved)
	var vars []int
	for v := range typeFree {
		if !envFree[v] {
			vars = append(vars, v)
		}
	}
	sort.Ints(vars)
	return &types.Scheme{Vars: vars, Type: resolved}
}

// instantiate replaces a scheme's quantified variables with fresh ones
// drawn from the pool (spec.md §4.1's instantiation step).
func (tc *Infer) instantiate(scheme *types.Scheme) types.Type {
	if len(scheme.Vars) == 0 {
		return scheme.Type
	}
	sub := make(types.Substitution, len(scheme.Vars))
	for _, v := range scheme.Vars {
		sub[v] = tc.pool.Fresh()
	}
	return scheme.Type.Substitute(sub)
}

func (tc *Infer) inferExpr(env *Env, e ast.Expr) (types.Type, *errors.CompileError) {
	pos := e.Position().String()

	switch ex := e.(type) {
	case *ast.Literal:
		var t types.Type
		switch ex.Kind {
		case ast.IntLit:
			t = types.Int
		case ast.RealLit:
			t = types.Real
		case ast.CharLit:
			t = types.Char
		default:
			return nil, errors.New(errors.Internal, pos, "unknown literal kind")
		}
		ex.SetType(t)
		return t, nil

	case *ast.SymbolRef:
		scheme, lookupErr := env.Lookup(ex.Sym)
		if lookupErr != nil {
			return nil, errors.New(errors.FreeVariable, pos, lookupErr.Error())
		}
		t := tc.instantiate(scheme)
		ex.SetType(t)
		return t, nil

	case *ast.Constructor:
		info, ok := tc.ctors[ex.Name]
		if !ok {
			return nil, errors.New(errors.Internal, pos, "unknown constructor "+ex.Name)
		}
		if (ex.Arg == nil) != (info.Arg == nil) {
			return nil, errors.New(errors.ConstructorArityMismatch, pos,
				fmt.Sprintf("constructor %s used with wrong arity", ex.Name))
		}
		if ex.Arg != nil {
			argT, err := tc.inferExpr(env, ex.Arg)
			if err != nil {
				return nil, err
			}
			if err := tc.pool.Unify(argT, info.Arg, pos); err != nil {
				return nil, err
			}
		}
		t := types.Type(&types.Datatype{Name: info.Datatype})
		ex.SetType(t)
		return t, nil

	case *ast.Fn:
		paramVar := tc.pool.Fresh()
		bodyEnv := env.Extend(ex.Param, &types.Scheme{Type: paramVar})
		bodyT, err := tc.inferExpr(bodyEnv, ex.Body)
		if err != nil {
			return nil, err
		}
		t := &types.Fun{Param: paramVar, Ret: bodyT}
		ex.SetType(t)
		return t, nil

	case *ast.App:
		fnT, err := tc.inferExpr(env, ex.Fun)
		if err != nil {
			return nil, err
		}
		argT, err := tc.inferExpr(env, ex.Arg)
		if err != nil {
			return nil, err
		}
		if resolved := tc.pool.Apply(fnT); !isVarOrFun(resolved) {
			return nil, errors.New(errors.NotAFunction, pos,
				fmt.Sprintf("cannot apply non-function type %s", resolved.String()))
		}
		retVar := tc.pool.Fresh()
		if err := tc.pool.Unify(fnT, &types.Fun{Param: argT, Ret: retVar}, pos); err != nil {
			return nil, err
		}
		t := tc.pool.Apply(retVar)
		ex.SetType(t)
		return t, nil

	case *ast.BuiltinCall:
		t, err := tc.inferBuiltin(env, ex, pos)
		if err != nil {
			return nil, err
		}
		ex.SetType(t)
		return t, nil

	case *ast.ExternCall:
		if len(ex.Args) != len(ex.ArgTy) {
			return nil, errors.New(errors.ConstructorArityMismatch, pos, "extern call arity does not match its declared signature")
		}
		for i, a := range ex.Args {
			argT, err := tc.inferExpr(env, a)
			if err != nil {
				return nil, err
			}
			if err := tc.pool.Unify(argT, ex.ArgTy[i], pos); err != nil {
				return nil, err
			}
		}
		ex.SetType(ex.RetTy)
		return ex.RetTy, nil

	case *ast.Tuple:
		elems := make([]types.Type, len(ex.Elems))
		for i, el := range ex.Elems {
			t, err := tc.inferExpr(env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		t := &types.Tuple{Elems: elems}
		ex.SetType(t)
		return t, nil

	case *ast.Case:
		condT, err := tc.inferExpr(env, ex.Cond)
		if err != nil {
			return nil, err
		}
		var resultT types.Type
		for i, c := range ex.Clauses {
			clauseEnv, err := tc.inferPattern(env, c.Pattern, condT)
			if err != nil {
				return nil, err
			}
			bodyT, err := tc.inferExpr(clauseEnv, c.Expr)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				resultT = bodyT
				continue
			}
			if err := tc.pool.Unify(resultT, bodyT, c.Expr.Position().String()); err != nil {
				return nil, err
			}
		}
		if resultT == nil {
			return nil, errors.New(errors.Internal, pos, "case with no clauses")
		}
		resultT = tc.pool.Apply(resultT)
		ex.SetType(resultT)
		return resultT, nil

	case *ast.Binds:
		curEnv := env
		for _, b := range ex.BindsList {
			var err *errors.CompileError
			curEnv, err = tc.bindLocal(curEnv, b)
			if err != nil {
				return nil, err
			}
		}
		retT, err := tc.inferExpr(curEnv, ex.Ret)
		if err != nil {
			return nil, err
		}
		ex.SetType(retT)
		return retT, nil

	default:
		return nil, errors.New(errors.Internal, pos, fmt.Sprintf("unexpected expression survived Desugar: %T", e))
	}
}

func isVarOrFun(t types.Type) bool {
	switch t.(type) {
	case *types.Var, *types.Fun:
		return true
	default:
		return false
	}
}

// inferBuiltin types the fixed set of compiler-known operators. Per spec.md
// §4.1/§9 (Open Question 1, resolved), `+` and `*` are restricted to Int —
// no numeric-tower polymorphism. Comparison operators unify their operands
// against each other and yield the prelude-declared bool datatype, since
// `if`/`=` is the only way this language produces a value of that type.
func (tc *Infer) inferBuiltin(env *Env, ex *ast.BuiltinCall, pos string) (types.Type, *errors.CompileError) {
	argTypes := make([]types.Type, len(ex.Args))
	for i, a := range ex.Args {
		t, err := tc.inferExpr(env, a)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}

	switch ex.Fun {
	case "+", "-", "*":
		if len(argTypes) != 2 {
			return nil, errors.New(errors.Internal, pos, ex.Fun+" requires exactly two arguments")
		}
		if err := tc.pool.Unify(argTypes[0], types.Int, pos); err != nil {
			return nil, err
		}
		if err := tc.pool.Unify(argTypes[1], types.Int, pos); err != nil {
			return nil, err
		}
		return types.Int, nil

	case "=", "<", "<=", ">", ">=":
		if len(argTypes) != 2 {
			return nil, errors.New(errors.Internal, pos, ex.Fun+" requires exactly two arguments")
		}
		if err := tc.pool.Unify(argTypes[0], argTypes[1], pos); err != nil {
			return nil, err
		}
		return &types.Datatype{Name: "bool"}, nil

	default:
		return nil, errors.New(errors.Internal, pos, "unknown builtin operator "+ex.Fun)
	}
}

// inferPattern matches pattern p against scrutinee type t, unifying as it
// goes, and returns env extended with every variable p binds.
func (tc *Infer) inferPattern(env *Env, p ast.Pattern, t types.Type) (*Env, *errors.CompileError) {
	pos := p.Position().String()

	switch pat := p.(type) {
	case *ast.WildcardPattern:
		pat.SetType(t)
		return env, nil

	case *ast.VariablePattern:
		pat.SetType(t)
		return env.Extend(pat.Sym, &types.Scheme{Type: t}), nil

	case *ast.ConstantPattern:
		var lt types.Type
		switch pat.Kind {
		case ast.IntLit:
			lt = types.Int
		case ast.RealLit:
			lt = types.Real
		default:
			return nil, errors.New(errors.Internal, pos, "unknown constant pattern kind")
		}
		if err := tc.pool.Unify(t, lt, pos); err != nil {
			return nil, err
		}
		pat.SetType(lt)
		return env, nil

	case *ast.CharPattern:
		if err := tc.pool.Unify(t, types.Char, pos); err != nil {
			return nil, err
		}
		pat.SetType(types.Char)
		return env, nil

	case *ast.ConstructorPattern:
		info, ok := tc.ctors[pat.Name]
		if !ok {
			return nil, errors.New(errors.Internal, pos, "unknown constructor "+pat.Name)
		}
		if (pat.Arg == nil) != (info.Arg == nil) {
			return nil, errors.New(errors.ConstructorArityMismatch, pos,
				fmt.Sprintf("constructor pattern %s used with wrong arity", pat.Name))
		}
		if err := tc.pool.Unify(t, &types.Datatype{Name: info.Datatype}, pos); err != nil {
			return nil, err
		}
		pat.SetType(tc.pool.Apply(t))
		if pat.Arg == nil {
			return env, nil
		}
		return tc.inferPattern(env, pat.Arg, info.Arg)

	case *ast.TuplePattern:
		elemVars := make([]types.Type, len(pat.Elems))
		for i := range elemVars {
			elemVars[i] = tc.pool.Fresh()
		}
		if err := tc.pool.Unify(t, &types.Tuple{Elems: elemVars}, pos); err != nil {
			return nil, err
		}
		curEnv := env
		for i, elem := range pat.Elems {
			var err *errors.CompileError
			curEnv, err = tc.inferPattern(curEnv, elem, elemVars[i])
			if err != nil {
				return nil, err
			}
		}
		pat.SetType(tc.pool.Apply(t))
		return curEnv, nil

	default:
		return nil, errors.New(errors.Internal, pos, fmt.Sprintf("unknown pattern kind %T", p))
	}
}
