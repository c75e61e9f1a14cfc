// Package interp implements a tree-walking lir.Backend stand-in used only
// by tests, so the end-to-end scenarios of spec.md §8.3 have something to
// execute against without a real WASM encoder (SPEC_FULL.md §17). Grounded
// loosely on the teacher's internal/eval — evaluate-by-structural-
// recursion over a closed Value interface — but walks lir.Program's
// block/terminator shape instead of a tree, since that is the IR tier it
// receives, and records `js-ffi.print` side effects into a buffer instead
// of returning a real evaluation result.
package interp

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/lir"
	"github.com/wasmc/wasmc/internal/mir"
)

// Value is any runtime value this interpreter produces: IntValue,
// RealValue, CharValue, UnitValue, TupleValue, or ClosureValue.
type Value interface {
	Type() string
	String() string
}

// IntValue is a boxed Int.
type IntValue struct{ Value int }

func (v IntValue) Type() string   { return "int" }
func (v IntValue) String() string { return fmt.Sprintf("%d", v.Value) }

// RealValue is a boxed Real.
type RealValue struct{ Value float64 }

func (v RealValue) Type() string   { return "real" }
func (v RealValue) String() string { return fmt.Sprintf("%g", v.Value) }

// CharValue is a boxed Char.
type CharValue struct{ Value rune }

func (v CharValue) Type() string   { return "char" }
func (v CharValue) String() string { return string(v.Value) }

// UnitValue is the () result of a js-ffi.print extern call. (A
// never-lifted top-level function's synthetic env parameter receives an
// empty TupleValue instead; see Interp.execOp's Call case.)
type UnitValue struct{}

func (UnitValue) Type() string   { return "unit" }
func (UnitValue) String() string { return "()" }

// TupleValue is a fixed-arity tuple — also what a closure's captured
// environment is packaged as before it's passed to the lifted function's
// env parameter.
type TupleValue struct{ Elems []Value }

func (v TupleValue) Type() string { return "tuple" }
func (v TupleValue) String() string {
	s := "("
	for i, e := range v.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

// ClosureValue pairs a target function's name with its already-evaluated
// captured environment. Fun always names a Function in the Program with
// the uniform (env, arg) calling convention hir2mir establishes — see
// Interp.call.
type ClosureValue struct {
	Fun ast.Symbol
	Env []Value
}

func (v ClosureValue) Type() string   { return "closure" }
func (v ClosureValue) String() string { return "<closure:" + v.Fun.String() + ">" }

// Interp runs a lir.Program by eagerly evaluating every zero-parameter
// Function (one per non-Fun top-level Val) in program order, the same
// order the corresponding `val` declarations appeared in source. Any
// `js-ffi.print` extern call executed along the way appends to out; the
// collected bytes are what Emit returns, standing in for the real
// backend's compiled WASM bytes.
type Interp struct {
	prog  *lir.Program
	funcs map[uint64]*lir.Function
	out   []byte
}

// New builds an Interp over prog, indexing every Function by name for
// Call/env lookups. A nil prog gives an Interp that serves only as a
// Backend: Emit builds its own Interp over the program it is handed.
func New(prog *lir.Program) *Interp {
	if prog == nil {
		return &Interp{funcs: make(map[uint64]*lir.Function)}
	}
	it := &Interp{prog: prog, funcs: make(map[uint64]*lir.Function, len(prog.Functions))}
	for i := range prog.Functions {
		it.funcs[prog.Functions[i].Name.ID] = &prog.Functions[i]
	}
	return it
}

// Emit implements lir.Backend: it runs every zero-parameter Function in
// declaration order and returns whatever was printed.
func (it *Interp) Emit(prog *lir.Program) ([]byte, error) {
	return New(prog).Run()
}

// Run is Emit without the lir.Backend interface ceremony, for tests that
// want the collected output directly.
func (it *Interp) Run() ([]byte, error) {
	for _, fn := range it.prog.Functions {
		if len(fn.Params) == 0 {
			if _, err := it.runFunction(&fn, nil); err != nil {
				return nil, err
			}
		}
	}
	return it.out, nil
}

// runFunction evaluates fn's blocks starting at Body[0], threading block
// parameters through Jump/Branch, and returns the value at its Ret.
func (it *Interp) runFunction(fn *lir.Function, args []Value) (Value, error) {
	env := make(map[uint64]Value, len(fn.Params))
	for i, p := range fn.Params {
		env[p.Sym.ID] = args[i]
	}

	blocks := make(map[uint64]*lir.Block, len(fn.Body))
	for i := range fn.Body {
		blocks[fn.Body[i].Name.ID] = &fn.Body[i]
	}

	cur := &fn.Body[0]
	for {
		for _, op := range cur.Body {
			if err := it.execOp(op, env); err != nil {
				return nil, err
			}
		}
		switch t := cur.Terminator.(type) {
		case mir.Ret:
			return env[t.Value.ID], nil
		case mir.Jump:
			next := blocks[t.Target.ID]
			bindBlockArgs(env, next.Params, t.Args)
			cur = next
		case mir.Branch:
			cond := env[t.Cond.ID].(IntValue).Value
			if cond != 0 {
				next := blocks[t.Then.ID]
				bindBlockArgs(env, next.Params, t.ThenArgs)
				cur = next
			} else {
				next := blocks[t.Else.ID]
				bindBlockArgs(env, next.Params, t.ElseArgs)
				cur = next
			}
		default:
			return nil, fmt.Errorf("interp: unknown terminator %T", t)
		}
	}
}

func bindBlockArgs(env map[uint64]Value, params []mir.Param, args []ast.Symbol) {
	for i, p := range params {
		env[p.Sym.ID] = env[args[i].ID]
	}
}

func (it *Interp) execOp(op mir.Op, env map[uint64]Value) error {
	switch o := op.(type) {
	case mir.Lit:
		env[o.Var.ID] = litValue(o)

	case mir.Add:
		env[o.Var.ID] = IntValue{env[o.L.ID].(IntValue).Value + env[o.R.ID].(IntValue).Value}

	case mir.Mul:
		env[o.Var.ID] = IntValue{env[o.L.ID].(IntValue).Value * env[o.R.ID].(IntValue).Value}

	case mir.BinOp:
		v, err := it.binOp(o.Name, env[o.L.ID], env[o.R.ID])
		if err != nil {
			return err
		}
		env[o.Var.ID] = v

	case mir.Tuple:
		elems := make([]Value, len(o.Elems))
		for i, s := range o.Elems {
			elems[i] = env[s.ID]
		}
		env[o.Var.ID] = TupleValue{Elems: elems}

	case mir.Proj:
		tup := env[o.Tuple.ID].(TupleValue)
		env[o.Var.ID] = tup.Elems[o.Index]

	case mir.Closure:
		envVals := make([]Value, len(o.Env))
		for i, slot := range o.Env {
			envVals[i] = env[slot.Sym.ID]
		}
		env[o.Var.ID] = ClosureValue{Fun: o.Fun, Env: envVals}

	case mir.Call:
		closure, ok := env[o.Fun.ID].(ClosureValue)
		if !ok {
			return fmt.Errorf("interp: %s is not a closure value", o.Fun.String())
		}
		target, ok := it.funcs[closure.Fun.ID]
		if !ok {
			return fmt.Errorf("interp: unknown function %s", closure.Fun.String())
		}
		args := make([]Value, 0, len(o.Args)+1)
		args = append(args, TupleValue{Elems: closure.Env})
		for _, s := range o.Args {
			args = append(args, env[s.ID])
		}
		result, err := it.runFunction(target, args)
		if err != nil {
			return err
		}
		env[o.Var.ID] = result

	case mir.ExternCall:
		result, err := it.externCall(o, env)
		if err != nil {
			return err
		}
		env[o.Var.ID] = result

	default:
		return fmt.Errorf("interp: unexpected mir.Op %T (builtin Call ops route through ExternCall/Call)", op)
	}
	return nil
}

func litValue(o mir.Lit) Value {
	switch o.Kind {
	case ast.IntLit:
		return IntValue{o.Value.(int)}
	case ast.RealLit:
		return RealValue{o.Value.(float64)}
	case ast.CharLit:
		return CharValue{o.Value.(rune)}
	default:
		panic(fmt.Sprintf("interp: unknown literal kind %v", o.Kind))
	}
}

func (it *Interp) binOp(name string, l, r Value) (Value, error) {
	switch name {
	case "+":
		return IntValue{l.(IntValue).Value + r.(IntValue).Value}, nil
	case "*":
		return IntValue{l.(IntValue).Value * r.(IntValue).Value}, nil
	case "-":
		return IntValue{l.(IntValue).Value - r.(IntValue).Value}, nil
	case "=":
		return boolAsInt(l.(IntValue).Value == r.(IntValue).Value), nil
	case "<":
		return boolAsInt(l.(IntValue).Value < r.(IntValue).Value), nil
	case ">":
		return boolAsInt(l.(IntValue).Value > r.(IntValue).Value), nil
	default:
		return nil, fmt.Errorf("interp: unknown binary builtin %q", name)
	}
}

func boolAsInt(b bool) IntValue {
	if b {
		return IntValue{1}
	}
	return IntValue{0}
}

// externCall implements the one foreign function spec.md §6.3 names:
// js-ffi.print(i32) -> (). Anything else is an error, since this
// interpreter exists only to make spec.md §8.3's scenarios executable,
// not to be a general FFI host.
func (it *Interp) externCall(o mir.ExternCall, env map[uint64]Value) (Value, error) {
	if o.Module != "js-ffi" || o.Fun != "print" {
		return nil, fmt.Errorf("interp: unknown extern %s.%s", o.Module, o.Fun)
	}
	if len(o.Args) != 1 {
		return nil, fmt.Errorf("interp: js-ffi.print takes exactly one argument")
	}
	arg := env[o.Args[0].ID]
	it.out = append(it.out, []byte(arg.String())...)
	it.out = append(it.out, '\n')
	return UnitValue{}, nil
}
