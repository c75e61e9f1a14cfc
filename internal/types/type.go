// Package types implements the monotype system and the union-find
// unification pool that internal/typecheck's Hindley–Milner inference runs
// on (spec.md §4.1).
package types

import (
	"fmt"
	"strings"
)

// Type is a monotype (spec.md §3.1): Var, Char, Int, Real, Fun, Tuple, or
// Datatype. Equality is structural; Substitute replaces type variables
// according to a Substitution (see pool.go).
type Type interface {
	String() string
	Equals(Type) bool
	Substitute(Substitution) Type
	ftv(set map[int]bool)
}

// Var is a type variable, identified by the integer id it was allocated
// with. Two Vars are equal iff their ids match.
type Var struct {
	ID int
}

func (t *Var) String() string { return fmt.Sprintf("t%d", t.ID) }
func (t *Var) Equals(o Type) bool {
	ov, ok := o.(*Var)
	return ok && ov.ID == t.ID
}
func (t *Var) Substitute(sub Substitution) Type {
	if r, ok := sub[t.ID]; ok {
		return r
	}
	return t
}
func (t *Var) ftv(set map[int]bool) { set[t.ID] = true }

// Con is a nullary builtin type constructor: Char, Int, Real, or (via
// Datatype below) a user datatype's constant case.
type Con struct {
	Name string
}

func (t *Con) String() string         { return t.Name }
func (t *Con) Equals(o Type) bool     { c, ok := o.(*Con); return ok && c.Name == t.Name }
func (t *Con) Substitute(Substitution) Type { return t }
func (t *Con) ftv(map[int]bool)       {}

var (
	Char = &Con{Name: "char"}
	Int  = &Con{Name: "int"}
	Real = &Con{Name: "real"}
)

// Fun is a function type T -> T.
type Fun struct {
	Param Type
	Ret   Type
}

func (t *Fun) String() string {
	return fmt.Sprintf("(%s -> %s)", t.Param.String(), t.Ret.String())
}
func (t *Fun) Equals(o Type) bool {
	f, ok := o.(*Fun)
	return ok && t.Param.Equals(f.Param) && t.Ret.Equals(f.Ret)
}
func (t *Fun) Substitute(sub Substitution) Type {
	return &Fun{Param: t.Param.Substitute(sub), Ret: t.Ret.Substitute(sub)}
}
func (t *Fun) ftv(set map[int]bool) { t.Param.ftv(set); t.Ret.ftv(set) }

// Tuple is a fixed-arity product type.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " * "))
}
func (t *Tuple) Equals(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(ot.Elems[i]) {
			return false
		}
	}
	return true
}
func (t *Tuple) Substitute(sub Substitution) Type {
	elems := make([]Type, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.Substitute(sub)
	}
	return &Tuple{Elems: elems}
}
func (t *Tuple) ftv(set map[int]bool) {
	for _, e := range t.Elems {
		e.ftv(set)
	}
}

// Datatype names a user-declared algebraic datatype by its declared name.
// Two Datatypes are equal iff their names match (this language has no
// separate compilation, so one name always denotes one declaration).
type Datatype struct {
	Name string
}

func (t *Datatype) String() string         { return t.Name }
func (t *Datatype) Equals(o Type) bool     { d, ok := o.(*Datatype); return ok && d.Name == t.Name }
func (t *Datatype) Substitute(Substitution) Type { return t }
func (t *Datatype) ftv(map[int]bool)       {}

// FreeTypeVars returns the set of free type-variable ids in t.
func FreeTypeVars(t Type) map[int]bool {
	set := make(map[int]bool)
	t.ftv(set)
	return set
}

// Scheme is a polymorphic type scheme ∀α₁…αₙ. T, used only internally by
// the Typer (spec.md §3.1).
type Scheme struct {
	Vars []int
	Type Type
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = fmt.Sprintf("t%d", v)
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.Type.String())
}

// ftvScheme returns the free type variables of a scheme: those of its body
// minus the quantified ones.
func ftvScheme(s *Scheme) map[int]bool {
	free := FreeTypeVars(s.Type)
	for _, v := range s.Vars {
		delete(free, v)
	}
	return free
}
