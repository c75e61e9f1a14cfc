package types

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/errors"
)

// Unify structurally unifies t1 and t2 against p's current pool, reporting
// the first disagreement as a *errors.CompileError. pos is the source
// region to attribute the error to. Grounded on the structural-pairing
// shape of the teacher's Unifier.Unify, re-expressed over the union-find
// Pool mandated by spec.md §4.1/§9 rather than the teacher's own
// substitution-map approach.
func (p *Pool) Unify(t1, t2 Type, pos string) *errors.CompileError {
	t1 = p.find(t1)
	t2 = p.find(t2)

	if v1, ok := t1.(*Var); ok {
		if v2, ok2 := t2.(*Var); ok2 && v1.ID == v2.ID {
			return nil
		}
		if p.occurs(v1, t2) {
			return errors.New(errors.OccursIn, pos, fmt.Sprintf("%s occurs in %s", v1.String(), t2.String()))
		}
		p.union(v1, t2)
		return nil
	}
	if v2, ok := t2.(*Var); ok {
		if p.occurs(v2, t1) {
			return errors.New(errors.OccursIn, pos, fmt.Sprintf("%s occurs in %s", v2.String(), t1.String()))
		}
		p.union(v2, t1)
		return nil
	}

	switch a := t1.(type) {
	case *Con:
		b, ok := t2.(*Con)
		if !ok || a.Name != b.Name {
			return errors.Mismatchf(pos, a.String(), t2.String())
		}
		return nil

	case *Datatype:
		b, ok := t2.(*Datatype)
		if !ok || a.Name != b.Name {
			return errors.Mismatchf(pos, a.String(), t2.String())
		}
		return nil

	case *Fun:
		b, ok := t2.(*Fun)
		if !ok {
			return errors.Mismatchf(pos, a.String(), t2.String())
		}
		if err := p.Unify(a.Param, b.Param, pos); err != nil {
			return err
		}
		return p.Unify(p.Apply(a.Ret), p.Apply(b.Ret), pos)

	case *Tuple:
		b, ok := t2.(*Tuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return errors.Mismatchf(pos, a.String(), t2.String())
		}
		for i := range a.Elems {
			if err := p.Unify(p.Apply(a.Elems[i]), p.Apply(b.Elems[i]), pos); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.New(errors.Internal, pos, fmt.Sprintf("unhandled type in unification: %T", t1))
	}
}
