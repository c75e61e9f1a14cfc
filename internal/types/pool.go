package types

// Substitution maps a type-variable id to a replacement Type, applied via
// Type.Substitute; the Typer's instantiation step builds one per use of a
// type scheme. The Pool below records its own bindings in slots instead,
// and never mutates a Type value in place
// (spec.md §9: "do not attempt to represent type variables by shared
// mutable cells across the tree; always go through find").
type Substitution map[int]Type

// Pool is the union-find unification pool: an arena of slots keyed by
// integer id, with path compression and an occurs check. It is the
// concrete structure behind spec.md §4.1's "union-find over type-variable
// representatives."
type Pool struct {
	slots   []Type // slots[id] is either nil (unbound var) or the type this id was unioned to
	counter int
}

// NewPool creates an empty unification pool.
func NewPool() *Pool {
	return &Pool{}
}

// Fresh allocates a new, unbound type variable.
func (p *Pool) Fresh() *Var {
	id := p.counter
	p.counter++
	p.slots = append(p.slots, nil)
	return &Var{ID: id}
}

// find resolves a type to its representative: if it is a bound Var it
// follows the chain (with path compression) until it reaches an unbound
// Var or a non-Var type.
func (p *Pool) find(t Type) Type {
	v, ok := t.(*Var)
	if !ok {
		return t
	}
	if v.ID >= len(p.slots) || p.slots[v.ID] == nil {
		return v
	}
	root := p.find(p.slots[v.ID])
	p.slots[v.ID] = root // path compression
	return root
}

// Apply resolves every type variable in t to its current representative,
// recursively, producing a type with no bound variables remaining.
func (p *Pool) Apply(t Type) Type {
	t = p.find(t)
	switch t := t.(type) {
	case *Var:
		return t
	case *Fun:
		return &Fun{Param: p.Apply(t.Param), Ret: p.Apply(t.Ret)}
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = p.Apply(e)
		}
		return &Tuple{Elems: elems}
	default:
		return t
	}
}

// union binds variable v's representative to t. Callers must have already
// performed the occurs check.
func (p *Pool) union(v *Var, t Type) {
	for v.ID >= len(p.slots) {
		p.slots = append(p.slots, nil)
	}
	p.slots[v.ID] = t
}

// occurs reports whether v appears free in t (after resolving t's bound
// variables), per spec.md §4.1's occurs-check requirement.
func (p *Pool) occurs(v *Var, t Type) bool {
	t = p.find(t)
	switch t := t.(type) {
	case *Var:
		return t.ID == v.ID
	case *Fun:
		return p.occurs(v, t.Param) || p.occurs(v, t.Ret)
	case *Tuple:
		for _, e := range t.Elems {
			if p.occurs(v, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
