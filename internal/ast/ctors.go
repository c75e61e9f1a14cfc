package ast

// ConstructorNames collects every constructor name declared by any Datatype
// in prog. Rename and VarToConstructor both need this set: constructors are
// not lexically bound identifiers, so Rename must not treat a bare
// constructor reference as a free-variable error, and VarToConstructor
// needs it to know which Symbol/Variable nodes to reclassify.
func ConstructorNames(prog *Program) map[string]bool {
	names := make(map[string]bool)
	for _, d := range prog.Decls {
		if dt, ok := d.(*Datatype); ok {
			for _, c := range dt.Constructors {
				names[c.Name] = true
			}
		}
	}
	return names
}
