package ast

import "github.com/wasmc/wasmc/internal/errors"

// VarToConstructor runs after Rename and reclassifies the Symbol/Variable
// nodes that Rename deliberately left untouched (because their name names
// a declared constructor, not a lexical binding) into Constructor nodes.
// A bare constructor reference becomes a nullary Constructor; App(ref, arg)
// where ref names a constructor collapses into a unary Constructor(name,
// arg). Pattern-side constructor application is already unambiguous at
// parse time (see DESIGN.md's internal/surfaceparse entry), so only bare constructor-named
// VariablePatterns need reclassifying here.
func VarToConstructor(prog *Program) (*Program, *errors.CompileError) {
	ctors := ConstructorNames(prog)
	out := &Program{}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *Datatype:
			out.Decls = append(out.Decls, decl)
		case *Val:
			pat, err := vtcPattern(decl.Pattern, ctors)
			if err != nil {
				return nil, err
			}
			expr, err := vtcExpr(decl.Expr, ctors)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, &Val{DeclPos: decl.DeclPos, Pattern: pat, Expr: expr, Rec: decl.Rec})
		}
	}
	return out, nil
}

func vtcExpr(e Expr, ctors map[string]bool) (Expr, *errors.CompileError) {
	switch ex := e.(type) {
	case *Literal:
		return ex, nil

	case *SymbolRef:
		if ctors[ex.Sym.Name] {
			return &Constructor{exprBase: ex.exprBase, Name: ex.Sym.Name}, nil
		}
		return ex, nil

	case *Constructor:
		if ex.Arg == nil {
			return ex, nil
		}
		arg, err := vtcExpr(ex.Arg, ctors)
		if err != nil {
			return nil, err
		}
		return &Constructor{exprBase: ex.exprBase, Name: ex.Name, Arg: arg}, nil

	case *App:
		fn, err := vtcExpr(ex.Fun, ctors)
		if err != nil {
			return nil, err
		}
		arg, err := vtcExpr(ex.Arg, ctors)
		if err != nil {
			return nil, err
		}
		if ctor, ok := fn.(*Constructor); ok && ctor.Arg == nil {
			return &Constructor{exprBase: ex.exprBase, Name: ctor.Name, Arg: arg}, nil
		}
		return &App{exprBase: ex.exprBase, Fun: fn, Arg: arg}, nil

	case *Fn:
		body, err := vtcExpr(ex.Body, ctors)
		if err != nil {
			return nil, err
		}
		return &Fn{exprBase: ex.exprBase, Param: ex.Param, Body: body}, nil

	case *BuiltinCall:
		args, err := vtcExprs(ex.Args, ctors)
		if err != nil {
			return nil, err
		}
		return &BuiltinCall{exprBase: ex.exprBase, Fun: ex.Fun, Args: args}, nil

	case *ExternCall:
		args, err := vtcExprs(ex.Args, ctors)
		if err != nil {
			return nil, err
		}
		return &ExternCall{exprBase: ex.exprBase, Module: ex.Module, Fun: ex.Fun, Args: args, ArgTy: ex.ArgTy, RetTy: ex.RetTy}, nil

	case *Tuple:
		elems, err := vtcExprs(ex.Elems, ctors)
		if err != nil {
			return nil, err
		}
		return &Tuple{exprBase: ex.exprBase, Elems: elems}, nil

	case *Case:
		cond, err := vtcExpr(ex.Cond, ctors)
		if err != nil {
			return nil, err
		}
		clauses := make([]CaseClause, len(ex.Clauses))
		for i, c := range ex.Clauses {
			pat, err := vtcPattern(c.Pattern, ctors)
			if err != nil {
				return nil, err
			}
			body, err := vtcExpr(c.Expr, ctors)
			if err != nil {
				return nil, err
			}
			clauses[i] = CaseClause{Pattern: pat, Expr: body}
		}
		return &Case{exprBase: ex.exprBase, Cond: cond, Clauses: clauses}, nil

	case *Binds:
		binds := make([]LocalBind, len(ex.BindsList))
		for i, b := range ex.BindsList {
			pat, err := vtcPattern(b.Pattern, ctors)
			if err != nil {
				return nil, err
			}
			val, err := vtcExpr(b.Expr, ctors)
			if err != nil {
				return nil, err
			}
			binds[i] = LocalBind{Pattern: pat, Expr: val, Rec: b.Rec}
		}
		ret, err := vtcExpr(ex.Ret, ctors)
		if err != nil {
			return nil, err
		}
		return &Binds{exprBase: ex.exprBase, BindsList: binds, Ret: ret}, nil

	default:
		return nil, errors.New(errors.Internal, e.Position().String(), "unknown expression kind in VarToConstructor")
	}
}

func vtcExprs(es []Expr, ctors map[string]bool) ([]Expr, *errors.CompileError) {
	out := make([]Expr, len(es))
	for i, e := range es {
		ne, err := vtcExpr(e, ctors)
		if err != nil {
			return nil, err
		}
		out[i] = ne
	}
	return out, nil
}

func vtcPattern(p Pattern, ctors map[string]bool) (Pattern, *errors.CompileError) {
	switch pat := p.(type) {
	case *VariablePattern:
		if ctors[pat.Sym.Name] {
			return &ConstructorPattern{patternBase: pat.patternBase, Name: pat.Sym.Name}, nil
		}
		return pat, nil
	case *WildcardPattern, *ConstantPattern, *CharPattern:
		return pat, nil
	case *ConstructorPattern:
		if pat.Arg == nil {
			return pat, nil
		}
		arg, err := vtcPattern(pat.Arg, ctors)
		if err != nil {
			return nil, err
		}
		return &ConstructorPattern{patternBase: pat.patternBase, Name: pat.Name, Arg: arg}, nil
	case *TuplePattern:
		elems := make([]Pattern, len(pat.Elems))
		for i, e := range pat.Elems {
			ne, err := vtcPattern(e, ctors)
			if err != nil {
				return nil, err
			}
			elems[i] = ne
		}
		return &TuplePattern{patternBase: pat.patternBase, Elems: elems}, nil
	default:
		return nil, errors.New(errors.Internal, p.Position().String(), "unknown pattern kind in VarToConstructor")
	}
}
