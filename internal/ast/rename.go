package ast

import (
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/sid"
)

// renamer performs alpha-renaming: every binder gets a fresh Symbol minted
// from src, and every bound occurrence is rewritten to refer to it by id.
// Scoping follows a push/pop-disciplined stack of name->Symbol maps, tied
// to the syntactic scope of the traversal (spec.md §9's explicit-stack
// design note).
type renamer struct {
	src    sid.Source
	ctors  map[string]bool
	scopes []map[string]Symbol
}

func (r *renamer) push() { r.scopes = append(r.scopes, make(map[string]Symbol)) }
func (r *renamer) pop()  { r.scopes = r.scopes[:len(r.scopes)-1] }

// define binds name to a fresh Symbol in the innermost scope and returns it.
func (r *renamer) define(name string) Symbol {
	sym := Symbol{Name: name, ID: r.src.Next()}
	r.scopes[len(r.scopes)-1][name] = sym
	return sym
}

func (r *renamer) lookup(name string) (Symbol, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if sym, ok := r.scopes[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Rename alpha-renames an entire program (spec.md §3.1's Name-freshness and
// Scoping invariants). Constructor-table construction happens first
// (ConstructorNames is purely structural over Datatype decls, so it needs
// neither Rename nor the Typer to run beforehand); constructor-named
// identifiers are left untouched for VarToConstructor to reclassify rather
// than treated as lexical references.
func Rename(prog *Program, src sid.Source) (*Program, *errors.CompileError) {
	r := &renamer{src: src, ctors: ConstructorNames(prog)}
	r.push() // single top-level scope, persists across all declarations

	out := &Program{}
	for _, d := range prog.Decls {
		nd, err := r.renameDecl(d)
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, nd)
	}
	return out, nil
}

func (r *renamer) renameDecl(d Decl) (Decl, *errors.CompileError) {
	switch decl := d.(type) {
	case *Datatype:
		return decl, nil
	case *Val:
		return r.renameVal(decl)
	default:
		return nil, errors.New(errors.Internal, d.Position().String(), "declaration survived Desugar unexpectedly")
	}
}

func (r *renamer) renameVal(v *Val) (*Val, *errors.CompileError) {
	if v.Rec {
		pat, err := r.renamePattern(v.Pattern, true)
		if err != nil {
			return nil, err
		}
		expr, err := r.renameExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &Val{DeclPos: v.DeclPos, Pattern: pat, Expr: expr, Rec: true}, nil
	}

	expr, err := r.renameExpr(v.Expr)
	if err != nil {
		return nil, err
	}
	pat, err := r.renamePattern(v.Pattern, true)
	if err != nil {
		return nil, err
	}
	return &Val{DeclPos: v.DeclPos, Pattern: pat, Expr: expr, Rec: false}, nil
}

// renamePattern binds every VariablePattern it finds (unless its name
// names a known constructor, in which case it is left alone for
// VarToConstructor) when bind is true.
func (r *renamer) renamePattern(p Pattern, bind bool) (Pattern, *errors.CompileError) {
	switch pat := p.(type) {
	case *VariablePattern:
		if r.ctors[pat.Sym.Name] {
			return pat, nil
		}
		if !bind {
			return pat, nil
		}
		sym := r.define(pat.Sym.Name)
		return &VariablePattern{patternBase: pat.patternBase, Sym: sym}, nil
	case *WildcardPattern, *ConstantPattern, *CharPattern:
		return pat, nil
	case *ConstructorPattern:
		if pat.Arg == nil {
			return pat, nil
		}
		arg, err := r.renamePattern(pat.Arg, bind)
		if err != nil {
			return nil, err
		}
		return &ConstructorPattern{patternBase: pat.patternBase, Name: pat.Name, Arg: arg}, nil
	case *TuplePattern:
		elems := make([]Pattern, len(pat.Elems))
		for i, e := range pat.Elems {
			ne, err := r.renamePattern(e, bind)
			if err != nil {
				return nil, err
			}
			elems[i] = ne
		}
		return &TuplePattern{patternBase: pat.patternBase, Elems: elems}, nil
	default:
		return nil, errors.New(errors.Internal, p.Position().String(), "unknown pattern kind")
	}
}

func (r *renamer) renameExpr(e Expr) (Expr, *errors.CompileError) {
	switch ex := e.(type) {
	case *Literal:
		return ex, nil

	case *SymbolRef:
		if r.ctors[ex.Sym.Name] {
			return ex, nil // constructor reference, left for VarToConstructor
		}
		sym, ok := r.lookup(ex.Sym.Name)
		if !ok {
			return nil, errors.New(errors.FreeVariable, ex.ExprPos.String(), "unbound identifier "+ex.Sym.Name)
		}
		return &SymbolRef{exprBase: ex.exprBase, Sym: sym}, nil

	case *Constructor:
		if ex.Arg == nil {
			return ex, nil
		}
		arg, err := r.renameExpr(ex.Arg)
		if err != nil {
			return nil, err
		}
		return &Constructor{exprBase: ex.exprBase, Name: ex.Name, Arg: arg}, nil

	case *Fn:
		r.push()
		sym := r.define(ex.Param.Name)
		body, err := r.renameExpr(ex.Body)
		r.pop()
		if err != nil {
			return nil, err
		}
		return &Fn{exprBase: ex.exprBase, Param: sym, Body: body}, nil

	case *App:
		fn, err := r.renameExpr(ex.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := r.renameExpr(ex.Arg)
		if err != nil {
			return nil, err
		}
		return &App{exprBase: ex.exprBase, Fun: fn, Arg: arg}, nil

	case *BuiltinCall:
		args, err := r.renameExprs(ex.Args)
		if err != nil {
			return nil, err
		}
		return &BuiltinCall{exprBase: ex.exprBase, Fun: ex.Fun, Args: args}, nil

	case *ExternCall:
		args, err := r.renameExprs(ex.Args)
		if err != nil {
			return nil, err
		}
		return &ExternCall{exprBase: ex.exprBase, Module: ex.Module, Fun: ex.Fun, Args: args, ArgTy: ex.ArgTy, RetTy: ex.RetTy}, nil

	case *Tuple:
		elems, err := r.renameExprs(ex.Elems)
		if err != nil {
			return nil, err
		}
		return &Tuple{exprBase: ex.exprBase, Elems: elems}, nil

	case *Case:
		cond, err := r.renameExpr(ex.Cond)
		if err != nil {
			return nil, err
		}
		clauses := make([]CaseClause, len(ex.Clauses))
		for i, c := range ex.Clauses {
			r.push()
			pat, err := r.renamePattern(c.Pattern, true)
			if err != nil {
				return nil, err
			}
			body, err := r.renameExpr(c.Expr)
			r.pop()
			if err != nil {
				return nil, err
			}
			clauses[i] = CaseClause{Pattern: pat, Expr: body}
		}
		return &Case{exprBase: ex.exprBase, Cond: cond, Clauses: clauses}, nil

	case *Binds:
		r.push()
		binds := make([]LocalBind, len(ex.BindsList))
		for i, b := range ex.BindsList {
			var (
				pat Pattern
				val Expr
				err *errors.CompileError
			)
			if b.Rec {
				pat, err = r.renamePattern(b.Pattern, true)
				if err == nil {
					val, err = r.renameExpr(b.Expr)
				}
			} else {
				val, err = r.renameExpr(b.Expr)
				if err == nil {
					pat, err = r.renamePattern(b.Pattern, true)
				}
			}
			if err != nil {
				r.pop()
				return nil, err
			}
			binds[i] = LocalBind{Pattern: pat, Expr: val, Rec: b.Rec}
		}
		ret, err := r.renameExpr(ex.Ret)
		r.pop()
		if err != nil {
			return nil, err
		}
		return &Binds{exprBase: ex.exprBase, BindsList: binds, Ret: ret}, nil

	case *If:
		cond, err := r.renameExpr(ex.Cond)
		if err != nil {
			return nil, err
		}
		then, err := r.renameExpr(ex.Then)
		if err != nil {
			return nil, err
		}
		els, err := r.renameExpr(ex.Else)
		if err != nil {
			return nil, err
		}
		return &If{exprBase: ex.exprBase, Cond: cond, Then: then, Else: els}, nil

	default:
		return nil, errors.New(errors.Internal, e.Position().String(), "unknown expression kind in Rename")
	}
}

func (r *renamer) renameExprs(es []Expr) ([]Expr, *errors.CompileError) {
	out := make([]Expr, len(es))
	for i, e := range es {
		ne, err := r.renameExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = ne
	}
	return out, nil
}
