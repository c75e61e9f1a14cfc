package pretty

import (
	"fmt"
	"strings"

	"github.com/wasmc/wasmc/internal/ast"
)

// PrintAST renders prog's top-level declarations, one per line with nested
// expressions indented underneath.
func PrintAST(prog *ast.Program) string {
	p := &printer{}
	for _, d := range prog.Decls {
		printDecl(p, d)
	}
	return p.String()
}

func printDecl(p *printer, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.Datatype:
		names := make([]string, len(decl.Constructors))
		for i, c := range decl.Constructors {
			if c.Arg == nil {
				names[i] = c.Name
			} else {
				names[i] = fmt.Sprintf("%s of %s", c.Name, c.Arg.String())
			}
		}
		p.line("datatype %s = %s", decl.Name, strings.Join(names, " | "))

	case *ast.Val:
		rec := ""
		if decl.Rec {
			rec = "rec "
		}
		p.line("val %s%s =", rec, patternString(decl.Pattern))
		p.nest(func() { printExpr(p, decl.Expr) })

	case *ast.Fun:
		p.line("fun %s", decl.Name)
		p.nest(func() {
			for _, c := range decl.Clauses {
				params := make([]string, len(c.Params))
				for i, pat := range c.Params {
					params[i] = patternString(pat)
				}
				p.line("| %s =>", strings.Join(params, " "))
				p.nest(func() { printExpr(p, c.Body) })
			}
		})

	case *ast.Infix:
		dir := "infix"
		if decl.Right {
			dir = "infixr"
		}
		p.line("%s %d %s", dir, decl.Priority, strings.Join(decl.Names, " "))

	default:
		p.line("<unknown decl %T>", d)
	}
}

// printExpr renders e as one or more indented lines. Compound expressions
// (Binds, Case, Fn) nest their sub-expressions; everything else renders as
// a single inline string via exprString.
func printExpr(p *printer, e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Binds:
		for _, bind := range ex.BindsList {
			rec := ""
			if bind.Rec {
				rec = "rec "
			}
			p.line("let %s%s =", rec, patternString(bind.Pattern))
			p.nest(func() { printExpr(p, bind.Expr) })
		}
		p.line("in")
		p.nest(func() { printExpr(p, ex.Ret) })

	case *ast.Case:
		p.line("case %s of", exprString(ex.Cond))
		p.nest(func() {
			for _, c := range ex.Clauses {
				p.line("| %s =>", patternString(c.Pattern))
				p.nest(func() { printExpr(p, c.Expr) })
			}
		})

	case *ast.If:
		p.line("if %s", exprString(ex.Cond))
		p.nest(func() { printExpr(p, ex.Then) })
		p.line("else")
		p.nest(func() { printExpr(p, ex.Else) })

	case *ast.Fn:
		p.line("fn %s =>", ex.Param.String())
		p.nest(func() { printExpr(p, ex.Body) })

	default:
		p.line("%s", exprString(e))
	}
}

// exprString renders e inline, recursing into sub-expressions without
// introducing new indentation. Used for leaf/simple expressions and for
// operands nested inside a compound expression's own header line.
func exprString(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.Literal:
		return fmt.Sprintf("%v", ex.Value)
	case *ast.SymbolRef:
		return ex.Sym.String()
	case *ast.Constructor:
		if ex.Arg == nil {
			return ex.Name
		}
		return fmt.Sprintf("%s(%s)", ex.Name, exprString(ex.Arg))
	case *ast.BuiltinCall:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", ex.Fun, strings.Join(args, ", "))
	case *ast.ExternCall:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s.%s(%s)", ex.Module, ex.Fun, strings.Join(args, ", "))
	case *ast.App:
		return fmt.Sprintf("(%s %s)", exprString(ex.Fun), exprString(ex.Arg))
	case *ast.Tuple:
		elems := make([]string, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = exprString(el)
		}
		return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
	case *ast.Proj:
		return fmt.Sprintf("%s.%d", exprString(ex.Tuple), ex.Index)
	case *ast.Fn:
		return fmt.Sprintf("(fn %s => %s)", ex.Param.String(), exprString(ex.Body))
	case *ast.Binds, *ast.Case, *ast.If:
		return "<nested>"
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func patternString(pat ast.Pattern) string {
	switch p := pat.(type) {
	case *ast.ConstantPattern:
		return fmt.Sprintf("%v", p.Value)
	case *ast.CharPattern:
		return fmt.Sprintf("%q", p.Value)
	case *ast.ConstructorPattern:
		if p.Arg == nil {
			return p.Name
		}
		return fmt.Sprintf("%s(%s)", p.Name, patternString(p.Arg))
	case *ast.TuplePattern:
		elems := make([]string, len(p.Elems))
		for i, el := range p.Elems {
			elems[i] = patternString(el)
		}
		return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
	case *ast.VariablePattern:
		return p.Sym.String()
	case *ast.WildcardPattern:
		return "_"
	default:
		return fmt.Sprintf("<unknown pattern %T>", pat)
	}
}
