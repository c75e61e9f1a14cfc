package pretty

import (
	"fmt"
	"strings"

	"github.com/wasmc/wasmc/internal/hir"
)

// PrintHIR renders prog's top-level Vals, one per line with nested
// expressions indented underneath.
func PrintHIR(prog *hir.Program) string {
	p := &printer{}
	for _, v := range prog.Vals {
		rec := ""
		if v.Rec {
			rec = "rec "
		}
		p.line("val %s%s : %s =", rec, v.Name.String(), v.Ty.String())
		p.nest(func() { printHIRExpr(p, v.Expr) })
	}
	return p.String()
}

func printHIRExpr(p *printer, e hir.Expr) {
	switch ex := e.(type) {
	case *hir.Binds:
		for _, b := range ex.Binds {
			rec := ""
			if b.Rec {
				rec = "rec "
			}
			p.line("let %s%s : %s =", rec, b.Name.String(), b.Ty.String())
			p.nest(func() { printHIRExpr(p, b.Expr) })
		}
		p.line("in")
		p.nest(func() { printHIRExpr(p, ex.Ret) })

	case *hir.Case:
		p.line("case %s of", hirExprString(ex.Scrutinee))
		p.nest(func() {
			for _, arm := range ex.Arms {
				p.line("| %s =>", simplePatternString(arm.Pattern))
				p.nest(func() { printHIRExpr(p, arm.Expr) })
			}
		})

	case *hir.Fun:
		p.line("fn %s : %s =>", ex.Param.String(), ex.BodyTy.String())
		if len(ex.Captures) > 0 {
			names := make([]string, len(ex.Captures))
			for i, c := range ex.Captures {
				names[i] = c.String()
			}
			p.nest(func() { p.line("; captures [%s]", strings.Join(names, ", ")) })
		}
		p.nest(func() { printHIRExpr(p, ex.Body) })

	default:
		p.line("%s", hirExprString(e))
	}
}

func hirExprString(e hir.Expr) string {
	switch ex := e.(type) {
	case *hir.Lit:
		return fmt.Sprintf("%v", ex.Value)
	case *hir.Sym:
		return ex.Name.String()
	case *hir.BinOp:
		return fmt.Sprintf("(%s %s %s)", hirExprString(ex.L), ex.Name, hirExprString(ex.R))
	case *hir.BuiltinCall:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = hirExprString(a)
		}
		return fmt.Sprintf("%s(%s)", ex.Fun, strings.Join(args, ", "))
	case *hir.ExternCall:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = hirExprString(a)
		}
		return fmt.Sprintf("%s.%s(%s)", ex.Module, ex.Fun, strings.Join(args, ", "))
	case *hir.App:
		return fmt.Sprintf("(%s %s)", hirExprString(ex.Fun), hirExprString(ex.Arg))
	case *hir.Closure:
		names := make([]string, len(ex.FreeVars))
		for i, fv := range ex.FreeVars {
			names[i] = fv.String()
		}
		return fmt.Sprintf("closure(%s)[%s]", ex.Fun.String(), strings.Join(names, ", "))
	case *hir.Tuple:
		elems := make([]string, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = hirExprString(el)
		}
		return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
	case *hir.Proj:
		return fmt.Sprintf("%s.%d", hirExprString(ex.Tuple), ex.Index)
	case *hir.Ctor:
		if ex.Arg == nil {
			return ex.Name
		}
		return fmt.Sprintf("%s(%s)", ex.Name, hirExprString(ex.Arg))
	case *hir.Fun:
		return fmt.Sprintf("(fn %s => %s)", ex.Param.String(), hirExprString(ex.Body))
	case *hir.Binds, *hir.Case:
		return "<nested>"
	default:
		return fmt.Sprintf("<unknown hir expr %T>", e)
	}
}

func simplePatternString(pat hir.SimplePattern) string {
	switch p := pat.(type) {
	case hir.ConstructorPattern:
		if p.Arg == nil {
			return p.Name
		}
		return fmt.Sprintf("%s(%s)", p.Name, p.Arg.String())
	case hir.LiteralPattern:
		return fmt.Sprintf("%v", p.Value)
	case hir.VariablePattern:
		return p.Sym.String()
	case hir.WildcardPattern:
		return "_"
	default:
		return fmt.Sprintf("<unknown simple pattern %T>", pat)
	}
}
