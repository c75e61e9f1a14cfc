package lower

import (
	"fmt"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/hir"
	"github.com/wasmc/wasmc/internal/typecheck"
	"github.com/wasmc/wasmc/internal/types"
)

// ConstructorToEnum replaces every constructor use and constructor-pattern
// test by its tag (spec.md §4.3). A datatype whose constructors are all
// nullary needs no runtime payload slot, so its values are represented as
// a bare integer tag (Lit). A datatype with any payload-carrying
// constructor needs a uniform shape across all its constructors (dispatch
// can't know which shape to expect before it has read the tag), so every
// one of its values — nullary siblings included — is represented as a
// 2-element Tuple(tag, payload), with nullary cases supplying a zero
// placeholder payload. This resolves an ambiguity spec.md §4.3 leaves
// implicit (it describes the all-nullary and has-payload cases
// separately, but never says what a nullary case of a *mixed* datatype
// looks like); see DESIGN.md.
func ConstructorToEnum(prog *hir.Program, ctors typecheck.CtorTable) (*hir.Program, *errors.CompileError) {
	hasPayload := datatypeHasPayload(ctors)
	c := &ctorEnum{ctors: ctors, hasPayload: hasPayload}

	out := &hir.Program{}
	for _, v := range prog.Vals {
		expr, err := c.rewrite(v.Expr)
		if err != nil {
			return nil, err
		}
		out.Vals = append(out.Vals, hir.Val{Name: v.Name, Ty: v.Ty, Rec: v.Rec, Expr: expr})
	}
	return out, nil
}

func datatypeHasPayload(ctors typecheck.CtorTable) map[string]bool {
	out := make(map[string]bool)
	for _, info := range ctors {
		if info.Arg != nil {
			out[info.Datatype] = true
		} else if _, ok := out[info.Datatype]; !ok {
			out[info.Datatype] = false
		}
	}
	return out
}

type ctorEnum struct {
	ctors      typecheck.CtorTable
	hasPayload map[string]bool
}

func (c *ctorEnum) rewrite(e hir.Expr) (hir.Expr, *errors.CompileError) {
	switch ex := e.(type) {
	case *hir.Lit, *hir.Sym:
		return e, nil

	case *hir.Ctor:
		info := c.ctors[ex.Name]
		tag := hir.NewLit(ex.Position(), types.Int, ast.IntLit, info.Tag)
		if !c.hasPayload[info.Datatype] {
			return tag, nil
		}
		var payload hir.Expr
		payloadTy := types.Type(types.Int)
		if ex.Arg != nil {
			a, err := c.rewrite(ex.Arg)
			if err != nil {
				return nil, err
			}
			payload = a
			payloadTy = a.Type()
		} else {
			payload = hir.NewLit(ex.Position(), types.Int, ast.IntLit, 0)
		}
		return hir.NewTuple(ex.Position(), ex.Type(), []types.Type{types.Int, payloadTy}, []hir.Expr{tag, payload}), nil

	case *hir.Proj:
		tup, err := c.rewrite(ex.Tuple)
		if err != nil {
			return nil, err
		}
		return hir.NewProj(ex.Position(), ex.Type(), tup, ex.Index), nil

	case *hir.Tuple:
		elems := make([]hir.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			r, err := c.rewrite(el)
			if err != nil {
				return nil, err
			}
			elems[i] = r
		}
		return hir.NewTuple(ex.Position(), ex.Type(), ex.Tys, elems), nil

	case *hir.Fun:
		body, err := c.rewrite(ex.Body)
		if err != nil {
			return nil, err
		}
		return hir.NewFun(ex.Position(), ex.Type(), ex.Param, body, body.Type(), ex.Captures), nil

	case *hir.Closure:
		return ex, nil

	case *hir.App:
		fn, err := c.rewrite(ex.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := c.rewrite(ex.Arg)
		if err != nil {
			return nil, err
		}
		return hir.NewApp(ex.Position(), ex.Type(), fn, arg), nil

	case *hir.BinOp:
		l, err := c.rewrite(ex.L)
		if err != nil {
			return nil, err
		}
		r, err := c.rewrite(ex.R)
		if err != nil {
			return nil, err
		}
		return hir.NewBinOp(ex.Position(), ex.Type(), ex.Name, l, r), nil

	case *hir.BuiltinCall:
		args, err := c.rewriteAll(ex.Args)
		if err != nil {
			return nil, err
		}
		return hir.NewBuiltinCall(ex.Position(), ex.Type(), ex.Fun, args), nil

	case *hir.ExternCall:
		args, err := c.rewriteAll(ex.Args)
		if err != nil {
			return nil, err
		}
		return hir.NewExternCall(ex.Position(), ex.Type(), ex.Module, ex.Fun, args), nil

	case *hir.Binds:
		binds := make([]hir.Bind, len(ex.Binds))
		for i, b := range ex.Binds {
			v, err := c.rewrite(b.Expr)
			if err != nil {
				return nil, err
			}
			binds[i] = hir.Bind{Name: b.Name, Ty: b.Ty, Rec: b.Rec, Expr: v}
		}
		ret, err := c.rewrite(ex.Ret)
		if err != nil {
			return nil, err
		}
		return hir.NewBinds(ex.Position(), ex.Type(), binds, ret), nil

	case *hir.Case:
		return c.rewriteCase(ex)

	default:
		return nil, errors.New(errors.Internal, e.Position().String(), fmt.Sprintf("unexpected HIR expression kind in ConstructorToEnum: %T", e))
	}
}

func (c *ctorEnum) rewriteAll(es []hir.Expr) ([]hir.Expr, *errors.CompileError) {
	out := make([]hir.Expr, len(es))
	for i, e := range es {
		r, err := c.rewrite(e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (c *ctorEnum) rewriteCase(ex *hir.Case) (hir.Expr, *errors.CompileError) {
	// The scrutinee's type must be read before rewriting: rewrite replaces
	// a datatype-typed Ctor/Case chain with an Int (or a Tuple(int, _))
	// HIR-typed value, so the original type is the only place left that
	// still says this dispatch is over a datatype at all.
	dt, isCtorDispatch := ex.Scrutinee.Type().(*types.Datatype)

	scrutinee, err := c.rewrite(ex.Scrutinee)
	if err != nil {
		return nil, err
	}

	tagScrutinee := scrutinee
	if isCtorDispatch && c.hasPayload[dt.Name] {
		tagScrutinee = hir.NewProj(ex.Position(), types.Int, scrutinee, 0)
	}

	arms := make([]hir.Arm, len(ex.Arms))
	for i, arm := range ex.Arms {
		body, err := c.rewrite(arm.Expr)
		if err != nil {
			return nil, err
		}

		ctorPat, ok := arm.Pattern.(hir.ConstructorPattern)
		if !ok {
			arms[i] = hir.Arm{Pattern: arm.Pattern, Expr: body}
			continue
		}

		info := c.ctors[ctorPat.Name]
		newPattern := hir.LiteralPattern{Kind: ast.IntLit, Value: info.Tag}

		if ctorPat.Arg != nil {
			payloadTy := info.Arg
			bind := hir.Bind{
				Name: *ctorPat.Arg,
				Ty:   payloadTy,
				Expr: hir.NewProj(ex.Position(), payloadTy, scrutinee, 1),
			}
			body = hir.NewBinds(body.Position(), body.Type(), []hir.Bind{bind}, body)
		}

		arms[i] = hir.Arm{Pattern: newPattern, Expr: body}
	}

	return hir.NewCase(ex.Position(), ex.Type(), tagScrutinee, arms), nil
}
