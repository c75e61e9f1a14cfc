package casesimplify

import (
	"fmt"
	"sort"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/types"
)

// compileMatrix is the pattern-matrix algorithm's core loop (spec.md
// §4.2): pick the leftmost column some row still discriminates on,
// partition rows by what that column tests, and recurse on each partition.
// Every recursive call either removes that column (nullary constructor,
// literal, or default dispatch) or replaces it with its sub-pattern
// columns (a unary constructor's payload, a tuple's elements), so each
// step consumes one level of pattern nesting and the recursion terminates
// once every column is gone.
func (c *compiler) compileMatrix(cols []column, rows []row, pos ast.Pos, resultTy types.Type) (ast.Expr, *errors.CompileError) {
	if len(rows) == 0 {
		return c.trapExpr(pos, resultTy), nil
	}

	if isDefaultRow(rows[0]) {
		if len(rows) > 1 && c.cfg.Optimize {
			for _, r := range rows[1:] {
				c.sink.Add(errors.Warning{
					Code:    errors.RedundantMatchArm,
					Pos:     pos.String(),
					Message: fmt.Sprintf("match arm %d is unreachable", r.armIndex+1),
				})
			}
		}
		return c.leaf(cols, rows[0]), nil
	}

	colIndex := -1
	for j := range cols {
		for _, r := range rows {
			if !isWildcardLike(r.cols[j]) {
				colIndex = j
				break
			}
		}
		if colIndex != -1 {
			break
		}
	}
	if colIndex == -1 {
		// Every row is wildcard-like in every column: rows[0] is
		// vacuously a default row, handled above. Reachable only if
		// isDefaultRow's definition and this loop ever disagree.
		return c.leaf(cols, rows[0]), nil
	}

	rows = bindColumnVariables(rows, colIndex, cols[colIndex].Scrutinee)

	switch typ := cols[colIndex].Typ.(type) {
	case *types.Tuple:
		return c.compileTupleColumn(cols, rows, colIndex, typ, pos, resultTy)
	default:
		return c.compileDispatchColumn(cols, rows, colIndex, pos, resultTy)
	}
}

// leaf turns a fully-default row into its final expression: any column
// whose pattern still binds a variable (never having gone through
// bindColumnVariables, since it was never the selected dispatch column) is
// bound to that column's scrutinee via a Binds wrapper before the row's
// body runs.
func (c *compiler) leaf(cols []column, r row) ast.Expr {
	var binds []ast.LocalBind
	for j, p := range r.cols {
		if vp, ok := p.(*ast.VariablePattern); ok {
			binds = append(binds, ast.LocalBind{Pattern: vp, Expr: cols[j].Scrutinee})
		}
	}
	if len(binds) == 0 {
		return r.body
	}
	return ast.NewBinds(r.body.Position(), r.body.Type(), binds, r.body)
}

func isWildcardLike(p ast.Pattern) bool {
	switch p.(type) {
	case *ast.WildcardPattern, *ast.VariablePattern:
		return true
	default:
		return false
	}
}

func isDefaultRow(r row) bool {
	for _, p := range r.cols {
		if !isWildcardLike(p) {
			return false
		}
	}
	return true
}

// bindColumnVariables applies the standard "variable rule": a row whose
// pattern at colIndex binds a name to the whole scrutinee is rewritten so
// that name is bound via an explicit Binds wrapped around its body, and its
// pattern at colIndex becomes a plain Wildcard — after which every row's
// pattern at colIndex is either Wildcard or the column's real dispatch
// pattern, uniform enough for compileTupleColumn/compileDispatchColumn to
// process without special-casing variable binders themselves.
func bindColumnVariables(rows []row, colIndex int, scrutinee ast.Expr) []row {
	out := make([]row, len(rows))
	for i, r := range rows {
		vp, ok := r.cols[colIndex].(*ast.VariablePattern)
		if !ok {
			out[i] = r
			continue
		}
		bind := ast.LocalBind{Pattern: vp, Expr: scrutinee}
		newBody := ast.NewBinds(vp.Position(), r.body.Type(), []ast.LocalBind{bind}, r.body)
		newCols := append([]ast.Pattern(nil), r.cols...)
		newCols[colIndex] = ast.NewWildcardPattern(vp.Position(), vp.Type())
		out[i] = row{cols: newCols, body: newBody, armIndex: r.armIndex}
	}
	return out
}

func dropColumn(cols []ast.Pattern, colIndex int) []ast.Pattern {
	out := make([]ast.Pattern, 0, len(cols)-1)
	out = append(out, cols[:colIndex]...)
	out = append(out, cols[colIndex+1:]...)
	return out
}

// compileTupleColumn expands a Tuple-typed column into one column per
// element, reading each element via a synthesized Proj bound once (not
// once per row) to a fresh symbol, then recurses with that expansion
// applied to every row uniformly.
func (c *compiler) compileTupleColumn(cols []column, rows []row, colIndex int, typ *types.Tuple, pos ast.Pos, resultTy types.Type) (ast.Expr, *errors.CompileError) {
	scrut := cols[colIndex].Scrutinee
	arity := len(typ.Elems)

	projBinds := make([]ast.LocalBind, arity)
	newCols := make([]column, 0, len(cols)-1+arity)
	newCols = append(newCols, cols[:colIndex]...)
	for i := 0; i < arity; i++ {
		sym := ast.Symbol{Name: fmt.Sprintf("proj%d", i), ID: c.src.Next()}
		elemTy := typ.Elems[i]
		proj := ast.NewProj(pos, elemTy, scrut, i)
		projBinds[i] = ast.LocalBind{Pattern: ast.NewVariablePattern(pos, elemTy, sym), Expr: proj}
		newCols = append(newCols, column{Scrutinee: ast.NewSymbolRef(pos, elemTy, sym), Typ: elemTy})
	}
	newCols = append(newCols, cols[colIndex+1:]...)

	newRows := make([]row, len(rows))
	for i, r := range rows {
		var sub []ast.Pattern
		switch p := r.cols[colIndex].(type) {
		case *ast.TuplePattern:
			sub = p.Elems
		case *ast.WildcardPattern:
			sub = make([]ast.Pattern, arity)
			for k := range sub {
				sub[k] = ast.NewWildcardPattern(p.Position(), typ.Elems[k])
			}
		default:
			return nil, errors.New(errors.Internal, pos.String(), fmt.Sprintf("unexpected pattern %T against tuple-typed column", p))
		}
		merged := make([]ast.Pattern, 0, len(newCols))
		merged = append(merged, r.cols[:colIndex]...)
		merged = append(merged, sub...)
		merged = append(merged, r.cols[colIndex+1:]...)
		newRows[i] = row{cols: merged, body: r.body, armIndex: r.armIndex}
	}

	inner, err := c.compileMatrix(newCols, newRows, pos, resultTy)
	if err != nil {
		return nil, err
	}
	return ast.NewBinds(pos, resultTy, projBinds, inner), nil
}

type groupKey struct {
	kind string // "ctor" or "lit"
	name string
}

// compileDispatchColumn handles a constructor- or literal-typed column:
// partition rows by the value they test for, recursively compile each
// partition with the column consumed, and assemble the partitions into a
// single Case whose clauses test exactly one constructor/literal (or are
// the Wildcard default).
func (c *compiler) compileDispatchColumn(cols []column, rows []row, colIndex int, pos ast.Pos, resultTy types.Type) (ast.Expr, *errors.CompileError) {
	var order []groupKey
	groups := make(map[groupKey][]row)
	exemplar := make(map[groupKey]ast.Pattern)
	var defaultRows []row

	for _, r := range rows {
		switch p := r.cols[colIndex].(type) {
		case *ast.WildcardPattern:
			defaultRows = append(defaultRows, r)
		case *ast.ConstructorPattern:
			key := groupKey{"ctor", p.Name}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
				exemplar[key] = p
			}
			groups[key] = append(groups[key], r)
		case *ast.ConstantPattern:
			key := groupKey{"lit", fmt.Sprintf("%d:%v", p.Kind, p.Value)}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
				exemplar[key] = p
			}
			groups[key] = append(groups[key], r)
		case *ast.CharPattern:
			key := groupKey{"lit", fmt.Sprintf("char:%c", p.Value)}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
				exemplar[key] = p
			}
			groups[key] = append(groups[key], r)
		default:
			return nil, errors.New(errors.Internal, pos.String(), fmt.Sprintf("unexpected pattern kind %T in CaseSimplify dispatch column", p))
		}
	}

	var clauses []ast.CaseClause
	for _, key := range order {
		groupRows := groups[key]
		var innerCols []column
		var innerRows []row

		if key.kind == "ctor" {
			ctorPat := exemplar[key].(*ast.ConstructorPattern)
			info := c.ctors[key.name]
			if info.Arg == nil {
				innerCols = dropCol(cols, colIndex)
				innerRows = make([]row, len(groupRows))
				for i, r := range groupRows {
					innerRows[i] = row{cols: dropColumn(r.cols, colIndex), body: r.body, armIndex: r.armIndex}
				}
				clauses = append(clauses, ast.CaseClause{
					Pattern: ast.NewConstructorPattern(ctorPat.Position(), ctorPat.Type(), key.name, nil),
				})
			} else {
				sym := ast.Symbol{Name: key.name + "_arg", ID: c.src.Next()}
				innerCols = replaceCol(cols, colIndex, column{Scrutinee: ast.NewSymbolRef(pos, info.Arg, sym), Typ: info.Arg})
				innerRows = make([]row, len(groupRows))
				for i, r := range groupRows {
					argPat := r.cols[colIndex].(*ast.ConstructorPattern).Arg
					newCols := append([]ast.Pattern(nil), r.cols...)
					newCols[colIndex] = argPat
					innerRows[i] = row{cols: newCols, body: r.body, armIndex: r.armIndex}
				}
				clauses = append(clauses, ast.CaseClause{
					Pattern: ast.NewConstructorPattern(ctorPat.Position(), ctorPat.Type(), key.name, ast.NewVariablePattern(pos, info.Arg, sym)),
				})
			}
		} else {
			innerCols = dropCol(cols, colIndex)
			innerRows = make([]row, len(groupRows))
			for i, r := range groupRows {
				innerRows[i] = row{cols: dropColumn(r.cols, colIndex), body: r.body, armIndex: r.armIndex}
			}
			clauses = append(clauses, ast.CaseClause{Pattern: exemplar[key]})
		}

		inner, err := c.compileMatrix(innerCols, innerRows, pos, resultTy)
		if err != nil {
			return nil, err
		}
		clauses[len(clauses)-1].Expr = inner
	}

	if len(defaultRows) > 0 {
		innerCols := dropCol(cols, colIndex)
		innerRows := make([]row, len(defaultRows))
		for i, r := range defaultRows {
			innerRows[i] = row{cols: dropColumn(r.cols, colIndex), body: r.body, armIndex: r.armIndex}
		}
		inner, err := c.compileMatrix(innerCols, innerRows, pos, resultTy)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.CaseClause{Pattern: ast.NewWildcardPattern(pos, cols[colIndex].Typ), Expr: inner})
	} else if dt, ok := cols[colIndex].Typ.(*types.Datatype); ok {
		allCtors := c.datatypes[dt.Name]
		seen := make(map[string]bool, len(order))
		for _, k := range order {
			seen[k.name] = true
		}
		var missing []string
		for _, name := range allCtors {
			if !seen[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			c.sink.Add(errors.Warning{
				Code:    errors.NonExhaustiveMatch,
				Pos:     pos.String(),
				Message: fmt.Sprintf("match on %s does not cover: %v", dt.Name, missing),
			})
			clauses = append(clauses, ast.CaseClause{
				Pattern: ast.NewWildcardPattern(pos, cols[colIndex].Typ),
				Expr:    c.trapExpr(pos, resultTy),
			})
		}
	} else {
		c.sink.Add(errors.Warning{
			Code:    errors.NonExhaustiveMatch,
			Pos:     pos.String(),
			Message: "literal match has no default arm",
		})
		clauses = append(clauses, ast.CaseClause{
			Pattern: ast.NewWildcardPattern(pos, cols[colIndex].Typ),
			Expr:    c.trapExpr(pos, resultTy),
		})
	}

	return ast.NewCase(pos, resultTy, cols[colIndex].Scrutinee, clauses), nil
}

func dropCol(cols []column, colIndex int) []column {
	out := make([]column, 0, len(cols)-1)
	out = append(out, cols[:colIndex]...)
	out = append(out, cols[colIndex+1:]...)
	return out
}

func replaceCol(cols []column, colIndex int, c column) []column {
	out := append([]column(nil), cols...)
	out[colIndex] = c
	return out
}

// trapExpr synthesizes the expression run when no match arm applies.
// cfg.TrapOnMatch routes straight to an unreachable trap; otherwise the
// runtime's MatchFailure helper is invoked, which reports the failure
// before halting (spec.md §6.2's extern ABI boundary).
func (c *compiler) trapExpr(pos ast.Pos, resultTy types.Type) ast.Expr {
	if c.cfg.TrapOnMatch {
		return ast.NewBuiltinCall(pos, resultTy, "trap", nil)
	}
	return ast.NewExternCall(pos, resultTy, "webml-rt", "matchFailure", nil, nil, resultTy)
}
