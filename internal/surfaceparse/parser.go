// Package surfaceparse is the minimal parser boundary spec.md treats as an
// external collaborator (spec.md §1, §6.3): a hand-written lexer plus a
// Pratt-style expression parser, grounded on internal/parser/parser.go's
// curToken/peekToken + registerPrefix/registerInfix idiom but sized for the
// much smaller grammar spec.md §3.2 actually names — this package exists
// to drive the middle end end-to-end, not to be a spec-grade parser for
// the teacher's full language.
package surfaceparse

import (
	"fmt"
	"strconv"

	"github.com/wasmc/wasmc/internal/ast"
	"github.com/wasmc/wasmc/internal/errors"
	"github.com/wasmc/wasmc/internal/types"
)

// Parse lexes and parses src into a Program, tagging every node with its
// (line, column, file) Pos; every node's type slot is left nil for the
// Typer to fill in later. Parsing stops at the first error, mirroring the
// Typer's "first error aborts the pass" contract (spec.md §4.1) since
// there is no recovery machinery at this boundary.
func Parse(src string, filename string) (*ast.Program, []*errors.CompileError) {
	p := newParser(newLexer([]byte(src), filename), filename)
	prog := p.parseProgram()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return prog, nil
}

type parser struct {
	l    *lexer
	file string
	cur  Token
	peek Token
	errs []*errors.CompileError
}

func newParser(l *lexer, file string) *parser {
	p := &parser{l: l, file: file}
	p.advance()
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.l.next()
}

func (p *parser) pos() ast.Pos {
	return ast.Pos{Line: p.cur.Line, Column: p.cur.Column, File: p.file}
}

func (p *parser) errorf(format string, args ...interface{}) {
	pos := p.pos()
	p.errs = append(p.errs, errors.New(errors.ParseError, pos.String(), fmt.Sprintf(format, args...)))
}

func (p *parser) expect(k Kind) Token {
	tok := p.cur
	if p.cur.Kind != k {
		p.errorf("expected %s, got %s %q", k, p.cur.Kind, p.cur.Literal)
		return tok
	}
	p.advance()
	return tok
}

func (p *parser) failed() bool { return len(p.errs) > 0 }

// parseProgram reads top-level declarations until EOF, bailing out on the
// first malformed declaration (no error recovery, per the package doc).
func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Kind != EOF && !p.failed() {
		d := p.parseDecl()
		if p.failed() {
			break
		}
		prog.Decls = append(prog.Decls, d)
	}
	return prog
}

func (p *parser) parseDecl() ast.Decl {
	switch p.cur.Kind {
	case DATATYPE:
		return p.parseDatatype()
	case VAL:
		return p.parseValDecl()
	case FUN:
		return p.parseFunDecl()
	case INFIX, INFIXR:
		return p.parseInfixDecl()
	default:
		p.errorf("expected a top-level declaration, got %s %q", p.cur.Kind, p.cur.Literal)
		return nil
	}
}

func (p *parser) parseDatatype() ast.Decl {
	pos := p.pos()
	p.advance() // datatype
	name := p.expect(IDENT).Literal
	p.expect(EQUALS)

	var ctors []ast.CtorDecl
	for {
		ctorName := p.expect(IDENT).Literal
		var arg types.Type
		if p.cur.Kind == OF {
			p.advance()
			arg = p.parseType()
		}
		ctors = append(ctors, ast.CtorDecl{Name: ctorName, Arg: arg})
		if p.cur.Kind != PIPE {
			break
		}
		p.advance()
	}
	return &ast.Datatype{Pos: pos, Name: name, Constructors: ctors}
}

func (p *parser) parseValDecl() ast.Decl {
	pos := p.pos()
	p.advance() // val
	rec := false
	if p.cur.Kind == REC {
		rec = true
		p.advance()
	}
	pat := p.parsePattern()
	p.expect(EQUALS)
	expr := p.parseBlockExpr()
	return &ast.Val{DeclPos: pos, Pattern: pat, Expr: expr, Rec: rec}
}

func (p *parser) parseFunDecl() ast.Decl {
	pos := p.pos()
	p.advance() // fun
	name := p.expect(IDENT).Literal

	var clauses []ast.Clause
	for {
		var params []ast.Pattern
		for p.cur.Kind != EQUALS && p.cur.Kind != EOF {
			params = append(params, p.parseAtomPattern())
		}
		p.expect(EQUALS)
		body := p.parseBlockExpr()
		clauses = append(clauses, ast.Clause{Params: params, Body: body})
		if p.cur.Kind != PIPE {
			break
		}
		p.advance()
		p.expect(IDENT) // each further clause repeats the function name
	}
	return &ast.Fun{DeclPos: pos, Name: name, Clauses: clauses}
}

func (p *parser) parseInfixDecl() ast.Decl {
	pos := p.pos()
	right := p.cur.Kind == INFIXR
	p.advance() // infix/infixr
	priority, err := strconv.Atoi(p.expect(INT).Literal)
	if err != nil {
		p.errorf("invalid infix priority: %v", err)
	}
	var names []string
	for p.cur.Kind == IDENT || isOperatorToken(p.cur.Kind) {
		names = append(names, p.cur.Literal)
		p.advance()
	}
	return &ast.Infix{DeclPos: pos, Priority: priority, Names: names, Right: right}
}

func isOperatorToken(k Kind) bool {
	switch k {
	case PLUS, MINUS, STAR, LT, GT, EQUALS:
		return true
	default:
		return false
	}
}

// parseBlockExpr parses a (possibly empty) sequence of local `val`
// bindings followed by a tail expression, the surface form of HIR's Binds
// (spec.md §3.2's Binds node) — there is no `in` keyword; a binding run
// simply ends at the first token that isn't `val`.
func (p *parser) parseBlockExpr() ast.Expr {
	pos := p.pos()
	var binds []ast.LocalBind
	for p.cur.Kind == VAL {
		p.advance()
		rec := false
		if p.cur.Kind == REC {
			rec = true
			p.advance()
		}
		pat := p.parsePattern()
		p.expect(EQUALS)
		rhs := p.parseBlockExpr()
		binds = append(binds, ast.LocalBind{Pattern: pat, Expr: rhs, Rec: rec})
	}
	tail := p.parseExpr(precLowest)
	if len(binds) == 0 {
		return tail
	}
	return ast.NewBinds(pos, nil, binds, tail)
}

// Precedence levels for the Pratt expression parser.
const (
	precLowest = iota
	precCompare
	precAdditive
	precMultiplicative
	precApp
)

func precedenceOf(k Kind) int {
	switch k {
	case EQUALS, LT, GT:
		return precCompare
	case PLUS, MINUS:
		return precAdditive
	case STAR:
		return precMultiplicative
	default:
		return precLowest
	}
}

func binOpName(k Kind, lit string) string {
	if k == EQUALS {
		return "="
	}
	return lit
}

func isBinOpToken(k Kind) bool {
	switch k {
	case EQUALS, LT, GT, PLUS, MINUS, STAR:
		return true
	default:
		return false
	}
}

// parseExpr implements precedence climbing over the builtin binary
// operators, with juxtaposition (application) binding tighter than any of
// them.
func (p *parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseApp()
	for !p.failed() && isBinOpToken(p.cur.Kind) {
		prec := precedenceOf(p.cur.Kind)
		if prec <= minPrec {
			break
		}
		opTok := p.cur
		opPos := p.pos()
		p.advance()
		right := p.parseExpr(prec)
		left = ast.NewBuiltinCall(opPos, nil, binOpName(opTok.Kind, opTok.Literal), []ast.Expr{left, right})
	}
	return left
}

// parseApp parses left-associative application: a run of atoms folded
// left-to-right into nested App nodes.
func (p *parser) parseApp() ast.Expr {
	pos := p.pos()
	fn := p.parseAtomExpr()
	for p.startsAtomExpr() {
		arg := p.parseAtomExpr()
		fn = ast.NewApp(pos, nil, fn, arg)
	}
	return fn
}

func (p *parser) startsAtomExpr() bool {
	switch p.cur.Kind {
	case IDENT, INT, REAL, CHAR, LPAREN, FN, IF, CASE, EXTERN:
		return true
	default:
		return false
	}
}

func (p *parser) parseAtomExpr() ast.Expr {
	pos := p.pos()
	switch p.cur.Kind {
	case INT:
		v, _ := strconv.Atoi(p.cur.Literal)
		p.advance()
		return ast.NewLiteral(pos, nil, ast.IntLit, v)

	case REAL:
		v, _ := strconv.ParseFloat(p.cur.Literal, 64)
		p.advance()
		return ast.NewLiteral(pos, nil, ast.RealLit, v)

	case CHAR:
		r := []rune(p.cur.Literal)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		p.advance()
		return ast.NewLiteral(pos, nil, ast.CharLit, v)

	case IDENT:
		name := p.cur.Literal
		p.advance()
		return ast.NewSymbolRef(pos, nil, ast.Symbol{Name: name})

	case LPAREN:
		p.advance()
		if p.cur.Kind == RPAREN {
			p.advance()
			return ast.NewTuple(pos, nil, nil)
		}
		first := p.parseExpr(precLowest)
		if p.cur.Kind == COMMA {
			elems := []ast.Expr{first}
			for p.cur.Kind == COMMA {
				p.advance()
				elems = append(elems, p.parseExpr(precLowest))
			}
			p.expect(RPAREN)
			return ast.NewTuple(pos, nil, elems)
		}
		p.expect(RPAREN)
		return first

	case FN:
		p.advance()
		param := p.expect(IDENT).Literal
		p.expect(FARROW)
		body := p.parseBlockExpr()
		return ast.NewFn(pos, nil, ast.Symbol{Name: param}, body)

	case IF:
		p.advance()
		cond := p.parseExpr(precLowest)
		p.expect(THEN)
		then := p.parseBlockExpr()
		p.expect(ELSE)
		els := p.parseBlockExpr()
		return ast.NewIf(pos, nil, cond, then, els)

	case CASE:
		return p.parseCase()

	case EXTERN:
		return p.parseExternCall()

	case VAL:
		return p.parseBlockExpr()

	default:
		p.errorf("expected an expression, got %s %q", p.cur.Kind, p.cur.Literal)
		return ast.NewLiteral(pos, nil, ast.IntLit, 0)
	}
}

func (p *parser) parseCase() ast.Expr {
	pos := p.pos()
	p.advance() // case
	cond := p.parseExpr(precLowest)
	p.expect(OF)
	if p.cur.Kind == PIPE {
		p.advance()
	}
	var clauses []ast.CaseClause
	for {
		pat := p.parsePattern()
		p.expect(FARROW)
		body := p.parseExpr(precLowest)
		clauses = append(clauses, ast.CaseClause{Pattern: pat, Expr: body})
		if p.cur.Kind != PIPE {
			break
		}
		p.advance()
	}
	return ast.NewCase(pos, nil, cond, clauses)
}

// parseModuleName reads an extern module name, which may contain hyphens
// (e.g. "js-ffi") — not a legal identifier character elsewhere in the
// grammar, so this is the one place that stitches IDENT/MINUS/IDENT runs
// back into a single name.
func (p *parser) parseModuleName() string {
	name := p.expect(IDENT).Literal
	for p.cur.Kind == MINUS {
		p.advance()
		name += "-" + p.expect(IDENT).Literal
	}
	return name
}

// parseExternCall parses `extern Module.fun(arg1 : ty1, arg2 : ty2) : retty`
// (SPEC_FULL.md §6): the one concrete surface form for invoking the
// runtime ABI, packing Args/ArgTy/RetTy all into a single argument list.
func (p *parser) parseExternCall() ast.Expr {
	pos := p.pos()
	p.advance() // extern
	module := p.parseModuleName()
	p.expect(DOT)
	fun := p.expect(IDENT).Literal
	p.expect(LPAREN)

	var args []ast.Expr
	var argTys []types.Type
	if p.cur.Kind != RPAREN {
		for {
			arg := p.parseExpr(precLowest)
			p.expect(COLON)
			ty := p.parseType()
			args = append(args, arg)
			argTys = append(argTys, ty)
			if p.cur.Kind != COMMA {
				break
			}
			p.advance()
		}
	}
	p.expect(RPAREN)
	p.expect(COLON)
	retTy := p.parseType()

	return ast.NewExternCall(pos, nil, module, fun, args, argTys, retTy)
}

// parseType parses the surface type grammar: a base type (int/real/char, a
// datatype name, or a parenthesized group, possibly a tuple via `*`) with
// right-associative `->` binding loosest.
func (p *parser) parseType() types.Type {
	left := p.parseTupleType()
	if p.cur.Kind == ARROW {
		p.advance()
		right := p.parseType()
		return &types.Fun{Param: left, Ret: right}
	}
	return left
}

func (p *parser) parseTupleType() types.Type {
	first := p.parseAtomType()
	if p.cur.Kind != STAR {
		return first
	}
	elems := []types.Type{first}
	for p.cur.Kind == STAR {
		p.advance()
		elems = append(elems, p.parseAtomType())
	}
	return &types.Tuple{Elems: elems}
}

func (p *parser) parseAtomType() types.Type {
	switch p.cur.Kind {
	case LPAREN:
		p.advance()
		if p.cur.Kind == RPAREN {
			p.advance()
			return &types.Tuple{}
		}
		t := p.parseType()
		p.expect(RPAREN)
		return t
	case IDENT:
		name := p.cur.Literal
		p.advance()
		switch name {
		case "int":
			return types.Int
		case "real":
			return types.Real
		case "char":
			return types.Char
		default:
			return &types.Datatype{Name: name}
		}
	default:
		p.errorf("expected a type, got %s %q", p.cur.Kind, p.cur.Literal)
		return types.Int
	}
}

// parsePattern parses one full pattern, handling the one spot that's
// genuinely ambiguous without context: an identifier immediately followed
// by another atomic pattern is an applied constructor pattern (only a
// constructor can be "applied" in pattern position; a bare variable
// pattern never takes an argument), so the parser builds a
// ConstructorPattern directly and VarToConstructor never needs to revisit
// it (see internal/ast/vartoctor.go's doc comment).
func (p *parser) parsePattern() ast.Pattern {
	pos := p.pos()
	if p.cur.Kind == IDENT {
		name := p.cur.Literal
		p.advance()
		if p.startsAtomPattern() {
			arg := p.parseAtomPattern()
			return ast.NewConstructorPattern(pos, nil, name, arg)
		}
		return ast.NewVariablePattern(pos, nil, ast.Symbol{Name: name})
	}
	return p.parseAtomPattern()
}

func (p *parser) startsAtomPattern() bool {
	switch p.cur.Kind {
	case IDENT, INT, REAL, CHAR, LPAREN, UNDERSCORE:
		return true
	default:
		return false
	}
}

func (p *parser) parseAtomPattern() ast.Pattern {
	pos := p.pos()
	switch p.cur.Kind {
	case UNDERSCORE:
		p.advance()
		return ast.NewWildcardPattern(pos, nil)

	case INT:
		v, _ := strconv.Atoi(p.cur.Literal)
		p.advance()
		return ast.NewConstantPattern(pos, nil, ast.IntLit, v)

	case REAL:
		v, _ := strconv.ParseFloat(p.cur.Literal, 64)
		p.advance()
		return ast.NewConstantPattern(pos, nil, ast.RealLit, v)

	case CHAR:
		r := []rune(p.cur.Literal)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		p.advance()
		return ast.NewCharPattern(pos, nil, v)

	case IDENT:
		name := p.cur.Literal
		p.advance()
		return ast.NewVariablePattern(pos, nil, ast.Symbol{Name: name})

	case LPAREN:
		p.advance()
		if p.cur.Kind == RPAREN {
			p.advance()
			return ast.NewTuplePattern(pos, nil, nil)
		}
		first := p.parsePattern()
		if p.cur.Kind == COMMA {
			elems := []ast.Pattern{first}
			for p.cur.Kind == COMMA {
				p.advance()
				elems = append(elems, p.parsePattern())
			}
			p.expect(RPAREN)
			return ast.NewTuplePattern(pos, nil, elems)
		}
		p.expect(RPAREN)
		return first

	default:
		p.errorf("expected a pattern, got %s %q", p.cur.Kind, p.cur.Literal)
		return ast.NewWildcardPattern(pos, nil)
	}
}
