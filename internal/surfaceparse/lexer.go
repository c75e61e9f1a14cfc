package surfaceparse

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a UTF-8 BOM and applies Unicode NFC normalization at the
// lexer boundary, so lexically equivalent source produces identical token
// streams regardless of encoding variations. Grounded on
// internal/lexer/normalize.go's Normalize function; restated here rather
// than imported so this package owns its whole lexing boundary (see
// DESIGN.md on why internal/lexer's full-language token set wasn't reused
// directly). Library: golang.org/x/text/unicode/norm.
func normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}

// lexer tokenizes source text rune by rune, tracking line/column for every
// token so the parser can stamp ast.Pos everywhere.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line, column int
	file         string
}

func newLexer(src []byte, file string) *lexer {
	l := &lexer{input: string(normalize(src)), file: file, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	ch, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = ch
	l.position = l.readPosition
	l.readPosition += size
	l.column++
	if ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return ch
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

func (l *lexer) next() Token {
	l.skipWhitespaceAndComments()
	line, column := l.line, l.column

	tok := func(k Kind, lit string) Token { return Token{Kind: k, Literal: lit, Line: line, Column: column} }

	switch {
	case l.ch == 0:
		return tok(EOF, "")

	case l.ch == '=':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return tok(FARROW, "=>")
		}
		l.readChar()
		return tok(EQUALS, "=")

	case l.ch == '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return tok(ARROW, "->")
		}
		l.readChar()
		return tok(MINUS, "-")

	case l.ch == '(':
		l.readChar()
		return tok(LPAREN, "(")
	case l.ch == ')':
		l.readChar()
		return tok(RPAREN, ")")
	case l.ch == ',':
		l.readChar()
		return tok(COMMA, ",")
	case l.ch == '|':
		l.readChar()
		return tok(PIPE, "|")
	case l.ch == '.':
		l.readChar()
		return tok(DOT, ".")
	case l.ch == ':':
		l.readChar()
		return tok(COLON, ":")
	case l.ch == '*':
		l.readChar()
		return tok(STAR, "*")
	case l.ch == '+':
		l.readChar()
		return tok(PLUS, "+")
	case l.ch == '<':
		l.readChar()
		return tok(LT, "<")
	case l.ch == '>':
		l.readChar()
		return tok(GT, ">")

	case l.ch == '\'':
		return l.readChar_()

	case l.ch == '_' && !isIdentChar(l.peekChar()):
		l.readChar()
		return tok(UNDERSCORE, "_")

	case unicode.IsDigit(l.ch):
		return l.readNumber(line, column)

	case isIdentStart(l.ch):
		start := l.position
		for isIdentChar(l.ch) {
			l.readChar()
		}
		lit := l.input[start:l.position]
		if kw, ok := keywords[lit]; ok {
			return Token{Kind: kw, Literal: lit, Line: line, Column: column}
		}
		return Token{Kind: IDENT, Literal: lit, Line: line, Column: column}

	default:
		ch := l.ch
		l.readChar()
		return tok(ILLEGAL, string(ch))
	}
}

func (l *lexer) readChar_() Token {
	line, column := l.line, l.column
	l.readChar() // consume opening quote
	start := l.position
	for l.ch != '\'' && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if l.ch == '\'' {
		l.readChar()
	}
	return Token{Kind: CHAR, Literal: lit, Line: line, Column: column}
}

func (l *lexer) readNumber(line, column int) Token {
	start := l.position
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	kind := INT
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		kind = REAL
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Kind: kind, Literal: l.input[start:l.position], Line: line, Column: column}
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '\''
}
