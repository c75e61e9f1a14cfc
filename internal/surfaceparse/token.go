package surfaceparse

import "fmt"

// Kind identifies a lexical token category. Grounded on the teacher's
// internal/lexer token-kind idiom (an integer enum plus a name table for
// diagnostics), trimmed down from that package's full-language keyword set
// to only the words spec.md §3.2's minimal grammar actually uses.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	IDENT
	INT
	REAL
	CHAR

	// Keywords
	VAL
	REC
	FUN
	FN
	IF
	THEN
	ELSE
	CASE
	OF
	DATATYPE
	INFIX
	INFIXR
	EXTERN

	// Punctuation and operators
	EQUALS   // =
	FARROW   // =>
	ARROW    // ->
	LPAREN   // (
	RPAREN   // )
	COMMA    // ,
	PIPE     // |
	UNDERSCORE
	DOT    // .
	COLON  // :
	STAR   // *

	PLUS  // +
	MINUS // -
	LT    // <
	GT    // >
)

var keywords = map[string]Kind{
	"val":      VAL,
	"rec":      REC,
	"fun":      FUN,
	"fn":       FN,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"case":     CASE,
	"of":       OF,
	"datatype": DATATYPE,
	"infix":    INFIX,
	"infixr":   INFIXR,
	"extern":   EXTERN,
}

var kindNames = map[Kind]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", IDENT: "identifier", INT: "int literal",
	REAL: "real literal", CHAR: "char literal",
	VAL: "val", REC: "rec", FUN: "fun", FN: "fn", IF: "if", THEN: "then",
	ELSE: "else", CASE: "case", OF: "of", DATATYPE: "datatype",
	INFIX: "infix", INFIXR: "infixr", EXTERN: "extern",
	EQUALS: "=", FARROW: "=>", ARROW: "->", LPAREN: "(", RPAREN: ")",
	COMMA: ",", PIPE: "|", UNDERSCORE: "_", DOT: ".", COLON: ":", STAR: "*",
	PLUS: "+", MINUS: "-", LT: "<", GT: ">",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical unit: its kind, literal text, and source position.
type Token struct {
	Kind    Kind
	Literal string
	Line    int
	Column  int
}
