package lox

import "fmt"

type TokenKind int

const (
	EOF TokenKind = iota

	// literals
	NUMBER
	STRING
	IDENTIFIER
	TRUE
	FALSE
	NIL

	// operators
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	POWER
	EQUAL
	EQUAL_EQUAL
	NOT_EQUAL
	GT
	GT_EQUAL
	LT
	LT_EQUAL
	NOT
	AND
	OR

	// punctuation
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	SEMICOLON
	COMMA

	// keywords
	VAR
	IF
	ELSE
	WHILE
	FOR
	PRINT
	FUN
	RETURN
)

var kindNames = [...]string{
	EOF:         "EOF",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	IDENTIFIER:  "IDENTIFIER",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	NIL:         "NIL",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	MULTIPLY:    "MULTIPLY",
	DIVIDE:      "DIVIDE",
	POWER:       "POWER",
	EQUAL:       "EQUAL",
	EQUAL_EQUAL: "EQUAL_EQUAL",
	NOT_EQUAL:   "NOT_EQUAL",
	GT:          "GT",
	GT_EQUAL:    "GT_EQUAL",
	LT:          "LT",
	LT_EQUAL:    "LT_EQUAL",
	NOT:         "NOT",
	AND:         "AND",
	OR:          "OR",
	LEFT_PAREN:  "LEFT_PAREN",
	RIGHT_PAREN: "RIGHT_PAREN",
	LEFT_BRACE:  "LEFT_BRACE",
	RIGHT_BRACE: "RIGHT_BRACE",
	SEMICOLON:   "SEMICOLON",
	COMMA:       "COMMA",
	VAR:         "VAR",
	IF:          "IF",
	ELSE:        "ELSE",
	WHILE:       "WHILE",
	FOR:         "FOR",
	PRINT:       "PRINT",
	FUN:         "FUN",
	RETURN:      "RETURN",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// symbols holds the source spelling of every fixed-text kind. It is used by
// diagnostics and by the serializer.
var symbols = map[TokenKind]string{
	PLUS:        "+",
	MINUS:       "-",
	MULTIPLY:    "*",
	DIVIDE:      "/",
	POWER:       "^",
	EQUAL:       "=",
	EQUAL_EQUAL: "==",
	NOT_EQUAL:   "!=",
	GT:          ">",
	GT_EQUAL:    ">=",
	LT:          "<",
	LT_EQUAL:    "<=",
	NOT:         "!",
	AND:         "and",
	OR:          "or",
	LEFT_PAREN:  "(",
	RIGHT_PAREN: ")",
	LEFT_BRACE:  "{",
	RIGHT_BRACE: "}",
	SEMICOLON:   ";",
	COMMA:       ",",
	VAR:         "var",
	IF:          "if",
	ELSE:        "else",
	WHILE:       "while",
	FOR:         "for",
	PRINT:       "print",
	FUN:         "fun",
	RETURN:      "return",
	TRUE:        "true",
	FALSE:       "false",
	NIL:         "nil",
}

// Symbol returns the fixed spelling of k, or its name for literal kinds.
func (k TokenKind) Symbol() string {
	if s, ok := symbols[k]; ok {
		return s
	}
	return k.String()
}

var keywords = map[string]TokenKind{
	"var":    VAR,
	"and":    AND,
	"or":     OR,
	"if":     IF,
	"else":   ELSE,
	"print":  PRINT,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
	"while":  WHILE,
	"for":    FOR,
	"fun":    FUN,
	"return": RETURN,
}

// Position locates a token in the source. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexeme. STRING lexemes keep their surrounding quotes.
type Token struct {
	Type   TokenKind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}
