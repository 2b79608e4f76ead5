package lox

// Lexer turns source text into a fully materialized token sequence.
type Lexer struct {
	source   string
	filename string
	cursor   int
	line     int
	lineHead int
}

func NewLexer(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

// NewLexerWithFilename is NewLexer with a file name attached to diagnostics.
func NewLexerWithFilename(source, filename string) *Lexer {
	l := NewLexer(source)
	l.filename = filename
	return l
}

// Lex converts source into tokens terminated by a single EOF token.
func Lex(source string) ([]Token, error) {
	return NewLexer(source).Lex()
}

// Lex scans the whole input. The first unrecognized character aborts the
// scan; no partial token list is returned.
func (l *Lexer) Lex() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()
	start := l.pos()
	if l.cursor >= len(l.source) {
		return Token{Type: EOF, Pos: start}, nil
	}
	ch := l.source[l.cursor]

	switch {
	case isDigit(ch):
		return l.scanNumber(start), nil
	case isAlpha(ch):
		return l.scanIdentifier(start), nil
	case ch == '"':
		return l.scanString(start)
	}

	// two-character operators must win over their one-character prefixes
	if l.peek() == '=' {
		var kind TokenKind
		switch ch {
		case '=':
			kind = EQUAL_EQUAL
		case '!':
			kind = NOT_EQUAL
		case '>':
			kind = GT_EQUAL
		case '<':
			kind = LT_EQUAL
		}
		if kind != EOF {
			l.cursor += 2
			return Token{Type: kind, Lexeme: l.source[start.Offset:l.cursor], Pos: start}, nil
		}
	}

	var kind TokenKind
	switch ch {
	case '+':
		kind = PLUS
	case '-':
		kind = MINUS
	case '*':
		kind = MULTIPLY
	case '/':
		kind = DIVIDE
	case '^':
		kind = POWER
	case '=':
		kind = EQUAL
	case '!':
		kind = NOT
	case '>':
		kind = GT
	case '<':
		kind = LT
	case '(':
		kind = LEFT_PAREN
	case ')':
		kind = RIGHT_PAREN
	case '{':
		kind = LEFT_BRACE
	case '}':
		kind = RIGHT_BRACE
	case ';':
		kind = SEMICOLON
	case ',':
		kind = COMMA
	default:
		return Token{}, &LexError{
			Message: "unexpected character",
			Char:    rune(ch),
			File:    l.filename,
			Pos:     start,
			Cause:   ErrUnexpectedChar,
		}
	}
	l.cursor++
	return Token{Type: kind, Lexeme: l.source[start.Offset:l.cursor], Pos: start}, nil
}

func (l *Lexer) skipWhitespace() {
	for l.cursor < len(l.source) {
		switch ch := l.source[l.cursor]; {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.cursor++
		case ch == '\n':
			l.newline()
		case ch == '/' && l.peek() == '/':
			for l.cursor < len(l.source) && l.source[l.cursor] != '\n' {
				l.cursor++
			}
		default:
			return
		}
	}
}

func (l *Lexer) newline() {
	l.cursor++
	l.line++
	l.lineHead = l.cursor
}

// scanNumber matches \d+(\.\d+)?; a dot not followed by a digit is left
// for the next token.
func (l *Lexer) scanNumber(start Position) Token {
	for l.cursor < len(l.source) && isDigit(l.source[l.cursor]) {
		l.cursor++
	}
	if l.cursor < len(l.source) && l.source[l.cursor] == '.' && isDigit(l.peek()) {
		l.cursor++
		for l.cursor < len(l.source) && isDigit(l.source[l.cursor]) {
			l.cursor++
		}
	}
	return Token{Type: NUMBER, Lexeme: l.source[start.Offset:l.cursor], Pos: start}
}

func (l *Lexer) scanIdentifier(start Position) Token {
	for l.cursor < len(l.source) && (isAlpha(l.source[l.cursor]) || isDigit(l.source[l.cursor])) {
		l.cursor++
	}
	text := l.source[start.Offset:l.cursor]
	kind, ok := keywords[text]
	if !ok {
		kind = IDENTIFIER
	}
	return Token{Type: kind, Lexeme: text, Pos: start}
}

func (l *Lexer) scanString(start Position) (Token, error) {
	l.cursor++ // opening quote
	for l.cursor < len(l.source) && l.source[l.cursor] != '"' {
		if l.source[l.cursor] == '\n' {
			l.newline()
			continue
		}
		l.cursor++
	}
	if l.cursor >= len(l.source) {
		return Token{}, &LexError{
			Message: "unterminated string",
			Char:    '"',
			File:    l.filename,
			Pos:     start,
			Cause:   ErrUnterminatedString,
		}
	}
	l.cursor++ // closing quote
	return Token{Type: STRING, Lexeme: l.source[start.Offset:l.cursor], Pos: start}, nil
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.cursor, Line: l.line, Column: l.cursor - l.lineHead + 1}
}

func (l *Lexer) peek() byte {
	if l.cursor+1 >= len(l.source) {
		return 0
	}
	return l.source[l.cursor+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}
