package lox

import (
	"strconv"
)

// Parser builds a syntax tree from a token sequence with one token of
// lookahead. It keeps no state between Parse calls beyond its cursor.
type Parser struct {
	tokens   []Token
	current  int
	filename string
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: ensureEOF(tokens)}
}

func NewParserWithConfig(tokens []Token, cfg Config) *Parser {
	p := NewParser(tokens)
	p.filename = cfg.Filename
	return p
}

// Parse builds the program Block for tokens.
func Parse(tokens []Token) (*Block, error) {
	return NewParser(tokens).Parse()
}

// ParseSource lexes and parses source in one step.
func ParseSource(source string) (*Block, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func ensureEOF(tokens []Token) []Token {
	if n := len(tokens); n > 0 && tokens[n-1].Type == EOF {
		return tokens
	}
	var pos Position
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		pos = Position{
			Offset: last.Pos.Offset + len(last.Lexeme),
			Line:   last.Pos.Line,
			Column: last.Pos.Column + len(last.Lexeme),
		}
	}
	out := make([]Token, len(tokens), len(tokens)+1)
	copy(out, tokens)
	return append(out, Token{Type: EOF, Pos: pos})
}

// Parse consumes the whole token sequence. Any error aborts the parse and
// no partial tree is returned.
func (p *Parser) Parse() (*Block, error) {
	p.current = 0
	program := &Block{}
	for !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Type == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.errorf(ErrUnexpectedToken, "expect "+what, "'"+kind.Symbol()+"'")
}

func (p *Parser) errorf(cause error, msg, expected string) *ParseError {
	return &ParseError{
		Message:  msg,
		Expected: expected,
		Found:    p.peek(),
		File:     p.filename,
		Cause:    cause,
	}
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch {
	case p.match(PRINT):
		return p.parsePrint()
	case p.match(VAR):
		return p.parseVariableDeclaration()
	case p.match(FUN):
		return p.parseFunctionDeclaration()
	case p.match(RETURN):
		return p.parseReturn()
	case p.match(IF):
		return p.parseIf()
	case p.match(WHILE):
		return p.parseWhile()
	case p.match(FOR):
		return p.parseFor()
	case p.match(LEFT_BRACE):
		return p.parseBlock()
	case p.match(SEMICOLON):
		return &Empty{}, nil
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parsePrint() (Stmt, error) {
	keyword := p.previous()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, "';' after value"); err != nil {
		return nil, err
	}
	return &PrintStatement{Keyword: keyword, Expression: expr}, nil
}

func (p *Parser) parseExpressionStatement() (Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, "';' after expression"); err != nil {
		return nil, err
	}
	return &ExpressionStatement{Expression: expr}, nil
}

func (p *Parser) parseVariableDeclaration() (Stmt, error) {
	name, err := p.expect(IDENTIFIER, "variable name")
	if err != nil {
		return nil, err
	}
	decl := &VariableDeclaration{Identifier: name}
	if p.match(EQUAL) {
		decl.Initializer, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON, "';' after variable declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseFunctionDeclaration() (Stmt, error) {
	name, err := p.expect(IDENTIFIER, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LEFT_PAREN, "'(' after function name"); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			param, err := p.expect(IDENTIFIER, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RIGHT_PAREN, "')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LEFT_BRACE, "'{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDeclaration{Identifier: name, Parameters: params, Body: body}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	stmt := &ReturnStatement{Keyword: p.previous()}
	if !p.check(SEMICOLON) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if _, err := p.expect(SEMICOLON, "';' after return value"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseBlock expects the opening brace to be consumed already.
func (p *Parser) parseBlock() (*Block, error) {
	block := &Block{}
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.expect(RIGHT_BRACE, "'}' after block"); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseCondition(keyword string) (Expr, error) {
	if _, err := p.expect(LEFT_PAREN, "'(' after '"+keyword+"'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RIGHT_PAREN, "')' after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStatement{Condition: cond, Then: then}
	// else binds to the nearest if
	if p.match(ELSE) {
		stmt.Else, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Condition: cond, Body: body}, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	if _, err := p.expect(LEFT_PAREN, "'(' after 'for'"); err != nil {
		return nil, err
	}
	loop := &ForStatement{}
	var err error
	switch {
	case p.match(SEMICOLON):
	case p.match(VAR):
		loop.Initializer, err = p.parseVariableDeclaration()
	default:
		loop.Initializer, err = p.parseExpressionStatement()
	}
	if err != nil {
		return nil, err
	}
	if !p.check(SEMICOLON) {
		if loop.Condition, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON, "';' after loop condition"); err != nil {
		return nil, err
	}
	if !p.check(RIGHT_PAREN) {
		if loop.Increment, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RIGHT_PAREN, "')' after for clauses"); err != nil {
		return nil, err
	}
	if loop.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return loop.Desugar(), nil
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment is right-associative: a = b = c assigns c to both.
func (p *Parser) parseAssignment() (Expr, error) {
	target, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.check(EQUAL) {
		return target, nil
	}
	equals := p.peek()
	ident, ok := target.(*Identifier)
	if !ok {
		return nil, &ParseError{
			Message: "invalid assignment target",
			Found:   equals,
			File:    p.filename,
			Cause:   ErrInvalidAssignmentTarget,
		}
	}
	p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &Assignment{Target: ident, Value: value}, nil
}

// parseLeftAssoc parses one left-associative binary tier.
func (p *Parser) parseLeftAssoc(operand func() (Expr, error), ops ...TokenKind) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseOr() (Expr, error) {
	return p.parseLeftAssoc(p.parseAnd, OR)
}

func (p *Parser) parseAnd() (Expr, error) {
	return p.parseLeftAssoc(p.parseComparison, AND)
}

// parseComparison covers equality and relational operators in one tier.
func (p *Parser) parseComparison() (Expr, error) {
	return p.parseLeftAssoc(p.parseAddition, EQUAL_EQUAL, NOT_EQUAL, GT, GT_EQUAL, LT, LT_EQUAL)
}

func (p *Parser) parseAddition() (Expr, error) {
	return p.parseLeftAssoc(p.parseMultiplication, PLUS, MINUS)
}

func (p *Parser) parseMultiplication() (Expr, error) {
	return p.parseLeftAssoc(p.parseExponentiation, MULTIPLY, DIVIDE)
}

// parseExponentiation is left-associative: 2 ^ 3 ^ 2 is (2 ^ 3) ^ 2.
func (p *Parser) parseExponentiation() (Expr, error) {
	return p.parseLeftAssoc(p.parseUnary, POWER)
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.match(MINUS, NOT) {
		op := p.previous()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Operator: op, Operand: operand}, nil
	}
	return p.parseCall()
}

func (p *Parser) parseCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.match(LEFT_PAREN) {
		var args []Expr
		if !p.check(RIGHT_PAREN) {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(COMMA) {
					break
				}
			}
		}
		paren, err := p.expect(RIGHT_PAREN, "')' after arguments")
		if err != nil {
			return nil, err
		}
		expr = &Call{Callee: expr, Paren: paren, Arguments: args}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &ParseError{Message: "malformed number", Found: tok, File: p.filename, Cause: ErrUnexpectedToken}
		}
		return &Number{Value: f}, nil
	case STRING:
		p.advance()
		return &String{Value: unquote(tok.Lexeme)}, nil
	case TRUE, FALSE:
		p.advance()
		return &Boolean{Value: tok.Type == TRUE}, nil
	case NIL:
		p.advance()
		return &Nil{}, nil
	case IDENTIFIER:
		p.advance()
		return &Identifier{Name: tok.Lexeme, Pos: tok.Pos}, nil
	case LEFT_PAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.check(RIGHT_PAREN) {
			return nil, p.errorf(ErrUnmatchedParen, "unmatched '(' at "+tok.Pos.String(), "')'")
		}
		p.advance()
		return &GroupExpression{Expression: expr}, nil
	}
	return nil, p.errorf(ErrUnexpectedToken, "expect expression", "expression")
}

func unquote(lexeme string) string {
	if len(lexeme) >= 2 && lexeme[0] == '"' && lexeme[len(lexeme)-1] == '"' {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}
