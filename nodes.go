package lox

import (
	"strings"
)

// Node is any element of a syntax tree. ToLox renders the node back to
// canonical source, prefixed by indent.
type Node interface {
	ToLox(indent string) string
}

// Stmt is the closed set of statement nodes. The unexported method keeps
// the set closed to this package and makes every statement kind provide
// its own execution rule.
type Stmt interface {
	Node
	exec(in *Interpreter) (Completion, error)
}

// Expr is the closed set of expression nodes.
type Expr interface {
	Node
	eval(in *Interpreter) (any, error)
}

const indentUnit = "    "

type Empty struct{}

func (e *Empty) ToLox(indent string) string {
	return indent + ";"
}

// Block is an ordered statement list with its own scope. A parsed
// program's root is always a Block.
type Block struct {
	Statements []Stmt
}

func (b *Block) ToLox(indent string) string {
	return indent + b.braced(indent)
}

// braced renders the block without the leading indent so it can follow a
// header such as "while (x) ".
func (b *Block) braced(indent string) string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.Grow(len(b.Statements) * 32)
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString(s.ToLox(indent + indentUnit))
		sb.WriteByte('\n')
	}
	sb.WriteString(indent)
	sb.WriteByte('}')
	return sb.String()
}

type ExpressionStatement struct {
	Expression Expr
}

func (s *ExpressionStatement) ToLox(indent string) string {
	return indent + s.Expression.ToLox("") + ";"
}

type PrintStatement struct {
	Keyword    Token
	Expression Expr
}

func (s *PrintStatement) ToLox(indent string) string {
	return indent + "print " + s.Expression.ToLox("") + ";"
}

type VariableDeclaration struct {
	Identifier  Token
	Initializer Expr // nil when absent
}

func (d *VariableDeclaration) ToLox(indent string) string {
	if d.Initializer == nil {
		return indent + "var " + d.Identifier.Lexeme + ";"
	}
	return indent + "var " + d.Identifier.Lexeme + " = " + d.Initializer.ToLox("") + ";"
}

type FunctionDeclaration struct {
	Identifier Token
	Parameters []Token
	Body       *Block
}

func (d *FunctionDeclaration) ToLox(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("fun ")
	sb.WriteString(d.Identifier.Lexeme)
	sb.WriteByte('(')
	for i, p := range d.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Lexeme)
	}
	sb.WriteString(") ")
	sb.WriteString(d.Body.braced(indent))
	return sb.String()
}

type ReturnStatement struct {
	Keyword Token
	Value   Expr // nil for a bare return
}

func (s *ReturnStatement) ToLox(indent string) string {
	if s.Value == nil {
		return indent + "return;"
	}
	return indent + "return " + s.Value.ToLox("") + ";"
}

type IfStatement struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func (s *IfStatement) ToLox(indent string) string {
	then := s.Then
	// an else-less inner if would capture our else on re-parse
	if inner, ok := then.(*IfStatement); ok && inner.Else == nil && s.Else != nil {
		then = &Block{Statements: []Stmt{inner}}
	}
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("if (")
	sb.WriteString(s.Condition.ToLox(""))
	sb.WriteByte(')')
	sb.WriteString(branch(then, indent))
	if s.Else != nil {
		if _, ok := then.(*Block); ok {
			sb.WriteString(" else")
		} else {
			sb.WriteString("\n" + indent + "else")
		}
		sb.WriteString(branch(s.Else, indent))
	}
	return sb.String()
}

type WhileStatement struct {
	Condition Expr
	Body      Stmt
}

func (s *WhileStatement) ToLox(indent string) string {
	return indent + "while (" + s.Condition.ToLox("") + ")" + branch(s.Body, indent)
}

// ForStatement is the surface form of a for loop. The parser never leaves
// one in a tree; it emits Desugar's result instead.
type ForStatement struct {
	Initializer Stmt // nil when absent
	Condition   Expr // nil when absent
	Increment   Expr // nil when absent
	Body        Stmt
}

// Desugar rewrites the loop into nested Block and WhileStatement nodes:
// the increment trails the body inside a block, the initializer wraps the
// loop in an outer block and a missing condition becomes literal true.
func (s *ForStatement) Desugar() Stmt {
	body := s.Body
	if s.Increment != nil {
		body = &Block{Statements: []Stmt{body, &ExpressionStatement{Expression: s.Increment}}}
	}
	cond := s.Condition
	if cond == nil {
		cond = &Boolean{Value: true}
	}
	var loop Stmt = &WhileStatement{Condition: cond, Body: body}
	if s.Initializer != nil {
		loop = &Block{Statements: []Stmt{s.Initializer, loop}}
	}
	return loop
}

func (s *ForStatement) ToLox(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("for (")
	if s.Initializer != nil {
		sb.WriteString(s.Initializer.ToLox(""))
	} else {
		sb.WriteByte(';')
	}
	if s.Condition != nil {
		sb.WriteByte(' ')
		sb.WriteString(s.Condition.ToLox(""))
	}
	sb.WriteByte(';')
	if s.Increment != nil {
		sb.WriteByte(' ')
		sb.WriteString(s.Increment.ToLox(""))
	}
	sb.WriteByte(')')
	sb.WriteString(branch(s.Body, indent))
	return sb.String()
}

func branch(body Stmt, indent string) string {
	if b, ok := body.(*Block); ok {
		return " " + b.braced(indent)
	}
	return "\n" + body.ToLox(indent+indentUnit)
}

type Assignment struct {
	Target *Identifier
	Value  Expr
}

func (a *Assignment) ToLox(indent string) string {
	return indent + a.Target.Name + " = " + a.Value.ToLox("")
}

type Identifier struct {
	Name string
	Pos  Position
}

func (i *Identifier) ToLox(indent string) string {
	return indent + i.Name
}

type GroupExpression struct {
	Expression Expr
}

func (g *GroupExpression) ToLox(indent string) string {
	return indent + "(" + g.Expression.ToLox("") + ")"
}

type Number struct {
	Value float64
}

func (n *Number) ToLox(indent string) string {
	return indent + formatNumber(n.Value)
}

type Boolean struct {
	Value bool
}

func (b *Boolean) ToLox(indent string) string {
	if b.Value {
		return indent + "true"
	}
	return indent + "false"
}

// String holds a string literal with its quotes already stripped.
type String struct {
	Value string
}

func (s *String) ToLox(indent string) string {
	return indent + `"` + s.Value + `"`
}

type Nil struct{}

func (n *Nil) ToLox(indent string) string {
	return indent + "nil"
}

type Call struct {
	Callee    Expr
	Paren     Token // closing parenthesis, used for diagnostics
	Arguments []Expr
}

func (c *Call) ToLox(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(c.Callee.ToLox(""))
	sb.WriteByte('(')
	for i, a := range c.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.ToLox(""))
	}
	sb.WriteByte(')')
	return sb.String()
}

type UnaryExpression struct {
	Operator Token
	Operand  Expr
}

func (u *UnaryExpression) ToLox(indent string) string {
	return indent + u.Operator.Type.Symbol() + u.Operand.ToLox("")
}

type BinaryExpression struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (b *BinaryExpression) ToLox(indent string) string {
	return indent + b.Left.ToLox("") + " " + b.Operator.Type.Symbol() + " " + b.Right.ToLox("")
}
