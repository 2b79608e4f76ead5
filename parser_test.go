package lox

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// sexpr renders an expression fully parenthesized so tests can see how it
// was grouped.
func sexpr(e Expr) string {
	switch n := e.(type) {
	case *BinaryExpression:
		return "(" + n.Operator.Type.Symbol() + " " + sexpr(n.Left) + " " + sexpr(n.Right) + ")"
	case *UnaryExpression:
		return "(" + n.Operator.Type.Symbol() + " " + sexpr(n.Operand) + ")"
	case *GroupExpression:
		return "(group " + sexpr(n.Expression) + ")"
	case *Assignment:
		return "(= " + n.Target.Name + " " + sexpr(n.Value) + ")"
	case *Call:
		parts := []string{"call", sexpr(n.Callee)}
		for _, a := range n.Arguments {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return e.ToLox("")
}

func mustParse(t testing.TB, source string) *Block {
	t.Helper()
	tree, err := ParseSource(source)
	if err != nil {
		t.Fatalf("ParseSource(%q) error = %v", source, err)
	}
	return tree
}

func TestParseExpressionGrouping(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"2 ^ 3 ^ 2", "(^ (^ 2 3) 2)"},
		{"2 * 3 ^ 2", "(* 2 (^ 3 2))"},
		{"-2 ^ 2", "(^ (- 2) 2)"},
		{"!!x", "(! (! x))"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"1 < 2 == true", "(== (< 1 2) true)"},
		{"a == b != c", "(!= (== a b) c)"},
		{"a or b and c", "(or a (and b c))"},
		{"a and b or c and d", "(or (and a b) (and c d))"},
		{"1 + 2 < 3 * 4", "(< (+ 1 2) (* 3 4))"},
		{"a = b = 1", "(= a (= b 1))"},
		{"a = 1 + 2", "(= a (+ 1 2))"},
		{"f(1, 2)(3)", "(call (call f 1 2) 3)"},
		{"f()", "(call f)"},
		{"-f(x)", "(- (call f x))"},
		{`"hi" + nil`, `(+ "hi" nil)`},
		{"1.5", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tree := mustParse(t, tt.source+";")
			if len(tree.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(tree.Statements))
			}
			stmt, ok := tree.Statements[0].(*ExpressionStatement)
			if !ok {
				t.Fatalf("statement is %T, want *ExpressionStatement", tree.Statements[0])
			}
			if got := sexpr(stmt.Expression); got != tt.want {
				t.Errorf("grouping = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tree := mustParse(t, `
var a;
var b = "s";
print a;
;
{ print b; }
fun add(x, y) { return x + y; }
if (a) print 1; else print 2;
while (false) {}
return;
`)
	want := []string{
		"*lox.VariableDeclaration",
		"*lox.VariableDeclaration",
		"*lox.PrintStatement",
		"*lox.Empty",
		"*lox.Block",
		"*lox.FunctionDeclaration",
		"*lox.IfStatement",
		"*lox.WhileStatement",
		"*lox.ReturnStatement",
	}
	if len(tree.Statements) != len(want) {
		t.Fatalf("got %d statements, want %d", len(tree.Statements), len(want))
	}
	for i, w := range want {
		if got := fmt.Sprintf("%T", tree.Statements[i]); got != w {
			t.Errorf("statement %d is %s, want %s", i, got, w)
		}
	}

	if decl := tree.Statements[0].(*VariableDeclaration); decl.Initializer != nil {
		t.Errorf("var a; has initializer %v", decl.Initializer)
	}
	fn := tree.Statements[5].(*FunctionDeclaration)
	if fn.Identifier.Lexeme != "add" || len(fn.Parameters) != 2 || fn.Parameters[1].Lexeme != "y" {
		t.Errorf("function declaration = %s", fn.ToLox(""))
	}
	if ret := tree.Statements[8].(*ReturnStatement); ret.Value != nil {
		t.Errorf("bare return has value %v", ret.Value)
	}
}

func TestParseForDesugaring(t *testing.T) {
	tree := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	outer, ok := tree.Statements[0].(*Block)
	if !ok || len(outer.Statements) != 2 {
		t.Fatalf("for loop parsed to %s", tree.Statements[0].ToLox(""))
	}
	if _, ok := outer.Statements[0].(*VariableDeclaration); !ok {
		t.Errorf("first statement is %T, want initializer", outer.Statements[0])
	}
	loop, ok := outer.Statements[1].(*WhileStatement)
	if !ok {
		t.Fatalf("second statement is %T, want *WhileStatement", outer.Statements[1])
	}
	if got := sexpr(loop.Condition); got != "(< i 3)" {
		t.Errorf("condition = %s", got)
	}
	body, ok := loop.Body.(*Block)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("loop body = %s", loop.Body.ToLox(""))
	}
	if _, ok := body.Statements[0].(*PrintStatement); !ok {
		t.Errorf("body starts with %T, want the loop body", body.Statements[0])
	}
	incr, ok := body.Statements[1].(*ExpressionStatement)
	if !ok || sexpr(incr.Expression) != "(= i (+ i 1))" {
		t.Errorf("body does not end with the increment: %s", body.ToLox(""))
	}
}

func TestParseForWithoutClauses(t *testing.T) {
	tree := mustParse(t, "for (;;) ;")
	loop, ok := tree.Statements[0].(*WhileStatement)
	if !ok {
		t.Fatalf("for (;;) parsed to %T, want a bare *WhileStatement", tree.Statements[0])
	}
	if cond, ok := loop.Condition.(*Boolean); !ok || !cond.Value {
		t.Errorf("missing condition became %s, want true", loop.Condition.ToLox(""))
	}
	if _, ok := loop.Body.(*Empty); !ok {
		t.Errorf("body is %T, want *Empty", loop.Body)
	}

	tree = mustParse(t, "for (i = 0; ; ) print i;")
	outer, ok := tree.Statements[0].(*Block)
	if !ok {
		t.Fatalf("for with expression initializer parsed to %T", tree.Statements[0])
	}
	if _, ok := outer.Statements[0].(*ExpressionStatement); !ok {
		t.Errorf("initializer is %T, want *ExpressionStatement", outer.Statements[0])
	}
}

func TestParseDanglingElse(t *testing.T) {
	tree := mustParse(t, "if (a) if (b) print 1; else print 2;")
	outer := tree.Statements[0].(*IfStatement)
	if outer.Else != nil {
		t.Errorf("else bound to the outer if")
	}
	inner, ok := outer.Then.(*IfStatement)
	if !ok {
		t.Fatalf("then branch is %T", outer.Then)
	}
	if inner.Else == nil {
		t.Errorf("else did not bind to the inner if")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{"unclosed group", "(1 + 2;", ErrUnmatchedParen},
		{"nested unclosed group", "print ((1);", ErrUnmatchedParen},
		{"assign to expression", "1 + 2 = 3;", ErrInvalidAssignmentTarget},
		{"assign to group", "(a) = 3;", ErrInvalidAssignmentTarget},
		{"assign to call", "f() = 3;", ErrInvalidAssignmentTarget},
		{"missing variable name", "var 1 = 2;", ErrUnexpectedToken},
		{"missing semicolon", "print 1", ErrUnexpectedToken},
		{"unclosed block", "{ print 1;", ErrUnexpectedToken},
		{"stray paren", ")", ErrUnexpectedToken},
		{"dangling operator", "1 +;", ErrUnexpectedToken},
		{"trailing comma in parameters", "fun f(a,) {}", ErrUnexpectedToken},
		{"function without body", "fun f();", ErrUnexpectedToken},
		{"if without parens", "if a print 1;", ErrUnexpectedToken},
		{"unclosed call", "f(1, 2;", ErrUnexpectedToken},
		{"keyword as name", "var print = 1;", ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParseSource(tt.source)
			if err == nil {
				t.Fatalf("ParseSource() = %s, want error", MarshalAST(tree))
			}
			if tree != nil {
				t.Errorf("ParseSource() returned a partial tree")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseSource() error = %v, want %v", err, tt.wantErr)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error type = %T, want *ParseError", err)
			}
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"print 1", "expect ';' after value: expected ';', found end of input at t.lox:1:8"},
		{"1 + 2 = 3;", `invalid assignment target near EQUAL "=" at t.lox:1:7`},
		{"(1;", "unmatched '(' at 1:1: expected ')', found SEMICOLON \";\" at t.lox:1:3"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens, err := Lex(tt.source)
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			_, err = NewParserWithConfig(tokens, Config{Filename: "t.lox"}).Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEmptyProgram(t *testing.T) {
	tree := mustParse(t, "// nothing here\n")
	if tree == nil || len(tree.Statements) != 0 {
		t.Errorf("empty program = %#v", tree)
	}
}

func TestParseTokensWithoutEOF(t *testing.T) {
	tokens := []Token{
		{Type: PRINT, Lexeme: "print", Pos: Position{Line: 1, Column: 1}},
		{Type: NUMBER, Lexeme: "1", Pos: Position{Offset: 6, Line: 1, Column: 7}},
		{Type: SEMICOLON, Lexeme: ";", Pos: Position{Offset: 7, Line: 1, Column: 8}},
	}
	tree, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := MarshalAST(tree); got != "print 1;" {
		t.Errorf("MarshalAST() = %q", got)
	}
}

func TestParserReuse(t *testing.T) {
	tokens, err := Lex("var a = 1; print a;")
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(tokens)
	first, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(first, second) {
		t.Errorf("parsing twice gave different trees:\n%s\n%s", MarshalAST(first), MarshalAST(second))
	}
}
