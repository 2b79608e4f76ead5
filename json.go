package lox

import (
	"fmt"

	"github.com/oarkflow/json"
)

// MarshalJSON converts a syntax tree to JSON for display
func MarshalJSON(node Node) ([]byte, error) {
	return json.Marshal(NodeMap(node))
}

// MarshalTokensJSON converts a token sequence to JSON for display
func MarshalTokensJSON(tokens []Token) ([]byte, error) {
	return json.Marshal(TokenMaps(tokens))
}

// MarshalResultJSON converts both halves of a compile result to JSON
func MarshalResultJSON(res *Result) ([]byte, error) {
	return json.Marshal(map[string]any{
		"tokens": TokenMaps(res.Tokens),
		"ast":    NodeMap(res.AST),
	})
}

func TokenMaps(tokens []Token) []map[string]any {
	out := make([]map[string]any, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, map[string]any{
			"type":   t.Type.String(),
			"lexeme": t.Lexeme,
			"line":   t.Pos.Line,
			"column": t.Pos.Column,
		})
	}
	return out
}

// NodeMap converts a node into nested maps tagged by "type". Positions are
// left out, so equal structures produce equal maps.
func NodeMap(node Node) map[string]any {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *Empty:
		return tagged("Empty", nil)
	case *Block:
		stmts := make([]any, 0, len(n.Statements))
		for _, s := range n.Statements {
			stmts = append(stmts, NodeMap(s))
		}
		return tagged("Block", map[string]any{"statements": stmts})
	case *ExpressionStatement:
		return tagged("ExpressionStatement", map[string]any{"expression": exprMap(n.Expression)})
	case *PrintStatement:
		return tagged("PrintStatement", map[string]any{"expression": exprMap(n.Expression)})
	case *VariableDeclaration:
		return tagged("VariableDeclaration", map[string]any{
			"identifier":  n.Identifier.Lexeme,
			"initializer": exprMap(n.Initializer),
		})
	case *FunctionDeclaration:
		params := make([]any, 0, len(n.Parameters))
		for _, p := range n.Parameters {
			params = append(params, p.Lexeme)
		}
		return tagged("FunctionDeclaration", map[string]any{
			"identifier": n.Identifier.Lexeme,
			"parameters": params,
			"body":       NodeMap(n.Body),
		})
	case *ReturnStatement:
		return tagged("ReturnStatement", map[string]any{"value": exprMap(n.Value)})
	case *IfStatement:
		return tagged("IfStatement", map[string]any{
			"condition": exprMap(n.Condition),
			"then":      stmtMap(n.Then),
			"else":      stmtMap(n.Else),
		})
	case *WhileStatement:
		return tagged("WhileStatement", map[string]any{
			"condition": exprMap(n.Condition),
			"body":      stmtMap(n.Body),
		})
	case *ForStatement:
		return tagged("ForStatement", map[string]any{
			"initializer": stmtMap(n.Initializer),
			"condition":   exprMap(n.Condition),
			"increment":   exprMap(n.Increment),
			"body":        stmtMap(n.Body),
		})
	case *Assignment:
		return tagged("Assignment", map[string]any{
			"target": n.Target.Name,
			"value":  exprMap(n.Value),
		})
	case *Identifier:
		return tagged("Identifier", map[string]any{"name": n.Name})
	case *GroupExpression:
		return tagged("GroupExpression", map[string]any{"expression": exprMap(n.Expression)})
	case *Number:
		return tagged("Number", map[string]any{"value": n.Value})
	case *Boolean:
		return tagged("Boolean", map[string]any{"value": n.Value})
	case *String:
		return tagged("String", map[string]any{"value": n.Value})
	case *Nil:
		return tagged("Nil", nil)
	case *Call:
		args := make([]any, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			args = append(args, NodeMap(a))
		}
		return tagged("Call", map[string]any{
			"callee":    exprMap(n.Callee),
			"arguments": args,
		})
	case *UnaryExpression:
		return tagged("UnaryExpression", map[string]any{
			"operator": n.Operator.Type.String(),
			"operand":  exprMap(n.Operand),
		})
	case *BinaryExpression:
		return tagged("BinaryExpression", map[string]any{
			"left":     exprMap(n.Left),
			"operator": n.Operator.Type.String(),
			"right":    exprMap(n.Right),
		})
	}
	panic(fmt.Sprintf("lox: NodeMap: unhandled node %T", node))
}

func tagged(kind string, fields map[string]any) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields["type"] = kind
	return fields
}

// exprMap and stmtMap keep typed-nil interface fields out of NodeMap.
func exprMap(e Expr) map[string]any {
	if e == nil {
		return nil
	}
	return NodeMap(e)
}

func stmtMap(s Stmt) map[string]any {
	if s == nil {
		return nil
	}
	return NodeMap(s)
}
