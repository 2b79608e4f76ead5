package lox

import (
	"strings"

	reflect "github.com/goccy/go-reflect"
)

// MarshalAST renders a program as canonical source. The program block's
// statements are emitted at top level, without braces. Lexing and parsing
// the output yields a tree Equal to the input.
func MarshalAST(tree *Block) string {
	var parts []string
	for _, s := range tree.Statements {
		parts = append(parts, s.ToLox(""))
	}
	return strings.Join(parts, "\n")
}

// Equal reports whether two trees have the same structure and values.
// Source positions are ignored.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(NodeMap(a), NodeMap(b))
}
