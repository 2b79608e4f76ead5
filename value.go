package lox

import (
	"fmt"
	"math"
	"strconv"

	reflect "github.com/goccy/go-reflect"
)

// Runtime values are float64, string, bool, nil or a Callable.

// Callable is a value with call semantics.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []any) (any, error)
	String() string
}

// Function is a user-declared function together with the environment that
// was active where it was declared.
type Function struct {
	Declaration *FunctionDeclaration
	Closure     *Environment
}

func (f *Function) Arity() int {
	return len(f.Declaration.Parameters)
}

// Call evaluates the body in a fresh scope rooted at the closure, never at
// the caller's scope.
func (f *Function) Call(in *Interpreter, args []any) (any, error) {
	env := NewEnv(f.Closure)
	for i, param := range f.Declaration.Parameters {
		env.Declare(param.Lexeme, args[i])
	}
	in.push(env)
	defer in.pop()

	c, err := in.execAll(f.Declaration.Body.Statements)
	if err != nil {
		return nil, err
	}
	if c.Returning {
		return c.Value, nil
	}
	return nil, nil
}

func (f *Function) String() string {
	return "fn <" + f.Declaration.Identifier.Lexeme + ">"
}

// NativeFunc is the Go signature of a host function.
type NativeFunc func(args ...any) (any, error)

// NativeFunction exposes a host function to scripts.
type NativeFunction struct {
	Name   string
	Params int
	Fn     NativeFunc
}

func (n *NativeFunction) Arity() int {
	return n.Params
}

func (n *NativeFunction) Call(_ *Interpreter, args []any) (any, error) {
	return n.Fn(args...)
}

func (n *NativeFunction) String() string {
	return "native fn <" + n.Name + ">"
}

// Completion is how a statement finished: normally, possibly carrying the
// value of an expression statement, or by a return that must unwind to the
// nearest call boundary.
type Completion struct {
	Returning bool
	Value     any
}

// IsTruthy reports the truthiness of v: only false and nil are falsy.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}

// Stringify returns the printed form of a runtime value.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(t)
	case string:
		return t
	case Callable:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// typeName is used in type error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case Callable:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// valuesEqual compares primitives structurally and callables by identity.
// There is no cross-type coercion: 1 == "1" is false.
func valuesEqual(a, b any) bool {
	_, ca := a.(Callable)
	_, cb := b.(Callable)
	if ca || cb {
		return ca && cb && a == b
	}
	return reflect.DeepEqual(a, b)
}
