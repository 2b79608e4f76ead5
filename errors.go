package lox

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the pipeline wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")

	ErrUnexpectedToken         = errors.New("unexpected token")
	ErrUnmatchedParen          = errors.New("unmatched parenthesis")
	ErrInvalidAssignmentTarget = errors.New("invalid assignment target")

	ErrUndefinedVariable = errors.New("undefined variable")
	ErrNotCallable       = errors.New("value is not callable")
	ErrTypeError         = errors.New("type error")
	ErrArityMismatch     = errors.New("arity mismatch")
	ErrDivisionByZero    = errors.New("division by zero")
)

func location(file string, pos Position) string {
	if file == "" {
		return pos.String()
	}
	return file + ":" + pos.String()
}

// LexError reports a character the lexer cannot start a token with.
type LexError struct {
	Message string
	Char    rune
	File    string
	Pos     Position
	Cause   error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s %q at %s", e.Message, e.Char, location(e.File, e.Pos))
}

func (e *LexError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error that occurred during parsing
type ParseError struct {
	Message  string
	Expected string
	Found    Token
	File     string
	Cause    error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf(": expected %s, found %s", e.Expected, e.Found))
	} else {
		sb.WriteString(fmt.Sprintf(" near %s", e.Found))
	}
	sb.WriteString(" at ")
	sb.WriteString(location(e.File, e.Found.Pos))
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// EvalError represents an error that occurred during evaluation
type EvalError struct {
	Message string
	Node    Node
	Cause   error
}

func (e *EvalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s", e.Cause, e.Message)
	}
	return e.Message
}

func (e *EvalError) Unwrap() error {
	return e.Cause
}

func evalErrorf(cause error, node Node, format string, args ...any) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, args...), Node: node, Cause: cause}
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}

func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}
