package lox

import (
	"io"
	"os"

	"github.com/edwingeng/deque"
)

// Interpreter is the state of one program run: the global scope and the
// stack of active scopes, innermost at the back. It is not safe for
// concurrent use; concurrent runs each need their own Interpreter.
type Interpreter struct {
	globals        *Environment
	scopes         deque.Deque
	out            io.Writer
	strictDivision bool
}

func NewInterpreter(cfg Config) *Interpreter {
	in := &Interpreter{
		globals:        NewEnv(nil),
		scopes:         deque.NewDeque(),
		out:            cfg.Output,
		strictDivision: cfg.StrictDivision,
	}
	if in.out == nil {
		in.out = os.Stdout
	}
	registry := cfg.Registry
	if registry == nil {
		registry = globalRegistry
	}
	registry.bind(in.globals)
	in.scopes.PushBack(in.globals)
	return in
}

func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Depth is the number of active scopes, 1 when only the globals are.
func (in *Interpreter) Depth() int {
	return in.scopes.Len()
}

func (in *Interpreter) current() *Environment {
	return in.scopes.Back().(*Environment)
}

func (in *Interpreter) push(env *Environment) {
	in.scopes.PushBack(env)
}

func (in *Interpreter) pop() {
	in.scopes.PopBack()
}

// Evaluate runs a program for its side effects.
func (in *Interpreter) Evaluate(tree *Block) error {
	_, err := in.Run(tree)
	return err
}

// Run executes the program's top-level statements directly in the global
// scope and returns the value of the last statement executed. A
// top-level return ends the run early with its value.
func (in *Interpreter) Run(tree *Block) (any, error) {
	c, err := in.execAll(tree.Statements)
	if err != nil {
		return nil, err
	}
	return c.Value, nil
}

// execAll runs statements in order in the current scope, stopping at the
// first error or return.
func (in *Interpreter) execAll(stmts []Stmt) (Completion, error) {
	var last Completion
	for _, s := range stmts {
		c, err := s.exec(in)
		if err != nil {
			return Completion{}, err
		}
		if c.Returning {
			return c, nil
		}
		last = c
	}
	return last, nil
}
