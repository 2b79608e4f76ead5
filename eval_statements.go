package lox

import (
	"fmt"
)

func (e *Empty) exec(in *Interpreter) (Completion, error) {
	return Completion{}, nil
}

// exec pushes a child scope for the block and always pops it, even when a
// statement fails.
func (b *Block) exec(in *Interpreter) (Completion, error) {
	in.push(NewEnv(in.current()))
	defer in.pop()
	return in.execAll(b.Statements)
}

func (s *ExpressionStatement) exec(in *Interpreter) (Completion, error) {
	v, err := s.Expression.eval(in)
	if err != nil {
		return Completion{}, err
	}
	return Completion{Value: v}, nil
}

func (s *PrintStatement) exec(in *Interpreter) (Completion, error) {
	v, err := s.Expression.eval(in)
	if err != nil {
		return Completion{}, err
	}
	if _, err := fmt.Fprintln(in.out, Stringify(v)); err != nil {
		return Completion{}, fmt.Errorf("print at %s: %w", s.Keyword.Pos, err)
	}
	return Completion{}, nil
}

func (d *VariableDeclaration) exec(in *Interpreter) (Completion, error) {
	var value any
	if d.Initializer != nil {
		v, err := d.Initializer.eval(in)
		if err != nil {
			return Completion{}, err
		}
		value = v
	}
	in.current().Declare(d.Identifier.Lexeme, value)
	return Completion{}, nil
}

func (d *FunctionDeclaration) exec(in *Interpreter) (Completion, error) {
	fn := &Function{Declaration: d, Closure: in.current()}
	in.current().Declare(d.Identifier.Lexeme, fn)
	return Completion{}, nil
}

func (s *ReturnStatement) exec(in *Interpreter) (Completion, error) {
	var value any
	if s.Value != nil {
		v, err := s.Value.eval(in)
		if err != nil {
			return Completion{}, err
		}
		value = v
	}
	return Completion{Returning: true, Value: value}, nil
}

func (s *IfStatement) exec(in *Interpreter) (Completion, error) {
	cond, err := s.Condition.eval(in)
	if err != nil {
		return Completion{}, err
	}
	if IsTruthy(cond) {
		return s.Then.exec(in)
	}
	if s.Else != nil {
		return s.Else.exec(in)
	}
	return Completion{}, nil
}

func (s *WhileStatement) exec(in *Interpreter) (Completion, error) {
	for {
		cond, err := s.Condition.eval(in)
		if err != nil {
			return Completion{}, err
		}
		if !IsTruthy(cond) {
			return Completion{}, nil
		}
		c, err := s.Body.exec(in)
		if err != nil {
			return Completion{}, err
		}
		if c.Returning {
			return c, nil
		}
	}
}

func (s *ForStatement) exec(in *Interpreter) (Completion, error) {
	return s.Desugar().exec(in)
}
