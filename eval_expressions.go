package lox

func (a *Assignment) eval(in *Interpreter) (any, error) {
	value, err := a.Value.eval(in)
	if err != nil {
		return nil, err
	}
	if !in.current().Assign(a.Target.Name, value) {
		return nil, evalErrorf(ErrUndefinedVariable, a, "%s at %s", a.Target.Name, a.Target.Pos)
	}
	return value, nil
}

func (i *Identifier) eval(in *Interpreter) (any, error) {
	if v, ok := in.current().Lookup(i.Name); ok {
		return v, nil
	}
	return nil, evalErrorf(ErrUndefinedVariable, i, "%s at %s", i.Name, i.Pos)
}

func (g *GroupExpression) eval(in *Interpreter) (any, error) {
	return g.Expression.eval(in)
}

func (n *Number) eval(in *Interpreter) (any, error) {
	return n.Value, nil
}

func (b *Boolean) eval(in *Interpreter) (any, error) {
	return b.Value, nil
}

func (s *String) eval(in *Interpreter) (any, error) {
	return s.Value, nil
}

func (n *Nil) eval(in *Interpreter) (any, error) {
	return nil, nil
}

// eval evaluates the callee, then the arguments left to right, then calls.
func (c *Call) eval(in *Interpreter) (any, error) {
	callee, err := c.Callee.eval(in)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(c.Arguments))
	for _, arg := range c.Arguments {
		v, err := arg.eval(in)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, evalErrorf(ErrNotCallable, c, "cannot call %s %s at %s", typeName(callee), c.Callee.ToLox(""), c.Paren.Pos)
	}
	if fn.Arity() != len(args) {
		return nil, evalErrorf(ErrArityMismatch, c, "%s expects %d argument(s) but got %d at %s", fn, fn.Arity(), len(args), c.Paren.Pos)
	}
	return fn.Call(in, args)
}

func (u *UnaryExpression) eval(in *Interpreter) (any, error) {
	operand, err := u.Operand.eval(in)
	if err != nil {
		return nil, err
	}
	switch u.Operator.Type {
	case MINUS:
		f, ok := operand.(float64)
		if !ok {
			return nil, evalErrorf(ErrTypeError, u, "operand of '-' must be a number, got %s at %s", typeName(operand), u.Operator.Pos)
		}
		return -f, nil
	case NOT:
		return !IsTruthy(operand), nil
	}
	return nil, evalErrorf(ErrTypeError, u, "unknown unary operator %s at %s", u.Operator.Type, u.Operator.Pos)
}

func (b *BinaryExpression) eval(in *Interpreter) (any, error) {
	switch b.Operator.Type {
	case AND, OR:
		return b.evalLogical(in)
	}
	left, err := b.Left.eval(in)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.eval(in)
	if err != nil {
		return nil, err
	}
	return in.binary(b, left, right)
}

// evalLogical short-circuits: the right operand is only evaluated when the
// left one does not already decide the result.
func (b *BinaryExpression) evalLogical(in *Interpreter) (any, error) {
	left, err := b.Left.eval(in)
	if err != nil {
		return nil, err
	}
	lt := IsTruthy(left)
	if b.Operator.Type == AND && !lt {
		return false, nil
	}
	if b.Operator.Type == OR && lt {
		return true, nil
	}
	right, err := b.Right.eval(in)
	if err != nil {
		return nil, err
	}
	return IsTruthy(right), nil
}
