package lox

import (
	"math"
)

// binary applies an eager binary operator. The coercion policy is:
//
//	+            number+number sums; a string on either side concatenates
//	- * / ^      numbers only
//	< <= > >=    numbers only
//	== !=        any operands, no coercion
//
// Division by zero follows IEEE semantics unless strict division is on.
func (in *Interpreter) binary(b *BinaryExpression, left, right any) (any, error) {
	op := b.Operator.Type
	switch op {
	case EQUAL_EQUAL:
		return valuesEqual(left, right), nil
	case NOT_EQUAL:
		return !valuesEqual(left, right), nil
	case PLUS:
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok || rok {
			if !lok {
				ls = Stringify(left)
			}
			if !rok {
				rs = Stringify(right)
			}
			return ls + rs, nil
		}
	}

	lf, lok := left.(float64)
	rf, rok := right.(float64)
	if !lok || !rok {
		return nil, evalErrorf(ErrTypeError, b, "operands of '%s' must be numbers, got %s and %s at %s",
			op.Symbol(), typeName(left), typeName(right), b.Operator.Pos)
	}

	switch op {
	case PLUS:
		return lf + rf, nil
	case MINUS:
		return lf - rf, nil
	case MULTIPLY:
		return lf * rf, nil
	case DIVIDE:
		if rf == 0 && in.strictDivision {
			return nil, evalErrorf(ErrDivisionByZero, b, "%s / 0 at %s", formatNumber(lf), b.Operator.Pos)
		}
		return lf / rf, nil
	case POWER:
		return math.Pow(lf, rf), nil
	case GT:
		return lf > rf, nil
	case GT_EQUAL:
		return lf >= rf, nil
	case LT:
		return lf < rf, nil
	case LT_EQUAL:
		return lf <= rf, nil
	}
	return nil, evalErrorf(ErrTypeError, b, "unknown binary operator %s at %s", op, b.Operator.Pos)
}
