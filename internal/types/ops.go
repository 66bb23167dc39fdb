package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolkov/pseudocode/internal/token"
)

// ErrDivisionByZero is returned by Arith for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Arith applies a binary arithmetic or concatenation operator.
//
// INTEGER op INTEGER stays INTEGER except for '/', which always yields REAL.
// Mixing INTEGER and REAL widens to REAL. MOD and DIV take INTEGERs and
// truncate toward zero. '+' on two STRING/CHAR operands concatenates, '&'
// requires STRING/CHAR operands.
func Arith(op token.Token, l, r Value) (Value, error) {
	switch op {
	case token.CONCAT:
		if !isText(l) || !isText(r) {
			return Value{}, opError(op, l, r)
		}
		return Str(l.AsString() + r.AsString()), nil
	case token.ADD:
		if isText(l) && isText(r) {
			return Str(l.AsString() + r.AsString()), nil
		}
	case token.MOD, token.DIV:
		if l.kind != KindInteger || r.kind != KindInteger {
			return Value{}, fmt.Errorf("%s requires INTEGER operands, got %s and %s", op, l.Type(), r.Type())
		}
		if r.i == 0 {
			return Value{}, ErrDivisionByZero
		}
		if op == token.MOD {
			return Int(l.i % r.i), nil
		}
		return Int(l.i / r.i), nil
	}

	if !l.IsNumeric() || !r.IsNumeric() {
		return Value{}, opError(op, l, r)
	}

	if op == token.QUO {
		d := r.AsFloat()
		if d == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Float(l.AsFloat() / d), nil
	}

	if l.kind == KindInteger && r.kind == KindInteger {
		switch op {
		case token.ADD:
			return Int(l.i + r.i), nil
		case token.SUB:
			return Int(l.i - r.i), nil
		case token.MUL:
			return Int(l.i * r.i), nil
		}
	} else {
		a, b := l.AsFloat(), r.AsFloat()
		switch op {
		case token.ADD:
			return Float(a + b), nil
		case token.SUB:
			return Float(a - b), nil
		case token.MUL:
			return Float(a * b), nil
		}
	}
	return Value{}, fmt.Errorf("unsupported operator %s", op)
}

// Compare applies a comparison operator and returns a BOOLEAN.
// Numbers compare numerically (INTEGER and REAL mix freely), STRING and
// CHAR compare lexicographically, DATEs chronologically; BOOLEANs only
// support = and <>.
func Compare(op token.Token, l, r Value) (Value, error) {
	var c int
	switch {
	case l.IsNumeric() && r.IsNumeric():
		if l.kind == KindInteger && r.kind == KindInteger {
			c = cmpInt(l.i, r.i)
		} else {
			c = cmpFloat(l.AsFloat(), r.AsFloat())
		}
	case isText(l) && isText(r):
		c = strings.Compare(l.AsString(), r.AsString())
	case l.kind == KindDate && r.kind == KindDate:
		c = l.t.Compare(r.t)
	case l.kind == KindBoolean && r.kind == KindBoolean:
		if op != token.EQUALS && op != token.NOT_EQUALS {
			return Value{}, fmt.Errorf("cannot order BOOLEAN values with %s", op)
		}
		c = cmpInt(l.i, r.i)
	default:
		return Value{}, fmt.Errorf("cannot compare %s with %s", l.Type(), r.Type())
	}

	switch op {
	case token.EQUALS:
		return Bool(c == 0), nil
	case token.NOT_EQUALS:
		return Bool(c != 0), nil
	case token.LESS:
		return Bool(c < 0), nil
	case token.LTE:
		return Bool(c <= 0), nil
	case token.GREATER:
		return Bool(c > 0), nil
	case token.GTE:
		return Bool(c >= 0), nil
	}
	return Value{}, fmt.Errorf("unsupported comparison %s", op)
}

// Equal reports whether two scalar values are equal under Compare rules.
// Incomparable values are never equal.
func Equal(l, r Value) bool {
	v, err := Compare(token.EQUALS, l, r)
	return err == nil && v.AsBool()
}

// Not negates a BOOLEAN.
func Not(v Value) (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, fmt.Errorf("NOT requires a BOOLEAN operand, got %s", v.Type())
	}
	return Bool(v.i == 0), nil
}

// Neg negates a number.
func Neg(v Value) (Value, error) {
	switch v.kind {
	case KindInteger:
		return Int(-v.i), nil
	case KindReal:
		return Float(-v.f), nil
	}
	return Value{}, fmt.Errorf("unary minus requires a numeric operand, got %s", v.Type())
}

// ResultType returns the static type of a binary operation, or nil when
// it cannot be determined or the operands are invalid.
func ResultType(op token.Token, l, r *Type) *Type {
	if l == nil || r == nil {
		return nil
	}
	textual := func(t *Type) bool { return t.Kind == KindString || t.Kind == KindChar }
	switch op {
	case token.CONCAT:
		return StringType
	case token.EQUALS, token.NOT_EQUALS, token.LESS, token.LTE, token.GREATER, token.GTE, token.AND, token.OR:
		return BooleanType
	case token.MOD, token.DIV:
		return IntegerType
	case token.QUO:
		return RealType
	case token.ADD, token.SUB, token.MUL:
		if op == token.ADD && textual(l) && textual(r) {
			return StringType
		}
		if l.Kind == KindInteger && r.Kind == KindInteger {
			return IntegerType
		}
		if l.IsNumeric() && r.IsNumeric() {
			return RealType
		}
	}
	return nil
}

func isText(v Value) bool {
	return v.kind == KindString || v.kind == KindChar
}

func opError(op token.Token, l, r Value) error {
	return fmt.Errorf("type mismatch: cannot apply %s to %s and %s", op, l.Type(), r.Type())
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
