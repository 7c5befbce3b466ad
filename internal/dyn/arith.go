package dyn

import (
	"github.com/cockroachdb/apd/v3"
)

// divideScale is the fixed number of fractional digits kept by Divide.
const divideScale = 10

// arithContext performs exact decimal arithmetic. 50 digits of precision is
// far beyond what add/subtract/multiply on realistic operands can produce,
// so results never round.
var arithContext = apd.Context{
	Precision:   50,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundHalfUp,
	Traps:       apd.DefaultTraps,
}

// intContext truncates toward zero when narrowing decimals to integers.
var intContext = apd.Context{
	Precision:   50,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundDown,
	Traps:       apd.DefaultTraps,
}

// Add returns the sum of two number-capable containers, or the concatenation
// of two string-capable ones. Any other operand pairing fails with
// UNSUPPORTED_OPERATION.
func (c *Container) Add(other *Container) (*Container, error) {
	if c.IsNumber() && other.IsNumber() {
		return c.binaryDecimal(other, "add", arithContext.Add)
	}
	if c.IsString() && other.IsString() {
		return c.Concat(other)
	}
	return nil, newUnsupported("add", "numbers or strings")
}

// Subtract returns the difference of two number-capable containers.
func (c *Container) Subtract(other *Container) (*Container, error) {
	if !c.IsNumber() || !other.IsNumber() {
		return nil, newUnsupported("subtract", "numbers")
	}
	return c.binaryDecimal(other, "subtract", arithContext.Sub)
}

// Multiply returns the product of two number-capable containers.
func (c *Container) Multiply(other *Container) (*Container, error) {
	if !c.IsNumber() || !other.IsNumber() {
		return nil, newUnsupported("multiply", "numbers")
	}
	return c.binaryDecimal(other, "multiply", arithContext.Mul)
}

// Divide returns the quotient of two number-capable containers, rounded to
// exactly 10 fractional digits using half-up rounding.
//
// Dividing by an operand whose numeric value is exactly zero fails with
// ARITHMETIC_ERROR.
func (c *Container) Divide(other *Container) (*Container, error) {
	if !c.IsNumber() || !other.IsNumber() {
		return nil, newUnsupported("divide", "numbers")
	}
	a, err := c.NumberValue()
	if err != nil {
		return nil, err
	}
	b, err := other.NumberValue()
	if err != nil {
		return nil, err
	}
	if b.IsZero() {
		return nil, &Error{
			Code:    ErrCodeArithmetic,
			Message: "division by zero",
		}
	}

	quotient := new(apd.Decimal)
	if _, err := arithContext.Quo(quotient, a, b); err != nil {
		return nil, &Error{Code: ErrCodeArithmetic, Message: "division failed", Err: err}
	}
	if _, err := arithContext.Quantize(quotient, quotient, -divideScale); err != nil {
		return nil, &Error{Code: ErrCodeArithmetic, Message: "division failed", Err: err}
	}
	return Of(quotient), nil
}

// BitwiseAnd combines two number-capable containers after coercing both to
// integer width.
func (c *Container) BitwiseAnd(other *Container) (*Container, error) {
	return c.bitwise(other, "bitwise AND", func(a, b int64) int64 { return a & b })
}

// BitwiseOr combines two number-capable containers after coercing both to
// integer width.
func (c *Container) BitwiseOr(other *Container) (*Container, error) {
	return c.bitwise(other, "bitwise OR", func(a, b int64) int64 { return a | b })
}

// EqualTo reports whether both primary values are equal.
func (c *Container) EqualTo(other *Container) bool {
	return c.Equal(other)
}

// GreaterThan reports whether this number exceeds the other.
func (c *Container) GreaterThan(other *Container) (bool, error) {
	if !c.IsNumber() || !other.IsNumber() {
		return false, newUnsupported("comparison", "numbers")
	}
	a, err := c.NumberValue()
	if err != nil {
		return false, err
	}
	b, err := other.NumberValue()
	if err != nil {
		return false, err
	}
	return a.Cmp(b) > 0, nil
}

// binaryDecimal applies an exact decimal operation to both operands' numeric
// representations and wraps the result in a new container.
func (c *Container) binaryDecimal(other *Container, op string, apply func(d, x, y *apd.Decimal) (apd.Condition, error)) (*Container, error) {
	a, err := c.NumberValue()
	if err != nil {
		return nil, err
	}
	b, err := other.NumberValue()
	if err != nil {
		return nil, err
	}
	result := new(apd.Decimal)
	if _, err := apply(result, a, b); err != nil {
		return nil, &Error{Code: ErrCodeArithmetic, Message: op + " failed", Err: err}
	}
	return Of(result), nil
}

// bitwise narrows both operands to int64 and combines them.
func (c *Container) bitwise(other *Container, op string, apply func(a, b int64) int64) (*Container, error) {
	if !c.IsNumber() || !other.IsNumber() {
		return nil, newUnsupported(op, "numbers")
	}
	a, err := c.IntValue()
	if err != nil {
		return nil, err
	}
	b, err := other.IntValue()
	if err != nil {
		return nil, err
	}
	return Of(apply(a, b)), nil
}
