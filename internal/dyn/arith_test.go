package dyn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNumbers(t *testing.T) {
	result, err := Of(3).Add(Of(4))
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(7)))
	assert.Equal(t, "7", result.String())
}

func TestAddStringsConcatenates(t *testing.T) {
	result, err := Of("Hello World").Add(Of("!"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", result.String())
}

func TestAddMixedOperandsFails(t *testing.T) {
	_, err := Of(3).Add(Of(true))
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "numbers or strings")
}

func TestSubtract(t *testing.T) {
	result, err := Of(10).Subtract(Of(3))
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(7)))
}

func TestMultiply(t *testing.T) {
	result, err := Of(10).Multiply(Of(3))
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(30)))
}

func TestDivideFixedScale(t *testing.T) {
	result, err := Of(10).Divide(Of(3))
	require.NoError(t, err)

	// Exactly 10 fractional digits, half-up.
	assert.Equal(t, "3.3333333333", result.String())
}

func TestDivideHalfUpRounding(t *testing.T) {
	// 2/3 = 0.666...; the 10th fractional digit rounds up.
	result, err := Of(2).Divide(Of(3))
	require.NoError(t, err)
	assert.Equal(t, "0.6666666667", result.String())
}

func TestDivideExact(t *testing.T) {
	result, err := Of(10).Divide(Of(4))
	require.NoError(t, err)
	assert.Equal(t, "2.5000000000", result.String())
}

func TestDivideByZero(t *testing.T) {
	tests := []struct {
		name    string
		divisor any
	}{
		{"int zero", 0},
		{"decimal zero", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Of(10).Divide(Of(tt.divisor))
			require.Error(t, err)
			assert.Equal(t, ErrCodeArithmetic, CodeOf(err))
		})
	}
}

func TestDecimalArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 drifts under binary floats; decimals stay exact.
	result, err := Of(0.1).Add(Of(0.2))
	require.NoError(t, err)
	assert.Equal(t, "0.3", result.String())
}

func TestBitwise(t *testing.T) {
	and, err := Of(12).BitwiseAnd(Of(10))
	require.NoError(t, err)
	assert.True(t, and.Equal(Of(8)))

	or, err := Of(12).BitwiseOr(Of(10))
	require.NoError(t, err)
	assert.True(t, or.Equal(Of(14)))
}

func TestBitwiseCoercesDecimalsToIntegerWidth(t *testing.T) {
	result, err := Of(12.9).BitwiseAnd(Of(10))
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(8)))
}

func TestBitwiseNonNumberFails(t *testing.T) {
	_, err := Of("x").BitwiseAnd(Of(1))
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
}

func TestGreaterThan(t *testing.T) {
	gt, err := Of(10).GreaterThan(Of(3))
	require.NoError(t, err)
	assert.True(t, gt)

	gt, err = Of(3).GreaterThan(Of(10))
	require.NoError(t, err)
	assert.False(t, gt)

	_, err = Of("x").GreaterThan(Of(1))
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
}

func TestArithmeticUsesAnyNumericRepresentation(t *testing.T) {
	// The container's primary is a string, but a numeric representation
	// exists, so the number capability holds.
	c := Of(6)
	require.NoError(t, c.Set("six"))

	result, err := c.Add(Of(1))
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(7)))
}
