package dyn

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToIdentity(t *testing.T) {
	v, err := Of("hello").To(TagString)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestToIdentityWidensIntToDecimal(t *testing.T) {
	v, err := Of(7).To(TagDecimal)
	require.NoError(t, err)

	d, ok := v.(*apd.Decimal)
	require.True(t, ok)
	assert.Equal(t, "7", d.Text('f'))
}

func TestToPrimitiveParse(t *testing.T) {
	v, err := Of("123").To(TagInt)
	require.NoError(t, err)
	assert.Equal(t, int64(123), v)

	v, err = Of("2.5").To(TagDecimal)
	require.NoError(t, err)
	assert.Equal(t, "2.5", v.(*apd.Decimal).Text('f'))

	v, err = Of("true").To(TagBool)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Of(42).To(TagString)
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestToParseFailure(t *testing.T) {
	_, err := Of("not a number").To(TagInt)
	require.Error(t, err)
	assert.True(t, IsConversion(err))

	// The error carries both tags.
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, TagString, de.Tag)
	assert.Equal(t, TagInt, de.Target)
}

func TestToStructuralFallback(t *testing.T) {
	// A string holding JSON reshapes into a map through the serializer.
	c := Of(map[string]any{"k": "v"})

	v, err := c.To(TagMap)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, v)

	// List target from a non-list primary has no parse path and fails
	// through the structural fallback.
	_, err = Of("scalar").To(TagList)
	require.Error(t, err)
	assert.True(t, IsConversion(err))
}

func TestToAbsentValue(t *testing.T) {
	v, err := Of(nil).To(TagString)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestToJSON(t *testing.T) {
	c := Of(map[string]any{"b": int64(2), "a": "x"})

	text, err := c.ToJSON()
	require.NoError(t, err)
	// Keys are emitted in sorted order.
	assert.Equal(t, `{"a":"x","b":2}`, text)
}
