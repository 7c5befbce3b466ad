package codec

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{"string", `"hello"`, "hello"},
		{"integer", `42`, int64(42)},
		{"negative integer", `-7`, int64(-7)},
		{"bool", `true`, true},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNonIntegerNumberIsDecimal(t *testing.T) {
	got, err := Parse(`3.14`)
	require.NoError(t, err)

	d, ok := got.(*apd.Decimal)
	require.True(t, ok, "expected *apd.Decimal, got %T", got)
	assert.Equal(t, "3.14", d.Text('f'))
}

func TestParseNested(t *testing.T) {
	got, err := Parse(`{"items": [1, "two", {"deep": true}]}`)
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	items, ok := m["items"].([]any)
	require.True(t, ok)
	assert.Equal(t, int64(1), items[0])
	assert.Equal(t, "two", items[1])
	assert.Equal(t, map[string]any{"deep": true}, items[2])
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unterminated", `{"a"`},
		{"bare word", `hello`},
		{"trailing garbage", `1 2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)

			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestStringifyDeterministic(t *testing.T) {
	v := map[string]any{
		"zebra": int64(1),
		"apple": "a",
		"mango": []any{true, nil},
	}

	text, err := Stringify(v)
	require.NoError(t, err)
	assert.Equal(t, `{"apple":"a","mango":[true,null],"zebra":1}`, text)

	// Stable across calls.
	again, err := Stringify(v)
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestStringifyDecimalPlainNotation(t *testing.T) {
	d, _, err := apd.NewFromString("1.5E+3")
	require.NoError(t, err)

	text, err := Stringify(d)
	require.NoError(t, err)
	assert.Equal(t, "1500", text)
}

func TestStringifyNoHTMLEscaping(t *testing.T) {
	text, err := Stringify("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, text)
}

func TestStringifyTime(t *testing.T) {
	ts := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

	text, err := Stringify(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14T09:26:53Z"`, text)
}

func TestRoundTrip(t *testing.T) {
	original := map[string]any{
		"name":  "cart",
		"count": int64(5),
		"tags":  []any{"a", "b"},
	}

	text, err := Stringify(original)
	require.NoError(t, err)

	decoded, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
