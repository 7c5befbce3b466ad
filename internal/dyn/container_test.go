package dyn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
		tag   Tag
	}{
		{"string", "Hello World", "Hello World", TagString},
		{"int", 42, int64(42), TagInt},
		{"int64", int64(-7), int64(-7), TagInt},
		{"bool", true, true, TagBool},
		{"list", []any{int64(1), "two"}, []any{int64(1), "two"}, TagList},
		{"map", map[string]any{"k": "v"}, map[string]any{"k": "v"}, TagMap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Of(tt.value)

			got, err := c.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			primary, ok := c.PrimaryTag()
			require.True(t, ok)
			assert.Equal(t, tt.tag, primary)
		})
	}
}

func TestGetNilValue(t *testing.T) {
	c := Of(nil)

	_, err := c.Get()
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestOptionalSuppressesNotFound(t *testing.T) {
	c := Optional(nil)

	got, err := c.Get()
	require.NoError(t, err)
	assert.Nil(t, got)

	// Typed lookup is suppressed too.
	got, err = c.GetTag(TagString)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetTagExactMatch(t *testing.T) {
	c := Of("hello")
	require.NoError(t, c.Set(int64(5)))

	got, err := c.GetTag(TagString)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = c.GetTag(TagInt)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestGetTagFallbackScan(t *testing.T) {
	// No decimal stored; the decimal request falls back to the int
	// representation through the acceptance table.
	c := Of(int64(5))

	got, err := c.GetTag(TagDecimal)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestGetTagFallbackIsInsertionOrdered(t *testing.T) {
	// No exact decimal representation exists; the scan must return the first
	// inserted acceptable one, not an arbitrary map-order winner.
	c := Of(int64(5))
	require.NoError(t, c.Set("later"))

	got, err := c.GetTag(TagDecimal)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestGetTagMissing(t *testing.T) {
	c := Of("hello")

	_, err := c.GetTag(TagList)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "string") // names available tags
}

func TestSetMergesContainers(t *testing.T) {
	a := Of("text")
	b := Of(int64(9))

	require.NoError(t, a.Set(b))

	// Union of representations: the prior string query still answers.
	s, err := a.GetTag(TagString)
	require.NoError(t, err)
	assert.Equal(t, "text", s)

	// The untyped query answers with b's primary.
	got, err := a.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(9), got)

	primary, ok := a.PrimaryTag()
	require.True(t, ok)
	assert.Equal(t, TagInt, primary)
}

func TestSetMergeLaterEntriesWin(t *testing.T) {
	a := Of("old")
	b := Of("new")

	require.NoError(t, a.Set(b))

	got, err := a.GetTag(TagString)
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	// Order preserved: string stays the first (and only) representation.
	assert.Equal(t, []Tag{TagString}, a.StoredTags())
}

func TestSetMergeAdoptsNullSafety(t *testing.T) {
	a := Of("text")
	b := Optional(nil)

	require.NoError(t, a.Set(b))
	assert.True(t, a.NullSafe())
}

func TestImmutableRejectsAllMutation(t *testing.T) {
	c := Immutable("Fixed")

	mutations := []struct {
		name string
		call func() error
	}{
		{"set", func() error { return c.Set("changed") }},
		{"addElement", func() error { return c.AddElement("x") }},
		{"removeElement", func() error { return c.RemoveElement("x") }},
		{"putKeyValue", func() error { return c.PutKeyValue("k", "v") }},
		{"clear", func() error { return c.Clear() }},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			err := m.call()
			require.Error(t, err)
			assert.True(t, IsImmutableViolation(err))
		})
	}

	// State unchanged after every failed attempt.
	got, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "Fixed", got)
}

func TestListUnwrapsContainerElements(t *testing.T) {
	c := List(Of("a"), "b", Of(int64(3)))

	list, err := c.ListValue()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", int64(3)}, list)
}

func TestMapConstruction(t *testing.T) {
	c, err := Map("name", "cart", "count", 5)
	require.NoError(t, err)

	m, err := c.MapValue()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "cart", "count": int64(5)}, m)
}

func TestMapOddPairsFails(t *testing.T) {
	_, err := Map("orphan")
	require.Error(t, err)
	assert.Equal(t, ErrCodeMalformedInput, CodeOf(err))
}

func TestFromJSON(t *testing.T) {
	c, err := FromJSON(`{"name": "cart", "count": 5}`)
	require.NoError(t, err)

	m, err := c.MapValue()
	require.NoError(t, err)
	assert.Equal(t, "cart", m["name"])
	assert.Equal(t, int64(5), m["count"])
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON(`{"unterminated`)
	require.Error(t, err)
	assert.Equal(t, ErrCodeMalformedInput, CodeOf(err))
}

func TestValidate(t *testing.T) {
	c := Of("hello")

	require.NoError(t, c.Validate(TagString))

	err := c.Validate(TagList)
	require.Error(t, err)
	assert.Equal(t, ErrCodeValidation, CodeOf(err))
	assert.Contains(t, err.Error(), "list")
}

func TestEqual(t *testing.T) {
	assert.True(t, Of("x").Equal(Of("x")))
	assert.False(t, Of("x").Equal(Of("y")))

	// Numeric equality ignores representation width.
	assert.True(t, Of(7).Equal(Of(int64(7))))
	assert.True(t, Of(7).Equal(Of(7.0)))
}

func TestTryRoutesFailureToRecovery(t *testing.T) {
	c := Immutable("Fixed")

	var recovered error
	c.Try(
		func(c *Container) error { return c.Set("changed") },
		func(_ *Container, err error) { recovered = err },
	)

	require.Error(t, recovered)
	assert.True(t, IsImmutableViolation(recovered))
}

func TestTrySkipsRecoveryOnSuccess(t *testing.T) {
	c := Of("ok")

	called := false
	c.Try(
		func(*Container) error { return nil },
		func(*Container, error) { called = true },
	)

	assert.False(t, called)
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "hello", Of("hello").String())
	assert.Equal(t, "42", Of(42).String())
	assert.Equal(t, "true", Of(true).String())
	assert.Equal(t, "null", Of(nil).String())
}

func TestDateFactories(t *testing.T) {
	c := Date(2025, time.March, 14)

	ts, err := c.TimeValue()
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, time.March, ts.Month())

	primary, ok := c.PrimaryTag()
	require.True(t, ok)
	assert.Equal(t, TagTime, primary)
}

func TestDebugDump(t *testing.T) {
	c := Optional("hello")

	dump := c.Debug()
	assert.Contains(t, dump, "primary=string")
	assert.Contains(t, dump, "nullSafe=true")
}
