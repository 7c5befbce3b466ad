package dyn

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dyn/internal/dispatch"
)

func TestCallStringMethod(t *testing.T) {
	result, err := Of("Hello World").Call("length")
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(11)))
}

func TestCallWithArguments(t *testing.T) {
	result, err := Of("Hello World").Call("contains", "World")
	require.NoError(t, err)

	got, err := result.BoolValue()
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCallUnwrapsContainerArguments(t *testing.T) {
	result, err := Of("ab").Call("repeat", Of(3))
	require.NoError(t, err)
	assert.Equal(t, "ababab", result.String())
}

func TestCallListAndMapMethods(t *testing.T) {
	reversed, err := List("a", "b", "c").Call("reverse")
	require.NoError(t, err)
	list, err := reversed.ListValue()
	require.NoError(t, err)
	assert.Equal(t, []any{"c", "b", "a"}, list)

	m, err := Map("b", 1, "a", 2)
	require.NoError(t, err)
	keys, err := m.Call("keys")
	require.NoError(t, err)
	keyList, err := keys.ListValue()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, keyList)
}

func TestCallWidensIntArgumentToDecimalParam(t *testing.T) {
	// pow declares a decimal parameter; an int argument satisfies it through
	// the acceptance relation on the compatible-signature pass.
	result, err := Of(2).Call("pow", 10)
	require.NoError(t, err)
	assert.True(t, result.Equal(Of(1024)))
}

func TestCallNoMatchingMethod(t *testing.T) {
	_, err := Of("x").Call("definitelyNotAMethod")
	require.Error(t, err)
	assert.True(t, IsNoMatchingMethod(err))
	assert.Contains(t, err.Error(), "definitelyNotAMethod")
	assert.Contains(t, err.Error(), "string") // names the host type
}

func TestCallArityMismatchIsNoMatch(t *testing.T) {
	_, err := Of("x").Call("contains") // contains wants one argument
	require.Error(t, err)
	assert.True(t, IsNoMatchingMethod(err))
}

func TestCallOnMissingValue(t *testing.T) {
	_, err := Of(nil).Call("length")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCallWrapsInvocationFailure(t *testing.T) {
	_, err := Of("x").Call("repeat", -1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvocation, CodeOf(err))
	assert.Contains(t, err.Error(), "repeat")
}

func TestCallResolutionIsMemoized(t *testing.T) {
	ResetDispatchCache()
	t.Cleanup(ResetDispatchCache)

	first, err := Of("Hello").Call("length")
	require.NoError(t, err)
	afterFirst := DispatchResolutions()
	assert.Equal(t, int64(1), afterFirst)

	// Same (host type, name, signature): the expensive lookup must not run
	// again, and equivalent arguments produce equivalent results.
	second, err := Of("World").Call("length")
	require.NoError(t, err)
	assert.Equal(t, afterFirst, DispatchResolutions())
	assert.True(t, first.Equal(second))
}

func TestCallDistinctSignaturesResolveSeparately(t *testing.T) {
	ResetDispatchCache()
	t.Cleanup(ResetDispatchCache)

	_, err := Of("x").Call("length")
	require.NoError(t, err)
	_, err = List("x").Call("size")
	require.NoError(t, err)

	assert.Equal(t, int64(2), DispatchResolutions())
}

func TestCallConcurrentResolution(t *testing.T) {
	ResetDispatchCache()
	t.Cleanup(ResetDispatchCache)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := Of("concurrent").Call("length")
			assert.NoError(t, err)
			assert.True(t, result.Equal(Of(10)))
		}()
	}
	wg.Wait()

	// Redundant concurrent resolution is tolerated, but every invocation
	// after the cache settles hits the memoized handle.
	assert.GreaterOrEqual(t, DispatchResolutions(), int64(1))
}

func TestRegisterMethodExtendsCatalog(t *testing.T) {
	ResetDispatchCache()
	t.Cleanup(ResetDispatchCache)

	RegisterMethod(TagString, dispatch.Method{
		Name: "shout",
		Fn: func(recv any, _ []any) (any, error) {
			return recv.(string) + "!!!", nil
		},
	})

	result, err := Of("go").Call("shout")
	require.NoError(t, err)
	assert.Equal(t, "go!!!", result.String())
}
