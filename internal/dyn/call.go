package dyn

import (
	"errors"
	"fmt"

	"github.com/roach88/dyn/internal/dispatch"
)

// defaultResolver is the process-wide dispatch engine shared by every
// container. Its cache memoizes resolution across all Call sites.
var defaultResolver = dispatch.NewResolver(newBuiltinRegistry())

// Call invokes a named method against the primary value.
//
// Arguments that are themselves containers are unwrapped to their primary
// representations before use; the ordered argument tags form the resolution
// signature. Resolution is memoized process-wide (see internal/dispatch).
//
// Failure modes:
//   - NOT_FOUND when there is no primary value to call against
//   - NO_MATCHING_METHOD when resolution exhausts all candidates
//   - INVOCATION_FAILED wrapping a failure thrown by the resolved method
//
// A successful result is wrapped in a new container.
func (c *Container) Call(name string, args ...any) (*Container, error) {
	target, ok := c.lookup(c.primary)
	if !ok || target == nil {
		return nil, &Error{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("no value to call %s on", name),
			Method:  name,
		}
	}

	argTypes := make([]string, len(args))
	processed := make([]any, len(args))
	for i, a := range args {
		if ac, isContainer := a.(*Container); isContainer {
			tag, _ := ac.PrimaryTag()
			argTypes[i] = string(tag)
			processed[i], _ = ac.lookup(ac.primary)
			continue
		}
		processed[i] = normalize(a)
		argTypes[i] = string(TagOf(processed[i]))
	}

	hostTag := TagOf(target)
	method, err := defaultResolver.Resolve(string(hostTag), name, argTypes)
	if err != nil {
		if errors.Is(err, dispatch.ErrNoMatch) {
			return nil, &Error{
				Code:    ErrCodeNoMatchingMethod,
				Message: fmt.Sprintf("no method %s on %s matching (%v)", name, hostTag, argTypes),
				Tag:     hostTag,
				Method:  name,
				Err:     err,
			}
		}
		return nil, err
	}

	result, err := method.Fn(target, processed)
	if err != nil {
		return nil, &Error{
			Code:    ErrCodeInvocation,
			Message: fmt.Sprintf("method %s on %s failed", name, hostTag),
			Tag:     hostTag,
			Method:  name,
			Err:     err,
		}
	}
	return Of(result), nil
}

// RegisterMethod adds a method to the shared dispatch table for a host tag.
// Intended for embedding applications at startup; not safe to call
// concurrently with Call.
func RegisterMethod(host Tag, m dispatch.Method) {
	defaultResolver.Registry().Register(string(host), m)
}

// DispatchResolutions returns the number of registry searches performed by
// the shared resolver. Observable instrumentation for memoization tests.
func DispatchResolutions() int64 {
	return defaultResolver.Resolutions()
}

// ResetDispatchCache clears the shared resolution cache and counter.
// For test isolation only.
func ResetDispatchCache() {
	defaultResolver.Reset()
}
