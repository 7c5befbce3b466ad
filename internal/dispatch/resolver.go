package dispatch

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Resolver memoizes registry resolution in a process-wide cache.
//
// The cache is the only shared mutable state in dispatch. Entries are never
// invalidated within a process lifetime; Reset exists for test isolation
// only. Because resolution is pure and idempotent, two goroutines racing on
// the same key at worst both perform the lookup and one result is dropped.
type Resolver struct {
	registry *Registry
	cache    sync.Map // cacheKey -> Method

	// resolutions counts cache misses, i.e. actual registry searches.
	resolutions atomic.Int64
}

// NewResolver creates a resolver over the registry with an empty cache.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// cacheKey identifies one (host type, name, argument signature) shape.
// Comparable, so it can key a sync.Map directly.
type cacheKey struct {
	hostType  string
	name      string
	signature string
}

func newCacheKey(hostType, name string, argTypes []string) cacheKey {
	return cacheKey{
		hostType:  hostType,
		name:      name,
		signature: strings.Join(argTypes, ","),
	}
}

// Resolve returns the memoized method for the call shape, consulting the
// registry only on a cache miss.
func (r *Resolver) Resolve(hostType, name string, argTypes []string) (Method, error) {
	key := newCacheKey(hostType, name, argTypes)

	if cached, ok := r.cache.Load(key); ok {
		return cached.(Method), nil
	}

	r.resolutions.Add(1)
	m, err := r.registry.Resolve(hostType, name, argTypes)
	if err != nil {
		// Misses are not cached: a later registration (before first use of
		// the shape) may make the call resolvable.
		return Method{}, err
	}

	// LoadOrStore keeps the first stored handle if two goroutines raced.
	actual, _ := r.cache.LoadOrStore(key, m)
	return actual.(Method), nil
}

// Resolutions returns the number of registry searches performed, i.e. cache
// misses. Used by tests to observe memoization.
func (r *Resolver) Resolutions() int64 {
	return r.resolutions.Load()
}

// Reset clears the cache and the resolution counter. For test isolation.
func (r *Resolver) Reset() {
	r.cache.Range(func(key, _ any) bool {
		r.cache.Delete(key)
		return true
	})
	r.resolutions.Store(0)
}

// Registry exposes the underlying registry for registration at startup.
func (r *Resolver) Registry() *Registry {
	return r.registry
}
