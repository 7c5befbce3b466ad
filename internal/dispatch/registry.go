package dispatch

import (
	"errors"
	"fmt"
)

// Method is a resolved, directly invokable operation handle.
type Method struct {
	// Name is the method name used for lookup.
	Name string

	// Params is the ordered parameter signature, as type names from the
	// registrant's catalog.
	Params []string

	// Fn executes the method against the receiver with unwrapped arguments.
	Fn func(recv any, args []any) (any, error)
}

// Registry is a statically registered method table: host type name to the
// methods available on it, in registration order. Registration order matters:
// the fallback search returns the first compatible candidate, not the best.
//
// Registries are populated at startup and read-only afterwards. Registration
// is not synchronized; do not register concurrently with resolution.
type Registry struct {
	// Accepts reports whether a declared parameter type accepts an argument
	// type. When nil, only exact names match.
	Accepts func(param, arg string) bool

	methods map[string][]Method // keyed by host type name
}

// NewRegistry creates an empty registry with the given acceptance relation.
func NewRegistry(accepts func(param, arg string) bool) *Registry {
	return &Registry{
		Accepts: accepts,
		methods: make(map[string][]Method),
	}
}

// Register adds a method to a host type's table.
func (r *Registry) Register(hostType string, m Method) {
	r.methods[hostType] = append(r.methods[hostType], m)
}

// Resolve finds the method on hostType matching name and the ordered argument
// type names. An exact signature match wins; otherwise the first
// registration-order candidate with equal arity whose every declared
// parameter accepts the corresponding argument type is returned.
//
// Returns ErrNoMatch (wrapped with the attempted signature) when no candidate
// fits.
func (r *Registry) Resolve(hostType, name string, argTypes []string) (Method, error) {
	candidates := r.methods[hostType]

	// Exact-signature pass.
	for _, m := range candidates {
		if m.Name == name && signatureEqual(m.Params, argTypes) {
			return m, nil
		}
	}

	// Compatible-signature pass, first match wins.
	for _, m := range candidates {
		if m.Name != name || len(m.Params) != len(argTypes) {
			continue
		}
		if r.compatible(m.Params, argTypes) {
			return m, nil
		}
	}

	return Method{}, fmt.Errorf("%w: %s.%s(%v)", ErrNoMatch, hostType, name, argTypes)
}

// ErrNoMatch reports that resolution exhausted all candidates.
var ErrNoMatch = errors.New("no matching method")

func (r *Registry) compatible(params, args []string) bool {
	for i := range params {
		if params[i] == args[i] {
			continue
		}
		if r.Accepts == nil || !r.Accepts(params[i], args[i]) {
			return false
		}
	}
	return true
}

func signatureEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
