// Package dispatch implements memoized method resolution over statically
// registered method tables.
//
// A Registry maps a host type name to the methods registered for it, each
// with an ordered parameter signature. A Resolver wraps a registry with a
// process-wide cache keyed by (host type, method name, argument signature),
// so the linear candidate search runs once per distinct call shape.
//
// Resolution is pure given the key: identical keys always resolve to the same
// method, so redundant concurrent resolution of one key is safe and at most
// wastes work. The cache is a sync.Map; no locking wraps resolution itself.
//
// This package knows nothing about containers or tags. Registrants supply
// the acceptance relation between parameter and argument type names, which
// keeps the package reusable for any closed type catalog.
package dispatch
