// Package dyn implements a polymorphic value container.
//
// A Container holds several simultaneous type-tagged representations of one
// logical value and retrieves them by requested tag with deterministic
// fallback coercion. Operations on containers are capability-gated: each
// arithmetic, string, or collection operation declares the representations it
// requires and fails with a typed error when they are missing.
//
// ARCHITECTURE:
//
// Representation Store:
// Each container keeps an ordered association list of (Tag, value) pairs plus
// the primary tag (most recently written). Insertion order is significant: the
// typed-lookup fallback scans representations in insertion order, so lookup is
// deterministic and never depends on map iteration order.
//
// Policy Layer:
// Two flags gate behavior for the container's lifetime. Immutability is
// checked first by every mutating entry point and never reverts once set.
// Null-safety converts missing-value lookups into nil results instead of
// NOT_FOUND errors.
//
// Method Dispatch:
// Call resolves a method name and argument shape against the primary value's
// tag using a statically registered method table, memoized in a process-wide
// cache shared across all containers (see internal/dispatch).
//
// CONCURRENCY:
// A Container is not internally synchronized. Concurrent mutation of the same
// container must be serialized by the caller. The dispatch resolution cache is
// the only process-wide shared mutable state and is safe for concurrent use.
//
// Arithmetic uses arbitrary-precision decimals (cockroachdb/apd), never
// floats, so repeated operations do not accumulate binary rounding drift.
package dyn
