// Package store provides durable storage for named container snapshots.
//
// A snapshot captures a container's full state: every representation in
// insertion order, the primary tag, and both policy flags. Snapshots reload
// equivalent containers, so an immutable container stays immutable across a
// save/load round trip.
//
// Storage is SQLite with WAL mode. Representation values serialize through
// the codec and rehydrate through its structural conversion, keyed by each
// representation's tag, so decimals, times, and collections survive the
// round trip with their tags intact.
package store
