// Package codec is the serialization collaborator for the dyn container.
//
// It converts between JSON text and the closed runtime value set used
// everywhere else in this module:
//
//	nil, string, int64, *apd.Decimal, bool, []any, map[string]any, time.Time
//
// This package contains no container logic. All other internal packages may
// import codec; codec imports nothing internal. This keeps it the
// foundational serialization layer with no circular dependencies.
//
// Key design constraints:
//   - Numbers decode to int64 when integral, *apd.Decimal otherwise.
//     Native floats never appear in decoded values.
//   - Stringify is deterministic: object keys are sorted, strings are NFC
//     normalized, decimals render in plain (non-exponent) notation.
//   - ConvertStructurally is the last-resort coercion path: serialize, then
//     reshape the decoded form into the requested target shape.
package codec
