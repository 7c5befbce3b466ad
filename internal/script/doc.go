// Package script loads, validates, and evaluates container operation
// scripts.
//
// A script is a YAML document naming a sequence of operations to perform
// against dynamic value containers. Scripts are the module's driver surface:
// the CLI evaluates them, and the harness compares their traces against
// golden files.
//
// Validation happens in two layers: the YAML must decode, and the decoded
// document must satisfy the embedded CUE schema (operation names, operand
// shapes, expected-error codes). Schema validation uses the CUE SDK's Go API
// directly, not a CLI subprocess.
//
// Evaluation is synchronous and deterministic: steps run in order against a
// variable environment, and every step appends one event to the trace.
// A step that fails with the error code it declared in expect_error is a
// successful step; an undeclared failure stops evaluation.
package script
