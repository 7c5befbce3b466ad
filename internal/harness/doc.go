// Package harness runs value scripts under deterministic conditions and
// compares their traces against golden files.
//
// Scripts live in testdata/scripts and their expected traces in
// testdata/golden. A script without a fixed run_token gets one from a
// testutil.FixedTokenGenerator, so repeated runs produce byte-identical
// traces.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
