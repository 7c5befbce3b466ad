// Package testutil provides deterministic helpers for tests.
package testutil

// FixedTokenGenerator generates the same run token every time.
//
// Script traces embed their run token, so golden snapshot comparison needs a
// stable one. The same script with the same FixedTokenGenerator produces
// byte-identical traces.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a new fixed run token generator.
//
// If token is empty, Generate returns "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
