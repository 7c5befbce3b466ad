package harness

import (
	"github.com/roach88/dyn/internal/script"
	"github.com/roach88/dyn/internal/testutil"
)

// Result holds the outcome of one script run.
type Result struct {
	Trace *script.Trace
}

// Run loads and evaluates a script with a fixed run token.
//
// Scripts that set their own run_token keep it; otherwise the token argument
// (or the testutil default, when empty) is used, so reruns are deterministic.
func Run(path, token string) (*Result, error) {
	sc, err := script.Load(path)
	if err != nil {
		return nil, err
	}

	gen := testutil.NewFixedTokenGenerator(token)
	trace, err := script.Eval(sc, script.Options{TokenGenerator: gen.Generate})
	if err != nil {
		return nil, err
	}

	return &Result{Trace: trace}, nil
}
