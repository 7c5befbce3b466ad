package harness

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden evaluates testdata/scripts/{name}.yaml and compares its
// trace against testdata/golden/{name}.golden.
//
// The trace serializes as indented JSON so golden diffs stay readable.
func RunWithGolden(t *testing.T, name string) {
	t.Helper()

	result, err := Run(filepath.Join("testdata", "scripts", name+".yaml"), "")
	if err != nil {
		t.Fatalf("running script %s: %v", name, err)
	}

	data, err := json.MarshalIndent(result.Trace, "", "  ")
	if err != nil {
		t.Fatalf("marshaling trace for %s: %v", name, err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
