package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with the given args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

const arithScript = `
name: arith
run_token: test-run
steps:
  - op: of
    target: a
    value: 3
  - op: of
    target: b
    value: 4
  - op: add
    target: sum
    left: a
    right: b
`

func TestEvalCommandText(t *testing.T) {
	path := writeScript(t, arithScript)

	out, err := execute(t, "eval", path)
	require.NoError(t, err)
	assert.Contains(t, out, "script: arith")
	assert.Contains(t, out, "run:    test-run")
	assert.Contains(t, out, "sum = 7")
	assert.Contains(t, out, "✓ 3 step(s) evaluated")
}

func TestEvalCommandJSON(t *testing.T) {
	path := writeScript(t, arithScript)

	out, err := execute(t, "eval", "--format", "json", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "arith", data["script_name"])
	assert.Equal(t, "test-run", data["run_token"])
}

func TestEvalCommandScriptFailure(t *testing.T) {
	path := writeScript(t, `
name: boom
run_token: test-run
steps:
  - op: of
    target: a
    value: 1
  - op: of
    target: b
    value: 0
  - op: divide
    target: q
    left: a
    right: b
`)

	_, err := execute(t, "eval", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestEvalCommandMissingFile(t *testing.T) {
	_, err := execute(t, "eval", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand(t *testing.T) {
	path := writeScript(t, arithScript)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ arith valid (3 step(s))")
}

func TestValidateCommandSchemaViolation(t *testing.T) {
	path := writeScript(t, `
name: bad
steps:
  - op: levitate
    target: x
`)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "VALIDATION_FAILED")
}

func TestConvertCommand(t *testing.T) {
	tests := []struct {
		name string
		to   string
		in   string
		want string
	}{
		{"string to int", "int", `"42"`, "42"},
		{"int to decimal", "decimal", `7`, "7"},
		{"int to string", "string", `7`, `"7"`},
		{"string to bool", "bool", `"true"`, "true"},
		{"map to string", "string", `{"b":2,"a":1}`, `"{\"a\":1,\"b\":2}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "convert", "--to", tt.to, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestConvertCommandFailure(t *testing.T) {
	_, err := execute(t, "convert", "--to", "int", `"not a number"`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestConvertCommandUnknownTag(t *testing.T) {
	_, err := execute(t, "convert", "--to", "figment", `1`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSnapshotLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dyn.db")

	out, err := execute(t, "set", "--db", db, "greeting", `"hello"`)
	require.NoError(t, err)
	assert.Contains(t, out, "saved greeting")

	out, err = execute(t, "get", "--db", db, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "\"hello\"\n", out)

	out, err = execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "greeting")
	assert.Contains(t, out, "string")

	out, err = execute(t, "del", "--db", db, "greeting")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted greeting")

	_, err = execute(t, "get", "--db", db, "greeting")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestListFilterByTag(t *testing.T) {
	db := filepath.Join(t.TempDir(), "dyn.db")

	_, err := execute(t, "set", "--db", db, "s", `"a"`)
	require.NoError(t, err)
	_, err = execute(t, "set", "--db", db, "n", `1`)
	require.NoError(t, err)

	out, err := execute(t, "list", "--db", db, "--tag", "int", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "n", entry["name"])
	assert.Equal(t, "int", entry["primary_tag"])
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", "whatever.yaml")
	require.Error(t, err)
}
