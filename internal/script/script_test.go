package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValidScript(t *testing.T) {
	s, err := Decode([]byte(`
name: demo
description: basic arithmetic
steps:
  - op: of
    target: a
    value: 10
  - op: of
    target: b
    value: 3
  - op: divide
    target: q
    left: a
    right: b
`))
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "divide", s.Steps[2].Op)
	assert.Equal(t, "a", s.Steps[2].Left)
}

func TestDecodeRejectsUnknownOp(t *testing.T) {
	_, err := Decode([]byte(`
name: bad
steps:
  - op: summon
    target: x
`))
	require.Error(t, err)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "invalid script")
}

func TestDecodeRejectsMissingName(t *testing.T) {
	_, err := Decode([]byte(`
steps:
  - op: of
    value: 1
`))
	require.Error(t, err)
}

func TestDecodeRejectsEmptySteps(t *testing.T) {
	_, err := Decode([]byte(`
name: empty
steps: []
`))
	require.Error(t, err)
}

func TestDecodeRejectsUnknownErrorCode(t *testing.T) {
	_, err := Decode([]byte(`
name: bad-code
steps:
  - op: of
    value: 1
    expect_error: EXPLOSION
`))
	require.Error(t, err)
}

func TestDecodeRejectsInvalidYAML(t *testing.T) {
	_, err := Decode([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing script YAML")
}
