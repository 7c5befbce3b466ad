package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a named sequence of container operations.
type Script struct {
	// Name uniquely identifies this script.
	Name string `yaml:"name"`

	// Description explains what the script demonstrates.
	Description string `yaml:"description,omitempty"`

	// RunToken is an optional fixed token for deterministic traces.
	// If empty, evaluation stamps the trace with a generated UUIDv7.
	RunToken string `yaml:"run_token,omitempty"`

	// Steps run in order against a shared variable environment.
	Steps []Step `yaml:"steps"`
}

// Step is one operation in a script.
//
// Which fields apply depends on Op: constructors read Value/Tag and the
// policy flags, binary operations read Left/Right, receiver operations read
// Source plus their operands. Target names the variable the result binds to.
type Step struct {
	// Op is the operation name (see schema.cue for the catalog).
	Op string `yaml:"op"`

	// Target is the variable the result binds to, when the operation
	// produces one.
	Target string `yaml:"target,omitempty"`

	// Source is the receiver variable for unary and mutating operations.
	Source string `yaml:"source,omitempty"`

	// Left and Right are the operand variables of binary operations.
	Left  string `yaml:"left,omitempty"`
	Right string `yaml:"right,omitempty"`

	// Value is a literal operand for constructors and element operations.
	Value any `yaml:"value,omitempty"`

	// Tag is a tag hint or conversion/validation target.
	Tag string `yaml:"tag,omitempty"`

	// Key addresses a map entry for put/get_key.
	Key string `yaml:"key,omitempty"`

	// Begin and End bound a substring.
	Begin int `yaml:"begin,omitempty"`
	End   int `yaml:"end,omitempty"`

	// Pattern and With parameterize matches/replace.
	Pattern string `yaml:"pattern,omitempty"`
	With    string `yaml:"with,omitempty"`

	// Method and Args parameterize call. An argument of the form
	// {var: name} resolves the named variable; anything else is a literal.
	Method string `yaml:"method,omitempty"`
	Args   []any  `yaml:"args,omitempty"`

	// Immutable and NullSafe set the policy flags on constructors.
	Immutable bool `yaml:"immutable,omitempty"`
	NullSafe  bool `yaml:"null_safe,omitempty"`

	// ExpectError declares the error code this step must fail with.
	// A step failing with the declared code succeeds; any other outcome
	// (success included) fails the script.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Load reads and decodes a script file, then validates it against the
// embedded schema.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Decode(data)
}

// Decode parses script YAML and validates it against the embedded schema.
func Decode(data []byte) (*Script, error) {
	// Validate the raw document shape first so schema errors carry CUE's
	// field-level positions instead of Go decoding noise.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing script YAML: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	return &s, nil
}
