package script

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// validateDocument checks a decoded script document against the embedded
// CUE schema. Returns a *SchemaError describing the first violation.
func validateDocument(doc any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling script schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Script"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("looking up #Script: %w", err)
	}

	unified := def.Unify(ctx.Encode(doc))
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// SchemaError reports a script document that violates the schema.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid script: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("invalid script: %s", e.Message)
}

// formatSchemaError extracts the first CUE error with its path.
func formatSchemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{Message: err.Error()}
	}
	first := errs[0]
	return &SchemaError{
		Path:    strings.Join(cueerrors.Path(first), "."),
		Message: first.Error(),
	}
}
