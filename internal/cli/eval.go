package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/dyn/internal/dyn"
	"github.com/roach88/dyn/internal/script"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions

	// TokenGenerator overrides run token generation (for testing).
	// If nil, defaults to UUIDv7 tokens.
	TokenGenerator func() string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <script.yaml>",
		Short: "Evaluate a value script",
		Long: `Evaluate a YAML value script and print its trace.

Each step of the script runs against a shared variable environment. Steps
that declare expect_error must fail with that code; any other failure stops
evaluation with a non-zero exit.

Example:
  dyn eval examples/arith.yaml
  dyn eval --format json examples/arith.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	slog.Debug("loading script", "path", path)
	sc, err := loadScript(formatter, path)
	if err != nil {
		return err
	}
	slog.Debug("script loaded", "name", sc.Name, "steps", len(sc.Steps))

	trace, evalErr := script.Eval(sc, script.Options{TokenGenerator: opts.TokenGenerator})

	if opts.Format == "json" {
		return outputEvalJSON(formatter, trace, evalErr)
	}
	return outputEvalText(formatter, trace, evalErr)
}

// loadScript loads and schema-validates a script, translating failures into
// exit errors. Schema violations are script failures (exit 1); unreadable or
// unparseable files are command errors (exit 2).
func loadScript(formatter *OutputFormatter, path string) (*script.Script, error) {
	sc, err := script.Load(path)
	if err == nil {
		return sc, nil
	}

	var schemaErr *script.SchemaError
	if errors.As(err, &schemaErr) {
		_ = formatter.Error(string(dyn.ErrCodeValidation), schemaErr.Message, schemaErr.Path)
		return nil, NewExitError(ExitFailure, schemaErr.Error())
	}

	_ = formatter.Error(string(dyn.ErrCodeMalformedInput), err.Error(), nil)
	return nil, WrapExitError(ExitCommandError, "failed to load script", err)
}

func outputEvalJSON(formatter *OutputFormatter, trace *script.Trace, evalErr error) error {
	if evalErr == nil {
		return formatter.Success(trace)
	}
	_ = formatter.Error(string(dyn.CodeOf(evalErr)), evalErr.Error(), trace)
	return WrapExitError(ExitFailure, "script failed", evalErr)
}

func outputEvalText(formatter *OutputFormatter, trace *script.Trace, evalErr error) error {
	fmt.Fprintf(formatter.Writer, "script: %s\n", trace.ScriptName)
	fmt.Fprintf(formatter.Writer, "run:    %s\n", trace.RunToken)
	for _, ev := range trace.Events {
		if ev.ErrorCode != "" {
			fmt.Fprintf(formatter.Writer, "%3d  %-10s %s  !%s\n", ev.Seq, ev.Op, ev.Target, ev.ErrorCode)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%3d  %-10s %s = %s\n", ev.Seq, ev.Op, ev.Target, ev.Result)
	}

	if evalErr != nil {
		fmt.Fprintf(formatter.Writer, "✗ %v\n", evalErr)
		return WrapExitError(ExitFailure, "script failed", evalErr)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d step(s) evaluated\n", len(trace.Events))
	return nil
}
