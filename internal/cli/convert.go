package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dyn/internal/dyn"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	To string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert --to <tag> <json>",
		Short: "Coerce a JSON value to another tag",
		Long: `Parse a JSON value and coerce it to the requested tag.

Coercion tries widening first, then primitive parsing, then a structural
round trip. The converted value is printed as JSON.

Example:
  dyn convert --to int '"42"'
  dyn convert --to decimal '7'
  dyn convert --to list '{"a":1,"b":2}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "target tag (string|int|decimal|bool|list|map|time)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(opts *ConvertOptions, text string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	target, ok := dyn.ParseTag(opts.To)
	if !ok {
		msg := fmt.Sprintf("unknown tag %q", opts.To)
		_ = formatter.Error(string(dyn.ErrCodeMalformedInput), msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	c, err := dyn.FromJSON(text)
	if err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to parse input", err)
	}

	converted, err := c.To(target)
	if err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitFailure, "conversion failed", err)
	}

	out, err := dyn.OfAs(converted, target).ToJSON()
	if err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to serialize result", err)
	}

	return formatter.Success(out)
}
