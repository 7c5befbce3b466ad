package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Script string `json:"script,omitempty"`
	Steps  int    `json:"steps,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script.yaml>",
		Short: "Validate a value script without evaluating it",
		Long: `Validate a YAML value script against the embedded schema.

Performs YAML parsing and CUE schema validation without evaluating any
steps. Faster than eval for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	sc, err := loadScript(formatter, path)
	if err != nil {
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:  true,
			Script: sc.Name,
			Steps:  len(sc.Steps),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s valid (%d step(s))\n", sc.Name, len(sc.Steps))
	return nil
}
