package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/dyn/internal/dyn"
	"github.com/roach88/dyn/internal/store"
)

// SnapshotOptions holds flags shared by the snapshot commands.
type SnapshotOptions struct {
	*RootOptions
	Database string
}

// SnapshotInfo is the JSON shape of one list entry.
type SnapshotInfo struct {
	Name       string `json:"name"`
	PrimaryTag string `json:"primary_tag"`
	Immutable  bool   `json:"immutable"`
	Version    int    `json:"version"`
}

func addDatabaseFlag(cmd *cobra.Command, opts *SnapshotOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
}

// openStore opens the snapshot database, translating failure into a
// command-level exit error.
func openStore(formatter *OutputFormatter, path string) (*store.Store, error) {
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(string(dyn.ErrCodeMalformedInput), err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}
	var immutable bool

	cmd := &cobra.Command{
		Use:   "set <name> <json>",
		Short: "Store a value snapshot",
		Long: `Parse a JSON value and store it as a named snapshot.

Example:
  dyn set --db ./dyn.db greeting '"hello"'
  dyn set --db ./dyn.db limits '{"max":10}' --immutable`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], immutable, cmd)
		},
	}

	addDatabaseFlag(cmd, opts)
	cmd.Flags().BoolVar(&immutable, "immutable", false, "freeze the snapshot before storing")

	return cmd
}

func runSet(opts *SnapshotOptions, name, text string, immutable bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	c, err := dyn.FromJSON(text)
	if err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to parse value", err)
	}
	if immutable {
		c.Freeze()
	}

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.Save(cmd.Context(), name, c); err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to save snapshot", err)
	}

	return formatter.Success(fmt.Sprintf("saved %s", name))
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "get <name>",
		Short:         "Print a stored snapshot as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], cmd)
		},
	}

	addDatabaseFlag(cmd, opts)

	return cmd
}

func runGet(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	c, err := st.Load(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("no snapshot named %q", name)
			_ = formatter.Error(string(dyn.ErrCodeNotFound), msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}

	out, err := c.ToJSON()
	if err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to serialize snapshot", err)
	}

	return formatter.Success(out)
}

// NewDelCommand creates the del command.
func NewDelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "del <name>",
		Short:         "Delete a stored snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDel(opts, args[0], cmd)
		},
	}

	addDatabaseFlag(cmd, opts)

	return cmd
}

func runDel(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.Delete(cmd.Context(), name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("no snapshot named %q", name)
			_ = formatter.Error(string(dyn.ErrCodeNotFound), msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to delete snapshot", err)
	}

	return formatter.Success(fmt.Sprintf("deleted %s", name))
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}
	var tagFilter string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, tagFilter, cmd)
		},
	}

	addDatabaseFlag(cmd, opts)
	cmd.Flags().StringVar(&tagFilter, "tag", "", "only list snapshots with this primary tag")

	return cmd
}

func runList(opts *SnapshotOptions, tagFilter string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	var tag dyn.Tag
	if tagFilter != "" {
		parsed, ok := dyn.ParseTag(tagFilter)
		if !ok {
			msg := fmt.Sprintf("unknown tag %q", tagFilter)
			_ = formatter.Error(string(dyn.ErrCodeMalformedInput), msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		tag = parsed
	}

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	infos, err := st.List(cmd.Context(), tag)
	if err != nil {
		_ = formatter.Error(string(dyn.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list snapshots", err)
	}

	if formatter.Format == "json" {
		out := make([]SnapshotInfo, 0, len(infos))
		for _, info := range infos {
			out = append(out, SnapshotInfo{
				Name:       info.Name,
				PrimaryTag: string(info.PrimaryTag),
				Immutable:  info.Immutable,
				Version:    info.Version,
			})
		}
		return formatter.Success(out)
	}

	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTAG\tIMMUTABLE\tVERSION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%v\t%d\n", info.Name, info.PrimaryTag, info.Immutable, info.Version)
	}
	return w.Flush()
}
