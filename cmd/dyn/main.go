// dyn is the command-line frontend for the dynamic value container.
//
// It evaluates YAML value scripts, coerces JSON values between tags, and
// manages named value snapshots in a SQLite database.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/dyn/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own formatted errors; only surface errors
		// that escaped without an exit code (flag parsing and the like).
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
