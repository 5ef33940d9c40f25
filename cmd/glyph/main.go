// Command glyph evaluates combinator programs by graph reduction.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/glyph/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		// Commands that already reported their failure return a bare ExitError.
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
