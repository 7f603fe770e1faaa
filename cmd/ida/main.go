// Command ida runs, tests and inspects script mods for the island
// simulation.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ida/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
