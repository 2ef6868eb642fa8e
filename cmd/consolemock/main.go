// Command consolemock runs and validates console mock scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/consolemock/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
