// Command loom is the entry point for the Loom CLI.
package main

import (
	"os"

	"github.com/loomworks/loom-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
