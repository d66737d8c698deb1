// Command chorm renders and runs ClickHouse statements from a schema file.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
