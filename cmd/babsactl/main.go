// Package main is the entry point for the babsactl CLI.
package main

import (
	"os"

	"babsa/cmd/babsactl/cmd"
)

// Version information - set by build flags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Date = date
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
