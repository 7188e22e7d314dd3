// Package main provides the sqldoclint command.
package main

import (
	"os"

	"github.com/leapstack-labs/sqldoclint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
