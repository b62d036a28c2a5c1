// Package main is the entry point for the pgask CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/pgask/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
