// Package main provides the cfcheck CLI entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/cfcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
