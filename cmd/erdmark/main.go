// Package main is the erdmark command.
package main

import (
	"os"

	"github.com/leapstack-labs/erdmark/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
