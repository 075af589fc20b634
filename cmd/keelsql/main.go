// Package main provides the keelsql command.
package main

import (
	"os"

	"github.com/leapstack-labs/keelsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
