// Package main is the entry point for the motor-supplychain CLI.
package main

import (
	"os"

	"motor-supplychain/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
