// Package main - Entry point for the shopquote CLI
package main

import (
	"os"

	"shopquote/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
