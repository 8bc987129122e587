// Package main is the entry point for the collabctl CLI tool.
package main

import (
	"os"

	"github.com/good-yellow-bee/collabhub/cmd/collabctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
