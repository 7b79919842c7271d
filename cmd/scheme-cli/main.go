// Package main is the entry point for the scheme-cli diagnostic tool.
package main

import (
	"os"

	"github.com/Victor-armando18/pricing-scheme/cmd/scheme-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
