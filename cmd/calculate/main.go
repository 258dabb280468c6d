// Package main is the entry point for the calculate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/calculate/cmd/calculate/commands"
	"github.com/Sumatoshi-tech/calculate/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
