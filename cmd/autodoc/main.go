// Package main provides the autodoc CLI.
package main

import (
	"os"

	"github.com/thom899g/autodoc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
