// Package main provides the entry point for the filex CLI.
package main

import (
	"os"

	"github.com/Muxite/filex/cmd/filex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
