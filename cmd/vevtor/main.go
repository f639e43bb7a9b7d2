// Package main provides the entry point for the vevtor CLI.
package main

import (
	"os"

	"github.com/graysonrie/vevtor/cmd/vevtor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
