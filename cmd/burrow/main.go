// Package main is the entry point for the burrow navigator.
package main

import (
	"os"

	"github.com/burrow/burrow/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
