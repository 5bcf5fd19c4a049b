// Package main is the entry point for the simtest CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/simtest/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
