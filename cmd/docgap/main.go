package main

import (
	"os"

	"github.com/dshills/docgap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
