package main

import (
	"os"

	"github.com/atthecodeface/diagramc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
