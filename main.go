package main

import (
	"os"

	"github.com/irisvela/kindred/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
