package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cobra.EnableCommandSorting = false
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
