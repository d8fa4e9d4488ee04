package main

import (
	"os"

	"github.com/arthur-debert/hatch/cmd/hatch"
)

func main() {
	rootCmd := hatch.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		hatch.RenderError(rootCmd, err)
		os.Exit(1)
	}
}
