package main

import (
	"fmt"
	"os"

	// Import to ensure its init() runs and registers the built-in strategies
	_ "github.com/fatpack/fatpack/pkg/merge"
)

func main() {
	initTemplateFormatting()
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
