// Command cpuid prints raw CPUID results, optionally per logical core.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cpuid:", err)
		os.Exit(1)
	}
}
