// Command isbn parses, validates and computes check digits for ISBNs given as
// arguments or as lines on standard input.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	cmd := NewRootCommand(afero.NewOsFs(), os.Stdin, os.Stdout)
	if err := cmd.Execute(); err != nil {
		if err != errFailures {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
