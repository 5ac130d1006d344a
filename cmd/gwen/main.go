// Command gwen interprets Gherkin feature specifications.
package main

import (
	"os"

	"github.com/gwen-io/gwen/cmd/gwen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
	if status, ok := cmd.FinalStatus(); ok && !cmd.Passing(status) {
		os.Exit(1)
	}
}
