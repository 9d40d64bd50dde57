// The main package for the blogvault executable.
package main

import (
	"github.com/lancehart/blogvault/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
