// The main package for the nightcrawler executable.
package main

import (
	"github.com/nthompson/nightcrawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
