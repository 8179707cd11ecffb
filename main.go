// The main package for the sanctions-watch executable.
package main

import (
	"github.com/Dateyes-glitch/sanctions-watch/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
