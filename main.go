// Minimal entry point that delegates CLI handling to the Cobra root command
// in cmd/root.go.
package main

import (
	"github.com/Spencerx/ns-3-dev-git/cmd"
)

func main() {
	cmd.Execute()
}
