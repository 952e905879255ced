// Package cmd provides the command-line interface for the simulator.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "simkernel",
	Short: "A discrete-event simulation kernel.",
	Long: `simkernel runs demonstration simulations on the discrete-event ` +
		`kernel. It can run a serial ping-pong simulation or split it across ` +
		`ranks synchronized with windows or null messages.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
