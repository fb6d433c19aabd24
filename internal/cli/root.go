// Package cli wires the aptrade command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aptrade",
	Short: "Collect apartment sale transactions from the MOLIT open data API",
	Long: `aptrade collects reported apartment sale transactions for every
administrative region over a recent month window, joins region display names
onto the records and exports one delimited file per run.

A decoded service key from data.go.kr is required (MOLIT_SERVICE_KEY).`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
