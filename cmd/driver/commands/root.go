package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	selectionConfig string
	verbose         bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "driver",
	Short: "Solver driver - auction order prioritization",
	Long: `Solver driver CLI

Receives auctions, selects the orders worth solving under per-strategy
quotas and forwards them to the solver engine.

Usage:
  go run ./cmd/driver [command]

Examples:
  go run ./cmd/driver serve
  go run ./cmd/driver rank --auction auction.json
  go run ./cmd/driver check-config --selection-config config/selection.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&selectionConfig, "selection-config", "", "selection config YAML (default: SELECTION_CONFIG or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
