package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcovc/services/internal/selectionconfig"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate a selection config",
	Long: `Loads the selection config, validates it and prints warnings and its hash.

Example:
  go run ./cmd/driver check-config --selection-config config/selection.yaml`,
	RunE: runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := resolveSelectionPath("")

	cfg, err := selectionconfig.LoadOrDefault(path)
	if err != nil {
		return err
	}

	hash, err := selectionconfig.Hash(cfg)
	if err != nil {
		return fmt.Errorf("hash config: %w", err)
	}

	if path == "" {
		path = "(built-in default)"
	}
	fmt.Fprintf(out, "config:     %s\n", path)
	fmt.Fprintf(out, "id:         %s v%s\n", cfg.Meta.ConfigID, cfg.Meta.Version)
	fmt.Fprintf(out, "max_orders: %d\n", cfg.Selection.MaxOrders)
	fmt.Fprintf(out, "hash:       %s\n", hash)
	fmt.Fprintln(out, "strategies:")
	for i, s := range cfg.Selection.Strategies {
		line := fmt.Sprintf("  %d. %-18s min_fraction=%.3f", i+1, s.Type, s.MinFraction)
		if s.MaxOrderAge > 0 {
			line += fmt.Sprintf(" max_order_age=%s", s.MaxOrderAge)
		}
		fmt.Fprintln(out, line)
	}

	warnings := selectionconfig.Warn(cfg)
	if len(warnings) == 0 {
		fmt.Fprintln(out, "✅ OK")
		return nil
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "⚠️  %s: %s\n", w.Code, w.Message)
	}
	return nil
}
