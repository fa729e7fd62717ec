package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/marcovc/services/internal/selection"
	"github.com/marcovc/services/internal/solver"
	"github.com/marcovc/services/pkg/clock"
	"github.com/marcovc/services/pkg/logger"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Prioritize the orders of an auction file",
	Long: `Reads an auction in the solver JSON format and prints the selection the
driver would hand to the solver engine. Nothing is stored or forwarded.

Example:
  go run ./cmd/driver rank --auction auction.json --solver 0x...
  go run ./cmd/driver rank --auction auction.json --now 2026-01-01T00:00:00Z`,
	RunE: runRank,
}

var (
	rankAuction string
	rankSolver  string
	rankNow     string
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankAuction, "auction", "", "auction JSON file (required)")
	rankCmd.Flags().StringVar(&rankSolver, "solver", "", "solver address whose own quotes are preferred")
	rankCmd.Flags().StringVar(&rankNow, "now", "", "evaluation time, RFC3339 (default: current time)")
	rankCmd.MarkFlagRequired("auction")
}

func runRank(cmd *cobra.Command, args []string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(os.Stderr, level)

	var solverAddr common.Address
	if rankSolver != "" {
		if !common.IsHexAddress(rankSolver) {
			return fmt.Errorf("invalid solver address %q", rankSolver)
		}
		solverAddr = common.HexToAddress(rankSolver)
	}

	var clk clock.Clock = clock.RealClock{}
	if rankNow != "" {
		now, err := time.Parse(time.RFC3339, rankNow)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		clk = clock.NewFixed(now)
	}

	data, err := os.ReadFile(rankAuction)
	if err != nil {
		return fmt.Errorf("read auction: %w", err)
	}
	var dto solver.Auction
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("decode auction: %w", err)
	}
	auction, err := dto.ToDomain()
	if err != nil {
		return fmt.Errorf("invalid auction: %w", err)
	}

	cfg, strategies, err := loadSelection(resolveSelectionPath(os.Getenv("SELECTION_CONFIG")), log)
	if err != nil {
		return err
	}

	prioritizer := selection.NewPrioritizer(strategies, cfg.Selection.MaxOrders, clk, log)
	_, sel := prioritizer.Prioritize(cmd.Context(), auction, solverAddr)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sel)
}
