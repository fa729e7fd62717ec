package selection

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/metrics"
	"github.com/marcovc/services/pkg/clock"
	"github.com/marcovc/services/pkg/logger"
)

var _ contracts.Prioritizer = (*Prioritizer)(nil)

// Prioritizer selects the orders of each auction a solver gets to see
// ⭐ SSOT: 경매별 주문 선별 진입점
type Prioritizer struct {
	strategies []Strategy
	maxOrders  int
	clock      clock.Clock
	logger     *logger.Logger
}

// NewPrioritizer creates a prioritizer. strategies are used in list order.
func NewPrioritizer(strategies []Strategy, maxOrders int, clk clock.Clock, log *logger.Logger) *Prioritizer {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Prioritizer{
		strategies: strategies,
		maxOrders:  maxOrders,
		clock:      clk,
		logger:     log.WithComponent("prioritizer"),
	}
}

// MaxOrders returns the order budget per auction
func (p *Prioritizer) MaxOrders() int {
	return p.maxOrders
}

// Strategies returns the configured strategy names in list order
func (p *Prioritizer) Strategies() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name()
	}
	return names
}

// Prioritize returns a copy of auction holding only the selected orders, most
// important first, along with a record of how they were selected
func (p *Prioritizer) Prioritize(ctx context.Context, auction *contracts.Auction, solver common.Address) (*contracts.Auction, *contracts.Selection) {
	start := time.Now()
	now := p.clock.Now()

	orders, report := sortAndFilter(auction.Orders, auction.Tokens, solver, p.strategies, p.maxOrders, now)

	uids := make([]contracts.OrderUID, len(orders))
	for i := range orders {
		uids[i] = orders[i].UID
	}

	sel := &contracts.Selection{
		AuctionID:   auction.ID,
		Solver:      solver,
		InputOrders: len(auction.Orders),
		MaxOrders:   p.maxOrders,
		QuotaClaims: report.claims,
		Filled:      report.filled,
		OrderUIDs:   uids,
		CreatedAt:   now,
	}
	duration := time.Since(start)

	claims := make(map[string]interface{}, len(report.claims))
	for _, c := range report.claims {
		claims[c.Strategy] = c.Claimed
	}

	p.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"auction_id": auction.ID,
		"input":      sel.InputOrders,
		"selected":   sel.Selected(),
		"filled":     sel.Filled,
		"claims":     claims,
		"duration":   duration,
	}).Info("Orders prioritized")

	if sel.Selected() > p.maxOrders {
		p.logger.WithFields(map[string]interface{}{
			"auction_id": auction.ID,
			"selected":   sel.Selected(),
			"max_orders": p.maxOrders,
		}).Warn("Quotas exceeded max orders")
	}

	metrics.RecordSelection(sel, duration)

	return auction.WithOrders(orders), sel
}
