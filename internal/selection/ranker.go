package selection

import (
	"math"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/marcovc/services/internal/contracts"
)

// SortOrders reorders orders in place so that the most important come first.
// Orders are compared by their key sequences, one key per strategy in list
// order, highest first. Equal orders keep their relative order. Each order's
// keys are computed once. An empty strategy list leaves orders untouched.
// ⭐ SSOT: 주문 정렬 로직은 여기서만
func SortOrders(orders []contracts.Order, tokens contracts.Tokens, solver common.Address, strategies []Strategy, now time.Time) {
	if len(strategies) == 0 || len(orders) < 2 {
		return
	}

	type keyed struct {
		keys  []SortKey
		order contracts.Order
	}

	ranked := make([]keyed, len(orders))
	for i := range orders {
		keys := make([]SortKey, len(strategies))
		for j, s := range strategies {
			keys[j] = s.Key(&orders[i], tokens, solver, now)
		}
		ranked[i] = keyed{keys: keys, order: orders[i]}
	}

	slices.SortStableFunc(ranked, func(a, b keyed) int {
		return compareKeys(b.keys, a.keys) // 내림차순
	})

	for i := range ranked {
		orders[i] = ranked[i].order
	}
}

// SortAndFilterOrders selects at most maxOrders orders, most important first.
//
// Every strategy with a positive MinFraction first claims the top
// ceil(MinFraction × maxOrders) orders of a ranking by that strategy alone,
// in strategy list order, skipping orders already selected. If room is left,
// the result is topped up from a ranking by all strategies.
//
// The quota phase is not capped: when the quotas add up to more than
// maxOrders the result can hold more than maxOrders orders. With every
// MinFraction at zero this is SortOrders followed by truncation.
//
// orders is not modified; the selection is returned as a new slice.
func SortAndFilterOrders(orders []contracts.Order, tokens contracts.Tokens, solver common.Address, strategies []Strategy, maxOrders int, now time.Time) []contracts.Order {
	selected, _ := sortAndFilter(orders, tokens, solver, strategies, maxOrders, now)
	return selected
}

// filterReport says where the selected orders came from
type filterReport struct {
	claims []contracts.QuotaClaim
	filled int
}

func sortAndFilter(orders []contracts.Order, tokens contracts.Tokens, solver common.Address, strategies []Strategy, maxOrders int, now time.Time) ([]contracts.Order, filterReport) {
	var report filterReport
	if maxOrders < 0 {
		maxOrders = 0
	}

	result := make([]contracts.Order, 0, min(maxOrders, len(orders)))
	seen := make(map[contracts.OrderUID]struct{}, len(orders))

	add := func(o contracts.Order) bool {
		if _, dup := seen[o.UID]; dup {
			return false
		}
		seen[o.UID] = struct{}{}
		result = append(result, o)
		return true
	}

	for _, s := range strategies {
		if f := s.MinFraction(); math.IsNaN(f) || f <= 0 {
			continue
		}

		ranked := slices.Clone(orders)
		SortOrders(ranked, tokens, solver, []Strategy{s}, now)

		quota := quotaSize(s.MinFraction(), maxOrders, len(ranked))
		claimed := 0
		for _, o := range ranked[:quota] {
			if add(o) {
				claimed++
			}
		}

		report.claims = append(report.claims, contracts.QuotaClaim{
			Strategy:    s.Name(),
			MinFraction: s.MinFraction(),
			Quota:       quota,
			Claimed:     claimed,
		})
	}

	if len(result) < maxOrders {
		ranked := slices.Clone(orders)
		SortOrders(ranked, tokens, solver, strategies, now)

		for _, o := range ranked {
			if len(result) >= maxOrders {
				break
			}
			if add(o) {
				report.filled++
			}
		}
	}

	return result, report
}

// quotaSize is ceil(fraction × maxOrders), bounded by the number of orders
func quotaSize(fraction float64, maxOrders, available int) int {
	q := math.Ceil(fraction * float64(maxOrders))
	if math.IsNaN(q) || q <= 0 {
		return 0
	}
	if q >= float64(available) {
		return available
	}
	return int(q)
}
