package contracts

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Auction is one batch auction round as handed to a solver
// ⭐ SSOT: 경매 라운드 → 솔버 전달
type Auction struct {
	ID       int64
	Orders   []Order
	Tokens   Tokens
	Deadline time.Time
}

// WithOrders returns a shallow copy of the auction carrying orders instead
func (a *Auction) WithOrders(orders []Order) *Auction {
	cp := *a
	cp.Orders = orders
	return &cp
}

// QuotaClaim is how many orders one strategy claimed during the quota phase
type QuotaClaim struct {
	Strategy    string  `json:"strategy"`
	MinFraction float64 `json:"min_fraction"`
	Quota       int     `json:"quota"`   // ceil(min_fraction × max_orders)
	Claimed     int     `json:"claimed"` // new orders added, after dedup
}

// Selection is the outcome of prioritizing one auction for one solver
// ⭐ SSOT: 주문 선별 결과 (저장, 캐시, 스트림 공통)
type Selection struct {
	AuctionID   int64          `json:"auction_id"`
	Solver      common.Address `json:"solver"`
	InputOrders int            `json:"input_orders"`
	MaxOrders   int            `json:"max_orders"`
	QuotaClaims []QuotaClaim   `json:"quota_claims"`
	Filled      int            `json:"filled"` // added by the combined ranking
	OrderUIDs   []OrderUID     `json:"order_uids"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Selected returns the number of orders handed to the solver
func (s *Selection) Selected() int {
	return len(s.OrderUIDs)
}

// Claimed returns the number of orders added during the quota phase
func (s *Selection) Claimed() int {
	total := 0
	for _, c := range s.QuotaClaims {
		total += c.Claimed
	}
	return total
}
