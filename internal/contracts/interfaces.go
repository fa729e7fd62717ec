package contracts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Prioritizer selects and orders the auction's orders for one solver
// ⭐ SSOT: 주문 선별 인터페이스
type Prioritizer interface {
	Prioritize(ctx context.Context, auction *Auction, solver common.Address) (*Auction, *Selection)
}

// SolverEngine computes solutions and quotes
// ⭐ SSOT: 외부 솔버 엔진 인터페이스
type SolverEngine interface {
	Solve(ctx context.Context, auction *Auction) (json.RawMessage, error)
	Quote(ctx context.Context, req *QuoteRequest) (*Quote, error)
}

// SelectionRepository persists selections
// ⭐ SSOT: Repository 인터페이스 정의는 여기서만
type SelectionRepository interface {
	Save(ctx context.Context, sel *Selection) error
	Get(ctx context.Context, auctionID int64, solver common.Address) (*Selection, error)
	Latest(ctx context.Context, auctionID int64) (*Selection, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
