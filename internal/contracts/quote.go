package contracts

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// QuoteRequest asks for a price on a single hypothetical order
type QuoteRequest struct {
	Sell     common.Address
	Buy      common.Address
	Amount   *big.Int
	Side     Side
	Deadline time.Time
}

// Validate checks the request is quotable
func (r *QuoteRequest) Validate() error {
	if r.Sell == r.Buy {
		return errors.New("sell and buy tokens must differ")
	}
	if r.Amount == nil || r.Amount.Sign() <= 0 {
		return errors.New("amount must be positive")
	}
	if r.Side != SideSell && r.Side != SideBuy {
		return errors.New("side must be sell or buy")
	}
	return nil
}

// Quote is the solver engine's answer to a QuoteRequest
type Quote struct {
	Amount         *big.Int
	ClearingPrices map[common.Address]*big.Int
}
