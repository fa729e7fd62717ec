package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Token is auction metadata about one token
type Token struct {
	Symbol   string
	Decimals uint8
	// Price of one token atom in native token atoms. Zero means unknown.
	Price   decimal.Decimal
	Trusted bool
}

// Tokens maps token addresses to their auction metadata
type Tokens map[common.Address]Token

// Price returns the reference price of a token, false when it is missing or zero
func (t Tokens) Price(token common.Address) (decimal.Decimal, bool) {
	info, ok := t[token]
	if !ok || info.Price.IsZero() {
		return decimal.Zero, false
	}
	return info.Price, true
}

// Value converts an asset to native token atoms
func (t Tokens) Value(asset Asset) (*big.Rat, bool) {
	price, ok := t.Price(asset.Token)
	if !ok {
		return nil, false
	}
	amount := decimal.Zero
	if asset.Amount != nil {
		amount = decimal.NewFromBigInt(asset.Amount, 0)
	}
	return amount.Mul(price).Rat(), true
}
