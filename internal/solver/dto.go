package solver

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"

	"github.com/marcovc/services/internal/contracts"
)

// Auction is the JSON form of an auction exchanged with the autopilot and the engine
type Auction struct {
	ID       string                   `json:"id"`
	Tokens   map[common.Address]Token `json:"tokens"`
	Orders   []Order                  `json:"orders"`
	Deadline time.Time                `json:"deadline"`
}

type Token struct {
	Decimals       *uint8           `json:"decimals,omitempty"`
	Symbol         string           `json:"symbol,omitempty"`
	ReferencePrice *decimal.Decimal `json:"referencePrice,omitempty"`
	Trusted        bool             `json:"trusted"`
}

type Order struct {
	UID               contracts.OrderUID  `json:"uid"`
	Owner             common.Address      `json:"owner"`
	SellToken         common.Address      `json:"sellToken"`
	BuyToken          common.Address      `json:"buyToken"`
	SellAmount        string              `json:"sellAmount"`
	BuyAmount         string              `json:"buyAmount"`
	Side              contracts.Side      `json:"kind"`
	Kind              contracts.Kind      `json:"class"`
	Created           contracts.Timestamp `json:"created"`
	ValidTo           contracts.Timestamp `json:"validTo"`
	PartiallyFillable bool                `json:"partiallyFillable"`
	Quote             *QuoteAttribution   `json:"quote,omitempty"`
}

type QuoteAttribution struct {
	Solver common.Address `json:"solver"`
}

// ToDomain validates the DTO and converts it
func (a *Auction) ToDomain() (*contracts.Auction, error) {
	id, err := strconv.ParseInt(a.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid auction id %q: %w", a.ID, err)
	}

	tokens := make(contracts.Tokens, len(a.Tokens))
	for addr, t := range a.Tokens {
		token := contracts.Token{Symbol: t.Symbol, Trusted: t.Trusted}
		if t.Decimals != nil {
			token.Decimals = *t.Decimals
		}
		if t.ReferencePrice != nil {
			if t.ReferencePrice.IsNegative() {
				return nil, fmt.Errorf("token %s: negative reference price", addr.Hex())
			}
			token.Price = *t.ReferencePrice
		}
		tokens[addr] = token
	}

	orders := make([]contracts.Order, 0, len(a.Orders))
	seen := make(map[contracts.OrderUID]struct{}, len(a.Orders))
	for i := range a.Orders {
		o, err := a.Orders[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		if _, dup := seen[o.UID]; dup {
			return nil, fmt.Errorf("order %d: duplicate uid %s", i, o.UID)
		}
		seen[o.UID] = struct{}{}
		orders = append(orders, o)
	}

	return &contracts.Auction{
		ID:       id,
		Orders:   orders,
		Tokens:   tokens,
		Deadline: a.Deadline,
	}, nil
}

func (o *Order) toDomain() (contracts.Order, error) {
	sell, err := parseAmount(o.SellAmount)
	if err != nil {
		return contracts.Order{}, fmt.Errorf("sellAmount: %w", err)
	}
	buy, err := parseAmount(o.BuyAmount)
	if err != nil {
		return contracts.Order{}, fmt.Errorf("buyAmount: %w", err)
	}

	switch o.Side {
	case contracts.SideSell, contracts.SideBuy:
	default:
		return contracts.Order{}, fmt.Errorf("invalid kind %q", o.Side)
	}
	switch o.Kind {
	case contracts.KindMarket, contracts.KindLimit, contracts.KindLiquidity:
	default:
		return contracts.Order{}, fmt.Errorf("invalid class %q", o.Kind)
	}

	order := contracts.Order{
		UID:               o.UID,
		Owner:             o.Owner,
		Sell:              contracts.Asset{Token: o.SellToken, Amount: sell},
		Buy:               contracts.Asset{Token: o.BuyToken, Amount: buy},
		Side:              o.Side,
		Kind:              o.Kind,
		Created:           o.Created,
		ValidTo:           o.ValidTo,
		PartiallyFillable: o.PartiallyFillable,
	}
	if o.Quote != nil {
		order.Quote = &contracts.QuoteAttribution{Solver: o.Quote.Solver}
	}
	return order, nil
}

// FromDomain converts an auction to its JSON form
func FromDomain(a *contracts.Auction) *Auction {
	dto := &Auction{
		ID:       strconv.FormatInt(a.ID, 10),
		Tokens:   make(map[common.Address]Token, len(a.Tokens)),
		Orders:   make([]Order, len(a.Orders)),
		Deadline: a.Deadline,
	}

	for addr, t := range a.Tokens {
		decimals := t.Decimals
		token := Token{Decimals: &decimals, Symbol: t.Symbol, Trusted: t.Trusted}
		if !t.Price.IsZero() {
			price := t.Price
			token.ReferencePrice = &price
		}
		dto.Tokens[addr] = token
	}

	for i := range a.Orders {
		o := &a.Orders[i]
		dto.Orders[i] = Order{
			UID:               o.UID,
			Owner:             o.Owner,
			SellToken:         o.Sell.Token,
			BuyToken:          o.Buy.Token,
			SellAmount:        formatAmount(o.Sell.Amount),
			BuyAmount:         formatAmount(o.Buy.Amount),
			Side:              o.Side,
			Kind:              o.Kind,
			Created:           o.Created,
			ValidTo:           o.ValidTo,
			PartiallyFillable: o.PartiallyFillable,
		}
		if o.Quote != nil {
			dto.Orders[i].Quote = &QuoteAttribution{Solver: o.Quote.Solver}
		}
	}

	return dto
}

// QuoteRequest is the JSON body of an engine quote call
type QuoteRequest struct {
	SellToken common.Address `json:"sellToken"`
	BuyToken  common.Address `json:"buyToken"`
	Amount    string         `json:"amount"`
	Kind      contracts.Side `json:"kind"`
	Deadline  time.Time      `json:"deadline"`
}

func NewQuoteRequest(req *contracts.QuoteRequest) *QuoteRequest {
	return &QuoteRequest{
		SellToken: req.Sell,
		BuyToken:  req.Buy,
		Amount:    formatAmount(req.Amount),
		Kind:      req.Side,
		Deadline:  req.Deadline,
	}
}

func (q *QuoteRequest) ToDomain() (*contracts.QuoteRequest, error) {
	amount, err := parseAmount(q.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	return &contracts.QuoteRequest{
		Sell:     q.SellToken,
		Buy:      q.BuyToken,
		Amount:   amount,
		Side:     q.Kind,
		Deadline: q.Deadline,
	}, nil
}

// Quote is the JSON form of a quote
type Quote struct {
	Amount         string                    `json:"amount"`
	ClearingPrices map[common.Address]string `json:"clearingPrices"`
}

func (q *Quote) ToDomain() (*contracts.Quote, error) {
	amount, err := parseAmount(q.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	prices := make(map[common.Address]*big.Int, len(q.ClearingPrices))
	for token, p := range q.ClearingPrices {
		price, err := parseAmount(p)
		if err != nil {
			return nil, fmt.Errorf("clearing price of %s: %w", token.Hex(), err)
		}
		prices[token] = price
	}

	return &contracts.Quote{Amount: amount, ClearingPrices: prices}, nil
}

func FromQuote(q *contracts.Quote) *Quote {
	dto := &Quote{
		Amount:         formatAmount(q.Amount),
		ClearingPrices: make(map[common.Address]string, len(q.ClearingPrices)),
	}
	for token, price := range q.ClearingPrices {
		dto.ClearingPrices[token] = formatAmount(price)
	}
	return dto
}

// parseAmount accepts decimal or 0x-prefixed hex uint256 values
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("missing amount")
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid uint256 %q", s)
	}
	return v, nil
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
