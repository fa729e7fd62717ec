package contracts

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// OrderUIDLength is the byte length of an order UID: digest(32) + owner(20) + valid_to(4)
const OrderUIDLength = 56

// OrderUID uniquely identifies an order
// ⭐ SSOT: 주문 식별자는 UID 하나로만 비교
type OrderUID [OrderUIDLength]byte

// String returns the 0x-prefixed hex form
func (u OrderUID) String() string {
	return hexutil.Encode(u[:])
}

func (u OrderUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *OrderUID) UnmarshalText(text []byte) error {
	b, err := hexutil.Decode(string(text))
	if err != nil {
		return fmt.Errorf("invalid order uid: %w", err)
	}
	if len(b) != OrderUIDLength {
		return fmt.Errorf("invalid order uid: expected %d bytes, got %d", OrderUIDLength, len(b))
	}
	copy(u[:], b)
	return nil
}

// ParseOrderUID parses the hex form of an order UID
func ParseOrderUID(s string) (OrderUID, error) {
	var uid OrderUID
	err := uid.UnmarshalText([]byte(s))
	return uid, err
}

// Timestamp is a unix timestamp in seconds
type Timestamp uint32

// TimestampFromTime converts t to a Timestamp. The second return is false when
// t falls outside the representable range (before 1970 or after 2106).
func TimestampFromTime(t time.Time) (Timestamp, bool) {
	secs := t.Unix()
	if secs < 0 || secs > math.MaxUint32 {
		return 0, false
	}
	return Timestamp(secs), true
}

func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Side says which amount of an order is fixed
type Side string

const (
	SideSell Side = "sell"
	SideBuy  Side = "buy"
)

// Kind classifies where an order comes from
type Kind string

const (
	KindMarket    Kind = "market"
	KindLimit     Kind = "limit"
	KindLiquidity Kind = "liquidity"
)

// Asset is an amount of a token in atoms
type Asset struct {
	Token  common.Address
	Amount *big.Int
}

// QuoteAttribution records which solver produced the quote an order was placed with
type QuoteAttribution struct {
	Solver common.Address
}

// Order is a user order participating in an auction
// ⭐ SSOT: 경매 주문 정보
type Order struct {
	UID               OrderUID
	Owner             common.Address
	Sell              Asset
	Buy               Asset
	Side              Side
	Kind              Kind
	Created           Timestamp
	ValidTo           Timestamp
	PartiallyFillable bool
	Quote             *QuoteAttribution // nil when the order was not placed from a quote
}

// QuotedBy reports whether solver produced the order's quote
func (o *Order) QuotedBy(solver common.Address) bool {
	return o.Quote != nil && o.Quote.Solver == solver
}

// Likelihood estimates how likely the order is to be matched: the value of
// what the owner sells over the value of what they ask for, both in reference
// prices. Zero when a price is unknown or the buy side is worthless.
func (o *Order) Likelihood(tokens Tokens) *big.Rat {
	sell, buy, ok := o.values(tokens)
	if !ok || buy.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).Quo(sell, buy)
}

// LikelihoodSurplus is the sell value minus the buy value in reference prices
// (native token atoms). Zero when a price is unknown.
func (o *Order) LikelihoodSurplus(tokens Tokens) *big.Rat {
	sell, buy, ok := o.values(tokens)
	if !ok {
		return new(big.Rat)
	}
	return new(big.Rat).Sub(sell, buy)
}

func (o *Order) values(tokens Tokens) (sell, buy *big.Rat, ok bool) {
	sell, ok = tokens.Value(o.Sell)
	if !ok {
		return nil, nil, false
	}
	buy, ok = tokens.Value(o.Buy)
	if !ok {
		return nil, nil, false
	}
	return sell, buy, true
}
