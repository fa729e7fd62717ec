package selection

import (
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/marcovc/services/internal/contracts"
)

// Strategy assigns each order a sort key; higher keys are more important.
// Implementations are immutable and safe for concurrent use.
// ⭐ SSOT: 주문 정렬 전략 인터페이스
type Strategy interface {
	// Key computes the order's key. now is the instant age windows are measured from.
	Key(order *contracts.Order, tokens contracts.Tokens, solver common.Address, now time.Time) SortKey
	// MinFraction is the share of the order budget reserved for this
	// strategy's top picks, in [0.0, 1.0]. Zero reserves nothing.
	MinFraction() float64
	Name() string
}

var (
	_ Strategy = (*ExternalPrice)(nil)
	_ Strategy = (*ExternalSurplus)(nil)
	_ Strategy = (*CreationTimestamp)(nil)
	_ Strategy = (*OwnQuotes)(nil)
)

// ExternalPrice ranks orders by their likelihood of being filled at
// reference prices
type ExternalPrice struct {
	minFraction float64
}

func NewExternalPrice(minFraction float64) *ExternalPrice {
	return &ExternalPrice{minFraction: minFraction}
}

func (s *ExternalPrice) Key(order *contracts.Order, tokens contracts.Tokens, _ common.Address, _ time.Time) SortKey {
	return RationalKey(order.Likelihood(tokens))
}

func (s *ExternalPrice) MinFraction() float64 { return s.minFraction }
func (s *ExternalPrice) Name() string         { return TypeExternalPrice }

// ExternalSurplus ranks orders by their surplus at reference prices
type ExternalSurplus struct {
	minFraction float64
}

func NewExternalSurplus(minFraction float64) *ExternalSurplus {
	return &ExternalSurplus{minFraction: minFraction}
}

func (s *ExternalSurplus) Key(order *contracts.Order, tokens contracts.Tokens, _ common.Address, _ time.Time) SortKey {
	return RationalKey(order.LikelihoodSurplus(tokens))
}

func (s *ExternalSurplus) MinFraction() float64 { return s.minFraction }
func (s *ExternalSurplus) Name() string         { return TypeExternalSurplus }

// CreationTimestamp ranks recent orders first. With a max order age, orders
// created before now-maxOrderAge get no timestamp and sort last.
type CreationTimestamp struct {
	minFraction float64
	maxOrderAge time.Duration
}

// NewCreationTimestamp creates the strategy. A maxOrderAge of 0 disables the
// age window; it does not mean a zero-length window ending at now.
func NewCreationTimestamp(minFraction float64, maxOrderAge time.Duration) *CreationTimestamp {
	return &CreationTimestamp{minFraction: minFraction, maxOrderAge: maxOrderAge}
}

func (s *CreationTimestamp) Key(order *contracts.Order, _ contracts.Tokens, _ common.Address, now time.Time) SortKey {
	if s.maxOrderAge != 0 && order.Created < earliestAllowedCreation(now, s.maxOrderAge) {
		return NoTimestampKey()
	}
	return TimestampKey(order.Created)
}

func (s *CreationTimestamp) MinFraction() float64       { return s.minFraction }
func (s *CreationTimestamp) Name() string               { return TypeCreationTimestamp }
func (s *CreationTimestamp) MaxOrderAge() time.Duration { return s.maxOrderAge }

// OwnQuotes ranks first the orders placed from a quote the ranking solver
// produced, as long as they are within the age window
type OwnQuotes struct {
	minFraction float64
	maxOrderAge time.Duration
}

// NewOwnQuotes creates the strategy. As with NewCreationTimestamp, a
// maxOrderAge of 0 disables the age window.
func NewOwnQuotes(minFraction float64, maxOrderAge time.Duration) *OwnQuotes {
	return &OwnQuotes{minFraction: minFraction, maxOrderAge: maxOrderAge}
}

func (s *OwnQuotes) Key(order *contracts.Order, _ contracts.Tokens, solver common.Address, now time.Time) SortKey {
	outdated := s.maxOrderAge != 0 && order.Created < earliestAllowedCreation(now, s.maxOrderAge)
	return BoolKey(!outdated && order.QuotedBy(solver))
}

func (s *OwnQuotes) MinFraction() float64       { return s.minFraction }
func (s *OwnQuotes) Name() string               { return TypeOwnQuotes }
func (s *OwnQuotes) MaxOrderAge() time.Duration { return s.maxOrderAge }

// earliestAllowedCreation is now-maxAge in unix seconds. A cutoff that does
// not fit a Timestamp saturates to the maximum, so no order is recent enough.
func earliestAllowedCreation(now time.Time, maxAge time.Duration) contracts.Timestamp {
	ts, ok := contracts.TimestampFromTime(now.Add(-maxAge))
	if !ok {
		return math.MaxUint32
	}
	return ts
}
