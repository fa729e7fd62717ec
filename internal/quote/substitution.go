package quote

import (
	"maps"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/marcovc/services/internal/contracts"
)

// Well-known mainnet tokens
var (
	WETH = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	USDL = common.HexToAddress("0xbeefc011e94f43b8b7b455ebab290c7ab4e216f1")
	DAI  = common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f")
)

// Substitution quotes the pair Sell→Buy as Sell→Replacement. Useful when the
// engine has no liquidity for Buy but does for a token priced the same.
type Substitution struct {
	Sell        common.Address
	Buy         common.Address
	Replacement common.Address
}

// DefaultSubstitutions quotes WETH→USDL as WETH→DAI
func DefaultSubstitutions() []Substitution {
	return []Substitution{{Sell: WETH, Buy: USDL, Replacement: DAI}}
}

// Substituter rewrites quote requests and undoes the rewrite on the quotes
// ⭐ SSOT: 견적 토큰 치환은 여기서만
type Substituter struct {
	subs []Substitution
}

func NewSubstituter(subs []Substitution) *Substituter {
	return &Substituter{subs: subs}
}

func (s *Substituter) match(req *contracts.QuoteRequest) (Substitution, bool) {
	for _, sub := range s.subs {
		if req.Sell == sub.Sell && req.Buy == sub.Buy {
			return sub, true
		}
	}
	return Substitution{}, false
}

// Preprocess returns the request to send to the engine. Requests matching no
// substitution are returned unchanged; req itself is never modified.
func (s *Substituter) Preprocess(req *contracts.QuoteRequest) *contracts.QuoteRequest {
	sub, ok := s.match(req)
	if !ok {
		return req
	}
	rewritten := *req
	rewritten.Buy = sub.Replacement
	return &rewritten
}

// Postprocess maps a quote for the preprocessed request back to original:
// the replacement token's clearing price is reported under the original buy
// token. original is the request as the caller sent it.
func (s *Substituter) Postprocess(original *contracts.QuoteRequest, q *contracts.Quote) *contracts.Quote {
	sub, ok := s.match(original)
	if !ok || q == nil {
		return q
	}

	price, found := q.ClearingPrices[sub.Replacement]
	if !found {
		return q
	}

	out := *q
	out.ClearingPrices = maps.Clone(q.ClearingPrices)
	delete(out.ClearingPrices, sub.Replacement)
	out.ClearingPrices[sub.Buy] = new(big.Int).Set(price)
	return &out
}
