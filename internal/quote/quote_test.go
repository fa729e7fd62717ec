package quote

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/pkg/logger"
)

var usdc = common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")

func request(sell, buy common.Address) *contracts.QuoteRequest {
	return &contracts.QuoteRequest{Sell: sell, Buy: buy, Amount: big.NewInt(1e18), Side: contracts.SideSell}
}

func TestPreprocess(t *testing.T) {
	s := NewSubstituter(DefaultSubstitutions())

	req := request(WETH, USDL)
	got := s.Preprocess(req)
	assert.Equal(t, DAI, got.Buy)
	assert.Equal(t, WETH, got.Sell)
	assert.Equal(t, USDL, req.Buy, "original request must not change")

	other := request(WETH, usdc)
	assert.Same(t, other, s.Preprocess(other))

	// Only the configured direction is substituted
	reversed := request(USDL, WETH)
	assert.Same(t, reversed, s.Preprocess(reversed))
}

func TestPostprocess(t *testing.T) {
	s := NewSubstituter(DefaultSubstitutions())
	original := request(WETH, USDL)

	q := &contracts.Quote{
		Amount: big.NewInt(3000),
		ClearingPrices: map[common.Address]*big.Int{
			WETH: big.NewInt(3000),
			DAI:  big.NewInt(1),
		},
	}
	got := s.Postprocess(original, q)

	assert.Equal(t, big.NewInt(1), got.ClearingPrices[USDL])
	assert.NotContains(t, got.ClearingPrices, DAI)
	assert.Equal(t, big.NewInt(3000), got.ClearingPrices[WETH])
	assert.Contains(t, q.ClearingPrices, DAI, "engine quote must not change")
}

func TestPostprocessWithoutReplacementPrice(t *testing.T) {
	s := NewSubstituter(DefaultSubstitutions())
	q := &contracts.Quote{ClearingPrices: map[common.Address]*big.Int{WETH: big.NewInt(1)}}

	assert.Same(t, q, s.Postprocess(request(WETH, USDL), q))
	assert.Same(t, q, s.Postprocess(request(WETH, usdc), q))
	assert.Nil(t, s.Postprocess(request(WETH, USDL), nil))
}

type fakeEngine struct {
	got   *contracts.QuoteRequest
	quote *contracts.Quote
	err   error
}

func (f *fakeEngine) Solve(ctx context.Context, auction *contracts.Auction) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEngine) Quote(ctx context.Context, req *contracts.QuoteRequest) (*contracts.Quote, error) {
	f.got = req
	return f.quote, f.err
}

func TestServiceRoundTrip(t *testing.T) {
	engine := &fakeEngine{quote: &contracts.Quote{
		Amount:         big.NewInt(2500),
		ClearingPrices: map[common.Address]*big.Int{WETH: big.NewInt(2500), DAI: big.NewInt(1)},
	}}
	svc := NewService(engine, NewSubstituter(DefaultSubstitutions()), logger.Nop())

	q, err := svc.Quote(context.Background(), request(WETH, USDL))
	require.NoError(t, err)

	require.NotNil(t, engine.got)
	assert.Equal(t, DAI, engine.got.Buy, "engine sees the replacement token")
	assert.Equal(t, big.NewInt(1), q.ClearingPrices[USDL], "caller sees the original token")
}

func TestServiceErrors(t *testing.T) {
	engine := &fakeEngine{err: errors.New("no route")}
	svc := NewService(engine, NewSubstituter(nil), logger.Nop())

	_, err := svc.Quote(context.Background(), request(WETH, usdc))
	assert.ErrorContains(t, err, "no route")

	unused := &fakeEngine{}
	svc = NewService(unused, NewSubstituter(nil), logger.Nop())
	_, err = svc.Quote(context.Background(), request(WETH, WETH))
	assert.ErrorContains(t, err, "invalid quote request")
	assert.Nil(t, unused.got, "invalid requests never reach the engine")
}
