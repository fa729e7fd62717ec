package solver

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/pkg/config"
	"github.com/marcovc/services/pkg/httputil"
	"github.com/marcovc/services/pkg/logger"
)

var (
	weth   = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	dai    = common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f")
	solver = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

func uidHex(b byte) string {
	return "0x" + strings.Repeat("0", 110) + "0" + string("0123456789abcdef"[b&0xf])
}

const auctionJSON = `{
	"id": "1234",
	"tokens": {
		"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {"decimals": 18, "symbol": "WETH", "referencePrice": "1", "trusted": true},
		"0x6b175474e89094c44da98b954eedeac495271d0f": {"decimals": 18, "symbol": "DAI", "referencePrice": "0.0004"}
	},
	"orders": [
		{
			"uid": "UID1",
			"owner": "0x0000000000000000000000000000000000000001",
			"sellToken": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
			"buyToken": "0x6b175474e89094c44da98b954eedeac495271d0f",
			"sellAmount": "1000000000000000000",
			"buyAmount": "0x8ac7230489e80000",
			"kind": "sell",
			"class": "limit",
			"created": 1700000000,
			"validTo": 1700003600,
			"partiallyFillable": false,
			"quote": {"solver": "0x00000000000000000000000000000000000000aa"}
		}
	],
	"deadline": "2026-01-01T00:00:00Z"
}`

func decodeAuction(t *testing.T, raw string) *Auction {
	t.Helper()
	var dto Auction
	require.NoError(t, json.Unmarshal([]byte(strings.ReplaceAll(raw, "UID1", uidHex(1))), &dto))
	return &dto
}

func TestAuctionToDomain(t *testing.T) {
	auction, err := decodeAuction(t, auctionJSON).ToDomain()
	require.NoError(t, err)

	assert.Equal(t, int64(1234), auction.ID)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), auction.Deadline.UTC())
	require.Len(t, auction.Orders, 1)

	o := auction.Orders[0]
	assert.Equal(t, byte(1), o.UID[contracts.OrderUIDLength-1])
	assert.Equal(t, weth, o.Sell.Token)
	assert.Equal(t, "10000000000000000000", o.Buy.Amount.String(), "hex amounts are accepted")
	assert.Equal(t, contracts.SideSell, o.Side)
	assert.Equal(t, contracts.KindLimit, o.Kind)
	assert.Equal(t, contracts.Timestamp(1700000000), o.Created)
	assert.True(t, o.QuotedBy(solver))

	price, ok := auction.Tokens.Price(dai)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("0.0004")))
	assert.Equal(t, uint8(18), auction.Tokens[weth].Decimals)

	// 1e18 native atoms sold for 1e19 × 0.0004 = 4e15 native atoms
	assert.Equal(t, 0, o.Likelihood(auction.Tokens).Cmp(big.NewRat(250, 1)))
}

func TestAuctionToDomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{"bad id", func(s string) string { return strings.Replace(s, `"1234"`, `"abc"`, 1) }, "invalid auction id"},
		{"bad amount", func(s string) string {
			return strings.Replace(s, `"sellAmount": "1000000000000000000"`, `"sellAmount": "-1"`, 1)
		}, "sellAmount"},
		{"bad side", func(s string) string { return strings.Replace(s, `"kind": "sell"`, `"kind": "swap"`, 1) }, "invalid kind"},
		{"bad class", func(s string) string { return strings.Replace(s, `"class": "limit"`, `"class": "otc"`, 1) }, "invalid class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAuction(t, tt.mutate(auctionJSON)).ToDomain()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAuctionToDomainDuplicateUID(t *testing.T) {
	dto := decodeAuction(t, auctionJSON)
	dto.Orders = append(dto.Orders, dto.Orders[0])

	_, err := dto.ToDomain()
	assert.ErrorContains(t, err, "duplicate uid")
}

func TestFromDomainRoundTrip(t *testing.T) {
	auction, err := decodeAuction(t, auctionJSON).ToDomain()
	require.NoError(t, err)

	back, err := FromDomain(auction).ToDomain()
	require.NoError(t, err)
	assert.Equal(t, auction.Orders, back.Orders)
	assert.Equal(t, auction.ID, back.ID)
	assert.True(t, auction.Tokens[dai].Price.Equal(back.Tokens[dai].Price))
}

func TestQuoteToDomain(t *testing.T) {
	q, err := (&Quote{
		Amount:         "42",
		ClearingPrices: map[common.Address]string{weth: "1", dai: "0x10"},
	}).ToDomain()
	require.NoError(t, err)

	assert.Equal(t, int64(42), q.Amount.Int64())
	assert.Equal(t, int64(16), q.ClearingPrices[dai].Int64())

	_, err = (&Quote{Amount: ""}).ToDomain()
	assert.Error(t, err)

	assert.Equal(t, "16", FromQuote(q).ClearingPrices[dai])
}

func newClient(url string) *Client {
	hc := httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
	return NewClient(url+"/", hc, logger.Nop())
}

func TestClientSolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/solve", r.URL.Path)

		var body Auction
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "7", body.ID)
		assert.Len(t, body.Orders, 1)

		w.Write([]byte(`{"solutions":[]}`))
	}))
	defer server.Close()

	auction := &contracts.Auction{
		ID:     7,
		Orders: []contracts.Order{{Side: contracts.SideSell, Kind: contracts.KindMarket, Sell: contracts.Asset{Amount: big.NewInt(1)}}},
		Tokens: contracts.Tokens{},
	}

	raw, err := newClient(server.URL).Solve(context.Background(), auction)
	require.NoError(t, err)
	assert.JSONEq(t, `{"solutions":[]}`, string(raw))
}

func TestClientSolveEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"kind":"InvalidAuction"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Solve(context.Background(), &contracts.Auction{ID: 1})

	var statusErr *httputil.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestClientSolvePastDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Solve(context.Background(), &contracts.Auction{ID: 1, Deadline: time.Now().Add(-time.Second)})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)

		var body QuoteRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, dai, body.BuyToken)
		assert.Equal(t, "1000", body.Amount)

		w.Write([]byte(`{"amount":"2500","clearingPrices":{"0x6b175474e89094c44da98b954eedeac495271d0f":"1"}}`))
	}))
	defer server.Close()

	q, err := newClient(server.URL).Quote(context.Background(), &contracts.QuoteRequest{
		Sell: weth, Buy: dai, Amount: big.NewInt(1000), Side: contracts.SideSell,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), q.Amount.Int64())
	assert.Equal(t, int64(1), q.ClearingPrices[dai].Int64())
}
