package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/metrics"
	"github.com/marcovc/services/pkg/httputil"
	"github.com/marcovc/services/pkg/logger"
)

var _ contracts.SolverEngine = (*Client)(nil)

// Client talks to the external solver engine over HTTP
// ⭐ SSOT: 솔버 엔진 호출은 여기서만
type Client struct {
	baseURL string
	http    *httputil.Client
	logger  *logger.Logger
}

func NewClient(baseURL string, http *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http,
		logger:  log.WithComponent("solver-engine"),
	}
}

// Solve sends the auction to the engine and returns its solutions as received.
// The auction deadline bounds the call.
func (c *Client) Solve(ctx context.Context, auction *contracts.Auction) (solutions json.RawMessage, err error) {
	defer func() { metrics.RecordEngineRequest("solve", err) }()

	if !auction.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, auction.Deadline)
		defer cancel()
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/solve", FromDomain(auction))
	if err != nil {
		return nil, fmt.Errorf("solve request failed: %w", err)
	}

	if err := httputil.DecodeJSON(resp, &solutions); err != nil {
		return nil, fmt.Errorf("solve response: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"auction_id": auction.ID,
		"orders":     len(auction.Orders),
		"bytes":      len(solutions),
	}).Debug("Engine solved auction")

	return solutions, nil
}

// Quote asks the engine to price a single order
func (c *Client) Quote(ctx context.Context, req *contracts.QuoteRequest) (q *contracts.Quote, err error) {
	defer func() { metrics.RecordEngineRequest("quote", err) }()

	if !req.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, req.Deadline)
		defer cancel()
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/quote", NewQuoteRequest(req))
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}

	var dto Quote
	if err := httputil.DecodeJSON(resp, &dto); err != nil {
		return nil, fmt.Errorf("quote response: %w", err)
	}

	return dto.ToDomain()
}
