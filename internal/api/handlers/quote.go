package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/solver"
	"github.com/marcovc/services/pkg/logger"
)

// Quoter prices a single order
type Quoter interface {
	Quote(ctx context.Context, req *contracts.QuoteRequest) (*contracts.Quote, error)
}

// QuoteHandler answers GET /quote
type QuoteHandler struct {
	quoter  Quoter
	timeout time.Duration
	logger  *logger.Logger
}

// NewQuoteHandler creates a quote handler. timeout is the deadline applied when
// the request carries none.
func NewQuoteHandler(quoter Quoter, timeout time.Duration, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoter:  quoter,
		timeout: timeout,
		logger:  log.WithComponent("quote"),
	}
}

// Quote handles GET /quote?sell=&buy=&amount=&side=&deadline=
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.quoter.Quote(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Warn("Quote failed")
		respondError(w, http.StatusBadGateway, "Quote failed")
		return
	}

	respondJSON(w, http.StatusOK, solver.FromQuote(q))
}

func (h *QuoteHandler) parseQuery(query url.Values) (*contracts.QuoteRequest, error) {
	sell := query.Get("sell")
	buy := query.Get("buy")
	if !common.IsHexAddress(sell) {
		return nil, fmt.Errorf("invalid sell token %q", sell)
	}
	if !common.IsHexAddress(buy) {
		return nil, fmt.Errorf("invalid buy token %q", buy)
	}

	dto := solver.QuoteRequest{
		SellToken: common.HexToAddress(sell),
		BuyToken:  common.HexToAddress(buy),
		Amount:    query.Get("amount"),
		Kind:      contracts.Side(query.Get("side")),
	}
	if dto.Kind == "" {
		dto.Kind = contracts.SideSell
	}

	if raw := query.Get("deadline"); raw != "" {
		deadline, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline: %w", err)
		}
		dto.Deadline = deadline
	} else if h.timeout > 0 {
		dto.Deadline = time.Now().Add(h.timeout)
	}

	req, err := dto.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
