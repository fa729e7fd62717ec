package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/solver"
	"github.com/marcovc/services/pkg/logger"
	"github.com/marcovc/services/pkg/redis"
)

const maxAuctionBody = 32 << 20

// SelectionCache is the part of redis.Cache the selection endpoints use
type SelectionCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrLoad(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error
}

// Broadcaster publishes selection events to live subscribers
type Broadcaster interface {
	Broadcast(v interface{})
}

// SelectionEvent is the stream message emitted after each prioritization
type SelectionEvent struct {
	Type        string                 `json:"type"`
	AuctionID   int64                  `json:"auction_id"`
	Solver      common.Address         `json:"solver"`
	InputOrders int                    `json:"input_orders"`
	Selected    int                    `json:"selected"`
	Filled      int                    `json:"filled"`
	QuotaClaims []contracts.QuotaClaim `json:"quota_claims"`
	CreatedAt   time.Time              `json:"created_at"`
}

func newSelectionEvent(sel *contracts.Selection) SelectionEvent {
	return SelectionEvent{
		Type:        "selection",
		AuctionID:   sel.AuctionID,
		Solver:      sel.Solver,
		InputOrders: sel.InputOrders,
		Selected:    sel.Selected(),
		Filled:      sel.Filled,
		QuotaClaims: sel.QuotaClaims,
		CreatedAt:   sel.CreatedAt,
	}
}

// SolveHandler prioritizes incoming auctions and forwards them to the solver engine
// ⭐ SSOT: /solve 처리는 이 핸들러에서만
type SolveHandler struct {
	prioritizer contracts.Prioritizer
	engine      contracts.SolverEngine
	solver      common.Address
	repo        contracts.SelectionRepository
	cache       SelectionCache
	stream      Broadcaster
	logger      *logger.Logger
}

// NewSolveHandler creates a solve handler. A nil engine makes every request a
// dry run that answers with the prioritized auction.
func NewSolveHandler(prioritizer contracts.Prioritizer, engine contracts.SolverEngine, solverAddr common.Address, log *logger.Logger) *SolveHandler {
	return &SolveHandler{
		prioritizer: prioritizer,
		engine:      engine,
		solver:      solverAddr,
		logger:      log.WithComponent("solve"),
	}
}

// WithStore persists and caches every selection. Either argument may be nil.
func (h *SolveHandler) WithStore(repo contracts.SelectionRepository, cache SelectionCache) *SolveHandler {
	h.repo = repo
	h.cache = cache
	return h
}

// WithStream publishes a SelectionEvent per request
func (h *SolveHandler) WithStream(b Broadcaster) *SolveHandler {
	h.stream = b
	return h
}

// Solve handles POST /solve
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dto solver.Auction
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuctionBody)).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid auction body: "+err.Error())
		return
	}

	auction, err := dto.ToDomain()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := h.logger.WithField("auction_id", auction.ID)
	log.WithField("orders", len(auction.Orders)).Info("Solve request")

	prioritized, sel := h.prioritizer.Prioritize(ctx, auction, h.solver)
	h.record(ctx, sel)

	if h.engine == nil {
		respondJSON(w, http.StatusOK, solver.FromDomain(prioritized))
		return
	}

	solutions, err := h.engine.Solve(ctx, prioritized)
	if err != nil {
		log.WithError(err).Error("Solver engine failed")
		respondError(w, http.StatusBadGateway, "Solver engine failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(solutions)
}

// record stores, caches and publishes sel. Failures are logged, never returned.
func (h *SolveHandler) record(ctx context.Context, sel *contracts.Selection) {
	log := h.logger.WithField("auction_id", sel.AuctionID)

	if h.repo != nil {
		if err := h.repo.Save(ctx, sel); err != nil {
			log.WithError(err).Warn("Failed to save selection")
		}
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, redis.SelectionKey(sel.AuctionID, sel.Solver.Hex()), sel, redis.TTLSelection); err != nil {
			log.WithError(err).Warn("Failed to cache selection")
		}
		// 최신 선택이 바뀌었으므로 latest 키도 갱신
		if err := h.cache.Set(ctx, redis.SelectionKey(sel.AuctionID, "latest"), sel, redis.TTLAuction); err != nil {
			log.WithError(err).Warn("Failed to cache latest selection")
		}
	}

	if h.stream != nil {
		h.stream.Broadcast(newSelectionEvent(sel))
	}
}
