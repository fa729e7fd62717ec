package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/selection"
	"github.com/marcovc/services/pkg/logger"
	"github.com/marcovc/services/pkg/redis"
)

// SelectionHandler serves stored selections
type SelectionHandler struct {
	repo   contracts.SelectionRepository
	cache  SelectionCache
	logger *logger.Logger
}

// NewSelectionHandler creates a selection handler. repo may be nil when
// persistence is disabled; cache may be nil.
func NewSelectionHandler(repo contracts.SelectionRepository, cache SelectionCache, log *logger.Logger) *SelectionHandler {
	return &SelectionHandler{
		repo:   repo,
		cache:  cache,
		logger: log.WithComponent("selections"),
	}
}

// Get returns the selection of an auction
// GET /api/selections/{auctionID}?solver=0x...
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	auctionID, err := strconv.ParseInt(mux.Vars(r)["auctionID"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid auction id")
		return
	}

	solverParam := r.URL.Query().Get("solver")
	if solverParam != "" && !common.IsHexAddress(solverParam) {
		respondError(w, http.StatusBadRequest, "Invalid solver address")
		return
	}

	key := redis.SelectionKey(auctionID, "latest")
	ttl := redis.TTLAuction
	load := func(ctx context.Context) (interface{}, error) {
		if h.repo == nil {
			return nil, selection.ErrNotFound
		}
		return h.repo.Latest(ctx, auctionID)
	}
	if solverParam != "" {
		addr := common.HexToAddress(solverParam)
		key = redis.SelectionKey(auctionID, addr.Hex())
		ttl = redis.TTLSelection
		load = func(ctx context.Context) (interface{}, error) {
			if h.repo == nil {
				return nil, selection.ErrNotFound
			}
			return h.repo.Get(ctx, auctionID, addr)
		}
	}

	var sel contracts.Selection
	if h.cache != nil {
		err = h.cache.GetOrLoad(r.Context(), key, &sel, ttl, load)
	} else {
		var v interface{}
		if v, err = load(r.Context()); err == nil {
			sel = *v.(*contracts.Selection)
		}
	}

	switch {
	case errors.Is(err, selection.ErrNotFound):
		respondError(w, http.StatusNotFound, "Selection not found")
	case err != nil:
		h.logger.WithError(err).WithField("auction_id", auctionID).Error("Failed to load selection")
		respondError(w, http.StatusInternalServerError, "Failed to load selection")
	default:
		respondJSON(w, http.StatusOK, &sel)
	}
}
