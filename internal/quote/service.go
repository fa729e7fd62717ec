package quote

import (
	"context"
	"fmt"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/pkg/logger"
)

// Service answers quote requests through the solver engine
type Service struct {
	engine      contracts.SolverEngine
	substituter *Substituter
	logger      *logger.Logger
}

func NewService(engine contracts.SolverEngine, substituter *Substituter, log *logger.Logger) *Service {
	return &Service{
		engine:      engine,
		substituter: substituter,
		logger:      log.WithComponent("quote"),
	}
}

// Quote validates req, asks the engine with token substitution applied and
// returns a quote in terms of the original request
func (s *Service) Quote(ctx context.Context, req *contracts.QuoteRequest) (*contracts.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quote request: %w", err)
	}

	engineReq := s.substituter.Preprocess(req)

	s.logger.WithFields(map[string]interface{}{
		"sell":        engineReq.Sell.Hex(),
		"buy":         engineReq.Buy.Hex(),
		"amount":      engineReq.Amount.String(),
		"side":        engineReq.Side,
		"substituted": engineReq != req,
	}).Debug("Quoting")

	q, err := s.engine.Quote(ctx, engineReq)
	if err != nil {
		s.logger.WithError(err).Warn("Quote failed")
		return nil, fmt.Errorf("engine quote failed: %w", err)
	}

	q = s.substituter.Postprocess(req, q)

	s.logger.WithFields(map[string]interface{}{
		"amount":          q.Amount.String(),
		"clearing_prices": len(q.ClearingPrices),
	}).Info("Quote result")

	return q, nil
}
