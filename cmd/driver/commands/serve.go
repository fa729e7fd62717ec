package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcovc/services/internal/api"
	"github.com/marcovc/services/internal/api/handlers"
	"github.com/marcovc/services/internal/api/ws"
	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/quote"
	"github.com/marcovc/services/internal/scheduler"
	"github.com/marcovc/services/internal/scheduler/jobs"
	"github.com/marcovc/services/internal/selection"
	"github.com/marcovc/services/internal/solver"
	"github.com/marcovc/services/pkg/clock"
	"github.com/marcovc/services/pkg/config"
	"github.com/marcovc/services/pkg/database"
	"github.com/marcovc/services/pkg/httputil"
	"github.com/marcovc/services/pkg/logger"
	"github.com/marcovc/services/pkg/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the driver API server",
	Long: `Starts the driver HTTP server.

Endpoints:
  POST /solve                      - prioritize an auction and solve it
  GET  /quote                      - quote a single order
  GET  /api/selections/{auctionID} - stored selection
  GET  /ws/selections              - live selection stream
  GET  /health                     - health check
  GET  /metrics                    - prometheus metrics

Without SOLVER_ENGINE_URL every /solve is a dry run that returns the
prioritized auction. Without DATABASE_URL selections are not stored.

Example:
  go run ./cmd/driver serve
  go run ./cmd/driver serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API port (default: PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Selection strategies
	selectionPath := resolveSelectionPath(cfg.Selection.ConfigPath)
	selCfg, strategies, err := loadSelection(selectionPath, log)
	if err != nil {
		return err
	}
	prioritizer := selection.NewPrioritizer(strategies, selCfg.Selection.MaxOrders, clock.RealClock{}, log)

	log.WithFields(map[string]interface{}{
		"solver":     cfg.Solver.Address.Hex(),
		"max_orders": prioritizer.MaxOrders(),
		"strategies": prioritizer.Strategies(),
	}).Info("Prioritizer configured")

	// 4. Storage (optional)
	var repo contracts.SelectionRepository
	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		repo = selection.NewRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, selections are not stored")
	}

	redisClient, err := redis.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "driver").WithLogger(log.WithComponent("cache"))

	// 5. Solver engine (optional)
	var engine contracts.SolverEngine
	var quoteHandler *handlers.QuoteHandler
	if cfg.Solver.EngineURL != "" {
		httpClient := httputil.New(cfg, log)
		if redisClient.Enabled() && cfg.Solver.EngineRPS >= 1 {
			limiter := redis.NewRateLimiter(redisClient, "driver")
			httpClient.WithRateLimiter(limiter, redis.SolverEngineRateLimit(cfg.Solver.EngineURL, int(cfg.Solver.EngineRPS)))
		}
		client := solver.NewClient(cfg.Solver.EngineURL, httpClient, log)
		engine = client

		quoteService := quote.NewService(client, quote.NewSubstituter(quote.DefaultSubstitutions()), log)
		quoteHandler = handlers.NewQuoteHandler(quoteService, cfg.Solver.Timeout, log)
	} else {
		log.Warn("SOLVER_ENGINE_URL not set, /solve runs dry")
	}

	// 6. Live stream
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 7. Handlers and router
	solveHandler := handlers.NewSolveHandler(prioritizer, engine, cfg.Solver.Address, log).
		WithStore(repo, cache).
		WithStream(hub)

	router := api.NewRouter(api.Routes{
		Solve:      solveHandler,
		Quote:      quoteHandler,
		Selections: handlers.NewSelectionHandler(repo, cache, log),
		Stream:     hub,
		Metrics:    cfg.MetricsEnabled,
	}, cfg.CORSOrigins, log)

	// 8. Scheduler
	sched := scheduler.New(log)
	if repo != nil {
		retention := time.Duration(cfg.Selection.RetentionDays) * 24 * time.Hour
		if err := sched.AddJob(jobs.NewSelectionRetentionJob(repo, retention, clock.RealClock{}, log)); err != nil {
			return err
		}
	}
	if selectionPath != "" {
		drift, err := jobs.NewConfigDriftJob(selectionPath, selCfg, log)
		if err != nil {
			return err
		}
		if err := sched.AddJob(drift); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	// 9. Serve until interrupted
	server := api.New(cfg, log, router)
	return server.Run(ctx)
}
