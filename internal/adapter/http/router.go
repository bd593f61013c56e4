package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/stockledger/internal/adapter/http/handler"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	"github.com/iho/stockledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ReceiptHandler        *handler.ReceiptHandler
	AdjustmentHandler     *handler.AdjustmentHandler
	TransferHandler       *handler.TransferHandler
	BalanceHandler        *handler.BalanceHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	RateLimiter           *middleware.RateLimiter
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Actor)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Inventory
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/receipts", cfg.ReceiptHandler.Post)
			r.Post("/adjustments", cfg.AdjustmentHandler.Post)
			r.Get("/stock-report", cfg.BalanceHandler.StockReport)
			r.Get("/warehouses", cfg.BalanceHandler.ListWarehouses)
			r.Get("/balances", cfg.BalanceHandler.List)
			r.Get("/balances/{warehouseID}/{productID}", cfg.BalanceHandler.Get)
			r.Get("/balances/{warehouseID}/{productID}/history", cfg.BalanceHandler.History)
			r.Get("/movements/{id}", cfg.BalanceHandler.GetMovement)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Post("/{id}/dispatch", cfg.TransferHandler.Dispatch)
			r.Post("/{id}/receive", cfg.TransferHandler.Receive)
			r.Post("/{id}/cancel", cfg.TransferHandler.Cancel)
			r.Get("/{id}/movements", cfg.TransferHandler.Movements)
		})

		// Reconciliation
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/report", cfg.ReconciliationHandler.Run)
			r.Post("/run", cfg.ReconciliationHandler.Run)
			r.Get("/balances/{warehouseID}/{productID}", cfg.ReconciliationHandler.CheckKey)
			r.Post("/balances/{warehouseID}/{productID}/rebuild", cfg.ReconciliationHandler.Repair)
		})
	})

	return r
}
