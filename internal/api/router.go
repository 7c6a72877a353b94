package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/openpaygo/antifraud/internal/api/handler"
	"github.com/openpaygo/antifraud/internal/api/middleware"
	"github.com/openpaygo/antifraud/internal/api/spec"
	"github.com/openpaygo/antifraud/internal/config"
	"github.com/openpaygo/antifraud/internal/service"
)

type Router struct {
	cfg          *config.Config
	logger       *zap.Logger
	db           *pgxpool.Pool
	redis        redis.Cmdable
	transactions *service.TransactionService
	queries      *service.TransactionQueryService
	blocklist    *service.BlocklistService
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *pgxpool.Pool,
	redisClient redis.Cmdable,
	transactions *service.TransactionService,
	queries *service.TransactionQueryService,
	blocklist *service.BlocklistService,
) *Router {
	return &Router{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		redis:        redisClient,
		transactions: transactions,
		queries:      queries,
		blocklist:    blocklist,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	// Handlers
	transactionHandler := handler.NewTransactionHandler(api.transactions, api.queries)
	blocklistHandler := handler.NewBlocklistHandler(api.blocklist)
	healthHandler := handler.NewHealthHandler(api.db, api.redis)

	// Operational endpoints
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Ingestion routes: open to payment gateways, rate limited per client.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))
		r.Post("/v1/transactions", transactionHandler.Create)
		r.Get("/v1/transactions", transactionHandler.List)
		r.Get("/v1/transactions/{id}", transactionHandler.Get)
	})

	// Analyst routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))
		r.Use(middleware.AuthMiddleware)
		r.Put("/v1/transactions/{id}", transactionHandler.Update)
		r.Post("/v1/blocklist", blocklistHandler.Block)
	})

	return r
}
