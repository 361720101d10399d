package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inventory-tracker/internal/assistant"
	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/config"
	"inventory-tracker/internal/database"
	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/metrics"
	custommiddleware "inventory-tracker/internal/middleware"
	"inventory-tracker/internal/repository"
	"inventory-tracker/internal/service"
	"inventory-tracker/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client, bundle *i18n.Bundle) *Server {
	server := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	server.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      server.routes(bundle),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) routes(bundle *i18n.Bundle) http.Handler {
	cfg := s.config
	logger := s.logger

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(metrics.Middleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(custommiddleware.LocaleMiddleware(bundle, cfg.Assistant.DefaultLocale))

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.Handler())

	// Initialize repositories
	db := s.db.DB()
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	itemRepo := repository.NewItemRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize services
	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.AccessTTL())
	authService := service.NewAuthService(userRepo, refreshTokenRepo, tokens, auth.NewBroker(16), cfg.JWT.RefreshTTL(), logger)
	inventoryService := service.NewInventoryService(itemRepo, activityRepo, logger)
	assistantService := service.NewAssistantService(assistant.NewEngine(bundle), itemRepo, activityRepo, logger)
	reviewService := service.NewReviewService(profileRepo, cfg.QR.MaxCodes, cfg.QR.Size, logger)

	authMiddleware := custommiddleware.AuthMiddleware(tokens, logger)
	limit := func(prefix string) func(http.Handler) http.Handler {
		return custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window(),
			KeyPrefix:         prefix,
		}, logger)
	}

	// Register routes
	transport.NewAuthHandler(authService, logger).RegisterRoutes(router, authMiddleware, limit("rl:auth"))
	transport.NewItemHandler(inventoryService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewActivityHandler(inventoryService, bundle, logger).RegisterRoutes(router, authMiddleware)
	transport.NewAssistantHandler(assistantService, logger).RegisterRoutes(router, authMiddleware, limit("rl:assistant"))
	transport.NewReportHandler(inventoryService, bundle, logger).RegisterRoutes(router, authMiddleware)
	transport.NewReviewHandler(reviewService, logger).RegisterRoutes(router, authMiddleware)

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{"status": "ok", "database": s.db.Health()}

	if body["database"].(map[string]string)["status"] != "up" {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		// rate limiting fails open, so redis is reported but not fatal
		body["redis"] = "down"
	} else {
		body["redis"] = "up"
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
