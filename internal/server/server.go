package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/chainvault/chainvault-api/docs"
	"github.com/chainvault/chainvault-api/internal/auth"
	"github.com/chainvault/chainvault-api/internal/config"
	"github.com/chainvault/chainvault-api/internal/events"
	"github.com/chainvault/chainvault-api/internal/handlers"
	"github.com/chainvault/chainvault-api/internal/logger"
	"github.com/chainvault/chainvault-api/internal/middleware"
	"github.com/chainvault/chainvault-api/internal/ratelimit"
	"github.com/chainvault/chainvault-api/internal/registry"
	"github.com/chainvault/chainvault-api/internal/store"
	"github.com/chainvault/chainvault-api/internal/vault"
)

const cleanupInterval = 5 * time.Minute

// Server wires the registry, admission control and HTTP surface together.
type Server struct {
	cfg       *config.Config
	router    *gin.Engine
	registry  *registry.Registry
	limiter   *ratelimit.Limiter
	admission *middleware.Admission

	pg *store.PostgresStore
}

// New builds a fully wired server from configuration. The Postgres store
// and SQS emitter are selected when their settings are present; otherwise
// the in-memory store and log emitter are used.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	cipher, err := vault.NewCipher(cfg.EncryptionSecret)
	if err != nil {
		return nil, err
	}

	var (
		st store.Store
		pg *store.PostgresStore
	)
	if cfg.DatabaseURL != "" {
		pg, err = store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = pg
		logger.Info("Using Postgres wallet store")
	} else {
		st = store.NewMemoryStore()
		logger.Info("Using in-memory wallet store")
	}

	var emitter events.Emitter
	if cfg.SetupEventsQueueURL != "" {
		sqsEmitter, err := events.NewSQSEmitter(ctx, cfg.SetupEventsQueueURL, logger.Log)
		if err != nil {
			return nil, err
		}
		emitter = sqsEmitter
		logger.Info("Emitting wallet setup results to SQS", zap.String("queue_url", cfg.SetupEventsQueueURL))
	} else {
		emitter = events.NewLogEmitter(logger.Log)
	}

	reg := registry.NewRegistry(st, cipher, emitter)

	limiter := ratelimit.NewLimiter()
	limiter.StartCleanup(cleanupInterval)

	s := &Server{
		cfg:      cfg,
		registry: reg,
		limiter:  limiter,
		pg:       pg,
	}
	s.router = s.buildRouter()

	return s, nil
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP listener and blocks until it exits.
func (s *Server) Run() error {
	logger.Info("Starting server", zap.String("port", s.cfg.Port), zap.String("stage", s.cfg.Stage))
	return s.router.Run(":" + s.cfg.Port)
}

// Close releases the cleanup goroutines and the database pool.
func (s *Server) Close() {
	s.limiter.StopCleanup()
	s.admission.StopCleanup()
	if s.pg != nil {
		s.pg.Close()
	}
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(s.configureCORS())

	s.admission = middleware.NewAdmission(s.limiter, middleware.AdmissionConfig{
		Limit:  s.cfg.RateLimit,
		Window: s.cfg.RateWindow(),
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.Health)

	common := handlers.NewCommonServices(s.registry)
	walletHandler := handlers.NewWalletHandler(common)

	v1 := router.Group("/api/v1")
	v1.Use(auth.RequireAPIKey(s.cfg.APIKeyHash))
	v1.Use(s.admission.Middleware())
	{
		wallets := v1.Group("/wallets")
		{
			wallets.GET("/stats", walletHandler.WalletStats)
			wallets.POST("/:userID", walletHandler.RegisterWallet)
			wallets.GET("/:userID", walletHandler.GetWallet)
			wallets.GET("/:userID/exists", walletHandler.WalletExists)
			wallets.PATCH("/:userID", walletHandler.UpdateWallet)
			wallets.DELETE("/:userID", walletHandler.RemoveWallet)
		}
	}

	return router
}

// configureCORS returns a configured CORS middleware
func (s *Server) configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	origins := s.cfg.AllowedOrigins
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key", "X-Correlation-ID"}
	corsConfig.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}

	return cors.New(corsConfig)
}
