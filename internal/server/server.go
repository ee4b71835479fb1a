package server

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"craftkart/internal/config"
	"craftkart/internal/domain"
	custommiddleware "craftkart/internal/middleware"
	"craftkart/internal/payment"
	"craftkart/internal/repository"
	"craftkart/internal/service"
	"craftkart/internal/storage"
	"craftkart/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth    service.AuthService
	Catalog service.CatalogService
	Payment service.PaymentService
	Order   service.OrderService
	Review  service.ReviewService
	Admin   service.AdminService
	Seller  service.SellerService
	Tokens  custommiddleware.TokenValidator
	Uploads http.Handler
}

// NewServer wires repositories, external providers and services onto db.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	intentRepo := repository.NewPaymentIntentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize services
	tokens := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry())
	provider := payment.NewRazorpayProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	paymentService := service.NewPaymentService(provider, intentRepo, cfg.Razorpay)

	deps := Dependencies{
		Auth:    service.NewAuthService(userRepo, tokens),
		Catalog: service.NewCatalogService(productRepo, categoryRepo, userRepo),
		Payment: paymentService,
		Order:   service.NewOrderService(orderRepo, productRepo, intentRepo, paymentService),
		Review:  service.NewReviewService(reviewRepo, orderRepo, productRepo, userRepo),
		Admin:   service.NewAdminService(userRepo, productRepo, categoryRepo, documentRepo, statsRepo),
		Seller:  service.NewSellerService(userRepo, productRepo, orderRepo, documentRepo, statsRepo, store, cfg.Storage.MaxBytes),
		Tokens:  tokens,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		deps.Uploads = local.Handler()
	}

	router := NewRouter(cfg, logger, redisClient, db, deps)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

// NewRouter builds the HTTP routing tree. db may be nil, in which case
// the health check only reports the process as up.
func NewRouter(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client, db *sql.DB, deps Dependencies) chi.Router {
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
				return
			}
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(deps.Tokens, logger)

	rateLimit := func(prefix string) func(http.Handler) http.Handler {
		return custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:" + prefix,
		}, logger)
	}

	// Register routes
	transport.NewAuthHandler(deps.Auth, logger).RegisterRoutes(router, authMiddleware, rateLimit("auth"))
	transport.NewProductHandler(deps.Catalog, logger).RegisterRoutes(router, authMiddleware)
	transport.NewPaymentHandler(deps.Payment, logger).RegisterRoutes(router, authMiddleware, rateLimit("payment"))
	transport.NewOrderHandler(deps.Order, logger).RegisterRoutes(router, authMiddleware)
	transport.NewReviewHandler(deps.Review, logger).RegisterRoutes(router, authMiddleware)
	transport.NewAdminHandler(deps.Admin, deps.Order, logger).RegisterRoutes(router, authMiddleware)
	transport.NewSellerHandler(deps.Seller, cfg.Storage.MaxBytes, logger).RegisterRoutes(router, authMiddleware)

	// KYC documents are only readable by admins
	if deps.Uploads != nil && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		router.With(authMiddleware, custommiddleware.RequireRole(logger, domain.RoleAdmin)).
			Handle(cfg.Storage.PublicURL+"/*", deps.Uploads)
	}

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
