package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/marginalwallet/wallet-api/internal/auth"
	"github.com/marginalwallet/wallet-api/internal/config"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/handler"
	"github.com/marginalwallet/wallet-api/internal/insights"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/repository/postgres"
	"github.com/marginalwallet/wallet-api/internal/repository/storage"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/marginalwallet/wallet-api/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	plannedExpenseRepo := postgres.NewPlannedExpenseRepository(pool)
	activityLogRepo := postgres.NewActivityLogRepository(pool)
	txManager := postgres.NewTxManager(pool)

	// Tokens and passwords
	tokenCfg := auth.TokenConfig{
		Secret:   cfg.SecretKey,
		Issuer:   cfg.TokenIssuer,
		Audience: cfg.TokenAudience,
		TTL:      cfg.AccessTokenTTL(),
	}
	issuer := auth.NewTokenIssuer(tokenCfg)
	verifier, err := auth.NewTokenVerifier(tokenCfg, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token verifier")
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Optional collaborators
	var receiptStore domain.ObjectStore
	if cfg.S3.Enabled() {
		store, err := storage.NewS3ReceiptStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptStore = store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, receipt uploads disabled")
	}

	var generator service.Generator
	if cfg.GoogleAPIKey != "" {
		client, err := insights.NewGeminiClient(context.Background(), cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize insight generator")
		}
		generator = client
	} else {
		log.Warn().Msg("GOOGLE_API_KEY not set, insights disabled")
	}

	// Initialize services
	guard := service.NewOwnershipGuard(categoryRepo, movementRepo, plannedExpenseRepo, activityLogRepo)
	authService := service.NewAuthService(userRepo, hasher, issuer)
	userService := service.NewUserService(userRepo, hasher)
	categoryService := service.NewCategoryService(categoryRepo, movementRepo, guard)
	movementService := service.NewMovementService(movementRepo, activityLogRepo, guard)
	plannedExpenseService := service.NewPlannedExpenseService(plannedExpenseRepo, guard)
	activityLogService := service.NewActivityLogService(activityLogRepo, guard)
	dashboardService := service.NewDashboardService(categoryRepo, movementRepo)
	insightService := service.NewInsightService(movementRepo, generator)
	receiptService := service.NewReceiptService(receiptStore, movementRepo, guard)

	// Live events
	hub := websocket.NewHub()
	categoryService.SetEventPublisher(hub)
	movementService.SetEventPublisher(hub)
	plannedExpenseService.SetEventPublisher(hub)
	activityLogService.SetEventPublisher(hub)
	receiptService.SetEventPublisher(hub)

	userService.OnDelete(hub.Disconnect)
	movementService.OnDelete(receiptService.PurgeMovement)

	authMiddleware := middleware.NewAuthMiddleware(verifier, authService)

	loginLimiter := middleware.NewRateLimiter(middleware.LoginRateLimit)
	defer loginLimiter.Stop()
	accountLimiter := middleware.NewRateLimiter(middleware.AccountRateLimit)
	defer accountLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	ipExtractor, err := middleware.ClientIPExtractor(cfg.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TRUSTED_PROXIES")
	}
	e.IPExtractor = ipExtractor

	e.Pre(echomiddleware.RemoveTrailingSlash())

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.HeaderConfirmPassword},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, authMiddleware, txManager, handler.RateLimiters{
		Login:   loginLimiter,
		Account: accountLimiter,
	}, handler.Handlers{
		Health:         handler.NewHealthHandler(),
		Auth:           handler.NewAuthHandler(authService),
		User:           handler.NewUserHandler(userService),
		Dashboard:      handler.NewDashboardHandler(dashboardService),
		Insight:        handler.NewInsightHandler(insightService),
		Category:       handler.NewCategoryHandler(categoryService),
		Movement:       handler.NewMovementHandler(movementService),
		Receipt:        handler.NewReceiptHandler(receiptService),
		PlannedExpense: handler.NewPlannedExpenseHandler(plannedExpenseService),
		ActivityLog:    handler.NewActivityLogHandler(activityLogService),
		WebSocket:      handler.NewWebSocketHandler(hub, authMiddleware, cfg.CORSOrigins),
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
