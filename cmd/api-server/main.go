package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/database"
	"librarium/internal/cache"
	"librarium/internal/config"
	"librarium/internal/http-api/handler"
	"librarium/internal/http-api/middleware"
	"librarium/internal/http-api/repository"
	"librarium/internal/http-api/service"
	"librarium/internal/llm"
	"librarium/internal/reminder"
	"librarium/internal/storage"
	"librarium/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		return err
	}
	if err := database.SeedLibrarian(db, cfg, logger); err != nil {
		return err
	}

	// The catalog cache is an optimization; the service degrades to direct
	// database reads when redis is unreachable.
	catalogCache, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, catalog caching disabled", "error", err)
		catalogCache = nil
	} else {
		defer catalogCache.Close()
	}

	uploads, err := storage.NewFileStore(cfg.UploadsPath)
	if err != nil {
		return fmt.Errorf("init uploads store: %w", err)
	}
	avatars, err := storage.NewFileStore(cfg.AvatarsPath)
	if err != nil {
		return fmt.Errorf("init avatars store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	resetTokenRepo := repository.NewResetTokenRepository(db)

	hub := websocket.NewHub(logger)
	go hub.Run()

	policy := service.LoanPolicy{FinePerDay: cfg.FinePerDay}
	emailSender := service.NewLogEmailSender(logger)
	llmClient := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, resetTokenRepo, loanRepo, emailSender, policy, cfg)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub, logger)
	bookService := service.NewBookService(bookRepo, loanRepo, catalogCache, logger)
	categoryService := service.NewCategoryService(categoryRepo, bookRepo)
	loanService := service.NewLoanService(loanRepo, bookRepo, userRepo, policy)
	reservationService := service.NewReservationService(reservationRepo, bookRepo, userRepo, loanRepo, notificationService, policy, logger)
	reviewService := service.NewReviewService(reviewRepo, loanRepo, bookRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, bookRepo)
	resourceService := service.NewResourceService(resourceRepo, uploads, logger)
	profileService := service.NewProfileService(userRepo, avatars, logger)
	adminService := service.NewAdminService(userRepo)
	dashboardService := service.NewDashboardService(bookRepo, loanRepo, userRepo)
	recommendService := service.NewRecommendService(bookRepo, llmClient, logger)

	sweeper := reminder.NewSweeper(loanRepo, notificationRepo, cfg.SweepInterval, cfg.SweepRetryInterval, logger)
	go sweeper.Run(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(cfg.CORSOrigins))

	authMW := middleware.AuthMiddleware(authService)
	api := r.Group("/api")

	handler.NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"), authMW)
	handler.NewBookHandler(bookService).RegisterRoutes(api.Group("/books"), authMW)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(api.Group("/categories"), authMW)
	handler.NewLoanHandler(loanService).RegisterRoutes(api.Group("/loans"), authMW)
	handler.NewReservationHandler(reservationService).RegisterRoutes(api.Group("/reservations"), authMW)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api.Group("/reviews"), authMW)
	handler.NewWishlistHandler(wishlistService).RegisterRoutes(api.Group("/wishlist"), authMW)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(api.Group("/notifications"), authMW)
	handler.NewResourceHandler(resourceService).RegisterRoutes(api.Group("/resources"), authMW)
	handler.NewAdminHandler(adminService).RegisterRoutes(api.Group("/admin"), authMW)
	handler.NewProfileHandler(profileService).RegisterRoutes(api.Group("/profile"), authMW)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(api.Group("/dashboard"), authMW)
	handler.NewChatHandler(recommendService).RegisterRoutes(api.Group("/chatbot"), api.Group("/recommendations"), authMW)

	// Websocket clients authenticate with the access token in the query
	// string because browsers cannot set headers on websocket upgrades.
	wsAuth := func(token string) (string, string, error) {
		claims, err := authService.VerifyAccessToken(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID, claims.Role, nil
	}
	websocket.NewHandler(hub, wsAuth, logger).RegisterRoutes(api)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
