package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/aftab6393/finmini/internal/adapter/handler"
	"github.com/aftab6393/finmini/internal/adapter/middleware"
	"github.com/aftab6393/finmini/internal/adapter/storage"
	"github.com/aftab6393/finmini/internal/core/config"
	"github.com/aftab6393/finmini/internal/core/feed"
	"github.com/aftab6393/finmini/internal/core/portfolio"
	"github.com/aftab6393/finmini/internal/core/trading"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}
	secret := []byte(cfg.JWTSecret)

	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload dir", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	// Repos & services
	accountRepo := storage.NewAccountRepository(dbPool)
	catalogRepo := storage.NewCatalogRepository(dbPool)
	ledgerRepo := storage.NewLedgerRepository(dbPool)

	tradingService := trading.NewService(catalogRepo, ledgerRepo, logger)
	portfolioService := portfolio.NewService(accountRepo, catalogRepo, ledgerRepo, logger)

	// Simulated price feed (demo only, never writes catalog prices)
	feedCtx, stopFeed := context.WithCancel(context.Background())
	broadcaster := feed.NewBroadcaster()
	ticker := feed.NewTicker(catalogRepo, broadcaster, feed.DefaultTickerConfig(), logger)
	if err := ticker.Start(feedCtx); err != nil {
		slog.Warn("price feed disabled", "error", err)
	}

	// Handlers
	authHandler := &handler.AuthHandler{
		Accounts:  accountRepo,
		Secret:    secret,
		TokenTTL:  cfg.TokenTTL,
		UploadDir: cfg.UploadDir,
	}
	productHandler := &handler.ProductHandler{Catalog: catalogRepo}
	tradingHandler := &handler.TradingHandler{Service: tradingService}
	portfolioHandler := &handler.PortfolioHandler{Service: portfolioService}
	watchlistHandler := &handler.WatchlistHandler{Store: accountRepo}
	adminHandler := &handler.AdminHandler{Store: &adminStore{accountRepo, ledgerRepo}}
	feedHandler := &handler.FeedHandler{Broadcaster: broadcaster}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/products", cache.New(cache.Config{Expiration: 30 * time.Second}), productHandler.List)
	api.Get("/products/:id", productHandler.Get)

	// Protected
	private := api.Use(middleware.Protected(secret))
	private.Post("/transactions/buy", middleware.Idempotency(dbPool), tradingHandler.Buy)
	private.Get("/users/me/transactions", tradingHandler.History)
	private.Get("/users/portfolio", portfolioHandler.Summary)
	private.Post("/users/watchlist/:productId", watchlistHandler.Toggle)
	private.Get("/users/watchlist", watchlistHandler.Get)

	// Admin
	admin := private.Group("/admin", middleware.AdminOnly())
	admin.Get("/users", adminHandler.Users)
	admin.Get("/transactions", adminHandler.Transactions)

	// WebSocket price feed
	app.Use("/ws", feedHandler.Upgrade)
	app.Get("/ws/prices", feedHandler.Stream())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	stopFeed()

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	dbPool.Close()
	slog.Info("server exited")
}

// adminStore joins the two repositories behind the admin handler's view.
type adminStore struct {
	*storage.AccountRepository
	*storage.LedgerRepository
}
