package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/gamepin/gamepin-api/internal/config"
	"github.com/gamepin/gamepin-api/internal/domain/admin"
	"github.com/gamepin/gamepin-api/internal/domain/allocation"
	"github.com/gamepin/gamepin-api/internal/domain/auth"
	"github.com/gamepin/gamepin-api/internal/domain/catalog"
	"github.com/gamepin/gamepin-api/internal/domain/order"
	"github.com/gamepin/gamepin-api/internal/domain/sourcing"
	"github.com/gamepin/gamepin-api/internal/domain/stock"
	"github.com/gamepin/gamepin-api/internal/domain/user"
	"github.com/gamepin/gamepin-api/internal/domain/wallet"
	"github.com/gamepin/gamepin-api/internal/middleware"
	"github.com/gamepin/gamepin-api/internal/pkg/database"
	"github.com/gamepin/gamepin-api/internal/pkg/jwt"
	"github.com/gamepin/gamepin-api/internal/pkg/logger"
	"github.com/gamepin/gamepin-api/internal/pkg/metrics"
	pkgresponse "github.com/gamepin/gamepin-api/internal/pkg/response"
	"github.com/gamepin/gamepin-api/internal/pkg/vendorapi"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting GamePin API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	// Schema is applied once here; everything downstream assumes it exists.
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		log.Fatal().Err(err).Msg("Schema migration failed")
	}
	cancelMigrate()

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	metrics.MustRegister()

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	vendorClient := vendorapi.NewClient(vendorapi.Config{
		BaseURL:  cfg.VendorBaseURL,
		User:     cfg.VendorUser,
		Password: cfg.VendorPassword,
		Timeout:  time.Duration(cfg.VendorTimeoutSeconds) * time.Second,
	})

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	stockRepo := stock.NewRepository(db)
	sourcingRepo := sourcing.NewRepository(db)
	orderRepo := order.NewRepository(db)

	// ---------- Services ----------
	priceCache := catalog.NewPriceCache(redisClient)
	catalogService := catalog.NewService(catalogRepo, priceCache)
	sourcingService := sourcing.NewService(sourcingRepo, catalogService)
	stockService := stock.NewService(stockRepo)
	walletService := wallet.NewService(walletRepo)
	authService := auth.NewService(userRepo, walletRepo, jwtService)

	allocator := allocation.NewAllocator(stockRepo, sourcingService, vendorClient)
	orderService := order.NewService(orderRepo, catalogService, allocator, walletRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userRepo)
	catalogHandler := catalog.NewHandler(catalogService)
	stockHandler := stock.NewHandler(stockService)
	sourcingHandler := sourcing.NewHandler(sourcingService)
	walletHandler := wallet.NewHandler(walletService)
	orderHandler := order.NewHandler(orderService)
	adminHandler := admin.NewHandler(vendorClient)

	authMiddleware := middleware.Auth(jwtService)
	adminOnly := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/tiers", catalogHandler.Routes())
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/orders", orderHandler.Routes(authMiddleware))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/tiers", catalogHandler.AdminRoutes(authMiddleware, adminOnly))
		r.Mount("/users", userHandler.AdminRoutes(authMiddleware, adminOnly))
		r.Mount("/stock", stockHandler.AdminRoutes(authMiddleware, adminOnly))
		r.Mount("/sources", sourcingHandler.AdminRoutes(authMiddleware, adminOnly))
		r.Mount("/wallets", walletHandler.AdminRoutes(authMiddleware, adminOnly))
		r.Mount("/orders", orderHandler.AdminRoutes(authMiddleware, adminOnly))
		r.Mount("/", adminHandler.Routes(authMiddleware, adminOnly))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout: 15 * time.Second,
		// Must outlast a max-quantity external purchase at the vendor timeout.
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
