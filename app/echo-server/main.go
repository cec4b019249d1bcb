package main

import (
	"context"
	"fmt"
	"log"
	"myBookShelf/app/bootstrap"
	"myBookShelf/app/echo-server/router"
	"myBookShelf/business/recommendation"
	"myBookShelf/internal/middleware"
	"myBookShelf/internal/repository/memory"
	redisRepo "myBookShelf/internal/repository/redis"
	"myBookShelf/internal/rest"
	"myBookShelf/pkg/config"
	"myBookShelf/pkg/database"
	"myBookShelf/pkg/logger"
	"myBookShelf/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting MyBookShelf recommendations", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Init cache
	var cache recommendation.Cache
	switch cfg.Recommendation.Cache {
	case "memory":
		mem := memory.NewRecommendationCache()
		go mem.RunPurger(rootCtx, 10*time.Minute)
		cache = mem
	default:
		client, err := database.InitRedis(rootCtx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer func() { _ = client.Close() }()
		cache = redisRepo.NewRecommendationCache(client)
	}

	// Init service
	recommendationService := bootstrap.NewService(cfg, db, cache)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)

	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recommendationHandler)
	router.SetupRecommendationAdminRoutes(api, recommendationHandler)
	router.SetupMetricsRoute(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
