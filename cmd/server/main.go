package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roastivator/roastivator/internal/handlers"
	"github.com/roastivator/roastivator/internal/middleware"
	"github.com/roastivator/roastivator/internal/repositories"
	"github.com/roastivator/roastivator/internal/services"
	"github.com/roastivator/roastivator/pkg/config"
	"github.com/roastivator/roastivator/pkg/database"
	"github.com/roastivator/roastivator/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(config.AppConfig.Server.Mode)
	logger.Init()

	// Initialize database
	if err := database.Init(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	snapshotCacheRepo := repositories.NewSnapshotCacheRepository(database.DB)
	githubService := services.NewGitHubService(config.AppConfig)
	cacheTTL := time.Duration(config.AppConfig.GitHub.CacheTTLMinutes) * time.Minute
	snapshotService := services.NewSnapshotService(githubService, snapshotCacheRepo, cacheTTL)
	metricsService := services.NewMetricsService()
	roastService := services.NewRoastService(config.AppConfig.Roast, metricsService, nil)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	setupRoutes(router, snapshotService, roastService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}

func setupRoutes(router *gin.Engine, snapshotService *services.SnapshotService, roastService *services.RoastService) {
	// Initialize handlers
	roastHandler := handlers.NewRoastHandler(snapshotService, roastService)
	healthHandler := handlers.NewHealthHandler()
	notFoundHandler := handlers.NewNotFoundHandler()

	api := router.Group("/api")
	{
		api.GET("/roast/:username", roastHandler.Roast)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	router.NoRoute(notFoundHandler.NotFound)
}
