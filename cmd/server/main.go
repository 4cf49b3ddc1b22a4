package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/act-collective/intelligence-service/internal/client"
	"github.com/act-collective/intelligence-service/internal/config"
	"github.com/act-collective/intelligence-service/internal/handler"
	"github.com/act-collective/intelligence-service/internal/kafka"
	"github.com/act-collective/intelligence-service/internal/middleware"
	"github.com/act-collective/intelligence-service/internal/repository"
	"github.com/act-collective/intelligence-service/internal/service"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	recordRepo := repository.NewRecordRepository(db, logger)
	projectRepo := repository.NewProjectRepository(db, logger)
	financeRepo := repository.NewFinanceRepository(db, logger)

	// Initialize Kafka producer and event publisher
	producer := kafka.NewProducer(cfg.Kafka.Brokers, "intelligence-service", logger)
	defer producer.Close()
	events := kafka.NewEvents(
		producer,
		cfg.Kafka.Topics["tagApplied"],
		cfg.Kafka.Topics["recordsSynced"],
	)

	// Initialize clients
	registryClient := client.NewRegistryClient(
		cfg.RegistryService.URL,
		cfg.RegistryService.ServiceKey,
		cfg.RegistryService.Timeout,
		2*time.Minute,
		logger,
	)

	// Initialize services
	tagService := service.NewTagService(recordRepo, projectRepo, events, logger)
	matcherService := service.NewMatcherService(recordRepo, projectRepo, logger)
	coverageService := service.NewCoverageService(recordRepo, logger)
	metricsService := service.NewMetricsService(recordRepo, projectRepo, financeRepo, logger)
	forecastService := service.NewForecastService(financeRepo, logger)
	registryService := service.NewRegistryService(registryClient, projectRepo, logger)

	// Initialize handlers
	recordHandler := handler.NewRecordHandler(tagService, matcherService, logger)
	insightHandler := handler.NewInsightHandler(
		coverageService,
		metricsService,
		forecastService,
		cfg.Engine.RunwayWindowMonths,
		cfg.Engine.ForecastHorizonYears,
		logger,
	)
	registryHandler := handler.NewRegistryHandler(registryService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(recordHandler, insightHandler, registryHandler, cfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToDB(dbConfig config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	recordHandler *handler.RecordHandler,
	insightHandler *handler.InsightHandler,
	registryHandler *handler.RegistryHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Read-only insight endpoints
		v1.GET("/tags/suggestions", recordHandler.GetTagSuggestions)
		v1.GET("/coverage", insightHandler.GetCoverage)

		metrics := v1.Group("/metrics")
		{
			metrics.GET("/runway", insightHandler.GetRunway)
			metrics.GET("/grant-cliffs", insightHandler.GetGrantCliffs)
			metrics.GET("/rd-offset", insightHandler.GetRDOffset)
		}

		v1.GET("/forecast/scenarios", insightHandler.GetForecast)

		// Mutating endpoints require a service key
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg, logger))
		{
			protected.POST("/records/sync", recordHandler.SyncRecords)
			protected.POST("/records/:id/tag", recordHandler.TagRecord)
			protected.POST("/registry/refresh", registryHandler.RefreshRegistry)
		}
	}

	return router
}
