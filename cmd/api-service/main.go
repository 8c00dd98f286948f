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

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"

	"tradeidea/internal/api/config"
	delivery "tradeidea/internal/api/delivery/http"
	_ "tradeidea/internal/api/docs"
	"tradeidea/internal/api/repository"
	"tradeidea/internal/api/service"
	"tradeidea/pkg/logger"
	"tradeidea/pkg/postgres"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Repositories
	recsRepo := repository.NewRecommendationsRepository(db.DB)
	ideasRepo := repository.NewIdeasRepository(db.DB)
	positionsRepo := repository.NewPositionsRepository(db.DB)
	snapsRepo := repository.NewSnapshotsRepository(db.DB)
	returnsRepo := repository.NewDailyReturnsRepository(db.DB)

	// Services
	recommendationSvc := service.NewRecommendationService(cfg, appLogger, recsRepo)
	readinessSvc := service.NewReadinessService(appLogger, ideasRepo, snapsRepo)
	riskSvc := service.NewRiskService(cfg, appLogger, positionsRepo, snapsRepo, returnsRepo)

	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")

	recommendationHandler := delivery.NewRecommendationHandler(recommendationSvc, appLogger)
	recommendationHandler.RegisterRoutes(apiV1.Group("/recommendations"))

	readinessHandler := delivery.NewReadinessHandler(readinessSvc, appLogger)
	readinessHandler.RegisterRoutes(apiV1.Group("/ideas"))

	riskHandler := delivery.NewRiskHandler(riskSvc, appLogger)
	riskHandler.RegisterRoutes(apiV1.Group("/users"))

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title TradeIdea API
// @version 1.0
// @description Read API for TradeIdea recommendations, readiness and risk reports.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
