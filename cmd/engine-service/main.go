package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"tradeidea/internal/engine/config"
	"tradeidea/internal/engine/repository"
	"tradeidea/internal/engine/service"
	"tradeidea/pkg/logger"
	"tradeidea/pkg/postgres"
	"tradeidea/pkg/redis"
	"tradeidea/pkg/telegram"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the engine service",
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

	appLogger.Info("Starting Engine Service", logger.Field("name", cfg.App.Name))

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

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	telegramBot, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Repositories
	snapshotRepo := repository.NewSnapshotRepository(db.DB)
	ideasRepo := repository.NewIdeasRepository(db.DB)
	positionsRepo := repository.NewPositionsRepository(db.DB)
	alertLogRepo := repository.NewAlertLogRepository(db.DB, redisClient.Client)
	recsRepo := repository.NewRecommendationsRepository(db.DB)

	// Services
	snapshots := service.NewSnapshotProvider(snapshotRepo, cfg.Engine.SnapshotCacheTTL)
	alertRunner := service.NewAlertRunnerService(cfg, appLogger, snapshots, ideasRepo, positionsRepo, alertLogRepo, telegramBot)
	recommendations := service.NewRecommendationService(cfg, appLogger, snapshots, recsRepo)

	runSweep := func() {
		sweepCtx := context.Background()
		if err := alertRunner.RunDailySweep(sweepCtx); err != nil {
			appLogger.Error("Daily sweep failed", logger.ErrorField(err))
		}
		if err := recommendations.GenerateAll(sweepCtx); err != nil {
			appLogger.Error("Recommendation generation failed", logger.ErrorField(err))
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Engine.DailyRunCron, runSweep); err != nil {
		appLogger.Fatal("Invalid cron expression", logger.ErrorField(err))
	}
	scheduler.Start()
	appLogger.Info("Scheduler started", logger.StringField("cron", cfg.Engine.DailyRunCron))

	if cfg.Engine.RunOnStart {
		go runSweep()
	}

	<-ctx.Done()

	appLogger.Info("Shutting down engine service...")
	<-scheduler.Stop().Done()
	appLogger.Info("Engine service exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "engine-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-engine.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing engine-service CLI: %s\n", err)
		os.Exit(1)
	}
}
