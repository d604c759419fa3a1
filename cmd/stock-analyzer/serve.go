package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/delivery/consumer"
	delivery "golang-stock-analyst/internal/analyzer/delivery/http"
	"golang-stock-analyst/internal/analyzer/service"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/redis"
	"golang-stock-analyst/pkg/telegram"
	"golang-stock-analyst/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API, the analyzer stream consumer and the watchlist scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	appLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stock Analyzer", logger.Field("name", cfg.App.Name), logger.Field("version", cfg.App.Version))

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Error("Failed to initialize Redis", logger.ErrorField(err))
		return err
	}
	defer redisClient.Close()

	if err := redisClient.EnsureGroup(ctx, common.RedisStreamStockAnalyzer, common.RedisStreamGroup); err != nil {
		appLogger.Error("Failed to create consumer group", logger.ErrorField(err))
		return err
	}

	telegramBot := telegram.NewNopNotifier()
	if cfg.Telegram.Enabled {
		telegramBot, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Error("Failed to initialize Telegram bot", logger.ErrorField(err))
			return err
		}
	}

	analysisSvc, err := newAnalysisService(cfg, appLogger)
	if err != nil {
		return err
	}

	schedulerSvc, err := service.NewSchedulerService(cfg, appLogger, redisClient)
	if err != nil {
		return err
	}
	if cfg.Scheduler.Enabled {
		utils.GoSafe(func() { schedulerSvc.Start(ctx) })
	}

	stockAnalyzerSvc := service.NewStockAnalyzerService(cfg, appLogger, redisClient, analysisSvc, telegramBot)
	redisConsumer := consumer.NewRedisConsumer(cfg, stockAnalyzerSvc, appLogger)
	redisConsumer.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	delivery.RegisterSystemRoutes(e, cfg.App.Version)
	analysisHandler := delivery.NewAnalysisHandler(analysisSvc, schedulerSvc, appLogger)
	analysisHandler.RegisterRoutes(e.Group("/api/v1/analysis"))

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
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
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	redisConsumer.Stop()

	appLogger.Info("Server exiting")
	return nil
}
