package main

import (
	"fmt"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/internal/analyzer/service"
	"golang-stock-analyst/pkg/logger"
)

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return appLogger, nil
}

// newAnalysisService wires the market data repositories and evaluators behind an AnalysisService.
func newAnalysisService(cfg *config.Config, appLogger *logger.Logger) (service.AnalysisService, error) {
	yahoo, err := repository.NewYahooFinanceRepository(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize yahoo finance repository: %w", err)
	}
	news := repository.NewNewsRepository(cfg, appLogger)
	holders := repository.NewHoldersRepository(cfg, appLogger)
	snapshots := repository.NewSnapshotRepository(cfg, appLogger, yahoo, news, holders)

	return service.NewAnalysisService(cfg, appLogger, snapshots, service.DefaultEvaluators(cfg, appLogger)), nil
}
