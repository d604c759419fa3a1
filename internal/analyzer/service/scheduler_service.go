package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"
	pkgredis "golang-stock-analyst/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// SchedulerService publishes analysis requests to the analyzer stream, on demand or on the watchlist schedule.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessSchedule(ctx context.Context)
	Publish(ctx context.Context, symbol string, notifyUser bool) (string, error)
}

type schedulerService struct {
	cfg         *config.Config
	logger      *logger.Logger
	redisClient pkgredis.StreamClient
	schedule    cron.Schedule
	now         func() time.Time

	mu            sync.Mutex
	nextExecution time.Time
}

// NewSchedulerService creates a scheduler for cfg.Scheduler.Cron. The expression uses the
// five standard fields or a descriptor such as @daily.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, redisClient pkgredis.StreamClient) (SchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cfg.Scheduler.Cron)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron expression %q: %w", cfg.Scheduler.Cron, err)
	}

	s := &schedulerService{
		cfg:         cfg,
		logger:      log,
		redisClient: redisClient,
		schedule:    schedule,
		now:         time.Now,
	}
	s.nextExecution = schedule.Next(s.now())
	return s, nil
}

// Start checks the schedule every polling interval until ctx is done.
func (s *schedulerService) Start(ctx context.Context) {
	s.logger.Info("Scheduler service started",
		logger.StringField("cron", s.cfg.Scheduler.Cron),
		logger.IntField("watchlist", len(s.cfg.Scheduler.Watchlist)),
		logger.Field("next_execution", s.next()))

	ticker := time.NewTicker(s.cfg.Scheduler.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessSchedule(ctx)
		}
	}
}

// ProcessSchedule publishes the watchlist when the next execution time has passed.
func (s *schedulerService) ProcessSchedule(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	due := !now.Before(s.nextExecution)
	if due {
		s.nextExecution = s.schedule.Next(now)
	}
	next := s.nextExecution
	s.mu.Unlock()

	if !due {
		return
	}

	published := 0
	for _, symbol := range s.cfg.Scheduler.Watchlist {
		if _, err := s.Publish(ctx, symbol, s.cfg.Scheduler.NotifyUser); err != nil {
			continue
		}
		published++
	}

	s.logger.Info("Watchlist published",
		logger.IntField("published", published),
		logger.IntField("watchlist", len(s.cfg.Scheduler.Watchlist)),
		logger.Field("next_execution", next))
}

// Publish enqueues one analysis request and returns the stream message ID.
func (s *schedulerService) Publish(ctx context.Context, symbol string, notifyUser bool) (string, error) {
	stockCode, err := repository.NormalizeSymbol(symbol)
	if err != nil {
		s.logger.Error("Refusing to publish invalid symbol", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return "", err
	}

	taskPayload, err := json.Marshal(dto.StreamDataStockAnalyzer{StockCode: stockCode, NotifyUser: notifyUser})
	if err != nil {
		s.logger.Error("Failed to marshal task payload", logger.ErrorField(err), logger.StringField("stock_code", stockCode))
		return "", err
	}

	id, err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamStockAnalyzer,
		Values: map[string]interface{}{"payload": string(taskPayload)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
		Approx: true,
	}).Result()
	if err != nil {
		s.logger.Error("Failed to enqueue task", logger.ErrorField(err), logger.StringField("stock_code", stockCode))
		return "", err
	}

	s.logger.Info("Task published successfully", logger.StringField("stock_code", stockCode), logger.StringField("message_id", id))
	return id, nil
}

func (s *schedulerService) next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextExecution
}
