package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduler(t *testing.T, stream *fakeStream, now time.Time, watchlist ...string) *schedulerService {
	t.Helper()
	cfg := config.Default()
	cfg.Scheduler.Enabled = true
	cfg.Scheduler.Cron = "0 22 * * 1-5"
	cfg.Scheduler.Watchlist = watchlist

	svc, err := NewSchedulerService(&cfg, logger.NewNop(), stream)
	require.NoError(t, err)

	s := svc.(*schedulerService)
	s.now = func() time.Time { return now }
	s.nextExecution = s.schedule.Next(now)
	return s
}

func decodeAdded(t *testing.T, args *redis.XAddArgs) dto.StreamDataStockAnalyzer {
	t.Helper()
	values, ok := args.Values.(map[string]interface{})
	require.True(t, ok)
	var data dto.StreamDataStockAnalyzer
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &data))
	return data
}

func TestNewSchedulerService_InvalidCron(t *testing.T) {
	cfg := config.Default()
	cfg.Scheduler.Cron = "not a cron"

	_, err := NewSchedulerService(&cfg, logger.NewNop(), &fakeStream{})
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	stream := &fakeStream{}
	s := newScheduler(t, stream, time.Now())

	id, err := s.Publish(context.Background(), " aapl ", true)
	require.NoError(t, err)
	assert.Equal(t, "1-0", id)

	require.Len(t, stream.added, 1)
	assert.Equal(t, common.RedisStreamStockAnalyzer, stream.added[0].Stream)
	assert.Equal(t, int64(1000), stream.added[0].MaxLen)
	assert.Equal(t, dto.StreamDataStockAnalyzer{StockCode: "AAPL", NotifyUser: true}, decodeAdded(t, stream.added[0]))
}

func TestPublish_Errors(t *testing.T) {
	s := newScheduler(t, &fakeStream{}, time.Now())
	_, err := s.Publish(context.Background(), "  ", false)
	assert.ErrorIs(t, err, repository.ErrInvalidSymbol)

	s = newScheduler(t, &fakeStream{addErr: errors.New("redis down")}, time.Now())
	_, err = s.Publish(context.Background(), "AAPL", false)
	assert.EqualError(t, err, "redis down")
}

func TestProcessSchedule_PublishesWatchlistWhenDue(t *testing.T) {
	// Monday 2024-03-04 21:00 UTC; the next run is 22:00 the same day.
	start := time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC)
	stream := &fakeStream{}
	s := newScheduler(t, stream, start, "AAPL", "msft", "")

	s.ProcessSchedule(context.Background())
	assert.Empty(t, stream.added)

	s.now = func() time.Time { return start.Add(time.Hour) }
	s.ProcessSchedule(context.Background())

	require.Len(t, stream.added, 2)
	assert.Equal(t, "AAPL", decodeAdded(t, stream.added[0]).StockCode)
	assert.Equal(t, "MSFT", decodeAdded(t, stream.added[1]).StockCode)
	assert.True(t, decodeAdded(t, stream.added[0]).NotifyUser)
	assert.Equal(t, time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC), s.next())

	// Same tick again does not publish twice.
	s.ProcessSchedule(context.Background())
	assert.Len(t, stream.added, 2)
}
