package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"
	pkgredis "golang-stock-analyst/pkg/redis"
	"golang-stock-analyst/pkg/telegram"

	"github.com/redis/go-redis/v9"
)

// StockAnalyzerService consumes analysis requests from the analyzer stream.
type StockAnalyzerService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
}

type stockAnalyzerService struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient pkgredis.StreamClient
	analysis    AnalysisService
	telegramBot telegram.Notifier
	now         func() time.Time
}

func NewStockAnalyzerService(cfg *config.Config, log *logger.Logger,
	redisClient pkgredis.StreamClient,
	analysis AnalysisService,
	telegramBot telegram.Notifier) StockAnalyzerService {
	return &stockAnalyzerService{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		analysis:    analysis,
		telegramBot: telegramBot,
		now:         time.Now,
	}
}

func (s *stockAnalyzerService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamStockAnalyzer, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	streamData, err := decodePayload(message)
	if err != nil {
		// A message that can never be decoded would otherwise be retried forever.
		s.log.Error("Dropping malformed stock analyzer task", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		_ = s.AckNDel(ctx, common.RedisStreamStockAnalyzer, message.ID)
		return
	}

	s.log.Debug("Processing stock analyzer task", logger.StringField("stock_code", streamData.StockCode))

	if err := s.handle(ctx, message.ID, streamData); err != nil {
		return
	}

	s.log.Debug("Stock analyzer task processed successfully", logger.StringField("stock_code", streamData.StockCode))
}

func (s *stockAnalyzerService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamStockAnalyzer,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Analyzer.RedisStreamStockAnalyzerMaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to claim stock analyzer task on retry", logger.ErrorField(err))
		return
	}

	if len(msgs) == 0 {
		s.log.Debug("Retry No pending messages found", logger.StringField("stream", common.RedisStreamStockAnalyzer))
		return
	}

	msg := msgs[0]
	s.log.Info("Found pending messages", logger.StringField("stream", common.RedisStreamStockAnalyzer), logger.StringField("message_id", msg.ID))

	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamStockAnalyzer,
		Group:  common.RedisStreamGroup,
		Start:  msg.ID,
		End:    msg.ID,
		Count:  1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}

	if len(pendingInfo) == 0 {
		s.log.Warn("pending msg not found, but exist on xautoclaim",
			logger.StringField("stream", common.RedisStreamStockAnalyzer),
			logger.StringField("message_id", msg.ID))
		return
	}

	streamData, err := decodePayload(msg)
	if err != nil {
		s.log.Error("Dropping malformed stock analyzer task", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		_ = s.AckNDel(ctx, common.RedisStreamStockAnalyzer, msg.ID)
		return
	}

	if pendingInfo[0].RetryCount >= int64(s.cfg.Analyzer.RedisStreamStockAnalyzerMaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("stream", common.RedisStreamStockAnalyzer),
			logger.StringField("message_id", msg.ID),
			logger.StringField("stock_code", streamData.StockCode),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Analyzer.RedisStreamStockAnalyzerMaxRetry),
		)
		s.alert("Stock analyzer retry exceeded",
			fmt.Sprintf("Stock analyzer task retry count exceeded for stock %s", streamData.StockCode), streamData)
		_ = s.AckNDel(ctx, common.RedisStreamStockAnalyzer, msg.ID)
		return
	}

	if err := s.handle(ctx, msg.ID, streamData); err != nil {
		return
	}

	s.log.Info("Retry Stock analyzer task processed successfully", logger.StringField("stock_code", streamData.StockCode))
}

// handle runs the analysis for one message and acknowledges it unless the failure is worth retrying.
// The returned error is non-nil whenever the message did not complete successfully.
func (s *stockAnalyzerService) handle(ctx context.Context, messageID string, streamData *dto.StreamDataStockAnalyzer) error {
	result, err := s.analysis.Analyze(ctx, streamData.StockCode)
	if err != nil {
		s.log.Error("Failed to analyze stock", logger.ErrorField(err), logger.StringField("message_id", messageID), logger.StringField("stock_code", streamData.StockCode))
		if isPermanent(err) {
			s.alert("Stock analyzer failed", err.Error(), streamData)
			_ = s.AckNDel(ctx, common.RedisStreamStockAnalyzer, messageID)
		}
		return err
	}

	if streamData.NotifyUser {
		if err := s.telegramBot.SendMessage(telegram.FormatAnalysisSummary(result)); err != nil {
			s.log.Error("Failed to send telegram analysis summary", logger.ErrorField(err), logger.StringField("stock_code", streamData.StockCode))
		}
	}

	if err := s.AckNDel(ctx, common.RedisStreamStockAnalyzer, messageID); err != nil {
		return err
	}
	return nil
}

func (s *stockAnalyzerService) alert(errType, errMsg string, streamData *dto.StreamDataStockAnalyzer) {
	data, _ := json.Marshal(streamData)
	if err := s.telegramBot.SendMessage(telegram.FormatErrorAlertMessage(s.now(), errType, errMsg, string(data))); err != nil {
		s.log.Error("Failed to send telegram error alert", logger.ErrorField(err), logger.StringField("stock_code", streamData.StockCode))
	}
}

func (s *stockAnalyzerService) AckNDel(ctx context.Context, streamName string, messageID string) error {
	if err := s.redisClient.XAck(ctx, streamName, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.log.Error("Failed to acknowledge stock analyzer task", logger.ErrorField(err), logger.StringField("message_id", messageID))
		return err
	}
	if err := s.redisClient.XDel(ctx, streamName, messageID).Err(); err != nil {
		s.log.Error("Failed to delete stock analyzer task", logger.ErrorField(err), logger.StringField("message_id", messageID))
		return err
	}
	return nil
}

// isPermanent reports whether retrying the request can never succeed.
func isPermanent(err error) bool {
	return errors.Is(err, repository.ErrInvalidSymbol) || errors.Is(err, repository.ErrSymbolNotFound)
}

// decodePayload reads the JSON task carried in the 'payload' field of a stream message.
func decodePayload(message redis.XMessage) (*dto.StreamDataStockAnalyzer, error) {
	taskData, ok := message.Values["payload"].(string)
	if !ok {
		return nil, errors.New("field 'payload' not found or not a string in stream message")
	}

	var streamData dto.StreamDataStockAnalyzer
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task data: %w", err)
	}
	if streamData.StockCode == "" {
		return nil, errors.New("stock_code is empty")
	}
	return &streamData, nil
}
