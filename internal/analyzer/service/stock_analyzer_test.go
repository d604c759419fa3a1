package service

import (
	"context"
	"errors"
	"testing"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockAnalyzer(stream *fakeStream, analysis *fakeAnalysis, bot *fakeNotifier) StockAnalyzerService {
	cfg := config.Default()
	return NewStockAnalyzerService(&cfg, logger.NewNop(), stream, analysis, bot)
}

func sampleResult() *dto.AnalysisResult {
	return &dto.AnalysisResult{
		Symbol:  "AAPL",
		Summary: dto.Summary{OverallScore: 61, RecommendationEN: "Buy", RecommendationZH: "买入"},
	}
}

func TestProcessTask_AnalyzesNotifiesAndAcks(t *testing.T) {
	stream := &fakeStream{readMessages: []redis.XMessage{payloadMessage("1-0", `{"stock_code":"AAPL","notify_user":true}`)}}
	analysis := &fakeAnalysis{result: sampleResult()}
	bot := &fakeNotifier{}

	newStockAnalyzer(stream, analysis, bot).ProcessTask(context.Background())

	assert.Equal(t, []string{"AAPL"}, analysis.calls)
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "Recommendation: *Buy*")
	assert.Equal(t, []string{"1-0"}, stream.acked)
	assert.Equal(t, []string{"1-0"}, stream.deleted)
}

func TestProcessTask_NoNotificationUnlessRequested(t *testing.T) {
	stream := &fakeStream{readMessages: []redis.XMessage{payloadMessage("1-0", `{"stock_code":"AAPL"}`)}}
	bot := &fakeNotifier{}

	newStockAnalyzer(stream, &fakeAnalysis{result: sampleResult()}, bot).ProcessTask(context.Background())

	assert.Empty(t, bot.messages)
	assert.Equal(t, []string{"1-0"}, stream.acked)
}

func TestProcessTask_NotifierFailureStillAcks(t *testing.T) {
	stream := &fakeStream{readMessages: []redis.XMessage{payloadMessage("1-0", `{"stock_code":"AAPL","notify_user":true}`)}}
	bot := &fakeNotifier{err: errors.New("telegram down")}

	newStockAnalyzer(stream, &fakeAnalysis{result: sampleResult()}, bot).ProcessTask(context.Background())

	assert.Equal(t, []string{"1-0"}, stream.acked)
}

func TestProcessTask_TransientFailureLeavesMessagePending(t *testing.T) {
	stream := &fakeStream{readMessages: []redis.XMessage{payloadMessage("1-0", `{"stock_code":"AAPL"}`)}}
	bot := &fakeNotifier{}

	newStockAnalyzer(stream, &fakeAnalysis{err: repository.ErrProviderUnavailable}, bot).ProcessTask(context.Background())

	assert.Empty(t, stream.acked)
	assert.Empty(t, bot.messages)
}

func TestProcessTask_PermanentFailureIsDroppedWithAlert(t *testing.T) {
	stream := &fakeStream{readMessages: []redis.XMessage{payloadMessage("1-0", `{"stock_code":"NOPE"}`)}}
	bot := &fakeNotifier{}

	newStockAnalyzer(stream, &fakeAnalysis{err: repository.ErrSymbolNotFound}, bot).ProcessTask(context.Background())

	assert.Equal(t, []string{"1-0"}, stream.acked)
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "[ERROR ALERT]")
	assert.Contains(t, bot.messages[0], `"stock_code":"NOPE"`)
}

func TestProcessTask_MalformedPayloadIsDropped(t *testing.T) {
	tests := []struct {
		name    string
		message redis.XMessage
	}{
		{"not json", payloadMessage("1-0", "{")},
		{"empty stock code", payloadMessage("1-0", `{"stock_code":""}`)},
		{"missing payload", redis.XMessage{ID: "1-0", Values: map[string]interface{}{"other": "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := &fakeStream{readMessages: []redis.XMessage{tt.message}}
			analysis := &fakeAnalysis{result: sampleResult()}

			newStockAnalyzer(stream, analysis, &fakeNotifier{}).ProcessTask(context.Background())

			assert.Empty(t, analysis.calls)
			assert.Equal(t, []string{"1-0"}, stream.acked)
		})
	}
}

func TestProcessTask_EmptyStream(t *testing.T) {
	stream := &fakeStream{}
	analysis := &fakeAnalysis{}

	newStockAnalyzer(stream, analysis, &fakeNotifier{}).ProcessTask(context.Background())

	assert.Empty(t, analysis.calls)
	assert.Empty(t, stream.acked)
}

func TestProcessRetries_RetriesPendingMessage(t *testing.T) {
	stream := &fakeStream{
		claimed: []redis.XMessage{payloadMessage("7-0", `{"stock_code":"MSFT"}`)},
		pending: []redis.XPendingExt{{ID: "7-0", RetryCount: 1}},
	}
	analysis := &fakeAnalysis{result: sampleResult()}

	newStockAnalyzer(stream, analysis, &fakeNotifier{}).ProcessRetries(context.Background())

	assert.Equal(t, []string{"MSFT"}, analysis.calls)
	assert.Equal(t, []string{"7-0"}, stream.acked)
}

func TestProcessRetries_RetryCountExceeded(t *testing.T) {
	stream := &fakeStream{
		claimed: []redis.XMessage{payloadMessage("7-0", `{"stock_code":"MSFT"}`)},
		pending: []redis.XPendingExt{{ID: "7-0", RetryCount: 3}},
	}
	analysis := &fakeAnalysis{result: sampleResult()}
	bot := &fakeNotifier{}

	newStockAnalyzer(stream, analysis, bot).ProcessRetries(context.Background())

	assert.Empty(t, analysis.calls)
	assert.Equal(t, []string{"7-0"}, stream.acked)
	assert.Equal(t, []string{"7-0"}, stream.deleted)
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "retry count exceeded for stock MSFT")
}

func TestProcessRetries_NothingClaimed(t *testing.T) {
	stream := &fakeStream{}
	analysis := &fakeAnalysis{}

	newStockAnalyzer(stream, analysis, &fakeNotifier{}).ProcessRetries(context.Background())

	assert.Empty(t, analysis.calls)
	assert.Empty(t, stream.acked)
}

func TestProcessRetries_MissingPendingEntry(t *testing.T) {
	stream := &fakeStream{claimed: []redis.XMessage{payloadMessage("7-0", `{"stock_code":"MSFT"}`)}}
	analysis := &fakeAnalysis{}

	newStockAnalyzer(stream, analysis, &fakeNotifier{}).ProcessRetries(context.Background())

	assert.Empty(t, analysis.calls)
	assert.Empty(t, stream.acked)
}
