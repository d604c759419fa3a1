package evaluator

import (
	"testing"

	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFundamentalEvaluator_MalformedHoldersCountAsZero(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := NewFundamentalEvaluator(&logger.Logger{Logger: zap.New(core)})

	r := e.management(&entity.Snapshot{
		Symbol: "ACME",
		MajorHolders: []entity.HolderRow{
			{Value: "n/a", Label: "% of Shares Held by All Insider"},
			{Value: "72.5%", Label: "% of Shares Held by Institutions"},
		},
	})

	assert.Equal(t, 60.0, scoreOf(t, r))
	assert.Equal(t, "0.00%", r.Answer.String("insider_ownership"))
	assert.Equal(t, "72.50%", r.Answer.String("institutional_ownership"))

	entries := logs.FilterMessage("Failed to parse holder percentage").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "n/a", entries[0].ContextMap()["value"])
	assert.Equal(t, "ACME", entries[0].ContextMap()["symbol"])
}

func TestFundamentalEvaluator_SingleHolderRowIsIgnored(t *testing.T) {
	r := NewFundamentalEvaluator(logger.NewNop()).management(&entity.Snapshot{
		MajorHolders: []entity.HolderRow{{Value: "20%"}},
	})

	assert.Equal(t, 50.0, scoreOf(t, r))
	assert.Equal(t, "Moderate ownership structure", r.Answer.String("assessment"))
}

func TestFundamentalEvaluator_RevenueGrowthBands(t *testing.T) {
	e := NewFundamentalEvaluator(logger.NewNop())

	tests := []struct {
		growth float64
		want   float64
	}{
		{0.25, 85},
		{0.15, 70},
		{0.05, 55},
		{0, 40},
		{-0.03, 40},
		{-0.10, 25},
	}
	for _, tt := range tests {
		r := e.revenueGrowth(&entity.Snapshot{Info: entity.Info{RevenueGrowth: &tt.growth}})
		assert.Equal(t, tt.want, scoreOf(t, r), "growth %.2f", tt.growth)
	}
}
