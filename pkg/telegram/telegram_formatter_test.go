package telegram

import (
	"testing"
	"time"

	"golang-stock-analyst/internal/analyzer/dto"

	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 { return &v }

func TestFormatAnalysisSummary(t *testing.T) {
	result := &dto.AnalysisResult{
		Symbol:      "AAPL",
		CompanyName: "Apple Inc.",
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Results: []dto.QuestionResult{
			{Number: 1, Category: dto.CategoryFundamental, QuestionEN: "Is revenue growing?", Score: score(80)},
			{Number: 2, Category: dto.CategoryFundamental, QuestionEN: "Who are the major holders?"},
			{Number: 3, Category: dto.CategoryValuation, QuestionEN: "Is the P/E reasonable?", Score: score(30)},
			{Number: 4, Category: dto.CategoryValuation, QuestionEN: "Is the P/B reasonable?", Score: score(80)},
		},
		Summary: dto.Summary{
			OverallScore:     62.5,
			RecommendationEN: "Buy",
			RecommendationZH: "买入",
			Confidence:       "Medium",
			CategoryScores: map[dto.Category]float64{
				dto.CategoryFundamental: 80,
				dto.CategoryValuation:   55,
			},
		},
	}

	msg := FormatAnalysisSummary(result)

	assert.Contains(t, msg, "*Analysis for Apple Inc. (AAPL)*")
	assert.Contains(t, msg, "2024-03-01 09:30:00")
	assert.Contains(t, msg, "Recommendation: *Buy* / 买入")
	assert.Contains(t, msg, "Overall Score: *62.5*/100")
	assert.Contains(t, msg, "• Fundamental: 80.0\n• Valuation: 55.0\n")
	assert.NotContains(t, msg, "Dividend:")
	assert.Contains(t, msg, "Strongest: Q1 Is revenue growing? (80)")
	assert.Contains(t, msg, "Weakest: Q3 Is the P/E reasonable? (30)")
}

func TestFormatAnalysisSummary_NoScores(t *testing.T) {
	msg := FormatAnalysisSummary(&dto.AnalysisResult{Symbol: "XYZ", CompanyName: "XYZ"})

	assert.Contains(t, msg, "*Analysis for XYZ*")
	assert.NotContains(t, msg, "Strongest")
}

func TestFormatErrorAlertMessage(t *testing.T) {
	msg := FormatErrorAlertMessage(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "analyzer", "retry count exceeded", `{"stock_code":"AAPL"}`)

	assert.Contains(t, msg, "[ERROR ALERT]")
	assert.Contains(t, msg, "2024-03-01 09:30:00")
	assert.Contains(t, msg, "🔧 analyzer")
	assert.Contains(t, msg, "⚠️ retry count exceeded")
	assert.Contains(t, msg, `📄 Data: {"stock_code":"AAPL"}`)
}
