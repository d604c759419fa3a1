package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *dto.AnalysisResult {
	business := dto.NewUnscoredResult(dto.CategoryFundamental, "What does this company do?", "这家公司主要是做什么的？",
		dto.NewAnswer().Set("sector", "Technology"))
	business.Number = 1

	growth := dto.NewQuestionResult(dto.CategoryFundamental, "Is revenue growth stable?", "它的营收增长稳不稳？",
		dto.NewAnswer().Set("yoy_growth", "12.00%").Set("stability", "Healthy growth"), 70)
	growth.Number = 2

	dividend := dto.NewQuestionResult(dto.CategoryDividend, "Does this stock pay dividends?", "这只股票有没有分红？",
		dto.NewAnswer().Set("dividend_yield", "0.00%"), 45)
	dividend.Number = 3

	news := dto.NewQuestionResult(dto.CategorySentiment, "Any recent news?", "最近有没有新闻？",
		dto.NewAnswer().Set("news_count", 2).Set("recent_headlines", []string{"[2024-05-06] Acme beats", "[Recent] Acme opens plant"}), 70)
	news.Number = 4

	return &dto.AnalysisResult{
		RunID:       "run-1",
		Symbol:      "ACME",
		CompanyName: "Acme Corporation",
		GeneratedAt: time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC),
		Results:     []dto.QuestionResult{business, growth, dividend, news},
		Summary: dto.Summary{
			OverallScore:     63.25,
			RecommendationEN: "Buy",
			RecommendationZH: "买入",
			Confidence:       "Medium-High",
			CategoryScores: map[dto.Category]float64{
				dto.CategoryFundamental: 70,
				dto.CategoryValuation:   50,
				dto.CategoryDividend:    45,
				dto.CategoryTechnical:   50,
				dto.CategorySentiment:   70,
			},
		},
	}
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("░", 20)+"]", ScoreBar(0))
	assert.Equal(t, "["+strings.Repeat("█", 12)+strings.Repeat("░", 8)+"]", ScoreBar(63.25))
	assert.Equal(t, "["+strings.Repeat("█", 20)+"]", ScoreBar(100))
}

func TestScoreIndicator(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{90, "🟢 Excellent"},
		{75, "🟢 Excellent"},
		{60, "🔵 Good"},
		{40, "🟡 Fair"},
		{25, "🟠 Poor"},
		{10, "🔴 Very Poor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreIndicator(tt.score), "score %.0f", tt.score)
	}
}

func TestRender_Text(t *testing.T) {
	out, err := Render(sampleResult(), common.ReportFormatText)
	require.NoError(t, err)

	assert.Contains(t, out, "STOCK ANALYSIS REPORT | 股票分析报告")
	assert.Contains(t, out, "Symbol | 股票代码: ACME")
	assert.Contains(t, out, "Report Date | 报告日期: 2024-05-06 14:30:00")
	assert.Contains(t, out, "Overall Score | 综合评分: 63.25/100")
	assert.Contains(t, out, "Recommendation | 投资建议: Buy | 买入")
	assert.Contains(t, out, "FUNDAMENTAL ANALYSIS | 基本面分析 (Q1-Q2)")
	assert.Contains(t, out, "DIVIDEND ANALYSIS | 分红分析 (Q3)")
	assert.NotContains(t, out, "VALUATION ANALYSIS | 估值分析 (")
	assert.Contains(t, out, "Q2. Is revenue growth stable?")
	assert.Contains(t, out, "Score | 得分: 70/100 🔵 Good")
	assert.Contains(t, out, "      • Yoy Growth: 12.00%")
	assert.Contains(t, out, "      • Recent Headlines:\n        - [2024-05-06] Acme beats")
	assert.Contains(t, out, "      • News Count: 2")
	assert.Contains(t, out, "Good fundamentals with reasonable valuation.")
	assert.Contains(t, out, "本分析仅供参考，不构成投资建议。")

	// unscored questions carry no score line
	q1 := out[strings.Index(out, "Q1."):strings.Index(out, "Q2.")]
	assert.NotContains(t, q1, "Score | 得分")
}

func TestRender_Markdown(t *testing.T) {
	out, err := Render(sampleResult(), common.ReportFormatMarkdown)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Stock Analysis Report | 股票分析报告: ACME"))
	assert.Contains(t, out, "| FUNDAMENTAL ANALYSIS | 基本面分析 | 70.0 |")
	assert.Contains(t, out, "### SENTIMENT ANALYSIS | 情绪分析 (Q4)")
	assert.Contains(t, out, "- **Recent Headlines:**\n  - [2024-05-06] Acme beats")
	assert.Contains(t, out, "> **Risk Warning | 风险提示**")
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(sampleResult(), "pdf")
	assert.Error(t, err)
}

func TestDefaultFilename(t *testing.T) {
	at := time.Date(2024, 5, 6, 14, 30, 5, 0, time.UTC)
	assert.Equal(t, "ACME_analysis_20240506_143005.txt", DefaultFilename("ACME", common.ReportFormatText, at))
	assert.Equal(t, "ACME_analysis_20240506_143005.md", DefaultFilename("ACME", common.ReportFormatMarkdown, at))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "acme.md")

	written, err := Save(sampleResult(), common.ReportFormatMarkdown, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Final Recommendation | 最终建议")
}
