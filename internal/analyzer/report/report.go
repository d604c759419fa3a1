// Package report renders an analysis result as a bilingual plain text or markdown document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ruleWidth = 100
	barBlocks = 20
)

// Disclaimer lines shown under the risk warning heading.
var (
	riskWarningEN = []string{
		"This analysis is for reference only and does not constitute investment advice.",
		"Please conduct your own due diligence and consult with financial professionals.",
	}
	riskWarningZH = []string{
		"本分析仅供参考，不构成投资建议。",
		"请进行自己的尽职调查并咨询专业人士。",
	}
)

var categoryTitles = map[dto.Category]string{
	dto.CategoryFundamental: "FUNDAMENTAL ANALYSIS | 基本面分析",
	dto.CategoryValuation:   "VALUATION ANALYSIS | 估值分析",
	dto.CategoryDividend:    "DIVIDEND ANALYSIS | 分红分析",
	dto.CategoryTechnical:   "TECHNICAL ANALYSIS | 技术分析",
	dto.CategorySentiment:   "SENTIMENT ANALYSIS | 情绪分析",
}

// Render returns the report for result in the given format ("text" or "markdown").
func Render(result *dto.AnalysisResult, format string) (string, error) {
	switch format {
	case common.ReportFormatText, "":
		return renderText(result), nil
	case common.ReportFormatMarkdown:
		return renderMarkdown(result), nil
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
}

// Save renders result and writes it to filename, or to DefaultFilename when filename is empty.
// It returns the path written.
func Save(result *dto.AnalysisResult, format string, filename string) (string, error) {
	content, err := Render(result, format)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = DefaultFilename(result.Symbol, format, result.GeneratedAt)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}

// DefaultFilename is <SYMBOL>_analysis_<YYYYMMDD_HHMMSS>.<txt|md>.
func DefaultFilename(symbol string, format string, at time.Time) string {
	ext := "txt"
	if format == common.ReportFormatMarkdown {
		ext = "md"
	}
	return fmt.Sprintf("%s_analysis_%s.%s", symbol, utils.FileTimestamp(at), ext)
}

// ScoreBar draws score as 20 blocks, one per 5 points.
func ScoreBar(score float64) string {
	filled := int(score / 5)
	filled = max(0, min(barBlocks, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barBlocks-filled) + "]"
}

// ScoreIndicator labels a question score.
func ScoreIndicator(score float64) string {
	switch {
	case score >= 75:
		return "🟢 Excellent"
	case score >= 60:
		return "🔵 Good"
	case score >= 40:
		return "🟡 Fair"
	case score >= 25:
		return "🟠 Poor"
	default:
		return "🔴 Very Poor"
	}
}

// Rationale explains the overall score in English and Chinese.
func Rationale(score float64) (string, string) {
	switch {
	case score >= 75:
		return "Strong fundamentals, attractive valuation, positive technical signals, and favorable sentiment.",
			"基本面强劲，估值吸引，技术信号积极，市场情绪良好。"
	case score >= 60:
		return "Good fundamentals with reasonable valuation. Consider buying on dips.",
			"基本面良好，估值合理。可考虑逢低买入。"
	case score >= 40:
		return "Mixed signals. Current position holders may hold, but new entry not recommended.",
			"信号混合。持仓者可继续持有，但不建议新进场。"
	case score >= 25:
		return "Weak fundamentals or unfavorable conditions. Consider reducing position.",
			"基本面疲弱或条件不利。考虑减仓。"
	default:
		return "Significant concerns identified. Consider exiting position.",
			"发现重大问题。考虑退出。"
	}
}

// section groups the questions of one category in report order.
type section struct {
	title   string
	results []dto.QuestionResult
}

func sections(results []dto.QuestionResult) []section {
	var out []section
	for _, c := range dto.Categories {
		s := section{title: categoryTitles[c]}
		for _, r := range results {
			if r.Category == c {
				s.results = append(s.results, r)
			}
		}
		if len(s.results) == 0 {
			continue
		}
		first, last := s.results[0].Number, s.results[len(s.results)-1].Number
		if first == last {
			s.title += fmt.Sprintf(" (Q%d)", first)
		} else {
			s.title += fmt.Sprintf(" (Q%d-Q%d)", first, last)
		}
		out = append(out, s)
	}
	return out
}

// fieldLabel turns "yoy_growth" into "Yoy Growth".
func fieldLabel(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatScore(x)
	default:
		return fmt.Sprint(x)
	}
}
