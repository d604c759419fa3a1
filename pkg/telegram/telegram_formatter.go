package telegram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/pkg/utils"
)

var categoryLabels = map[dto.Category]string{
	dto.CategoryFundamental: "Fundamental",
	dto.CategoryValuation:   "Valuation",
	dto.CategoryDividend:    "Dividend",
	dto.CategoryTechnical:   "Technical",
	dto.CategorySentiment:   "Sentiment",
}

// FormatAnalysisSummary renders the condensed notification for a finished run:
// the recommendation, the category scores and the strongest and weakest questions.
func FormatAnalysisSummary(result *dto.AnalysisResult) string {
	var sb strings.Builder

	name := result.Symbol
	if result.CompanyName != "" && result.CompanyName != result.Symbol {
		name = fmt.Sprintf("%s (%s)", result.CompanyName, result.Symbol)
	}

	sb.WriteString(fmt.Sprintf("📊 *Analysis for %s*\n", name))
	sb.WriteString(fmt.Sprintf("🕒 %s\n\n", utils.PrettyDate(result.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("🎯 Recommendation: *%s* / %s\n", result.Summary.RecommendationEN, result.Summary.RecommendationZH))
	sb.WriteString(fmt.Sprintf("📈 Overall Score: *%.1f*/100\n", result.Summary.OverallScore))
	sb.WriteString(fmt.Sprintf("📊 Confidence: %s\n\n", result.Summary.Confidence))

	sb.WriteString("🔧 *Category Scores:*\n")
	for _, c := range dto.Categories {
		score, ok := result.Summary.CategoryScores[c]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("• %s: %.1f\n", categoryLabels[c], score))
	}

	scored := scoredQuestions(result.Results)
	if len(scored) > 0 {
		best, worst := scored[0], scored[len(scored)-1]
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("✅ Strongest: Q%d %s (%.0f)\n", best.Number, best.QuestionEN, *best.Score))
		sb.WriteString(fmt.Sprintf("⚠️ Weakest: Q%d %s (%.0f)\n", worst.Number, worst.QuestionEN, *worst.Score))
	}

	sb.WriteString("\n_For reference only. Not investment advice._")
	return sb.String()
}

// scoredQuestions returns the scored results ordered by score, highest first.
// Ties keep question order.
func scoredQuestions(results []dto.QuestionResult) []dto.QuestionResult {
	var scored []dto.QuestionResult
	for _, r := range results {
		if r.HasScore() {
			scored = append(scored, r)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	return scored
}

func FormatErrorAlertMessage(time time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(time), errType, errMsg, data)
}
