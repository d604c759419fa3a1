package report

import (
	"fmt"
	"strings"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/pkg/utils"
)

func renderText(r *dto.AnalysisResult) string {
	var sb strings.Builder
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("─", ruleWidth)

	// Header
	sb.WriteString(heavy + "\n")
	sb.WriteString(strings.Repeat(" ", 24) + "STOCK ANALYSIS REPORT | 股票分析报告\n")
	sb.WriteString(heavy + "\n\n")
	sb.WriteString(fmt.Sprintf("Symbol | 股票代码: %s\n", r.Symbol))
	sb.WriteString(fmt.Sprintf("Company | 公司名称: %s\n", r.CompanyName))
	sb.WriteString(fmt.Sprintf("Report Date | 报告日期: %s\n", utils.PrettyDate(r.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("Run ID: %s\n\n", r.RunID))

	// Executive summary
	s := r.Summary
	sb.WriteString(light + "\nEXECUTIVE SUMMARY | 执行摘要\n" + light + "\n\n")
	sb.WriteString(fmt.Sprintf("Overall Score | 综合评分: %.2f/100\n", s.OverallScore))
	sb.WriteString(ScoreBar(s.OverallScore) + "\n\n")
	sb.WriteString(fmt.Sprintf("Recommendation | 投资建议: %s | %s\n", s.RecommendationEN, s.RecommendationZH))
	sb.WriteString(fmt.Sprintf("Confidence Level | 置信度: %s\n\n", s.Confidence))
	sb.WriteString("Category Breakdown | 分类评分:\n")
	for _, c := range dto.Categories {
		sb.WriteString(fmt.Sprintf("  • %-40s %5.1f/100\n", categoryTitles[c]+":", s.CategoryScores[c]))
	}

	// Detailed analysis
	sb.WriteString("\n" + light + "\nDETAILED ANALYSIS | 详细分析\n" + light + "\n")
	for _, sec := range sections(r.Results) {
		sb.WriteString("\n" + light + "\n" + sec.title + "\n" + light + "\n")
		for _, q := range sec.results {
			writeTextQuestion(&sb, q)
		}
	}

	// Recommendation
	en, zh := Rationale(s.OverallScore)
	sb.WriteString("\n" + light + "\nFINAL RECOMMENDATION | 最终建议\n" + light + "\n\n")
	sb.WriteString(fmt.Sprintf("Recommendation | 建议: %s | %s\n\n", s.RecommendationEN, s.RecommendationZH))
	sb.WriteString("Rationale | 理由:\n")
	sb.WriteString("  English: " + en + "\n")
	sb.WriteString("  中文: " + zh + "\n\n")
	sb.WriteString("Risk Warning | 风险提示:\n")
	for _, line := range riskWarningEN {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n")
	for _, line := range riskWarningZH {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n" + heavy + "\n")

	// Footer
	sb.WriteString("\nData sources: Yahoo Finance, public market data\n")
	sb.WriteString("Analysis methodology: Multi-factor rule-based scoring\n\n")
	sb.WriteString(heavy + "\n")

	return sb.String()
}

func writeTextQuestion(sb *strings.Builder, q dto.QuestionResult) {
	sb.WriteString(fmt.Sprintf("\nQ%d. %s\n", q.Number, q.QuestionEN))
	sb.WriteString(fmt.Sprintf("    %s\n", q.QuestionZH))
	if q.HasScore() {
		sb.WriteString(fmt.Sprintf("    Score | 得分: %s/100 %s\n", formatScore(*q.Score), ScoreIndicator(*q.Score)))
	}
	sb.WriteString("\n    Answer | 回答:\n")
	for _, f := range q.Answer.Fields() {
		if items, ok := f.Value.([]string); ok {
			sb.WriteString(fmt.Sprintf("      • %s:\n", fieldLabel(f.Key)))
			for _, item := range items {
				sb.WriteString(fmt.Sprintf("        - %s\n", item))
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("      • %s: %s\n", fieldLabel(f.Key), formatValue(f.Value)))
	}
}
