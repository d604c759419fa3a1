package report

import (
	"fmt"
	"strings"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/pkg/utils"
)

func renderMarkdown(r *dto.AnalysisResult) string {
	var sb strings.Builder
	s := r.Summary

	sb.WriteString(fmt.Sprintf("# Stock Analysis Report | 股票分析报告: %s\n\n", r.Symbol))
	sb.WriteString(fmt.Sprintf("- **Company | 公司名称:** %s\n", r.CompanyName))
	sb.WriteString(fmt.Sprintf("- **Report Date | 报告日期:** %s\n", utils.PrettyDate(r.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("- **Run ID:** `%s`\n\n", r.RunID))

	sb.WriteString("## Executive Summary | 执行摘要\n\n")
	sb.WriteString(fmt.Sprintf("**Overall Score | 综合评分:** %.2f/100 `%s`\n\n", s.OverallScore, ScoreBar(s.OverallScore)))
	sb.WriteString(fmt.Sprintf("**Recommendation | 投资建议:** %s | %s\n\n", s.RecommendationEN, s.RecommendationZH))
	sb.WriteString(fmt.Sprintf("**Confidence Level | 置信度:** %s\n\n", s.Confidence))
	sb.WriteString("| Category | 分类 | Score |\n|---|---|---|\n")
	for _, c := range dto.Categories {
		en, zh, _ := strings.Cut(categoryTitles[c], " | ")
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f |\n", en, zh, s.CategoryScores[c]))
	}

	sb.WriteString("\n## Detailed Analysis | 详细分析\n")
	for _, sec := range sections(r.Results) {
		sb.WriteString("\n### " + sec.title + "\n")
		for _, q := range sec.results {
			writeMarkdownQuestion(&sb, q)
		}
	}

	en, zh := Rationale(s.OverallScore)
	sb.WriteString("\n## Final Recommendation | 最终建议\n\n")
	sb.WriteString(fmt.Sprintf("**%s | %s**\n\n", s.RecommendationEN, s.RecommendationZH))
	sb.WriteString("- English: " + en + "\n")
	sb.WriteString("- 中文: " + zh + "\n\n")
	sb.WriteString("> **Risk Warning | 风险提示**\n>\n")
	for _, line := range append(append([]string{}, riskWarningEN...), riskWarningZH...) {
		sb.WriteString("> " + line + "\n")
	}

	return sb.String()
}

func writeMarkdownQuestion(sb *strings.Builder, q dto.QuestionResult) {
	sb.WriteString(fmt.Sprintf("\n#### Q%d. %s\n\n", q.Number, q.QuestionEN))
	sb.WriteString(fmt.Sprintf("_%s_\n\n", q.QuestionZH))
	if q.HasScore() {
		sb.WriteString(fmt.Sprintf("**Score | 得分:** %s/100 %s\n\n", formatScore(*q.Score), ScoreIndicator(*q.Score)))
	}
	for _, f := range q.Answer.Fields() {
		if items, ok := f.Value.([]string); ok {
			sb.WriteString(fmt.Sprintf("- **%s:**\n", fieldLabel(f.Key)))
			for _, item := range items {
				sb.WriteString(fmt.Sprintf("  - %s\n", item))
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("- **%s:** %s\n", fieldLabel(f.Key), formatValue(f.Value)))
	}
}
