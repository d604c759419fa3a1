package evaluator

import (
	"fmt"
	"strings"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	newsWindow       = 5
	socialWindow     = 10
	riskWindow       = 10
	headlinesShown   = 3
	ratingsWindow    = 5
	ratingsShown     = 3
	riskEventPenalty = 15
	highRiskPenalty  = 10
	highRiskScore    = 7
	noRiskScore      = 60
)

var (
	newsPositiveKeywords   = []string{"beat", "exceed", "growth", "profit", "gain", "rise", "upgrade", "buy", "strong"}
	newsNegativeKeywords   = []string{"miss", "decline", "loss", "fall", "downgrade", "sell", "weak", "concern"}
	socialPositiveKeywords = []string{"bullish", "optimistic", "positive", "confident", "strong buy"}
	socialNegativeKeywords = []string{"bearish", "pessimistic", "negative", "concerned", "sell"}
	riskKeywords           = []string{
		"investigation", "lawsuit", "regulatory", "scandal", "fraud", "recall",
		"bankruptcy", "default", "suspension", "delisting", "warning", "violation",
	}
)

// SentimentEvaluator answers questions 17-20: news, analysts, social tone and risk events.
type SentimentEvaluator struct {
	log *logger.Logger
}

// NewSentimentEvaluator creates a SentimentEvaluator.
func NewSentimentEvaluator(log *logger.Logger) *SentimentEvaluator {
	return &SentimentEvaluator{log: log}
}

// Category returns dto.CategorySentiment.
func (e *SentimentEvaluator) Category() dto.Category {
	return dto.CategorySentiment
}

// Evaluate returns the four sentiment results in question order.
func (e *SentimentEvaluator) Evaluate(s *entity.Snapshot) []dto.QuestionResult {
	return []dto.QuestionResult{
		e.news(s),
		e.analysts(s),
		e.social(s),
		e.riskEvents(s),
	}
}

// joinedTitles lowercases and joins the first n headlines.
func joinedTitles(news []entity.NewsItem, n int) string {
	titles := make([]string, 0, n)
	for i, item := range news {
		if i == n {
			break
		}
		titles = append(titles, strings.ToLower(item.Title))
	}
	return strings.Join(titles, " ")
}

// countKeywords counts how many keywords occur at least once in text.
func countKeywords(text string, keywords []string) int {
	count := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			count++
		}
	}
	return count
}

const (
	newsQuestionEN = "Are there any recent major news or announcements about this company?"
	newsQuestionZH = "最近有没有和这家公司相关的重大新闻或公告？"
)

func (e *SentimentEvaluator) news(s *entity.Snapshot) dto.QuestionResult {
	if len(s.News) == 0 {
		return dto.NewQuestionResult(e.Category(), newsQuestionEN, newsQuestionZH,
			dto.NewAnswer().
				Set("news_count", 0).
				Set("recent_headlines", []string{"No recent news available"}).
				Set("sentiment", "No data"),
			neutral)
	}

	var headlines []string
	for i, item := range s.News {
		if i == headlinesShown {
			break
		}
		headlines = append(headlines, fmt.Sprintf("[%s] %s", utils.DateOrRecent(item.PublishedAt), item.Title))
	}

	text := joinedTitles(s.News, newsWindow)
	positives := countKeywords(text, newsPositiveKeywords)
	negatives := countKeywords(text, newsNegativeKeywords)

	score, sentiment := neutral, "Neutral news sentiment"
	switch {
	case positives > negatives:
		score, sentiment = 70, "Positive news sentiment"
	case negatives > positives:
		score, sentiment = 35, "Negative news sentiment"
	}

	answer := dto.NewAnswer().
		Set("news_count", len(s.News)).
		Set("recent_headlines", headlines).
		Set("sentiment", sentiment)

	return dto.NewQuestionResult(e.Category(), newsQuestionEN, newsQuestionZH, answer, score)
}

func (e *SentimentEvaluator) analysts(s *entity.Snapshot) dto.QuestionResult {
	info := s.Info
	score, sentiment := neutral, "Neutral"

	var upside float64
	target, hasTarget := positive(info.TargetMeanPrice)
	price, hasPrice := positive(info.CurrentPrice)
	if hasTarget && hasPrice {
		upside = (target - price) / price * 100
		switch {
		case upside > 20:
			score, sentiment = 85, "Strong Buy - Significant upside"
		case upside > 10:
			score, sentiment = 70, "Buy - Moderate upside"
		case upside > 0:
			score, sentiment = 55, "Hold - Limited upside"
		case upside > -10:
			score, sentiment = 40, "Hold - Limited downside"
		default:
			score, sentiment = 25, "Sell - Significant downside"
		}
	}

	key := info.RecommendationKey
	if key == "" {
		key = "none"
	}
	switch key {
	case "buy", "strong_buy":
		score = clamp(score + 10)
	case "sell", "strong_sell":
		score = clamp(score - 10)
	}

	var ratings []string
	for i, r := range s.Recommendations {
		if i == ratingsWindow {
			break
		}
		ratings = append(ratings, fmt.Sprintf("%s: %s", orDefault(r.Firm, "Unknown"), orNA(r.ToGrade)))
	}
	if len(ratings) == 0 {
		ratings = []string{"No recent ratings available"}
	} else if len(ratings) > ratingsShown {
		ratings = ratings[:ratingsShown]
	}

	targetRange := notAvailable
	low, hasLow := positive(info.TargetLowPrice)
	high, hasHigh := positive(info.TargetHighPrice)
	if hasLow && hasHigh {
		targetRange = fmt.Sprintf("%s - %s", formatPrice(low), formatPrice(high))
	}

	upsideText := notAvailable
	if upside != 0 {
		upsideText = formatSignedPercent(upside)
	}

	analystCount := 0
	if info.NumberOfAnalystOpinions != nil {
		analystCount = *info.NumberOfAnalystOpinions
	}

	answer := dto.NewAnswer().
		Set("consensus_rating", cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))).
		Set("target_mean_price", optionalPositive(info.TargetMeanPrice, formatPrice)).
		Set("target_range", targetRange).
		Set("current_price", optional(info.CurrentPrice, formatPrice)).
		Set("upside_potential", upsideText).
		Set("number_of_analysts", analystCount).
		Set("sentiment", sentiment).
		Set("recent_ratings", ratings)

	return dto.NewQuestionResult(e.Category(),
		"Are analysts bullish or bearish? What is the consensus target price?",
		"分析师是看多还是看空这家公司？一致目标价是多少？",
		answer, score)
}

func (e *SentimentEvaluator) social(s *entity.Snapshot) dto.QuestionResult {
	score, sentiment := neutral, "Neutral"

	if len(s.News) > 0 {
		text := joinedTitles(s.News, socialWindow)
		positives := countKeywords(text, socialPositiveKeywords)
		negatives := countKeywords(text, socialNegativeKeywords)

		switch {
		case positives > negatives:
			score, sentiment = 65, "Leaning optimistic based on news tone"
		case negatives > positives:
			score, sentiment = 40, "Leaning pessimistic based on news tone"
		default:
			sentiment = "Mixed/Neutral sentiment"
		}
	}

	answer := dto.NewAnswer().
		Set("sentiment", sentiment).
		Set("note", "Social platforms are not queried. This assessment uses news tone as a proxy.").
		Set("recommendation", "For detailed social sentiment, review StockTwits, Reddit or X discussion directly.")

	return dto.NewQuestionResult(e.Category(),
		"Is social media/forum sentiment optimistic or pessimistic?",
		"社交媒体、股吧、论坛对这只股票情绪偏向乐观还是悲观？",
		answer, score)
}

func (e *SentimentEvaluator) riskEvents(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	var factors []string

	for i, item := range s.News {
		if i == riskWindow {
			break
		}
		title := strings.ToLower(item.Title)
		for _, k := range riskKeywords {
			if strings.Contains(title, k) {
				factors = append(factors, "⚠️ "+item.Title)
				score = clamp(score - riskEventPenalty)
				break
			}
		}
	}

	overallRisk := notAvailable
	if risk, ok := positive(s.Info.OverallRisk); ok {
		overallRisk = fmt.Sprintf("%g/10", risk)
		if risk > highRiskScore {
			factors = append(factors, fmt.Sprintf("High overall risk score: %g/10", risk))
			score = clamp(score - highRiskPenalty)
		} else {
			factors = append(factors, fmt.Sprintf("Moderate overall risk score: %g/10", risk))
		}
	}

	if len(factors) == 0 {
		if len(s.News) > 0 {
			factors = append(factors, "No significant risk events detected in recent news")
			score = noRiskScore
		} else {
			factors = append(factors, "No recent news or risk metrics available")
		}
	}

	assessment := "Low risk"
	switch {
	case score < 40:
		assessment = "High risk"
	case score < 55:
		assessment = "Moderate risk"
	}

	answer := dto.NewAnswer().
		Set("risk_factors", factors).
		Set("overall_risk_score", overallRisk).
		Set("assessment", assessment).
		Set("note", "Risk assessment based on news analysis and company risk metrics")

	return dto.NewQuestionResult(e.Category(),
		"Are there any recent unexpected events, regulatory policies, or industry black swans?",
		"近期有没有突发事件、监管政策或行业黑天鹅？",
		answer, score)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
