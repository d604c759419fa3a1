package evaluator

import (
	"fmt"
	"math"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

// ValuationEvaluator answers questions 7-10: multiples, 52-week range position,
// peer multiples and the earnings outlook.
type ValuationEvaluator struct {
	log *logger.Logger
}

// NewValuationEvaluator creates a ValuationEvaluator.
func NewValuationEvaluator(log *logger.Logger) *ValuationEvaluator {
	return &ValuationEvaluator{log: log}
}

// Category returns dto.CategoryValuation.
func (e *ValuationEvaluator) Category() dto.Category {
	return dto.CategoryValuation
}

// Evaluate returns the four valuation results in question order.
func (e *ValuationEvaluator) Evaluate(s *entity.Snapshot) []dto.QuestionResult {
	return []dto.QuestionResult{
		e.peAndPB(s),
		e.historicalRange(s),
		e.peerMultiples(s),
		e.earningsForecast(s),
	}
}

func (e *ValuationEvaluator) peAndPB(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	assessment := "Fair valuation"

	if pe, ok := positive(s.Info.TrailingPE); ok {
		switch {
		case pe < 15:
			score, assessment = 80, "Undervalued based on P/E"
		case pe < 25:
			score, assessment = 60, "Fairly valued"
		case pe < 40:
			score, assessment = 40, "Moderately overvalued"
		default:
			score, assessment = 25, "Highly overvalued"
		}
	}

	if pb, ok := positive(s.Info.PriceToBook); ok {
		switch {
		case pb < 1:
			score = clamp(score + 15)
		case pb > 5:
			score = clamp(score - 10)
		}
	}

	sector := s.Info.Sector
	if sector == "" {
		sector = "Unknown"
	}

	answer := dto.NewAnswer().
		Set("pe_ratio", optionalPositive(s.Info.TrailingPE, formatRatio)).
		Set("pb_ratio", optionalPositive(s.Info.PriceToBook, formatRatio)).
		Set("forward_pe", optionalPositive(s.Info.ForwardPE, formatRatio)).
		Set("sector", sector).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"How do P/E and P/B ratios compare to industry average?",
		"这只股票的市盈率、市净率相比行业平均如何？",
		answer, score)
}

func (e *ValuationEvaluator) historicalRange(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	position := noDataMessage + " - 52-week range unavailable"

	price, hasPrice := positive(s.Info.CurrentPrice)
	high, hasHigh := positive(s.Info.FiftyTwoWeekHigh)
	low, hasLow := positive(s.Info.FiftyTwoWeekLow)

	if hasPrice && hasHigh && hasLow && high > low {
		pct := (price - low) / (high - low) * 100
		switch {
		case pct < 25:
			score = 85
			position = fmt.Sprintf("Near 52-week low (%.1f%% of range) - Potentially undervalued", pct)
		case pct < 50:
			score = 65
			position = fmt.Sprintf("Below mid-range (%.1f%% of range) - Fair value", pct)
		case pct < 75:
			score = 45
			position = fmt.Sprintf("Above mid-range (%.1f%% of range) - Elevated", pct)
		default:
			score = 25
			position = fmt.Sprintf("Near 52-week high (%.1f%% of range) - Potentially overvalued", pct)
		}
	}

	answer := dto.NewAnswer().
		Set("current_price", optionalPositive(s.Info.CurrentPrice, formatPrice)).
		Set("52_week_high", optionalPositive(s.Info.FiftyTwoWeekHigh, formatPrice)).
		Set("52_week_low", optionalPositive(s.Info.FiftyTwoWeekLow, formatPrice)).
		Set("position", position)

	return dto.NewQuestionResult(e.Category(),
		"Is it historically overvalued or undervalued? Where in historical range?",
		"现在是历史高估还是低估阶段？估值在历史区间哪一档？",
		answer, score)
}

func (e *ValuationEvaluator) peerMultiples(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	assessment := "Average valuation metrics"

	if ps, ok := positive(s.Info.PriceToSales); ok {
		switch {
		case ps < 2:
			score, assessment = 75, "Attractive P/S ratio"
		case ps < 5:
			score, assessment = 55, "Moderate P/S ratio"
		default:
			score, assessment = 35, "High P/S ratio"
		}
	}

	if peg, ok := positive(s.Info.PEGRatio); ok {
		switch {
		case peg < 1:
			score = clamp(score + 15)
		case peg > 2:
			score = clamp(score - 10)
		}
	}

	evEBITDA := notAvailable
	if ebitda, ok := positive(s.Info.EBITDA); ok && s.Info.EnterpriseValue != nil && *s.Info.EnterpriseValue != 0 {
		evEBITDA = formatRatio(*s.Info.EnterpriseValue / ebitda)
	}

	answer := dto.NewAnswer().
		Set("ps_ratio", optionalPositive(s.Info.PriceToSales, formatRatio)).
		Set("peg_ratio", optionalPositive(s.Info.PEGRatio, formatRatio)).
		Set("ev_ebitda", evEBITDA).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"How do P/S, P/CF ratios rank among peers?",
		"市销率、市现率等估值指标在同行中排第几？",
		answer, score)
}

func (e *ValuationEvaluator) earningsForecast(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	assessment := "Fair alignment"

	forward, hasForward := positive(s.Info.ForwardPE)
	trailing, hasTrailing := positive(s.Info.TrailingPE)
	if hasForward && hasTrailing {
		change := (forward - trailing) / trailing * 100
		switch {
		case change < -10:
			score, assessment = 75, "Improving earnings outlook - Forward P/E lower than trailing"
		case change < 10:
			score, assessment = 55, "Stable earnings outlook"
		default:
			score, assessment = 35, "Deteriorating earnings outlook"
		}
	}

	target, hasTarget := positive(s.Info.TargetMeanPrice)
	price, hasPrice := positive(s.Info.CurrentPrice)
	if hasTarget && hasPrice {
		upside := (target - price) / price * 100
		switch {
		case upside > 20:
			score = clamp(score + 20)
			assessment += fmt.Sprintf(" with %.1f%% upside to target", upside)
		case upside < -10:
			score = clamp(score - 15)
			assessment += fmt.Sprintf(" with %.1f%% downside to target", math.Abs(upside))
		}
	}

	earningsGrowth := notAvailable
	if g, ok := percent(s.Info.EarningsGrowth); ok && g != 0 {
		earningsGrowth = formatPercent(g)
	}

	answer := dto.NewAnswer().
		Set("forward_pe", optionalPositive(s.Info.ForwardPE, formatRatio)).
		Set("trailing_pe", optionalPositive(s.Info.TrailingPE, formatRatio)).
		Set("earnings_growth", earningsGrowth).
		Set("target_price", optionalPositive(s.Info.TargetMeanPrice, formatPrice)).
		Set("current_price", optionalPositive(s.Info.CurrentPrice, formatPrice)).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"Do future earnings forecasts match current price?",
		"未来的盈利预测和当前价格匹配吗？",
		answer, score)
}
