package evaluator

import (
	"fmt"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

const (
	noDividendScore     = 45.0
	dividendTrendWindow = 5
)

// DividendEvaluator answers question 11.
type DividendEvaluator struct {
	log *logger.Logger
}

// NewDividendEvaluator creates a DividendEvaluator.
func NewDividendEvaluator(log *logger.Logger) *DividendEvaluator {
	return &DividendEvaluator{log: log}
}

// Category returns dto.CategoryDividend.
func (e *DividendEvaluator) Category() dto.Category {
	return dto.CategoryDividend
}

// Evaluate returns the single dividend result.
func (e *DividendEvaluator) Evaluate(s *entity.Snapshot) []dto.QuestionResult {
	return []dto.QuestionResult{e.dividend(s)}
}

// dividend applies, in order: yield band, payout adjustment, payment trend bonus.
// The order matters near the top of the scale because every step is clamped.
func (e *DividendEvaluator) dividend(s *entity.Snapshot) dto.QuestionResult {
	yield, _ := positive(s.Info.DividendYield)
	yield *= 100
	rate, _ := positive(s.Info.DividendRate)
	payout, _ := positive(s.Info.PayoutRatio)
	payout *= 100

	score := neutral
	var assessment string
	if yield > 0 || rate > 0 {
		switch {
		case yield > 4:
			score, assessment = 85, "High dividend yield - Attractive for income investors"
		case yield > 2:
			score, assessment = 70, "Good dividend yield"
		case yield > 0:
			score, assessment = 55, "Low dividend yield"
		default:
			assessment = "Dividend paid, yield not reported"
		}

		if payout > 0 {
			switch {
			case payout > 80:
				score = clamp(score - 15)
				assessment += " (high payout ratio - sustainability concern)"
			case payout < 60:
				score = clamp(score + 10)
				assessment += " (sustainable payout ratio)"
			}
		}
	} else {
		score, assessment = noDividendScore, "No dividend - Growth-focused company"
	}

	history := notAvailable
	if n := len(s.Dividends); n >= 2 {
		recent := s.Dividends[max(0, n-dividendTrendWindow):]
		trend := "stable/decreasing"
		if recent[len(recent)-1].Amount > recent[0].Amount {
			trend = "increasing"
			score = clamp(score + 5)
		}
		history = fmt.Sprintf("%d payments on record, %s trend", n, trend)
	} else if n == 1 {
		history = "1 payment on record"
	}

	answer := dto.NewAnswer().
		Set("dividend_yield", formatPercent(yield)).
		Set("dividend_rate", optionalPositive(s.Info.DividendRate, formatPrice)).
		Set("payout_ratio", optionalPercent(payout, payout > 0)).
		Set("five_year_avg_yield", optionalPositive(s.Info.FiveYearAvgDividendYield, formatPercent)).
		Set("dividend_history", history).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"Does this stock pay dividends? Is the dividend yield high?",
		"这只股票有没有分红？股息率高不高？",
		answer, score)
}
