package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

// FundamentalEvaluator answers questions 1-6: business, profitability, growth,
// balance sheet, cash flow and ownership.
type FundamentalEvaluator struct {
	log *logger.Logger
}

// NewFundamentalEvaluator creates a FundamentalEvaluator.
func NewFundamentalEvaluator(log *logger.Logger) *FundamentalEvaluator {
	return &FundamentalEvaluator{log: log}
}

// Category returns dto.CategoryFundamental.
func (e *FundamentalEvaluator) Category() dto.Category {
	return dto.CategoryFundamental
}

// Evaluate returns the six fundamental results in question order.
func (e *FundamentalEvaluator) Evaluate(s *entity.Snapshot) []dto.QuestionResult {
	return []dto.QuestionResult{
		e.business(s),
		e.profitability(s),
		e.revenueGrowth(s),
		e.balanceSheet(s),
		e.cashFlow(s),
		e.management(s),
	}
}

func (e *FundamentalEvaluator) business(s *entity.Snapshot) dto.QuestionResult {
	answer := dto.NewAnswer().
		Set("sector", orNA(s.Info.Sector)).
		Set("industry", orNA(s.Info.Industry)).
		Set("business_summary", orNA(s.Info.BusinessSummary)).
		Set("company_name", s.CompanyName())

	return dto.NewUnscoredResult(e.Category(),
		"What does this company do? What are its core products/services?",
		"这家公司主要是做什么的？核心产品或服务是什么？",
		answer)
}

// historicalGrossMargins returns gross margin percentages, newest first, skipping incomplete periods.
func historicalGrossMargins(periods []entity.IncomePeriod) []float64 {
	var margins []float64
	for _, p := range periods {
		if p.GrossProfit == nil || p.TotalRevenue == nil || *p.TotalRevenue == 0 {
			continue
		}
		margins = append(margins, *p.GrossProfit / *p.TotalRevenue * 100)
	}
	return margins
}

func (e *FundamentalEvaluator) profitability(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	marginsTrend := notAvailable

	netMargin, hasNet := percent(s.Info.ProfitMargins)
	grossMargin, hasGross := percent(s.Info.GrossMargins)

	margins := historicalGrossMargins(s.IncomeStatements)
	if len(margins) >= 2 {
		newest, oldest := margins[0], margins[len(margins)-1]
		improving := newest > oldest
		trend := "declining"
		if improving {
			trend = "improving"
		}
		marginsTrend = fmt.Sprintf("%s (%.1f%% → %.1f%%)", trend, oldest, newest)

		if hasGross {
			switch {
			case grossMargin > 40:
				score = pick(improving, 80, 70)
			case grossMargin > 25:
				score = pick(improving, 65, 55)
			default:
				score = pick(improving, 45, 35)
			}
		}
	}

	assessment := noDataMessage
	if hasNet {
		switch {
		case netMargin > 20:
			score = clamp(score + 10)
		case netMargin < 5:
			score = clamp(score - 15)
		}

		switch {
		case netMargin > 15:
			assessment = "Strong"
		case netMargin > 5:
			assessment = "Moderate"
		default:
			assessment = "Weak"
		}
	}

	answer := dto.NewAnswer().
		Set("profit_margin", optionalPercent(netMargin, hasNet)).
		Set("gross_margin", optionalPercent(grossMargin, hasGross)).
		Set("margins_trend", marginsTrend).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"Is profitability strong? Net profit and gross margin trends?",
		"它的盈利能力强吗？净利润和毛利率近几年变化如何？",
		answer, score)
}

func (e *FundamentalEvaluator) revenueGrowth(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	stability := noDataMessage

	growth, hasGrowth := percent(s.Info.RevenueGrowth)
	quarterly, hasQuarterly := percent(s.Info.QuarterlyRevenueGrowth)

	// zero growth is a real observation here, so only absence short-circuits
	if hasGrowth {
		switch {
		case growth > 20:
			score, stability = 85, "Strong growth"
		case growth > 10:
			score, stability = 70, "Healthy growth"
		case growth > 0:
			score, stability = 55, "Modest growth"
		case growth > -5:
			score, stability = 40, "Stagnant"
		default:
			score, stability = 25, "Declining"
		}
	}

	answer := dto.NewAnswer().
		Set("yoy_growth", optionalPercent(growth, hasGrowth)).
		Set("qoq_growth", optionalPercent(quarterly, hasQuarterly)).
		Set("stability", stability)

	return dto.NewQuestionResult(e.Category(),
		"Is revenue growth stable? YoY and QoQ growth?",
		"它的营收增长稳不稳？同比和环比增长如何？",
		answer, score)
}

func (e *FundamentalEvaluator) balanceSheet(s *entity.Snapshot) dto.QuestionResult {
	score := neutral
	riskLevel := "Unknown - Data not available"

	if s.Info.DebtToEquity != nil {
		de := *s.Info.DebtToEquity
		switch {
		case de < 50:
			score, riskLevel = 85, "Low leverage - Healthy"
		case de < 100:
			score, riskLevel = 65, "Moderate leverage - Acceptable"
		case de < 200:
			score, riskLevel = 45, "High leverage - Caution"
		default:
			score, riskLevel = 25, "Very high leverage - Risky"
		}
	}

	if cr, ok := positive(s.Info.CurrentRatio); ok {
		switch {
		case cr > 2:
			score = clamp(score + 10)
		case cr < 1:
			score = clamp(score - 15)
		}
	}

	answer := dto.NewAnswer().
		Set("debt_to_equity", optional(s.Info.DebtToEquity, formatRatio)).
		Set("current_ratio", optionalPositive(s.Info.CurrentRatio, formatRatio)).
		Set("quick_ratio", optionalPositive(s.Info.QuickRatio, formatRatio)).
		Set("risk_level", riskLevel)

	return dto.NewQuestionResult(e.Category(),
		"How is the balance sheet? Any high leverage risk?",
		"资产负债情况怎么样？有没有高杠杆风险？",
		answer, score)
}

func (e *FundamentalEvaluator) cashFlow(s *entity.Snapshot) dto.QuestionResult {
	var operating, free float64
	if s.Info.OperatingCashflow != nil {
		operating = *s.Info.OperatingCashflow
	}
	if s.Info.FreeCashflow != nil {
		free = *s.Info.FreeCashflow
	}

	var score float64
	var assessment string
	switch {
	case operating > 0 && free > 0:
		score, assessment = 80, "Strong - Both operating and free cash flow positive"
	case operating > 0:
		score, assessment = 60, "Adequate - Operating cash flow positive"
	case operating == 0:
		score, assessment = neutral, "Unknown - Data not available"
	default:
		score, assessment = 30, "Weak - Negative cash flow"
	}

	answer := dto.NewAnswer().
		Set("operating_cashflow", nonZeroAmount(operating)).
		Set("free_cashflow", nonZeroAmount(free)).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"Is cash flow sufficient? Is operating cash flow positive?",
		"现金流是否充足？经营活动现金流为正吗？",
		answer, score)
}

func (e *FundamentalEvaluator) management(s *entity.Snapshot) dto.QuestionResult {
	var insider, institutional float64
	if len(s.MajorHolders) >= 2 {
		insider = e.parseHolderPercent(s.Symbol, s.MajorHolders[0])
		institutional = e.parseHolderPercent(s.Symbol, s.MajorHolders[1])
	}

	score := neutral
	assessment := "Moderate ownership structure"
	switch {
	case insider > 10:
		score, assessment = 75, "Strong insider ownership - Management aligned with shareholders"
	case insider > 5:
		score, assessment = 65, "Good insider ownership"
	}

	if institutional > 60 {
		score = clamp(score + 10)
		assessment += " with strong institutional backing"
	}

	answer := dto.NewAnswer().
		Set("insider_ownership", formatPercent(insider)).
		Set("institutional_ownership", formatPercent(institutional)).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(),
		"Management and major shareholder background? Long-term holdings?",
		"管理层和大股东背景如何？他们有没有长期持股？",
		answer, score)
}

// parseHolderPercent reads values such as "12.34%". Unparseable values count as zero.
func (e *FundamentalEvaluator) parseHolderPercent(symbol string, row entity.HolderRow) float64 {
	raw := strings.TrimSuffix(strings.TrimSpace(row.Value), "%")
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		e.log.Warn("Failed to parse holder percentage",
			logger.StringField("symbol", symbol),
			logger.StringField("value", row.Value),
			logger.StringField("label", row.Label),
			logger.ErrorField(err))
		return 0
	}
	return v
}

func pick(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}

func optionalPercent(v float64, ok bool) string {
	if !ok {
		return notAvailable
	}
	return formatPercent(v)
}

func nonZeroAmount(v float64) string {
	if v == 0 {
		return notAvailable
	}
	return formatAmount(v)
}
