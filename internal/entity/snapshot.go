package entity

import (
	"sync"
	"time"
)

// Info carries the scalar company and valuation facts of a symbol.
// Every numeric field is optional; nil means the provider did not report it.
// Ratios (margins, growth, yield, payout) are fractions: 0.05 means 5%.
type Info struct {
	LongName          string `json:"long_name,omitempty"`
	Sector            string `json:"sector,omitempty"`
	Industry          string `json:"industry,omitempty"`
	BusinessSummary   string `json:"business_summary,omitempty"`
	RecommendationKey string `json:"recommendation_key,omitempty"`

	// Profitability and growth
	ProfitMargins          *float64 `json:"profit_margins,omitempty"`
	GrossMargins           *float64 `json:"gross_margins,omitempty"`
	RevenueGrowth          *float64 `json:"revenue_growth,omitempty"`
	QuarterlyRevenueGrowth *float64 `json:"quarterly_revenue_growth,omitempty"`
	EarningsGrowth         *float64 `json:"earnings_growth,omitempty"`

	// Balance sheet and cash flow
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
	QuickRatio        *float64 `json:"quick_ratio,omitempty"`
	OperatingCashflow *float64 `json:"operating_cashflow,omitempty"`
	FreeCashflow      *float64 `json:"free_cashflow,omitempty"`

	// Valuation
	CurrentPrice     *float64 `json:"current_price,omitempty"`
	TrailingPE       *float64 `json:"trailing_pe,omitempty"`
	ForwardPE        *float64 `json:"forward_pe,omitempty"`
	PriceToBook      *float64 `json:"price_to_book,omitempty"`
	PriceToSales     *float64 `json:"price_to_sales,omitempty"`
	PEGRatio         *float64 `json:"peg_ratio,omitempty"`
	EnterpriseValue  *float64 `json:"enterprise_value,omitempty"`
	EBITDA           *float64 `json:"ebitda,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`

	// Analyst targets
	TargetMeanPrice         *float64 `json:"target_mean_price,omitempty"`
	TargetHighPrice         *float64 `json:"target_high_price,omitempty"`
	TargetLowPrice          *float64 `json:"target_low_price,omitempty"`
	NumberOfAnalystOpinions *int     `json:"number_of_analyst_opinions,omitempty"`

	// Dividends
	DividendYield            *float64 `json:"dividend_yield,omitempty"`
	DividendRate             *float64 `json:"dividend_rate,omitempty"`
	PayoutRatio              *float64 `json:"payout_ratio,omitempty"`
	FiveYearAvgDividendYield *float64 `json:"five_year_avg_dividend_yield,omitempty"` // already a percentage

	// Governance risk scores (1-10)
	OverallRisk *float64 `json:"overall_risk,omitempty"`
}

// PriceBar is one daily OHLCV row.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IncomePeriod is one column of an annual income statement.
type IncomePeriod struct {
	EndDate      time.Time `json:"end_date"`
	TotalRevenue *float64  `json:"total_revenue,omitempty"`
	GrossProfit  *float64  `json:"gross_profit,omitempty"`
}

// DividendPayment is a single cash dividend.
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// NewsItem is a headline about the company.
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// AnalystRating is one row of analyst rating changes.
type AnalystRating struct {
	Firm    string `json:"firm"`
	ToGrade string `json:"to_grade"`
}

// HolderRow is one row of the major holders breakdown, kept as scraped ("12.34%").
// By convention the first row is insiders and the second institutions.
type HolderRow struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Snapshot is everything known about one symbol for a single analysis run.
// It is read-only once built.
type Snapshot struct {
	Symbol           string            `json:"symbol"`
	Info             Info              `json:"info"`
	History          []PriceBar        `json:"history"`           // oldest first
	IncomeStatements []IncomePeriod    `json:"income_statements"` // newest first
	Dividends        []DividendPayment `json:"dividends"`         // oldest first
	News             []NewsItem        `json:"news"`              // newest first
	Recommendations  []AnalystRating   `json:"recommendations"`   // newest first
	MajorHolders     []HolderRow       `json:"major_holders"`
	FetchedAt        time.Time         `json:"fetched_at"`

	seriesOnce sync.Once
	closes     []float64
	highs      []float64
	lows       []float64
	volumes    []float64
}

func (s *Snapshot) buildSeries() {
	s.seriesOnce.Do(func() {
		n := len(s.History)
		s.closes = make([]float64, n)
		s.highs = make([]float64, n)
		s.lows = make([]float64, n)
		s.volumes = make([]float64, n)
		for i, bar := range s.History {
			s.closes[i] = bar.Close
			s.highs[i] = bar.High
			s.lows[i] = bar.Low
			s.volumes[i] = bar.Volume
		}
	})
}

// Closes returns the close series, oldest first. Callers must not modify it.
func (s *Snapshot) Closes() []float64 {
	s.buildSeries()
	return s.closes
}

// Highs returns the high series, oldest first.
func (s *Snapshot) Highs() []float64 {
	s.buildSeries()
	return s.highs
}

// Lows returns the low series, oldest first.
func (s *Snapshot) Lows() []float64 {
	s.buildSeries()
	return s.lows
}

// Volumes returns the volume series, oldest first.
func (s *Snapshot) Volumes() []float64 {
	s.buildSeries()
	return s.volumes
}

// CompanyName returns the long name, or the symbol when the name is unknown.
func (s *Snapshot) CompanyName() string {
	if s.Info.LongName != "" {
		return s.Info.LongName
	}
	return s.Symbol
}
