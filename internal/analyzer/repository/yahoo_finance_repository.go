package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

var quoteSummaryModules = []string{
	"price",
	"assetProfile",
	"financialData",
	"summaryDetail",
	"defaultKeyStatistics",
	"incomeStatementHistory",
	"upgradeDowngradeHistory",
}

// Fundamentals is the company level data returned by the quote summary endpoint.
type Fundamentals struct {
	Info             entity.Info
	IncomeStatements []entity.IncomePeriod
	Recommendations  []entity.AnalystRating
}

// PriceHistory is the daily chart of a symbol with its dividend events.
type PriceHistory struct {
	Bars      []entity.PriceBar
	Dividends []entity.DividendPayment
}

type YahooFinanceRepository interface {
	GetFundamentals(ctx context.Context, symbol string) (*Fundamentals, error)
	GetPriceHistory(ctx context.Context, symbol string) (*PriceHistory, error)
}

type yahooFinanceRepository struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *httpFetcher
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (YahooFinanceRepository, error) {
	if cfg.YahooFinance.BaseURL == "" {
		return nil, fmt.Errorf("yahoo finance base url is required")
	}
	return &yahooFinanceRepository{
		cfg:     cfg,
		log:     log,
		fetcher: newHTTPFetcher("yahoo_finance", cfg.YahooFinance, log),
	}, nil
}

func (r *yahooFinanceRepository) GetFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), strings.Join(quoteSummaryModules, ","))

	body, err := r.fetcher.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to get quote summary for %s: %w", symbol, err)
	}

	var resp dto.QuoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode quote summary for %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary for %s: %w", symbol, ErrSymbolNotFound)
	}

	return toFundamentals(resp.QuoteSummary.Result[0]), nil
}

func toFundamentals(q dto.QuoteSummaryResult) *Fundamentals {
	fd, sd, ks := q.FinancialData, q.SummaryDetail, q.DefaultKeyStatistics

	longName := q.Price.LongName
	if longName == "" {
		longName = q.Price.ShortName
	}

	info := entity.Info{
		LongName:          longName,
		Sector:            q.AssetProfile.Sector,
		Industry:          q.AssetProfile.Industry,
		BusinessSummary:   q.AssetProfile.LongBusinessSummary,
		RecommendationKey: fd.RecommendationKey,

		ProfitMargins:          fd.ProfitMargins.Float(),
		GrossMargins:           fd.GrossMargins.Float(),
		RevenueGrowth:          fd.RevenueGrowth.Float(),
		QuarterlyRevenueGrowth: ks.RevenueQuarterlyGrowth.Float(),
		EarningsGrowth:         fd.EarningsGrowth.Float(),

		DebtToEquity:      fd.DebtToEquity.Float(),
		CurrentRatio:      fd.CurrentRatio.Float(),
		QuickRatio:        fd.QuickRatio.Float(),
		OperatingCashflow: fd.OperatingCashflow.Float(),
		FreeCashflow:      fd.FreeCashflow.Float(),

		CurrentPrice:     fd.CurrentPrice.Float(),
		TrailingPE:       sd.TrailingPE.Float(),
		ForwardPE:        sd.ForwardPE.Float(),
		PriceToBook:      ks.PriceToBook.Float(),
		PriceToSales:     sd.PriceToSalesTrailing12Month.Float(),
		PEGRatio:         ks.PEGRatio.Float(),
		EnterpriseValue:  ks.EnterpriseValue.Float(),
		EBITDA:           fd.EBITDA.Float(),
		FiftyTwoWeekHigh: sd.FiftyTwoWeekHigh.Float(),
		FiftyTwoWeekLow:  sd.FiftyTwoWeekLow.Float(),

		TargetMeanPrice:         fd.TargetMeanPrice.Float(),
		TargetHighPrice:         fd.TargetHighPrice.Float(),
		TargetLowPrice:          fd.TargetLowPrice.Float(),
		NumberOfAnalystOpinions: fd.NumberOfAnalystOpinions.Int(),

		DividendYield:            sd.DividendYield.Float(),
		DividendRate:             sd.DividendRate.Float(),
		PayoutRatio:              sd.PayoutRatio.Float(),
		FiveYearAvgDividendYield: sd.FiveYearAvgDividendYield.Float(),
	}
	if q.AssetProfile.OverallRisk != nil {
		risk := float64(*q.AssetProfile.OverallRisk)
		info.OverallRisk = &risk
	}

	out := &Fundamentals{Info: info}

	for _, st := range q.IncomeStatementHistory.IncomeStatementHistory {
		period := entity.IncomePeriod{
			TotalRevenue: st.TotalRevenue.Float(),
			GrossProfit:  st.GrossProfit.Float(),
		}
		if end := st.EndDate.Float(); end != nil {
			period.EndDate = time.Unix(int64(*end), 0).UTC()
		}
		out.IncomeStatements = append(out.IncomeStatements, period)
	}
	sort.SliceStable(out.IncomeStatements, func(i, j int) bool {
		return out.IncomeStatements[i].EndDate.After(out.IncomeStatements[j].EndDate)
	})

	history := q.UpgradeDowngradeHistory.History
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].EpochGradeDate > history[j].EpochGradeDate
	})
	for _, h := range history {
		out.Recommendations = append(out.Recommendations, entity.AnalystRating{Firm: h.Firm, ToGrade: h.ToGrade})
	}

	return out
}

func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, symbol string) (*PriceHistory, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1y&interval=1d&events=div",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol))

	body, err := r.fetcher.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to get chart for %s: %w", symbol, err)
	}

	var resp dto.ChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode chart for %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil || len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart for %s: %w", symbol, ErrSymbolNotFound)
	}

	history := toPriceHistory(resp.Chart.Result[0])
	r.log.DebugContext(ctx, "Fetched price history",
		logger.StringField("symbol", symbol),
		logger.IntField("bars", len(history.Bars)),
		logger.IntField("dividends", len(history.Dividends)))

	return history, nil
}

// toPriceHistory drops days without a close and orders dividends oldest first.
func toPriceHistory(c dto.ChartResult) *PriceHistory {
	out := &PriceHistory{}

	if len(c.Indicators.Quote) > 0 {
		q := c.Indicators.Quote[0]
		for i, ts := range c.Timestamp {
			closePrice := at(q.Close, i)
			if closePrice == nil {
				continue
			}
			bar := entity.PriceBar{
				Date:  time.Unix(ts, 0).UTC(),
				Close: *closePrice,
				Open:  valueOr(at(q.Open, i), *closePrice),
				High:  valueOr(at(q.High, i), *closePrice),
				Low:   valueOr(at(q.Low, i), *closePrice),
			}
			bar.Volume = valueOr(at(q.Volume, i), 0)
			out.Bars = append(out.Bars, bar)
		}
	}

	for _, d := range c.Events.Dividends {
		out.Dividends = append(out.Dividends, entity.DividendPayment{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(out.Dividends, func(i, j int) bool {
		return out.Dividends[i].Date.Before(out.Dividends[j].Date)
	})

	return out
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
