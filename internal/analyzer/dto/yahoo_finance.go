package dto

// YahooValue is the {"raw": 0.25, "fmt": "25.00%"} pair Yahoo uses for numbers.
type YahooValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// Float returns the raw value, or nil when Yahoo sent an empty object.
func (v *YahooValue) Float() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

// Int returns the raw value as an int, or nil.
func (v *YahooValue) Int() *int {
	if v == nil || v.Raw == nil {
		return nil
	}
	i := int(*v.Raw)
	return &i
}

// YahooError is the error object embedded in Yahoo responses.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteSummaryResponse is the body of /v10/finance/quoteSummary/{symbol}.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *YahooError          `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult holds the modules requested from quoteSummary.
type QuoteSummaryResult struct {
	Price struct {
		LongName  string `json:"longName"`
		ShortName string `json:"shortName"`
	} `json:"price"`

	AssetProfile struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		LongBusinessSummary string `json:"longBusinessSummary"`
		OverallRisk         *int   `json:"overallRisk"`
	} `json:"assetProfile"`

	FinancialData struct {
		CurrentPrice            *YahooValue `json:"currentPrice"`
		TargetHighPrice         *YahooValue `json:"targetHighPrice"`
		TargetLowPrice          *YahooValue `json:"targetLowPrice"`
		TargetMeanPrice         *YahooValue `json:"targetMeanPrice"`
		RecommendationKey       string      `json:"recommendationKey"`
		NumberOfAnalystOpinions *YahooValue `json:"numberOfAnalystOpinions"`
		EBITDA                  *YahooValue `json:"ebitda"`
		DebtToEquity            *YahooValue `json:"debtToEquity"`
		CurrentRatio            *YahooValue `json:"currentRatio"`
		QuickRatio              *YahooValue `json:"quickRatio"`
		OperatingCashflow       *YahooValue `json:"operatingCashflow"`
		FreeCashflow            *YahooValue `json:"freeCashflow"`
		RevenueGrowth           *YahooValue `json:"revenueGrowth"`
		EarningsGrowth          *YahooValue `json:"earningsGrowth"`
		GrossMargins            *YahooValue `json:"grossMargins"`
		ProfitMargins           *YahooValue `json:"profitMargins"`
	} `json:"financialData"`

	SummaryDetail struct {
		TrailingPE                  *YahooValue `json:"trailingPE"`
		ForwardPE                   *YahooValue `json:"forwardPE"`
		DividendYield               *YahooValue `json:"dividendYield"`
		DividendRate                *YahooValue `json:"dividendRate"`
		PayoutRatio                 *YahooValue `json:"payoutRatio"`
		FiveYearAvgDividendYield    *YahooValue `json:"fiveYearAvgDividendYield"`
		FiftyTwoWeekHigh            *YahooValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow             *YahooValue `json:"fiftyTwoWeekLow"`
		PriceToSalesTrailing12Month *YahooValue `json:"priceToSalesTrailing12Months"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics struct {
		PriceToBook            *YahooValue `json:"priceToBook"`
		PEGRatio               *YahooValue `json:"pegRatio"`
		EnterpriseValue        *YahooValue `json:"enterpriseValue"`
		RevenueQuarterlyGrowth *YahooValue `json:"revenueQuarterlyGrowth"`
	} `json:"defaultKeyStatistics"`

	IncomeStatementHistory struct {
		IncomeStatementHistory []struct {
			EndDate      *YahooValue `json:"endDate"`
			TotalRevenue *YahooValue `json:"totalRevenue"`
			GrossProfit  *YahooValue `json:"grossProfit"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`

	UpgradeDowngradeHistory struct {
		History []struct {
			EpochGradeDate int64  `json:"epochGradeDate"`
			Firm           string `json:"firm"`
			ToGrade        string `json:"toGrade"`
		} `json:"history"`
	} `json:"upgradeDowngradeHistory"`
}

// ChartResponse is the body of /v8/finance/chart/{symbol}.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *YahooError   `json:"error"`
	} `json:"chart"`
}

// ChartResult holds one symbol's OHLCV arrays and corporate events.
// Quote arrays contain nulls for days without trading.
type ChartResult struct {
	Timestamp []int64 `json:"timestamp"`

	Indicators struct {
		Quote []ChartQuote `json:"quote"`
	} `json:"indicators"`

	Events struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
}

// ChartQuote holds the OHLCV arrays aligned with ChartResult.Timestamp.
type ChartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
