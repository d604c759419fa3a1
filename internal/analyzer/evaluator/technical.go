package evaluator

import (
	"fmt"
	"math"
	"sort"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/indicator"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

// Minimum history lengths, in bars, for each technical question.
const (
	trendMinBars      = 51
	indicatorsMinBars = 27
	patternMinBars    = 61
	volumeMinBars     = 21

	rsiWindow        = 14
	patternWindow    = 60
	doubleBottomBars = 30
	volumeWindow     = 20
	obvLookback      = 10
	monthBars        = 21
	quarterBars      = 63
)

// TechnicalConfig holds the tunable technical parameters.
type TechnicalConfig struct {
	RSIOverbought float64 `mapstructure:"rsi_overbought"`
	RSIOversold   float64 `mapstructure:"rsi_oversold"`
	MAShort       int     `mapstructure:"ma_short"`
	MALong        int     `mapstructure:"ma_long"`
}

// DefaultTechnicalConfig returns RSI bands at 30/70 and the 50/200 day averages.
func DefaultTechnicalConfig() TechnicalConfig {
	return TechnicalConfig{
		RSIOverbought: 70,
		RSIOversold:   30,
		MAShort:       50,
		MALong:        200,
	}
}

// Validate checks that the RSI bands are ordered and the averages are usable.
func (c TechnicalConfig) Validate() error {
	if c.RSIOversold <= 0 || c.RSIOverbought >= 100 || c.RSIOversold >= c.RSIOverbought {
		return fmt.Errorf("rsi bands must satisfy 0 < oversold < overbought < 100, got %.1f/%.1f", c.RSIOversold, c.RSIOverbought)
	}
	if c.MAShort <= 0 || c.MALong <= c.MAShort {
		return fmt.Errorf("moving averages must satisfy 0 < ma_short < ma_long, got %d/%d", c.MAShort, c.MALong)
	}
	return nil
}

// TechnicalEvaluator answers questions 12-16: trend, indicators, patterns,
// moving average position and volume.
type TechnicalEvaluator struct {
	cfg        TechnicalConfig
	indicators indicator.Provider
	log        *logger.Logger
}

// NewTechnicalEvaluator creates a TechnicalEvaluator backed by the given indicator provider.
func NewTechnicalEvaluator(cfg TechnicalConfig, indicators indicator.Provider, log *logger.Logger) *TechnicalEvaluator {
	return &TechnicalEvaluator{cfg: cfg, indicators: indicators, log: log}
}

// Category returns dto.CategoryTechnical.
func (e *TechnicalEvaluator) Category() dto.Category {
	return dto.CategoryTechnical
}

// Evaluate returns the five technical results in question order.
func (e *TechnicalEvaluator) Evaluate(s *entity.Snapshot) []dto.QuestionResult {
	return []dto.QuestionResult{
		e.priceTrend(s),
		e.indicatorSignals(s),
		e.chartPatterns(s),
		e.movingAverages(s),
		e.volume(s),
	}
}

func (e *TechnicalEvaluator) insufficient(s *entity.Snapshot, question string, needed int) {
	e.log.Debug("Not enough price history",
		logger.StringField("symbol", s.Symbol),
		logger.StringField("question", question),
		logger.IntField("bars", len(s.History)),
		logger.IntField("needed", needed))
}

const (
	trendQuestionEN = "What is the current price trend? Uptrend, sideways, or downtrend?"
	trendQuestionZH = "当前股价处于什么趋势？上涨、震荡还是下跌？"
)

func (e *TechnicalEvaluator) priceTrend(s *entity.Snapshot) dto.QuestionResult {
	closes := s.Closes()
	sma20, ok20 := e.indicators.SMA(closes, 20)
	sma50, ok50 := e.indicators.SMA(closes, 50)
	if len(closes) < trendMinBars || !ok20 || !ok50 {
		e.insufficient(s, "trend", trendMinBars)
		return dto.NewQuestionResult(e.Category(), trendQuestionEN, trendQuestionZH,
			dto.NewAnswer().Set("trend", noDataMessage), neutral)
	}

	price := closes[len(closes)-1]
	var score float64
	var trend string
	switch {
	case price > sma20 && sma20 > sma50:
		score, trend = 85, "Strong Uptrend"
	case price > sma20:
		score, trend = 70, "Uptrend"
	case price < sma20 && sma20 < sma50:
		score, trend = 20, "Strong Downtrend"
	case price < sma20:
		score, trend = 35, "Downtrend"
	default:
		score, trend = neutral, "Sideways/Consolidation"
	}

	answer := dto.NewAnswer().
		Set("trend", trend).
		Set("current_price", formatPrice(price)).
		Set("1_month_change", changeSince(closes, monthBars)).
		Set("3_month_change", changeSince(closes, quarterBars)).
		Set("sma_20", formatPrice(sma20)).
		Set("sma_50", formatPrice(sma50))

	return dto.NewQuestionResult(e.Category(), trendQuestionEN, trendQuestionZH, answer, score)
}

// changeSince returns the percent change from `bars` bars ago, or from the first bar when the series is shorter.
func changeSince(closes []float64, bars int) string {
	base := closes[0]
	if len(closes) > bars {
		base = closes[len(closes)-bars]
	}
	if base == 0 {
		return notAvailable
	}
	return formatSignedPercent((closes[len(closes)-1] - base) / base * 100)
}

const (
	indicatorQuestionEN = "How do key technical indicators like MACD, RSI, KDJ look?"
	indicatorQuestionZH = "关键技术指标如MACD、RSI、KDJ怎么看？"
)

// IndicatorReadings are the indicator values the indicator question is scored on.
// A nil field means the indicator could not be computed.
type IndicatorReadings struct {
	RSI        *float64
	MACD       *indicator.MACDResult
	Stochastic *indicator.StochasticResult
}

// ScoreIndicators scores RSI, MACD and stochastic readings additively from a neutral 50,
// clamping once at the end.
func (e *TechnicalEvaluator) ScoreIndicators(r IndicatorReadings) (float64, []string) {
	score := neutral
	var signals []string

	switch {
	case r.RSI == nil:
		signals = append(signals, "RSI unavailable")
	case *r.RSI < e.cfg.RSIOversold:
		signals = append(signals, fmt.Sprintf("RSI oversold (%.1f) - Bullish signal", *r.RSI))
		score += 15
	case *r.RSI > e.cfg.RSIOverbought:
		signals = append(signals, fmt.Sprintf("RSI overbought (%.1f) - Bearish signal", *r.RSI))
		score -= 15
	default:
		signals = append(signals, fmt.Sprintf("RSI neutral (%.1f)", *r.RSI))
	}

	switch {
	case r.MACD == nil:
		signals = append(signals, "MACD neutral")
	case r.MACD.MACD > r.MACD.Signal && r.MACD.Histogram > 0:
		signals = append(signals, "MACD bullish crossover")
		score += 15
	case r.MACD.MACD < r.MACD.Signal && r.MACD.Histogram < 0:
		signals = append(signals, "MACD bearish crossover")
		score -= 15
	default:
		signals = append(signals, "MACD neutral")
	}

	switch {
	case r.Stochastic == nil:
		signals = append(signals, "Stochastic unavailable")
	case r.Stochastic.K < 20:
		signals = append(signals, fmt.Sprintf("Stochastic oversold (%.1f) - Bullish", r.Stochastic.K))
		score += 10
	case r.Stochastic.K > 80:
		signals = append(signals, fmt.Sprintf("Stochastic overbought (%.1f) - Bearish", r.Stochastic.K))
		score -= 10
	default:
		signals = append(signals, fmt.Sprintf("Stochastic neutral (%.1f)", r.Stochastic.K))
	}

	return clamp(score), signals
}

func (e *TechnicalEvaluator) indicatorSignals(s *entity.Snapshot) dto.QuestionResult {
	closes := s.Closes()
	if len(closes) < indicatorsMinBars {
		e.insufficient(s, "indicators", indicatorsMinBars)
		return dto.NewQuestionResult(e.Category(), indicatorQuestionEN, indicatorQuestionZH,
			dto.NewAnswer().Set("signals", []string{noDataMessage}), neutral)
	}

	var readings IndicatorReadings
	answer := dto.NewAnswer()

	if rsi, ok := e.indicators.RSI(closes, rsiWindow); ok {
		readings.RSI = &rsi
		answer.Set("rsi", formatRatio(rsi))
	} else {
		answer.Set("rsi", notAvailable)
	}

	if macd, ok := e.indicators.MACD(closes); ok {
		readings.MACD = &macd
		answer.Set("macd", fmt.Sprintf("%.4f", macd.MACD))
		answer.Set("macd_signal", fmt.Sprintf("%.4f", macd.Signal))
	} else {
		answer.Set("macd", notAvailable)
		answer.Set("macd_signal", notAvailable)
	}

	if stoch, ok := e.indicators.Stochastic(s.Highs(), s.Lows(), closes); ok {
		readings.Stochastic = &stoch
		answer.Set("stochastic_k", formatRatio(stoch.K))
		answer.Set("stochastic_d", formatRatio(stoch.D))
	} else {
		answer.Set("stochastic_k", notAvailable)
		answer.Set("stochastic_d", notAvailable)
	}

	score, signals := e.ScoreIndicators(readings)
	answer.Set("signals", signals)

	return dto.NewQuestionResult(e.Category(), indicatorQuestionEN, indicatorQuestionZH, answer, score)
}

const (
	patternQuestionEN = "Are there important technical patterns? Like double bottom, head and shoulders?"
	patternQuestionZH = "有没有形成重要的技术形态？如双底、头肩顶？"
)

func (e *TechnicalEvaluator) chartPatterns(s *entity.Snapshot) dto.QuestionResult {
	if len(s.History) < patternMinBars {
		e.insufficient(s, "patterns", patternMinBars)
		return dto.NewQuestionResult(e.Category(), patternQuestionEN, patternQuestionZH,
			dto.NewAnswer().Set("patterns", []string{noDataMessage + " for pattern analysis"}), neutral)
	}

	closes := lastN(s.Closes(), patternWindow)
	highs := lastN(s.Highs(), patternWindow)
	lows := lastN(s.Lows(), patternWindow)

	score := neutral
	var patterns []string

	if hasDoubleBottom(lastN(lows, doubleBottomBars)) {
		patterns = append(patterns, "Potential double bottom pattern (bullish)")
		score += 15
	}

	price := closes[len(closes)-1]
	if sma20, ok := e.indicators.SMA(closes, 20); ok {
		switch {
		case price > sma20*1.05:
			patterns = append(patterns, "Price breaking above 20-day MA (bullish)")
			score += 10
		case price < sma20*0.95:
			patterns = append(patterns, "Price breaking below 20-day MA (bearish)")
			score -= 10
		}
	}

	maxHigh, minLow := math.Inf(-1), math.Inf(1)
	for i := range highs {
		maxHigh = math.Max(maxHigh, highs[i])
		minLow = math.Min(minLow, lows[i])
	}
	if minLow > 0 && (maxHigh-minLow)/minLow*100 < 10 {
		patterns = append(patterns, "Tight consolidation - potential breakout setup")
		score += 5
	}

	if len(patterns) == 0 {
		patterns = append(patterns, "No significant patterns detected")
	}

	answer := dto.NewAnswer().
		Set("patterns", patterns).
		Set("note", "Pattern detection is simplified - manual chart review recommended")

	return dto.NewQuestionResult(e.Category(), patternQuestionEN, patternQuestionZH, answer, clamp(score))
}

// hasDoubleBottom reports whether the two smallest lows of the window sit within 2% of each other.
func hasDoubleBottom(lows []float64) bool {
	if len(lows) <= 10 {
		return false
	}
	sorted := append([]float64{}, lows...)
	sort.Float64s(sorted)
	smallest := sorted[:3]
	if smallest[0] <= 0 {
		return false
	}
	return math.Abs(smallest[0]-smallest[1])/smallest[0] < 0.02
}

const (
	maQuestionEN = "Where is the current price relative to annual, quarterly, and moving averages?"
	maQuestionZH = "当前价格处于年线、季线、均线哪个区间？"
)

func (e *TechnicalEvaluator) movingAverages(s *entity.Snapshot) dto.QuestionResult {
	closes := s.Closes()
	minBars := e.cfg.MALong + 1
	maShort, okShort := e.indicators.SMA(closes, e.cfg.MAShort)
	maLong, okLong := e.indicators.SMA(closes, e.cfg.MALong)
	ma20, ok20 := e.indicators.SMA(closes, 20)
	if len(closes) < minBars || !okShort || !okLong || !ok20 {
		e.insufficient(s, "moving_averages", minBars)
		return dto.NewQuestionResult(e.Category(), maQuestionEN, maQuestionZH,
			dto.NewAnswer().Set("position", []string{noDataMessage}), neutral)
	}

	price := closes[len(closes)-1]
	var position []string
	var score float64

	if price > maLong {
		position = append(position, fmt.Sprintf("Above %d-day MA (annual line) - Long-term uptrend", e.cfg.MALong))
		score = 75
	} else {
		position = append(position, fmt.Sprintf("Below %d-day MA (annual line) - Long-term downtrend", e.cfg.MALong))
		score = 35
	}

	if price > maShort {
		position = append(position, fmt.Sprintf("Above %d-day MA (quarterly line) - Medium-term uptrend", e.cfg.MAShort))
		score = clamp(score + 10)
	} else {
		position = append(position, fmt.Sprintf("Below %d-day MA (quarterly line) - Medium-term downtrend", e.cfg.MAShort))
		score = clamp(score - 10)
	}

	switch {
	case maShort > maLong:
		position = append(position, fmt.Sprintf("Golden Cross (%d-day > %d-day) - Bullish", e.cfg.MAShort, e.cfg.MALong))
		score = clamp(score + 10)
	case maShort < maLong:
		position = append(position, fmt.Sprintf("Death Cross (%d-day < %d-day) - Bearish", e.cfg.MAShort, e.cfg.MALong))
		score = clamp(score - 10)
	}

	answer := dto.NewAnswer().
		Set("current_price", formatPrice(price)).
		Set("ma_20", formatPrice(ma20)).
		Set(fmt.Sprintf("ma_%d", e.cfg.MAShort), formatPrice(maShort)).
		Set(fmt.Sprintf("ma_%d", e.cfg.MALong), formatPrice(maLong)).
		Set("position", position)

	return dto.NewQuestionResult(e.Category(), maQuestionEN, maQuestionZH, answer, score)
}

const (
	volumeQuestionEN = "Are there significant volume changes? Is price-volume relationship healthy?"
	volumeQuestionZH = "近期成交量变化大吗？量价关系是否健康？"
)

func (e *TechnicalEvaluator) volume(s *entity.Snapshot) dto.QuestionResult {
	closes := s.Closes()
	volumes := s.Volumes()
	insufficient := func() dto.QuestionResult {
		e.insufficient(s, "volume", volumeMinBars)
		return dto.NewQuestionResult(e.Category(), volumeQuestionEN, volumeQuestionZH,
			dto.NewAnswer().Set("assessment", []string{noDataMessage}), neutral)
	}
	if len(closes) < volumeMinBars {
		return insufficient()
	}

	avgVolume, ok := e.indicators.SMA(volumes, volumeWindow)
	prevClose := closes[len(closes)-2]
	if !ok || avgVolume <= 0 || prevClose == 0 {
		return insufficient()
	}

	recentVolume := volumes[len(volumes)-1]
	ratio := recentVolume / avgVolume
	priceChange := (closes[len(closes)-1] - prevClose) / prevClose * 100

	var score float64
	var assessment []string
	switch {
	case ratio > 1.5:
		assessment = append(assessment, fmt.Sprintf("High volume (%.1fx average)", ratio))
		if priceChange > 0 {
			assessment = append(assessment, "Price up on high volume - Bullish confirmation")
			score = 80
		} else {
			assessment = append(assessment, "Price down on high volume - Bearish signal")
			score = 30
		}
	case ratio < 0.5:
		assessment = append(assessment, fmt.Sprintf("Low volume (%.1fx average)", ratio), "Low conviction move")
		score = 45
	default:
		assessment = append(assessment, "Normal volume")
		score = 55
	}

	obv := e.indicators.OBV(closes, volumes)
	if len(obv) >= obvLookback {
		if obv[len(obv)-1] > obv[len(obv)-obvLookback] {
			assessment = append(assessment, "OBV trend: rising")
			score = clamp(score + 10)
		} else {
			assessment = append(assessment, "OBV trend: falling")
			score = clamp(score - 10)
		}
	}

	answer := dto.NewAnswer().
		Set("recent_volume", formatVolume(recentVolume)).
		Set("avg_volume_20d", formatVolume(avgVolume)).
		Set("volume_ratio", fmt.Sprintf("%.2fx", ratio)).
		Set("price_change", formatSignedPercent(priceChange)).
		Set("assessment", assessment)

	return dto.NewQuestionResult(e.Category(), volumeQuestionEN, volumeQuestionZH, answer, score)
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
