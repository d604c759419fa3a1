package scorer

import (
	"errors"
	"fmt"

	"golang-stock-analyst/internal/analyzer/dto"
)

// Weights holds the relative weight of every category. They need not sum to 100.
type Weights struct {
	Fundamental int `mapstructure:"fundamental"`
	Valuation   int `mapstructure:"valuation"`
	Dividend    int `mapstructure:"dividend"`
	Technical   int `mapstructure:"technical"`
	Sentiment   int `mapstructure:"sentiment"`
}

// Of returns the weight configured for c.
func (w Weights) Of(c dto.Category) (int, bool) {
	switch c {
	case dto.CategoryFundamental:
		return w.Fundamental, true
	case dto.CategoryValuation:
		return w.Valuation, true
	case dto.CategoryDividend:
		return w.Dividend, true
	case dto.CategoryTechnical:
		return w.Technical, true
	case dto.CategorySentiment:
		return w.Sentiment, true
	}
	return 0, false
}

// Thresholds are the lower bounds of each recommendation band on the 0-100 scale.
type Thresholds struct {
	StrongBuy  float64 `mapstructure:"strong_buy"`
	Buy        float64 `mapstructure:"buy"`
	Hold       float64 `mapstructure:"hold"`
	Sell       float64 `mapstructure:"sell"`
	StrongSell float64 `mapstructure:"strong_sell"`
}

// Label is the bilingual text and confidence shown for a band.
type Label struct {
	EN         string `mapstructure:"en"`
	ZH         string `mapstructure:"zh"`
	Confidence string `mapstructure:"confidence"`
}

func (l Label) recommendation() dto.Recommendation {
	return dto.Recommendation{EN: l.EN, ZH: l.ZH, Confidence: l.Confidence}
}

// Labels holds one label per band.
type Labels struct {
	StrongBuy  Label `mapstructure:"strong_buy"`
	Buy        Label `mapstructure:"buy"`
	Hold       Label `mapstructure:"hold"`
	Sell       Label `mapstructure:"sell"`
	StrongSell Label `mapstructure:"strong_sell"`
}

// Config is everything the scorer needs to turn category averages into a recommendation.
type Config struct {
	Weights    Weights    `mapstructure:"weights"`
	Thresholds Thresholds `mapstructure:"thresholds"`
	Labels     Labels     `mapstructure:"labels"`
}

// DefaultConfig returns the stock weighting: 30/25/5/25/15 and bands at 75/60/40/25.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Fundamental: 30,
			Valuation:   25,
			Dividend:    5,
			Technical:   25,
			Sentiment:   15,
		},
		Thresholds: Thresholds{
			StrongBuy:  75,
			Buy:        60,
			Hold:       40,
			Sell:       25,
			StrongSell: 0,
		},
		Labels: Labels{
			StrongBuy:  Label{EN: "Strong Buy", ZH: "强烈买入", Confidence: "High"},
			Buy:        Label{EN: "Buy", ZH: "买入", Confidence: "Medium-High"},
			Hold:       Label{EN: "Hold", ZH: "持有", Confidence: "Medium"},
			Sell:       Label{EN: "Sell", ZH: "卖出", Confidence: "Medium-High"},
			StrongSell: Label{EN: "Strong Sell", ZH: "强烈卖出", Confidence: "High"},
		},
	}
}

// Validate checks that weights are positive and thresholds strictly descending.
func (c Config) Validate() error {
	for _, category := range dto.Categories {
		w, _ := c.Weights.Of(category)
		if w <= 0 {
			return fmt.Errorf("weight for %s must be positive, got %d", category, w)
		}
	}

	t := c.Thresholds
	if !(t.StrongBuy > t.Buy && t.Buy > t.Hold && t.Hold > t.Sell && t.Sell > t.StrongSell) {
		return errors.New("recommendation thresholds must be strictly descending: strong_buy > buy > hold > sell > strong_sell")
	}
	return nil
}
