// Package indicator computes the technical indicators the technical evaluator scores.
// All series are ordered oldest first. Every function reports whether enough data was available;
// callers treat a false flag as "insufficient data" rather than using the value.
package indicator

import "math"

const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	StochasticWindow = 14
	StochasticSmooth = 3
)

// MACDResult holds the latest MACD line, signal line and histogram.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// StochasticResult holds the latest %K and %D.
type StochasticResult struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// Provider computes indicator values from price series.
type Provider interface {
	SMA(values []float64, window int) (float64, bool)
	RSI(closes []float64, window int) (float64, bool)
	MACD(closes []float64) (MACDResult, bool)
	Stochastic(highs, lows, closes []float64) (StochasticResult, bool)
	OBV(closes, volumes []float64) []float64
}

// Default is the built-in Provider.
type Default struct{}

// NewDefault returns the built-in Provider.
func NewDefault() Provider {
	return Default{}
}

// SMA returns the mean of the last window values.
func (Default) SMA(values []float64, window int) (float64, bool) {
	if window <= 0 || len(values) < window {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// RSI uses Wilder smoothing (alpha = 1/window) seeded with the first change.
func (Default) RSI(closes []float64, window int) (float64, bool) {
	if window <= 0 || len(closes) < window+1 {
		return 0, false
	}

	alpha := 1.0 / float64(window)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		if i == 1 {
			avgGain, avgLoss = gain, loss
			continue
		}
		avgGain = avgGain*(1-alpha) + gain*alpha
		avgLoss = avgLoss*(1-alpha) + loss*alpha
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD computes the 12/26 EMA spread and its 9 period signal line.
func (Default) MACD(closes []float64) (MACDResult, bool) {
	// the signal line needs MACDSignal valid MACD points after the slow EMA warms up
	if len(closes) < MACDSlow+MACDSignal-1 {
		return MACDResult{}, false
	}

	fast := ema(closes, MACDFast)
	slow := ema(closes, MACDSlow)

	line := make([]float64, 0, len(closes)-MACDSlow+1)
	for i := MACDSlow - 1; i < len(closes); i++ {
		line = append(line, fast[i]-slow[i])
	}
	signal := ema(line, MACDSignal)

	last := len(line) - 1
	return MACDResult{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}, true
}

// Stochastic computes the 14 period %K and its 3 period average %D.
func (Default) Stochastic(highs, lows, closes []float64) (StochasticResult, bool) {
	n := len(closes)
	if len(highs) != n || len(lows) != n || n < StochasticWindow+StochasticSmooth-1 {
		return StochasticResult{}, false
	}

	ks := make([]float64, 0, StochasticSmooth)
	for end := n - StochasticSmooth; end < n; end++ {
		start := end - StochasticWindow + 1
		lowest, highest := math.Inf(1), math.Inf(-1)
		for i := start; i <= end; i++ {
			lowest = math.Min(lowest, lows[i])
			highest = math.Max(highest, highs[i])
		}
		if highest == lowest {
			return StochasticResult{}, false
		}
		ks = append(ks, 100*(closes[end]-lowest)/(highest-lowest))
	}

	var sum float64
	for _, k := range ks {
		sum += k
	}
	return StochasticResult{K: ks[len(ks)-1], D: sum / float64(len(ks))}, true
}

// OBV returns the cumulative on-balance volume. A bar adds its volume unless it closed lower
// than the previous bar, in which case the volume is subtracted.
func (Default) OBV(closes, volumes []float64) []float64 {
	n := min(len(closes), len(volumes))
	out := make([]float64, n)
	var running float64
	for i := 0; i < n; i++ {
		if i > 0 && closes[i] < closes[i-1] {
			running -= volumes[i]
		} else {
			running += volumes[i]
		}
		out[i] = running
	}
	return out
}

// ema is an exponential moving average with alpha = 2/(span+1), seeded with the first value.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
