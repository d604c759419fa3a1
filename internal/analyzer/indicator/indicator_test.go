package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMA(t *testing.T) {
	p := NewDefault()

	v, ok := p.SMA([]float64{1, 2, 3, 4, 5}, 2)
	require.True(t, ok)
	assert.Equal(t, 4.5, v)

	_, ok = p.SMA([]float64{1, 2}, 3)
	assert.False(t, ok)
}

func TestRSI(t *testing.T) {
	p := NewDefault()

	up, ok := p.RSI(rising(30, 10, 1), 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, up)

	down, ok := p.RSI(rising(30, 100, -1), 14)
	require.True(t, ok)
	assert.Equal(t, 0.0, down)

	_, ok = p.RSI(rising(10, 1, 1), 14)
	assert.False(t, ok)
}

func TestMACD(t *testing.T) {
	p := NewDefault()

	_, ok := p.MACD(rising(20, 1, 1))
	assert.False(t, ok)

	// after a long decline a sharp rally pulls the MACD line above its signal
	closes := append(rising(60, 100, -1), rising(10, 42, 3)...)
	res, ok := p.MACD(closes)
	require.True(t, ok)
	assert.Greater(t, res.MACD, res.Signal)
	assert.Greater(t, res.Histogram, 0.0)
}

func TestStochastic(t *testing.T) {
	p := NewDefault()

	highs := rising(20, 11, 1)
	lows := rising(20, 9, 1)
	closes := rising(20, 10.9, 1)
	res, ok := p.Stochastic(highs, lows, closes)
	require.True(t, ok)
	assert.Greater(t, res.K, 80.0)
	assert.LessOrEqual(t, res.K, 100.0)

	flat := make([]float64, 20)
	_, ok = p.Stochastic(flat, flat, flat)
	assert.False(t, ok, "a zero range has no defined %K")
}

func TestOBV(t *testing.T) {
	p := NewDefault()

	obv := p.OBV([]float64{10, 11, 10, 10}, []float64{100, 200, 50, 25})
	assert.Equal(t, []float64{100, 300, 250, 275}, obv)
}
