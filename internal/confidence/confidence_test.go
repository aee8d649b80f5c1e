package confidence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBoundsAreAlwaysZeroToOne(t *testing.T) {
	cases := []Inputs{
		{ADXValue: 50, MACDHistogramPercentile: 95, BollingerBandwidthPercentile: 5, RecentPricePValue: 0.001, SignalType: "golden_cross"},
		{ADXValue: 0, MACDHistogramPercentile: 50, BollingerBandwidthPercentile: 50, RecentPricePValue: 0.9, SignalType: "macd_bullish"},
		{ADXValue: math.NaN(), MACDHistogramPercentile: math.NaN(), BollingerBandwidthPercentile: math.NaN(), RecentPricePValue: math.NaN(), SignalType: "rsi_oversold"},
	}
	for _, in := range cases {
		got := Calculate(in)
		assert.GreaterOrEqual(t, got.Overall, 0.0)
		assert.LessOrEqual(t, got.Overall, 1.0)
	}
}

func TestCalculateAllNaNInputsYieldsNeutralScore(t *testing.T) {
	got := Calculate(Inputs{
		ADXValue:                     math.NaN(),
		MACDHistogramPercentile:      math.NaN(),
		BollingerBandwidthPercentile: math.NaN(),
		RecentPricePValue:            math.NaN(),
	})

	assert.InDelta(t, 0.5, got.TrendStrength, 1e-9)
	assert.InDelta(t, 0.5, got.MomentumConfirmation, 1e-9)
	assert.InDelta(t, 0.5, got.VolatilityContext, 1e-9)
	assert.InDelta(t, 0.5, got.StatisticalNoise, 1e-9)
}

func TestNoiseScoreMonotonicInPValue(t *testing.T) {
	pValues := []float64{0.001, 0.03, 0.08, 0.15, 0.30}
	var prev float64 = math.Inf(1)
	for _, p := range pValues {
		score := noiseScore(p)
		assert.LessOrEqual(t, score, prev, "noise score should decrease (or stay flat) as p-value rises")
		prev = score
	}
}

func TestGoldenCrossBoostsStrongTrend(t *testing.T) {
	in := Inputs{ADXValue: 45, MACDHistogramPercentile: 50, BollingerBandwidthPercentile: 50, RecentPricePValue: 0.5, SignalType: "golden_cross"}
	baseline := Calculate(Inputs{ADXValue: 45, MACDHistogramPercentile: 50, BollingerBandwidthPercentile: 50, RecentPricePValue: 0.5, SignalType: ""})
	boosted := Calculate(in)

	assert.Greater(t, boosted.Overall, baseline.Overall)
}

func TestShortTermPValueRequiresWindow(t *testing.T) {
	closes := []float64{1, 2, 3}
	assert.True(t, math.IsNaN(ShortTermPValue(closes, 5)))

	longer := []float64{1, 2, 3, 4, 5, 6}
	assert.False(t, math.IsNaN(ShortTermPValue(longer, 5)))
}

func TestHistogramPercentileRequiresMinimumHistory(t *testing.T) {
	short := make([]float64, 19)
	assert.True(t, math.IsNaN(HistogramPercentile(0.5, short)))

	long := make([]float64, 20)
	for i := range long {
		long[i] = float64(i)
	}
	assert.False(t, math.IsNaN(HistogramPercentile(10, long)))
}
