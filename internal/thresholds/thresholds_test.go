package thresholds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestATRThresholdsScalesByMultiplier(t *testing.T) {
	got := ATRThresholds(10, DefaultATRMultipliers())
	assert.InDelta(t, 20.0, got["stop_loss"], 1e-9)
	assert.InDelta(t, 30.0, got["take_profit"], 1e-9)
	assert.InDelta(t, 5.0, got["trend_filter"], 1e-9)
}

func TestRegimeMultipliersWidenInHighVolatility(t *testing.T) {
	low := RegimeMultipliers(RegimeLow)
	high := RegimeMultipliers(RegimeHigh)
	assert.Less(t, low.StopLoss, high.StopLoss)
	assert.Less(t, low.BreakoutConfirmation, high.BreakoutConfirmation)
}

func TestNormalizePriceChangeHandlesZeroATR(t *testing.T) {
	assert.Equal(t, 0.0, NormalizePriceChange(5, 0))
	assert.InDelta(t, 2.5, NormalizePriceChange(5, 2), 1e-9)
}

func TestClassifyVolatilityRegimeInsufficientHistory(t *testing.T) {
	got := ClassifyVolatilityRegime(5, []float64{1, 2, 3}, 10)
	assert.Equal(t, RegimeNormal, got)
}

func TestClassifyVolatilityRegimeBuckets(t *testing.T) {
	history := make([]float64, 40)
	for i := range history {
		history[i] = float64(i + 1)
	}
	assert.Equal(t, RegimeLow, ClassifyVolatilityRegime(1, history, 40))
	assert.Equal(t, RegimeHigh, ClassifyVolatilityRegime(100, history, 40))
	assert.Equal(t, RegimeNormal, ClassifyVolatilityRegime(20, history, 40))
}

func TestClassifyVolatilityRegimeDropsNaN(t *testing.T) {
	history := []float64{math.NaN(), 1, 2, 3, 4, 5}
	got := ClassifyVolatilityRegime(3, history, 10)
	assert.Equal(t, RegimeNormal, got, "fewer than lookback clean samples should fall back to normal")
}

func TestPercentileThresholdsRequiresMinimumSamples(t *testing.T) {
	short := make([]float64, 19)
	assert.Empty(t, PercentileThresholds(short))

	long := make([]float64, 20)
	for i := range long {
		long[i] = float64(i)
	}
	got := PercentileThresholds(long)
	assert.NotEmpty(t, got)
	assert.Greater(t, got["extreme_high"], got["high"])
	assert.Greater(t, got["high"], got["moderate_high"])
	assert.Greater(t, got["moderate_low"], got["low"])
	assert.Greater(t, got["low"], got["extreme_low"])
}

func TestAdaptiveRSIThresholdsFallsBackWithoutHistory(t *testing.T) {
	oversold, overbought := AdaptiveRSIThresholds([]float64{40, 50}, 14, RSINormal)
	assert.Equal(t, 30.0, oversold)
	assert.Equal(t, 70.0, overbought)
}

func TestAdaptiveRSIThresholdsClampToSaneBounds(t *testing.T) {
	flat := make([]float64, 14)
	for i := range flat {
		flat[i] = 50
	}
	oversold, overbought := AdaptiveRSIThresholds(flat, 14, RSIAggressive)
	assert.GreaterOrEqual(t, oversold, 20.0)
	assert.LessOrEqual(t, oversold, 40.0)
	assert.GreaterOrEqual(t, overbought, 60.0)
	assert.LessOrEqual(t, overbought, 80.0)
}

func TestAdaptiveRSIThresholdsSensitivityOrdering(t *testing.T) {
	series := make([]float64, 50)
	for i := range series {
		series[i] = float64(i)
	}
	consOversold, consOverbought := AdaptiveRSIThresholds(series, 50, RSIConservative)
	aggOversold, aggOverbought := AdaptiveRSIThresholds(series, 50, RSIAggressive)
	assert.GreaterOrEqual(t, consOversold, aggOversold, "conservative should not be more permissive than aggressive")
	assert.LessOrEqual(t, consOverbought, aggOverbought)
}

func TestAdaptiveVolumeThresholdInsufficientHistory(t *testing.T) {
	got := AdaptiveVolumeThreshold([]float64{1, 2}, 10, 3)
	assert.True(t, math.IsInf(got.SpikeThreshold, 1))
	assert.Equal(t, 0.0, got.Baseline)
}

func TestAdaptiveVolumeThresholdSpikeAboveBaseline(t *testing.T) {
	volumes := make([]float64, 30)
	for i := range volumes {
		volumes[i] = 100
	}
	got := AdaptiveVolumeThreshold(volumes, 30, 3)
	assert.InDelta(t, 100.0, got.Baseline, 1e-9)
	assert.GreaterOrEqual(t, got.SpikeThreshold, got.Baseline)
	assert.GreaterOrEqual(t, got.P99, got.P95)
	assert.GreaterOrEqual(t, got.P95, got.P90)
}

func TestAdaptiveBollingerWidthInsufficientHistory(t *testing.T) {
	got := AdaptiveBollingerWidth([]float64{0.1, 0.2}, 20)
	assert.Equal(t, 0.0, got.SqueezeThreshold)
	assert.True(t, math.IsInf(got.ExpansionThreshold, 1))
}

func TestAdaptiveBollingerWidthOrdering(t *testing.T) {
	bandwidth := make([]float64, 30)
	for i := range bandwidth {
		bandwidth[i] = float64(i)
	}
	got := AdaptiveBollingerWidth(bandwidth, 30)
	assert.Less(t, got.ExtremeSqueeze, got.Squeeze)
	assert.Less(t, got.Squeeze, got.NormalLow)
	assert.Less(t, got.NormalLow, got.NormalHigh)
	assert.Less(t, got.NormalHigh, got.Expansion)
	assert.Less(t, got.Expansion, got.ExtremeExpansion)
	assert.Equal(t, got.Squeeze, got.SqueezeThreshold)
	assert.Equal(t, got.Expansion, got.ExpansionThreshold)
}
