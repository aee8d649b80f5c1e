package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanStdDevVariance(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(values), 1e-9)
	assert.InDelta(t, 2.0, StdDev(values), 1e-9)
	assert.InDelta(t, 4.0, Variance(values), 1e-9)
}

func TestMeanStdDevEmptyAndSingleton(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.Equal(t, 0.0, Variance([]float64{5}))
}

func TestMaxMinF(t *testing.T) {
	assert.Equal(t, 5.0, MaxF(5, 3))
	assert.Equal(t, 3.0, MinF(5, 3))
	assert.Equal(t, 7.0, Max([]float64{1, 7, 3}))
	assert.Equal(t, 1.0, Min([]float64{1, 7, 3}))
}

func TestMedianEvenAndOdd(t *testing.T) {
	assert.InDelta(t, 3.0, Median([]float64{1, 2, 3, 4, 5}), 1e-9)
	assert.InDelta(t, 2.5, Median([]float64{1, 2, 3, 4}), 1e-9)
}

func TestMADOfConstantSeriesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, MAD([]float64{5, 5, 5, 5}))
}

func TestSMALength(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sma := SMA(values, 3)
	assert.Len(t, sma, 3)
	assert.InDelta(t, 2.0, sma[0], 1e-9)
	assert.InDelta(t, 4.0, sma[2], 1e-9)
}

func TestSMAInsufficientData(t *testing.T) {
	assert.Nil(t, SMA([]float64{1, 2}, 5))
}

func TestEMASeededBySMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	ema := EMA(values, 3)
	assert.InDelta(t, 2.0, ema[0], 1e-9, "first EMA value should equal the seed SMA")
	assert.Len(t, ema, 4)
}

func TestTrueRangePicksWidestSpan(t *testing.T) {
	assert.InDelta(t, 15.0, TrueRange(10, 5, 20), 1e-9)
	assert.InDelta(t, 5.0, TrueRange(10, 5, 6), 1e-9)
}

func TestPercentileMatchesKnownQuantiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.InDelta(t, 1.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 10.0, Percentile(values, 100), 1e-9)
	assert.InDelta(t, 5.5, Percentile(values, 50), 1e-9)
}

func TestPercentileInvalidInputReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 0.0, Percentile([]float64{1, 2}, -1))
	assert.Equal(t, 0.0, Percentile([]float64{1, 2}, 101))
}

func TestPercentileOfScoreBoundaries(t *testing.T) {
	history := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 0.0, PercentileOfScore(0, history), 1e-9)
	assert.InDelta(t, 100.0, PercentileOfScore(100, history), 1e-9)
	assert.InDelta(t, 60.0, PercentileOfScore(3, history), 1e-9, "a tied value counts as at or below")
}

func TestPercentileOfScoreEmptyHistory(t *testing.T) {
	assert.Equal(t, 0.0, PercentileOfScore(5, nil))
}

func TestGainsLossesSeparatesDirection(t *testing.T) {
	gains, losses := GainsLosses([]float64{1, -2, 0, 3})
	assert.Equal(t, []float64{1, 0, 0, 3}, gains)
	assert.Equal(t, []float64{0, 2, 0, 0}, losses)
}

func TestDiffLength(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, Diff([]float64{1, 2, 3, 4}))
	assert.Nil(t, Diff([]float64{1}))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3.0, Abs(-3))
	assert.Equal(t, 3.0, Abs(3))
}

func TestNaNPropagatesThroughMean(t *testing.T) {
	m := Mean([]float64{1, math.NaN(), 3})
	assert.True(t, math.IsNaN(m))
}
