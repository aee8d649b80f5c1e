package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinregressInsufficientPoints(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		y := make([]float64, n)
		reg := Linregress(y)
		assert.True(t, math.IsNaN(reg.PValue), "n=%d should yield NaN p-value", n)
	}
}

func TestLinregressPerfectLine(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	reg := Linregress(y)

	assert.InDelta(t, 1.0, reg.Slope, 1e-6)
	assert.InDelta(t, 1.0, reg.Intercept, 1e-6)
	assert.InDelta(t, 1.0, reg.RSquared, 1e-6)
	assert.Less(t, reg.PValue, 0.01, "a perfect line should be highly significant")
}

func TestLinregressFlatSeries(t *testing.T) {
	y := []float64{5, 5, 5, 5, 5}
	reg := Linregress(y)

	assert.InDelta(t, 0.0, reg.Slope, 1e-9)
}

func TestLinregressNoisySeriesHighPValue(t *testing.T) {
	// Alternating series has no consistent linear trend.
	y := []float64{1, 5, 1, 5, 1, 5, 1, 5}
	reg := Linregress(y)

	assert.Greater(t, reg.PValue, 0.10, "an oscillating series shouldn't look like a significant trend")
}

func TestLinregressHoursMismatchedLengths(t *testing.T) {
	reg := LinregressHours([]float64{0, 1, 2}, []float64{1, 2})
	assert.True(t, math.IsNaN(reg.PValue))
}

func TestLinregressHoursUnevenSampling(t *testing.T) {
	hours := []float64{0, 1, 2, 10, 20}
	y := []float64{1, 2, 3, 11, 21}
	reg := LinregressHours(hours, y)

	assert.InDelta(t, 1.0, reg.Slope, 1e-6)
}
