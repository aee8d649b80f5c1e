// Package stats provides the regression primitives the trend
// classifier and confidence model share, built on gonum rather
// than a hand-rolled OLS implementation.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Regression is an ordinary-least-squares fit of y over an implicit
// x = 0..n-1 index, with the significance diagnostics the original
// scipy.stats.linregress call provides.
type Regression struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	PValue    float64
	StdErr    float64
}

// Linregress fits y against its positional index (0, 1, 2, ...),
// mirroring scipy.stats.linregress(range(len(y)), y). Returns the
// zero value with PValue NaN if fewer than 3 points are given.
func Linregress(y []float64) Regression {
	n := len(y)
	if n < 3 {
		return Regression{PValue: math.NaN()}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, intercept, slope)

	var sumSqResid, sumSqX float64
	meanX := stat.Mean(x, nil)
	for i, xi := range x {
		fitted := intercept + slope*xi
		resid := y[i] - fitted
		sumSqResid += resid * resid
		sumSqX += (xi - meanX) * (xi - meanX)
	}

	df := float64(n - 2)
	if df <= 0 || sumSqX == 0 {
		return Regression{Slope: slope, Intercept: intercept, RSquared: r2, PValue: math.NaN()}
	}

	residualVariance := sumSqResid / df
	stdErr := math.Sqrt(residualVariance / sumSqX)

	pValue := 1.0
	if stdErr > 0 {
		t := slope / stdErr
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		pValue = 2 * (1 - dist.CDF(math.Abs(t)))
	} else if slope != 0 {
		// An exact non-flat fit is maximally significant.
		pValue = 0
	}

	return Regression{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		PValue:    pValue,
		StdErr:    stdErr,
	}
}

// LinregressHours fits y against elapsed hours since the first sample
// (the legacy trend analyzer's time-based variant), for series where
// uneven sampling matters. No code outside this package's tests calls
// it.
func LinregressHours(hoursSinceStart, y []float64) Regression {
	n := len(y)
	if n < 3 || len(hoursSinceStart) != n {
		return Regression{PValue: math.NaN()}
	}

	intercept, slope := stat.LinearRegression(hoursSinceStart, y, nil, false)
	r2 := stat.RSquared(hoursSinceStart, y, nil, intercept, slope)

	var sumSqResid, sumSqX float64
	meanX := stat.Mean(hoursSinceStart, nil)
	for i, xi := range hoursSinceStart {
		fitted := intercept + slope*xi
		resid := y[i] - fitted
		sumSqResid += resid * resid
		sumSqX += (xi - meanX) * (xi - meanX)
	}

	df := float64(n - 2)
	if df <= 0 || sumSqX == 0 {
		return Regression{Slope: slope, Intercept: intercept, RSquared: r2, PValue: math.NaN()}
	}

	stdErr := math.Sqrt((sumSqResid / df) / sumSqX)
	pValue := 1.0
	if stdErr > 0 {
		t := slope / stdErr
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		pValue = 2 * (1 - dist.CDF(math.Abs(t)))
	}

	return Regression{Slope: slope, Intercept: intercept, RSquared: r2, PValue: pValue, StdErr: stdErr}
}
