// Package confidence implements the four-factor weighted scoring
// model shared by the trend classifier's advanced mode and the signal
// detector.
package confidence

import (
	"math"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
	"github.com/cryptrend/analytics/internal/stats"
)

// Weights are the fixed per-component weights of the overall score.
var Weights = struct {
	TrendStrength        float64
	MomentumConfirmation float64
	VolatilityContext    float64
	StatisticalNoise     float64
}{
	TrendStrength:        0.40,
	MomentumConfirmation: 0.30,
	VolatilityContext:    0.20,
	StatisticalNoise:     0.10,
}

// ComponentScores is the full breakdown behind one confidence value,
// attached verbatim to emitted metadata as "confidence_components".
type ComponentScores struct {
	TrendStrength        float64 `json:"trend_strength"`
	MomentumConfirmation float64 `json:"momentum_confirmation"`
	VolatilityContext    float64 `json:"volatility_context"`
	StatisticalNoise     float64 `json:"statistical_noise"`
	Overall              float64 `json:"overall"`
}

// Inputs bundles the raw readings the model scores. Percentile fields
// use NaN to mean "not available" (equivalent to the original's None).
type Inputs struct {
	ADXValue                     float64
	MACDHistogramPercentile      float64
	BollingerBandwidthPercentile float64
	RecentPricePValue            float64
	SignalType                   string
}

// Calculate scores the four components and applies signal-specific
// adjustments, returning a confidence clamped to [0, 1].
func Calculate(in Inputs) ComponentScores {
	scores := ComponentScores{
		TrendStrength:        trendScore(in.ADXValue),
		MomentumConfirmation: momentumScore(in.MACDHistogramPercentile),
		VolatilityContext:    volatilityScore(in.BollingerBandwidthPercentile, in.SignalType),
		StatisticalNoise:     noiseScore(in.RecentPricePValue),
	}

	overall := Weights.TrendStrength*scores.TrendStrength +
		Weights.MomentumConfirmation*scores.MomentumConfirmation +
		Weights.VolatilityContext*scores.VolatilityContext +
		Weights.StatisticalNoise*scores.StatisticalNoise

	overall = applySignalAdjustment(overall, in.SignalType, scores)
	scores.Overall = clamp01(overall)
	return scores
}

func trendScore(adx float64) float64 {
	if math.IsNaN(adx) {
		return 0.5
	}
	switch {
	case adx < 20:
		return 0.0
	case adx < 25:
		return 0.25
	case adx < 40:
		return 0.50 + (adx-25)/30
	default:
		return 1.0
	}
}

func momentumScore(percentile float64) float64 {
	if math.IsNaN(percentile) {
		return 0.5
	}
	switch {
	case percentile > 80 || percentile < 20:
		return 0.9
	case percentile > 70 || percentile < 30:
		return 0.7
	case percentile > 60 || percentile < 40:
		return 0.5
	default:
		return 0.3
	}
}

func volatilityScore(percentile float64, signalType string) float64 {
	if math.IsNaN(percentile) {
		return 0.5
	}
	if signalType == string(domain.SignalBollingerBreakout) || signalType == "squeeze_breakout" {
		switch {
		case percentile < 10:
			return 1.0
		case percentile < 25:
			return 0.8
		case percentile < 50:
			return 0.5
		default:
			return 0.3
		}
	}
	switch {
	case percentile >= 30 && percentile <= 70:
		return 0.8
	case percentile >= 20 && percentile <= 80:
		return 0.6
	default:
		return 0.4
	}
}

func noiseScore(pValue float64) float64 {
	if math.IsNaN(pValue) {
		return 0.5
	}
	switch {
	case pValue < 0.01:
		return 1.0
	case pValue < 0.05:
		return 0.8
	case pValue < 0.10:
		return 0.6
	case pValue < 0.20:
		return 0.4
	default:
		return 0.2
	}
}

func applySignalAdjustment(base float64, signalType string, scores ComponentScores) float64 {
	switch domain.SignalType(signalType) {
	case domain.SignalGoldenCross, domain.SignalDeathCross:
		if scores.TrendStrength > 0.7 {
			return base * 1.1
		}
	case domain.SignalMACDBullish, domain.SignalMACDBearish:
		if scores.MomentumConfirmation < 0.3 {
			return base * 0.8
		}
	case domain.SignalRSIOversold, domain.SignalRSIOverbought:
		if scores.TrendStrength < 0.3 {
			return base * 0.7
		}
	}
	return base
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ShortTermPValue fits a regression over the last `window` closes and
// returns its two-tailed p-value, or NaN if there aren't enough
// points.
func ShortTermPValue(closes []float64, window int) float64 {
	if len(closes) < window {
		return math.NaN()
	}
	recent := closes[len(closes)-window:]
	reg := stats.Linregress(recent)
	return reg.PValue
}

// HistogramPercentile scores `current` as the percentage of
// `historical` at or below it. Requires at least 20 historical
// samples; NaN otherwise.
func HistogramPercentile(current float64, historical []float64) float64 {
	if len(historical) < 20 {
		return math.NaN()
	}
	return indicators.PercentileOfScore(current, historical)
}
