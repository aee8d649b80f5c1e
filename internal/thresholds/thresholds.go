// Package thresholds computes the adaptive, data-derived bounds the
// signal detector and trend classifier use in place of fixed cutoffs.
package thresholds

import (
	"math"

	"github.com/cryptrend/analytics/internal/indicators"
)

// madToSigmaConstant converts a median absolute deviation to an
// equivalent normal-distribution standard deviation.
const madToSigmaConstant = 1.4826

// ATRMultipliers holds the per-purpose ATR multiplier set used to turn
// a raw ATR reading into a price-distance threshold.
type ATRMultipliers struct {
	StopLoss             float64
	TakeProfit           float64
	SignificantMove       float64
	BreakoutConfirmation float64
	TrendFilter          float64
}

// DefaultATRMultipliers are the "normal" regime multipliers.
func DefaultATRMultipliers() ATRMultipliers {
	return ATRMultipliers{StopLoss: 2.0, TakeProfit: 3.0, SignificantMove: 1.5, BreakoutConfirmation: 1.0, TrendFilter: 0.5}
}

// RegimeMultipliers returns the multiplier set for a volatility regime.
func RegimeMultipliers(regime VolatilityRegime) ATRMultipliers {
	switch regime {
	case RegimeLow:
		return ATRMultipliers{StopLoss: 1.5, TakeProfit: 2.0, BreakoutConfirmation: 0.75, SignificantMove: 1.0}
	case RegimeHigh:
		return ATRMultipliers{StopLoss: 3.0, TakeProfit: 4.0, BreakoutConfirmation: 1.5, SignificantMove: 2.0}
	default:
		return DefaultATRMultipliers()
	}
}

// ATRThresholds converts an ATR value into absolute price distances
// per purpose using the given multiplier set.
func ATRThresholds(atr float64, mult ATRMultipliers) map[string]float64 {
	return map[string]float64{
		"stop_loss":             atr * mult.StopLoss,
		"take_profit":           atr * mult.TakeProfit,
		"significant_move":      atr * mult.SignificantMove,
		"breakout_confirmation": atr * mult.BreakoutConfirmation,
		"trend_filter":          atr * mult.TrendFilter,
	}
}

// NormalizePriceChange expresses a price change in ATR units.
func NormalizePriceChange(priceChange, atr float64) float64 {
	if atr == 0 {
		return 0
	}
	return priceChange / atr
}

// VolatilityRegime classifies recent volatility relative to history.
type VolatilityRegime string

const (
	RegimeLow    VolatilityRegime = "low"
	RegimeNormal VolatilityRegime = "normal"
	RegimeHigh   VolatilityRegime = "high"
)

// ClassifyVolatilityRegime compares the current ATR to the 25th/75th
// percentile of the trailing `lookback` historical ATR readings.
func ClassifyVolatilityRegime(currentATR float64, historicalATR []float64, lookback int) VolatilityRegime {
	clean := dropNaN(historicalATR)
	if len(clean) < lookback {
		return RegimeNormal
	}
	recent := clean[len(clean)-lookback:]
	p25 := indicators.Percentile(recent, 25)
	p75 := indicators.Percentile(recent, 75)

	switch {
	case currentATR < p25:
		return RegimeLow
	case currentATR > p75:
		return RegimeHigh
	default:
		return RegimeNormal
	}
}

// PercentileThresholds computes the fixed percentile ladder over a
// value history. Requires at least 20 clean samples; returns an empty
// map otherwise (mirroring the original's "insufficient data" return).
func PercentileThresholds(values []float64) map[string]float64 {
	clean := dropNaN(values)
	if len(clean) < 20 {
		return map[string]float64{}
	}
	return map[string]float64{
		"extreme_high":  indicators.Percentile(clean, 95),
		"high":          indicators.Percentile(clean, 85),
		"moderate_high": indicators.Percentile(clean, 70),
		"moderate_low":  indicators.Percentile(clean, 30),
		"low":           indicators.Percentile(clean, 15),
		"extreme_low":   indicators.Percentile(clean, 5),
	}
}

// RSISensitivity selects the percentile pair used for the adaptive
// RSI threshold calculation.
type RSISensitivity string

const (
	RSIConservative RSISensitivity = "conservative"
	RSINormal       RSISensitivity = "normal"
	RSIAggressive   RSISensitivity = "aggressive"
)

// AdaptiveRSIThresholds computes oversold/overbought levels from the
// trailing `lookback` RSI readings, clamped to sane bounds. Falls back
// to the fixed (30, 70) pair when there isn't enough history.
func AdaptiveRSIThresholds(rsiSeries []float64, lookback int, sensitivity RSISensitivity) (oversold, overbought float64) {
	clean := dropNaN(rsiSeries)
	if len(clean) < lookback {
		return 30.0, 70.0
	}
	recent := clean[len(clean)-lookback:]

	var lowPct, highPct float64
	switch sensitivity {
	case RSIConservative:
		lowPct, highPct = 20, 80
	case RSIAggressive:
		lowPct, highPct = 10, 90
	default:
		lowPct, highPct = 15, 85
	}

	oversold = clamp(indicators.Percentile(recent, lowPct), 20, 40)
	overbought = clamp(indicators.Percentile(recent, highPct), 60, 80)
	return
}

// VolumeThreshold holds the adaptive volume-spike and percentile
// thresholds derived from recent volume.
type VolumeThreshold struct {
	SpikeThreshold float64
	Baseline       float64
	P90            float64
	P95            float64
	P99            float64
}

// AdaptiveVolumeThreshold computes a median+MAD spike threshold and
// percentile ladder over the trailing `lookback` volumes.
func AdaptiveVolumeThreshold(volumes []float64, lookback int, spikeSensitivity float64) VolumeThreshold {
	clean := dropNaN(volumes)
	if len(clean) < lookback {
		return VolumeThreshold{SpikeThreshold: math.Inf(1), Baseline: 0}
	}
	recent := clean[len(clean)-lookback:]
	baseline := indicators.Median(recent)
	mad := indicators.MAD(recent)

	return VolumeThreshold{
		SpikeThreshold: baseline + spikeSensitivity*mad*madToSigmaConstant,
		Baseline:       baseline,
		P90:            indicators.Percentile(recent, 90),
		P95:            indicators.Percentile(recent, 95),
		P99:            indicators.Percentile(recent, 99),
	}
}

// BollingerWidthThresholds holds the adaptive squeeze/expansion
// percentile ladder over recent bandwidth readings.
type BollingerWidthThresholds struct {
	ExtremeSqueeze    float64
	Squeeze           float64
	NormalLow         float64
	NormalHigh        float64
	Expansion         float64
	ExtremeExpansion  float64
	SqueezeThreshold  float64
	ExpansionThreshold float64
}

// AdaptiveBollingerWidth computes the squeeze/expansion percentile
// ladder over the trailing `lookback` bandwidth readings.
func AdaptiveBollingerWidth(bandwidth []float64, lookback int) BollingerWidthThresholds {
	clean := dropNaN(bandwidth)
	if len(clean) < lookback {
		return BollingerWidthThresholds{SqueezeThreshold: 0, ExpansionThreshold: math.Inf(1)}
	}
	recent := clean[len(clean)-lookback:]

	t := BollingerWidthThresholds{
		ExtremeSqueeze:   indicators.Percentile(recent, 5),
		Squeeze:          indicators.Percentile(recent, 10),
		NormalLow:        indicators.Percentile(recent, 25),
		NormalHigh:       indicators.Percentile(recent, 75),
		Expansion:        indicators.Percentile(recent, 90),
		ExtremeExpansion: indicators.Percentile(recent, 95),
	}
	t.SqueezeThreshold = t.Squeeze
	t.ExpansionThreshold = t.Expansion
	return t
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
