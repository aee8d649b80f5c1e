// Package trend classifies an asset's price action over a fixed set
// of timeframes into uptrend/downtrend/sideways, in either legacy
// (regression-only) or advanced (indicator-confirmed) mode.
package trend

import (
	"math"

	"github.com/cryptrend/analytics/internal/confidence"
	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
	"github.com/cryptrend/analytics/internal/stats"
)

// Mode selects which classification algorithm Classifier.Classify runs.
type Mode string

const (
	ModeLegacy   Mode = "legacy"
	ModeAdvanced Mode = "advanced"
)

// Classifier turns one asset's bar history into a TrendRecord per
// timeframe.
type Classifier struct {
	Mode Mode
}

// Classify evaluates a single timeframe window ending at the most
// recent bar. bars must already be the full history available (the
// orchestrator loads 180 days); ind is the indicator kernel's output
// aligned to the same bars, required in advanced mode.
func (c Classifier) Classify(assetID int64, bars []domain.Bar, ind indicators.Result, tf domain.Timeframe) (domain.TrendRecord, bool) {
	window := windowFor(bars, tf)
	if len(window) < tf.MinDataPoints() {
		return domain.TrendRecord{}, false
	}

	if c.Mode == ModeAdvanced && len(bars) >= 50 {
		return c.classifyAdvanced(assetID, bars, window, ind, tf)
	}
	return c.classifyLegacy(assetID, window, tf)
}

func windowFor(bars []domain.Bar, tf domain.Timeframe) []domain.Bar {
	days := tf.Days()
	if len(bars) == 0 {
		return nil
	}
	cutoff := bars[len(bars)-1].Timestamp.AddDate(0, 0, -days)
	start := 0
	for i, b := range bars {
		if !b.Timestamp.Before(cutoff) {
			start = i
			break
		}
	}
	return bars[start:]
}

// classifyLegacy regresses close price against its positional index
// and classifies by percent price change, boosted by timeframe and
// statistical significance and penalized by volatility.
func (c Classifier) classifyLegacy(assetID int64, window []domain.Bar, tf domain.Timeframe) (domain.TrendRecord, bool) {
	closes := domain.Closes(window)
	reg := stats.Linregress(closes)

	startPrice := closes[0]
	endPrice := closes[len(closes)-1]
	priceChangePercent := 0.0
	if startPrice != 0 {
		priceChangePercent = (endPrice - startPrice) / startPrice * 100
	}
	volatility := 0.0
	if mean := indicators.Mean(closes); mean != 0 {
		volatility = indicators.StdDev(closes) / mean * 100
	}

	trendType := classifyByPriceChange(priceChangePercent)

	significanceBoost := 0.0
	if !math.IsNaN(reg.PValue) {
		switch {
		case reg.PValue < 0.05:
			significanceBoost = 0.2
		case reg.PValue < 0.1:
			significanceBoost = 0.1
		}
	}
	volatilityPenalty := math.Min(volatility/100, 0.3)
	conf := clamp01(reg.RSquared + tf.TimeframeBonus() + significanceBoost - volatilityPenalty)

	rec := domain.TrendRecord{
		AssetID:            assetID,
		Timeframe:           tf,
		TrendType:           trendType,
		Confidence:          conf,
		StartTime:           window[0].Timestamp,
		EndTime:             window[len(window)-1].Timestamp,
		PriceChangePercent:  priceChangePercent,
		Metadata: map[string]any{
			"slope":            reg.Slope,
			"r_squared":        reg.RSquared,
			"p_value":          reg.PValue,
			"volatility":       volatility,
			"data_points":      len(window),
			"start_price":      startPrice,
			"end_price":        endPrice,
			"timeframe_days":   tf.Days(),
			"analysis_mode":    string(ModeLegacy),
		},
	}
	return rec, true
}

// classifyAdvanced takes the trend direction from price/SMA(50)/EMA(20)
// alignment (falling back to its own price-change rule when either
// average is not yet defined) and scores confidence with the
// shared confidence model instead of the regression-derived formula.
func (c Classifier) classifyAdvanced(assetID int64, bars []domain.Bar, window []domain.Bar, ind indicators.Result, tf domain.Timeframe) (domain.TrendRecord, bool) {
	closes := domain.Closes(window)
	startPrice := closes[0]
	endPrice := closes[len(closes)-1]
	priceChangePercent := 0.0
	if startPrice != 0 {
		priceChangePercent = (endPrice - startPrice) / startPrice * 100
	}

	lastIdx := len(bars) - 1
	price := bars[lastIdx].Close
	sma50, sma50ok := indicators.LastDefined(ind.SMA50)
	ema20, ema20ok := indicators.LastDefined(ind.EMA20)

	var trendType domain.TrendType
	if sma50ok && ema20ok {
		switch {
		case price > sma50 && ema20 > sma50:
			trendType = domain.TrendUptrend
		case price < sma50 && ema20 < sma50:
			trendType = domain.TrendDowntrend
		default:
			trendType = domain.TrendSideways
		}
	} else {
		trendType = classifyByPriceChangeFallback(priceChangePercent)
	}

	adxVal := ind.ADX[lastIdx]

	// Trend classification scores confidence on trend strength (ADX)
	// alone; the richer momentum/volatility/noise components are
	// reserved for signal detection, where a specific event (a
	// crossover, a breakout) gives them a meaningful reference point.
	scores := confidence.Calculate(confidence.Inputs{
		ADXValue:                adxVal,
		MACDHistogramPercentile: math.NaN(),
		BollingerBandwidthPercentile: math.NaN(),
		RecentPricePValue:       math.NaN(),
		SignalType:              string(trendType),
	})

	volatility := 0.0
	if mean := indicators.Mean(closes); mean != 0 {
		volatility = indicators.StdDev(closes) / mean * 100
	}

	rec := domain.TrendRecord{
		AssetID:            assetID,
		Timeframe:           tf,
		TrendType:           trendType,
		Confidence:          scores.Overall,
		StartTime:           window[0].Timestamp,
		EndTime:             window[len(window)-1].Timestamp,
		PriceChangePercent:  priceChangePercent,
		Metadata: map[string]any{
			"volatility":            volatility,
			"data_points":           len(window),
			"start_price":           startPrice,
			"end_price":             endPrice,
			"timeframe_days":        tf.Days(),
			"sma_50":                sma50,
			"ema_20":                ema20,
			"adx":                   adxVal,
			"atr":                   ind.ATR[lastIdx],
			"atr_degraded":          ind.ATRDegraded,
			"confidence_components": scores,
			"analysis_mode":         string(ModeAdvanced),
		},
	}
	return rec, true
}

// classifyByPriceChange is legacy mode's |Δ|<1% sideways rule.
func classifyByPriceChange(percentChange float64) domain.TrendType {
	switch {
	case math.Abs(percentChange) < 1.0:
		return domain.TrendSideways
	case percentChange > 5.0:
		return domain.TrendUptrend
	case percentChange < -5.0:
		return domain.TrendDowntrend
	default:
		return domain.TrendSideways
	}
}

// classifyByPriceChangeFallback is advanced mode's own price-change
// rule, used only when SMA(50)/EMA(20) aren't both available yet.
func classifyByPriceChangeFallback(percentChange float64) domain.TrendType {
	switch {
	case math.Abs(percentChange) < 3.0:
		return domain.TrendSideways
	case percentChange > 5.0:
		return domain.TrendUptrend
	default:
		return domain.TrendDowntrend
	}
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
