package signal

import (
	"math"

	"github.com/cryptrend/analytics/internal/confidence"
	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
	"github.com/cryptrend/analytics/internal/thresholds"
)

// notAvailable marks a confidence.Inputs field the caller has no
// reading for, matching the original's `None` fields.
var notAvailable = math.NaN()

// scanAdvanced runs the indicator-driven detectors: MACD crossovers,
// SMA(50)/SMA(200) golden/death crosses, Bollinger squeeze breakouts,
// and adaptive-threshold RSI exits. Each assigns confidence via the
// shared four-factor model rather than a hand-rolled formula. The
// histogram and bandwidth percentiles are read at the crossing bar;
// the ADX input is the latest defined ADX reading for every signal,
// not the reading at the crossing bar.
func scanAdvanced(bars []domain.Bar, ind indicators.Result, assetID int64) []domain.SignalEvent {
	var out []domain.SignalEvent
	closes := domain.Closes(bars)
	currentADX, _ := indicators.LastDefined(ind.ADX)

	out = append(out, detectMACDSignals(bars, closes, ind, assetID, currentADX)...)
	out = append(out, detectMACrossSignals(bars, closes, ind, assetID, currentADX)...)
	out = append(out, detectBollingerSignals(bars, closes, ind, assetID, currentADX)...)
	out = append(out, detectRSISignals(bars, closes, ind, assetID, currentADX)...)
	return out
}

func detectMACDSignals(bars []domain.Bar, closes []float64, ind indicators.Result, assetID int64, currentADX float64) []domain.SignalEvent {
	historical := dropNaN(ind.MACDHistogram)
	var bullish, bearish []domain.SignalEvent

	for i := 1; i < len(bars); i++ {
		if indicators.IsMissing(ind.MACD[i-1]) || indicators.IsMissing(ind.MACD[i]) {
			continue
		}
		prevDiff := ind.MACD[i-1] - ind.MACDSignal[i-1]
		diff := ind.MACD[i] - ind.MACDSignal[i]

		var signalType domain.SignalType
		switch {
		case prevDiff <= 0 && diff > 0:
			signalType = domain.SignalMACDBullish
		case prevDiff >= 0 && diff < 0:
			signalType = domain.SignalMACDBearish
		default:
			continue
		}

		histValue := ind.MACDHistogram[i]
		percentile := confidence.HistogramPercentile(histValue, historical)
		scores := confidence.Calculate(confidence.Inputs{
			ADXValue:                     currentADX,
			MACDHistogramPercentile:      percentile,
			BollingerBandwidthPercentile: notAvailable,
			RecentPricePValue:            notAvailable,
			SignalType:                   string(signalType),
		})

		sig := domain.SignalEvent{
			AssetID:      assetID,
			SignalType:   signalType,
			Confidence:   scores.Overall,
			DetectedAt:   bars[i].Timestamp,
			TriggerPrice: floatPtr(closes[i]),
			Metadata: map[string]any{
				"histogram_value":      histValue,
				"histogram_percentile": percentile,
				"confidence_components": scores,
				"analysis_mode":         "advanced",
			},
		}
		if signalType == domain.SignalMACDBullish {
			bullish = append(bullish, sig)
		} else {
			bearish = append(bearish, sig)
		}
	}

	var out []domain.SignalEvent
	out = append(out, lastN(bullish, 3)...)
	out = append(out, lastN(bearish, 3)...)
	return out
}

func detectMACrossSignals(bars []domain.Bar, closes []float64, ind indicators.Result, assetID int64, currentADX float64) []domain.SignalEvent {
	var golden, death []domain.SignalEvent

	for i := 1; i < len(bars); i++ {
		if indicators.IsMissing(ind.SMA50[i-1]) || indicators.IsMissing(ind.SMA200[i-1]) ||
			indicators.IsMissing(ind.SMA50[i]) || indicators.IsMissing(ind.SMA200[i]) {
			continue
		}
		prevDiff := ind.SMA50[i-1] - ind.SMA200[i-1]
		diff := ind.SMA50[i] - ind.SMA200[i]

		var signalType domain.SignalType
		switch {
		case prevDiff <= 0 && diff > 0:
			signalType = domain.SignalGoldenCross
		case prevDiff >= 0 && diff < 0:
			signalType = domain.SignalDeathCross
		default:
			continue
		}

		scores := confidence.Calculate(confidence.Inputs{
			ADXValue:                     currentADX,
			MACDHistogramPercentile:      notAvailable,
			BollingerBandwidthPercentile: notAvailable,
			RecentPricePValue:            notAvailable,
			SignalType:                   string(signalType),
		})

		sig := domain.SignalEvent{
			AssetID:      assetID,
			SignalType:   signalType,
			Confidence:   scores.Overall,
			DetectedAt:   bars[i].Timestamp,
			TriggerPrice: floatPtr(closes[i]),
			Metadata: map[string]any{
				"sma_50":                ind.SMA50[i],
				"sma_200":               ind.SMA200[i],
				"confidence_components": scores,
				"analysis_mode":         "advanced",
			},
		}
		if signalType == domain.SignalGoldenCross {
			golden = append(golden, sig)
		} else {
			death = append(death, sig)
		}
	}

	var out []domain.SignalEvent
	out = append(out, lastN(golden, 1)...)
	out = append(out, lastN(death, 1)...)
	return out
}

const bollingerTrailingWindow = 100
const bollingerSqueezePercentile = 10

func detectBollingerSignals(bars []domain.Bar, closes []float64, ind indicators.Result, assetID int64, currentADX float64) []domain.SignalEvent {
	historical := dropNaN(ind.BBWidth)
	var breakouts []domain.SignalEvent

	for i := bollingerTrailingWindow; i < len(bars); i++ {
		trailing := dropNaN(ind.BBWidth[i-bollingerTrailingWindow : i])
		if len(trailing) < bollingerTrailingWindow {
			continue
		}
		threshold := indicators.Percentile(trailing, bollingerSqueezePercentile)

		prevWidth := ind.BBWidth[i-1]
		currWidth := ind.BBWidth[i]
		if indicators.IsMissing(prevWidth) || indicators.IsMissing(currWidth) {
			continue
		}
		if !(prevWidth <= threshold && currWidth > threshold) {
			continue
		}

		percentile := confidence.HistogramPercentile(currWidth, historical)
		scores := confidence.Calculate(confidence.Inputs{
			ADXValue:                     currentADX,
			MACDHistogramPercentile:      notAvailable,
			BollingerBandwidthPercentile: percentile,
			RecentPricePValue:            notAvailable,
			SignalType:                   "squeeze_breakout",
		})

		breakouts = append(breakouts, domain.SignalEvent{
			AssetID:      assetID,
			SignalType:   domain.SignalBollingerBreakout,
			Confidence:   scores.Overall,
			DetectedAt:   bars[i].Timestamp,
			TriggerPrice: floatPtr(closes[i]),
			Metadata: map[string]any{
				"bandwidth":             currWidth,
				"bandwidth_percentile":  percentile,
				"confidence_components": scores,
				"analysis_mode":         "advanced",
			},
		})
	}

	return lastN(breakouts, 2)
}

func detectRSISignals(bars []domain.Bar, closes []float64, ind indicators.Result, assetID int64, currentADX float64) []domain.SignalEvent {
	clean := dropNaN(ind.RSI)
	if len(clean) <= 200 {
		return nil
	}
	oversold, overbought := thresholds.AdaptiveRSIThresholds(ind.RSI, 200, thresholds.RSINormal)

	var oversoldExits, overboughtExits []domain.SignalEvent
	for i := 1; i < len(bars); i++ {
		if indicators.IsMissing(ind.RSI[i-1]) || indicators.IsMissing(ind.RSI[i]) {
			continue
		}

		var signalType domain.SignalType
		switch {
		case ind.RSI[i-1] < oversold && ind.RSI[i] >= oversold:
			signalType = domain.SignalRSIOversold
		case ind.RSI[i-1] > overbought && ind.RSI[i] <= overbought:
			signalType = domain.SignalRSIOverbought
		default:
			continue
		}

		scores := confidence.Calculate(confidence.Inputs{
			ADXValue:                     currentADX,
			MACDHistogramPercentile:      notAvailable,
			BollingerBandwidthPercentile: notAvailable,
			RecentPricePValue:            notAvailable,
			SignalType:                   string(signalType),
		})

		sig := domain.SignalEvent{
			AssetID:      assetID,
			SignalType:   signalType,
			Confidence:   scores.Overall,
			DetectedAt:   bars[i].Timestamp,
			TriggerPrice: floatPtr(closes[i]),
			Metadata: map[string]any{
				"rsi_value":             ind.RSI[i],
				"oversold_threshold":    oversold,
				"overbought_threshold":  overbought,
				"confidence_components": scores,
				"analysis_mode":         "advanced",
			},
		}
		if signalType == domain.SignalRSIOversold {
			oversoldExits = append(oversoldExits, sig)
		} else {
			overboughtExits = append(overboughtExits, sig)
		}
	}

	var out []domain.SignalEvent
	out = append(out, lastN(oversoldExits, 2)...)
	out = append(out, lastN(overboughtExits, 2)...)
	return out
}

func lastN(signals []domain.SignalEvent, n int) []domain.SignalEvent {
	if len(signals) <= n {
		return signals
	}
	return signals[len(signals)-n:]
}

func dropNaN(series []float64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if !indicators.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}
