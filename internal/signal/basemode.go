package signal

import (
	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
)

var slidingWindowSizes = []int{7, 14, 21}

const slidingWindowStep = 3

// scanSlidingWindow runs the in-window detectors over every window
// size at every 3-bar offset, accumulating candidates into one pool.
// This is the detector set available regardless of mode.
func scanSlidingWindow(bars []domain.Bar, assetID int64) []domain.SignalEvent {
	var out []domain.SignalEvent
	for _, w := range slidingWindowSizes {
		if len(bars) < w {
			continue
		}
		for start := 0; start+w <= len(bars); start += slidingWindowStep {
			window := bars[start : start+w]
			out = append(out, detectInWindow(window, assetID)...)
		}
	}
	return out
}

func detectInWindow(window []domain.Bar, assetID int64) []domain.SignalEvent {
	var out []domain.SignalEvent
	if sig, ok := detectPumpAndDump(window, assetID); ok {
		out = append(out, sig)
	}
	if sig, ok := detectVolumeAnomaly(window, assetID); ok {
		out = append(out, sig)
	}
	if sig, ok := detectBottomedOut(window, assetID); ok {
		out = append(out, sig)
	}
	if sig, ok := detectParabolicRise(window, assetID); ok {
		out = append(out, sig)
	}
	if sig, ok := detectCapitulationDrop(window, assetID); ok {
		out = append(out, sig)
	}
	return out
}

func detectPumpAndDump(window []domain.Bar, assetID int64) (domain.SignalEvent, bool) {
	if len(window) < 12 {
		return domain.SignalEvent{}, false
	}
	closes := domain.Closes(window)
	volumes := domain.Volumes(window)
	half := len(window) / 2

	pumpHalf := closes[:half]
	dumpHalf := closes[half:]
	pumpStart := indicators.Min(pumpHalf)
	pumpPeak := indicators.Max(pumpHalf)
	dumpEnd := indicators.Min(dumpHalf)

	pumpPercent := (pumpPeak - pumpStart) / pumpStart * 100
	dumpPercent := (dumpEnd - pumpPeak) / pumpPeak * 100

	if !(pumpPercent > 50 && dumpPercent < -30) {
		return domain.SignalEvent{}, false
	}

	pumpVolumes := volumes[:half]
	avgVolume := indicators.Mean(pumpVolumes)
	spikeRatio := 1.0
	if avgVolume > 0 {
		spikeRatio = indicators.Max(pumpVolumes) / avgVolume
	}
	if spikeRatio < 3.0 {
		return domain.SignalEvent{}, false
	}

	confidence := clamp01((pumpPercent + indicators.Abs(dumpPercent)) / 120)
	return domain.SignalEvent{
		AssetID:          assetID,
		SignalType:       domain.SignalPumpAndDump,
		Confidence:       confidence,
		DetectedAt:       window[half].Timestamp,
		TriggerPrice:     floatPtr(pumpPeak),
		VolumeSpikeRatio: floatPtr(spikeRatio),
		Metadata: map[string]any{
			"pump_percent":     pumpPercent,
			"dump_percent":     dumpPercent,
			"window_size_days": len(window),
		},
	}, true
}

func detectVolumeAnomaly(window []domain.Bar, assetID int64) (domain.SignalEvent, bool) {
	if len(window) < 7 {
		return domain.SignalEvent{}, false
	}
	volumes := domain.Volumes(window)
	baseline := volumes[:len(volumes)-1]
	spike := volumes[len(volumes)-1]
	avgVolume := indicators.Mean(baseline)

	if !(avgVolume > 0 && spike > avgVolume*5) {
		return domain.SignalEvent{}, false
	}

	ratio := spike / avgVolume
	confidence := clamp01(spike / (8 * avgVolume))
	return domain.SignalEvent{
		AssetID:          assetID,
		SignalType:       domain.SignalVolumeAnomaly,
		Confidence:       confidence,
		DetectedAt:       window[len(window)-1].Timestamp,
		VolumeSpikeRatio: floatPtr(ratio),
		Metadata: map[string]any{
			"avg_volume":   avgVolume,
			"spike_volume": spike,
			"baseline_days": len(baseline),
		},
	}, true
}

func detectBottomedOut(window []domain.Bar, assetID int64) (domain.SignalEvent, bool) {
	if len(window) < 14 {
		return domain.SignalEvent{}, false
	}
	closes := domain.Closes(window)
	half := len(closes) / 2
	earlier := closes[:half]
	later := closes[half:]

	downtrend := (earlier[len(earlier)-1] - earlier[0]) / earlier[0] * 100
	recovery := (later[len(later)-1] - later[0]) / later[0] * 100

	if !(downtrend < -15 && recovery > 10) {
		return domain.SignalEvent{}, false
	}

	confidence := clamp01((indicators.Abs(downtrend) + recovery) / 40)
	return domain.SignalEvent{
		AssetID:      assetID,
		SignalType:   domain.SignalBottomedOut,
		Confidence:   confidence,
		DetectedAt:   window[len(window)-1].Timestamp,
		TriggerPrice: floatPtr(later[len(later)-1]),
		Metadata: map[string]any{
			"downtrend_percent": downtrend,
			"recovery_percent":  recovery,
			"pattern_days":      len(window),
		},
	}, true
}

func detectParabolicRise(window []domain.Bar, assetID int64) (domain.SignalEvent, bool) {
	if len(window) < 10 {
		return domain.SignalEvent{}, false
	}
	closes := domain.Closes(window)
	changes := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		changes = append(changes, (closes[i]-closes[i-1])/closes[i-1]*100)
	}
	if len(changes) < 5 {
		return domain.SignalEvent{}, false
	}

	increasing := 0
	for i := 1; i < len(changes); i++ {
		if changes[i] > changes[i-1] {
			increasing++
		}
	}
	totalRise := indicators.Sum(changes)

	if !(increasing >= 3 && totalRise > 50) {
		return domain.SignalEvent{}, false
	}

	confidence := clamp01(totalRise / 100)
	return domain.SignalEvent{
		AssetID:      assetID,
		SignalType:   domain.SignalParabolicRise,
		Confidence:   confidence,
		DetectedAt:   window[len(window)-1].Timestamp,
		TriggerPrice: floatPtr(closes[len(closes)-1]),
		Metadata: map[string]any{
			"total_rise_percent": totalRise,
			"increasing_changes": increasing,
			"avg_daily_change":   indicators.Mean(changes),
		},
	}, true
}

func detectCapitulationDrop(window []domain.Bar, assetID int64) (domain.SignalEvent, bool) {
	if len(window) < 14 {
		return domain.SignalEvent{}, false
	}
	closes := domain.Closes(window)
	half := len(closes) / 2
	earlier := closes[:half]
	later := closes[half:]

	downtrend := (earlier[len(earlier)-1] - earlier[0]) / earlier[0] * 100
	drop := (later[len(later)-1] - later[0]) / later[0] * 100

	if !(downtrend < -15 && drop < -25) {
		return domain.SignalEvent{}, false
	}

	confidence := clamp01((indicators.Abs(downtrend) + indicators.Abs(drop)) / 100)
	return domain.SignalEvent{
		AssetID:      assetID,
		SignalType:   domain.SignalCapitulationDrop,
		Confidence:   confidence,
		DetectedAt:   window[len(window)-1].Timestamp,
		TriggerPrice: floatPtr(later[len(later)-1]),
		Metadata: map[string]any{
			"downtrend_percent": downtrend,
			"drop_percent":      drop,
			"total_decline":     downtrend + drop,
		},
	}, true
}
