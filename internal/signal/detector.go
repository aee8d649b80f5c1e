// Package signal scans an asset's bar history for tradeable events —
// pump-and-dump, volume anomalies, trend reversals, indicator
// crossovers — deduplicates and rate-limits the candidates, and scores
// each survivor's confidence.
package signal

import (
	"math"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
)

// Mode selects which detector families Detector.Scan runs.
type Mode string

const (
	ModeLegacy   Mode = "legacy"
	ModeAdvanced Mode = "advanced"
)

const minBarsToScan = 14

// Detector finds and filters signal candidates for one asset.
type Detector struct {
	Mode Mode
}

// Scan runs the full detection pipeline: sliding-window base detectors,
// advanced-mode indicator detectors (if Mode is advanced and enough
// bars exist), deduplication against both the in-run pool and
// `recent` (signals persisted in roughly the last 3 days, loaded by
// the orchestrator for cross-run dedup), weekly rate-limiting, and the
// pre-persistence quality gate.
func (d Detector) Scan(bars []domain.Bar, ind indicators.Result, assetID int64, recent []domain.SignalEvent) []domain.SignalEvent {
	if len(bars) < minBarsToScan {
		return nil
	}

	candidates := scanSlidingWindow(bars, assetID)
	if d.Mode == ModeAdvanced && len(bars) >= 50 {
		candidates = append(candidates, scanAdvanced(bars, ind, assetID)...)
	}

	deduped := dedupe(candidates, recent)
	limited := rateLimit(deduped)
	return qualityGate(limited)
}

// dedupe drops any candidate whose (signal_type, |Δdetected_at| < 3
// days) matches an already-kept candidate or a previously persisted
// signal in `recent`.
func dedupe(candidates, recent []domain.SignalEvent) []domain.SignalEvent {
	const window = 3 * 24 * time.Hour

	var kept []domain.SignalEvent
	for _, c := range candidates {
		dup := false
		for _, k := range kept {
			if k.SignalType == c.SignalType && absDuration(c.DetectedAt.Sub(k.DetectedAt)) < window {
				dup = true
				break
			}
		}
		if !dup {
			for _, r := range recent {
				if r.SignalType == c.SignalType && absDuration(c.DetectedAt.Sub(r.DetectedAt)) < window {
					dup = true
					break
				}
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	return kept
}

// rateLimit caps emission at 2 signals per (asset, signal_type, ISO
// week). Since Scan processes one asset at a time, the asset
// dimension is implicit.
func rateLimit(candidates []domain.SignalEvent) []domain.SignalEvent {
	counts := make(map[domain.SignalType]map[time.Time]int)

	var limited []domain.SignalEvent
	for _, c := range candidates {
		week := domain.ISOWeekStart(c.DetectedAt)
		if counts[c.SignalType] == nil {
			counts[c.SignalType] = make(map[time.Time]int)
		}
		if counts[c.SignalType][week] < 2 {
			counts[c.SignalType][week]++
			limited = append(limited, c)
		}
	}
	return limited
}

// qualityGate re-validates the three base-mode detectors whose
// thresholds double as a persistence gate; every other signal type
// passes through unconditionally.
func qualityGate(candidates []domain.SignalEvent) []domain.SignalEvent {
	var out []domain.SignalEvent
	for _, c := range candidates {
		if !passesQualityGate(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func passesQualityGate(s domain.SignalEvent) bool {
	switch s.SignalType {
	case domain.SignalPumpAndDump:
		pump, _ := s.Metadata["pump_percent"].(float64)
		dump, _ := s.Metadata["dump_percent"].(float64)
		spike := 0.0
		if s.VolumeSpikeRatio != nil {
			spike = *s.VolumeSpikeRatio
		}
		return pump >= 50 && dump <= -30 && spike >= 3.0
	case domain.SignalVolumeAnomaly:
		spike := 0.0
		if s.VolumeSpikeRatio != nil {
			spike = *s.VolumeSpikeRatio
		}
		return spike >= 5.0
	case domain.SignalBottomedOut:
		downtrend, _ := s.Metadata["downtrend_percent"].(float64)
		recovery, _ := s.Metadata["recovery_percent"].(float64)
		return downtrend <= -15 && recovery >= 10
	default:
		return true
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func floatPtr(v float64) *float64 { return &v }
