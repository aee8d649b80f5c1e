package domain

import "time"

// SignalType enumerates every signal the detector can emit. Base-mode
// detectors run in any mode; advanced-mode detectors additionally
// require the advanced indicator set.
type SignalType string

const (
	SignalPumpAndDump    SignalType = "pump_and_dump"
	SignalVolumeAnomaly  SignalType = "volume_anomaly"
	SignalBottomedOut    SignalType = "bottomed_out"
	SignalParabolicRise  SignalType = "parabolic_rise"
	SignalCapitulationDrop SignalType = "capitulation_drop"

	SignalMACDBullish    SignalType = "macd_bullish"
	SignalMACDBearish    SignalType = "macd_bearish"
	SignalGoldenCross    SignalType = "golden_cross"
	SignalDeathCross     SignalType = "death_cross"
	SignalBollingerBreakout SignalType = "bollinger_breakout"
	SignalRSIOversold    SignalType = "rsi_oversold"
	SignalRSIOverbought  SignalType = "rsi_overbought"
)

func (s SignalType) String() string { return string(s) }

// SignalEvent is one detected signal occurrence. The store appends;
// deduplication and rate limiting are the detector's responsibility,
// not a store constraint.
type SignalEvent struct {
	ID               int64          `db:"id" json:"id"`
	AssetID          int64          `db:"asset_id" json:"assetId"`
	SignalType       SignalType     `db:"signal_type" json:"signalType"`
	Confidence       float64        `db:"confidence" json:"confidence"`
	DetectedAt       time.Time      `db:"detected_at" json:"detectedAt"`
	TriggerPrice     *float64       `db:"trigger_price" json:"triggerPrice,omitempty"`
	VolumeSpikeRatio *float64       `db:"volume_spike_ratio" json:"volumeSpikeRatio,omitempty"`
	Metadata         map[string]any `db:"metadata" json:"metadata,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
}

// ISOWeekStart returns the Monday (UTC) that starts the ISO week
// containing t, used for per-week signal rate limiting.
func ISOWeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	offset := weekday - 1
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
