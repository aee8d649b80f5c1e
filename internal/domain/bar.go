package domain

import "time"

// Bar is one OHLCV sample for an asset. Open/High/Low are optional: a
// collector that only observes a spot price leaves them nil and the
// consuming code treats Close as a stand-in for all three (see
// degradeOHLC in internal/indicators/kernel.go).
type Bar struct {
	ID               int64     `db:"id" json:"id"`
	AssetID          int64     `db:"asset_id" json:"assetId"`
	Timestamp        time.Time `db:"timestamp" json:"timestamp"`
	Open             *float64  `db:"open" json:"open,omitempty"`
	High             *float64  `db:"high" json:"high,omitempty"`
	Low              *float64  `db:"low" json:"low,omitempty"`
	Close            float64   `db:"close" json:"close"`
	Volume           *float64  `db:"volume" json:"volume,omitempty"`
	MarketCap        *float64  `db:"market_cap" json:"marketCap,omitempty"`
	PercentChange1h  *float64  `db:"percent_change_1h" json:"percentChange1h,omitempty"`
	PercentChange24h *float64  `db:"percent_change_24h" json:"percentChange24h,omitempty"`
	PercentChange7d  *float64  `db:"percent_change_7d" json:"percentChange7d,omitempty"`
}

// HasOHLC reports whether the bar carries observed High/Low values as
// opposed to a close-only sample.
func (b Bar) HasOHLC() bool {
	return b.High != nil && b.Low != nil
}

// OpenOrClose returns Open if present, else Close.
func (b Bar) OpenOrClose() float64 {
	if b.Open != nil {
		return *b.Open
	}
	return b.Close
}

// HighOrClose returns High if present, else Close.
func (b Bar) HighOrClose() float64 {
	if b.High != nil {
		return *b.High
	}
	return b.Close
}

// LowOrClose returns Low if present, else Close.
func (b Bar) LowOrClose() float64 {
	if b.Low != nil {
		return *b.Low
	}
	return b.Close
}

// VolumeOrZero returns Volume if present, else 0.
func (b Bar) VolumeOrZero() float64 {
	if b.Volume != nil {
		return *b.Volume
	}
	return 0
}

// Closes extracts the Close series from a slice of bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the Volume series from a slice of bars.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.VolumeOrZero()
	}
	return out
}

// Highs extracts the High (or Close-degraded) series.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.HighOrClose()
	}
	return out
}

// Lows extracts the Low (or Close-degraded) series.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.LowOrClose()
	}
	return out
}
