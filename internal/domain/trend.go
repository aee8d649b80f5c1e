package domain

import "time"

// TrendType classifies the direction of a trend analysis window.
type TrendType string

const (
	TrendUptrend  TrendType = "uptrend"
	TrendDowntrend TrendType = "downtrend"
	TrendSideways TrendType = "sideways"
)

func (t TrendType) String() string { return string(t) }

// Timeframe is one of the fixed analysis windows the orchestrator runs.
type Timeframe string

const (
	Timeframe7d  Timeframe = "7d"
	Timeframe14d Timeframe = "14d"
	Timeframe30d Timeframe = "30d"
)

// Days returns the lookback window in days for the timeframe.
func (t Timeframe) Days() int {
	switch t {
	case Timeframe7d:
		return 7
	case Timeframe14d:
		return 14
	case Timeframe30d:
		return 30
	default:
		return 7
	}
}

// MinDataPoints returns the minimum number of bars required to classify
// this timeframe.
func (t Timeframe) MinDataPoints() int {
	switch t {
	case Timeframe7d:
		return 3
	case Timeframe14d:
		return 5
	case Timeframe30d:
		return 15
	default:
		return 3
	}
}

// TimeframeBonus is the fixed confidence bonus applied per timeframe in
// the legacy classifier.
func (t Timeframe) TimeframeBonus() float64 {
	switch t {
	case Timeframe7d:
		return 0.1
	case Timeframe14d:
		return 0.2
	case Timeframe30d:
		return 0.3
	default:
		return 0
	}
}

// AllTimeframes is the fixed set the orchestrator analyzes per asset.
var AllTimeframes = []Timeframe{Timeframe7d, Timeframe14d, Timeframe30d}

// TrendRecord is one (asset, timeframe, window) trend classification.
// (asset_id, timeframe, start_time) is unique; the store overwrites on
// conflict.
type TrendRecord struct {
	ID                int64          `db:"id" json:"id"`
	AssetID           int64          `db:"asset_id" json:"assetId"`
	Timeframe         Timeframe      `db:"timeframe" json:"timeframe"`
	TrendType         TrendType      `db:"trend_type" json:"trendType"`
	Confidence        float64        `db:"confidence" json:"confidence"`
	StartTime         time.Time      `db:"start_time" json:"startTime"`
	EndTime           time.Time      `db:"end_time" json:"endTime"`
	PriceChangePercent float64       `db:"price_change_percent" json:"priceChangePercent"`
	Metadata          map[string]any `db:"metadata" json:"metadata,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}
