package query

import "time"

// CryptoRef identifies an asset in a result row without pulling in the
// whole domain.Asset record.
type CryptoRef struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// SignalResult is one row for the pump_and_dump and volume_spike
// intents — both read straight off signal_events.
type SignalResult struct {
	ID               int64          `json:"id"`
	Cryptocurrency   CryptoRef      `json:"cryptocurrency"`
	SignalType       string         `json:"signalType"`
	DetectedAt       time.Time      `json:"detectedAt"`
	Confidence       float64        `json:"confidence"`
	TriggerPrice     *float64       `json:"triggerPrice,omitempty"`
	CurrentPrice     *float64       `json:"currentPrice,omitempty"`
	VolumeSpikeRatio *float64       `json:"volumeSpikeRatio,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// BottomedOutResult is the bottomed_out intent's row shape — it pulls
// recovery_percent out of metadata as a first-class field, matching
// the reference handler's formatting.
type BottomedOutResult struct {
	ID              int64          `json:"id"`
	Cryptocurrency  CryptoRef      `json:"cryptocurrency"`
	SignalType      string         `json:"signalType"`
	DetectedAt      time.Time      `json:"detectedAt"`
	Confidence      float64        `json:"confidence"`
	TriggerPrice    *float64       `json:"triggerPrice,omitempty"`
	CurrentPrice    *float64       `json:"currentPrice,omitempty"`
	RecoveryPercent float64        `json:"recoveryPercent"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// AnalysisPeriod is the window a TrendResult was classified over.
type AnalysisPeriod struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// TrendResult is the uptrend/downtrend intents' row shape, read off
// trend_analysis.
type TrendResult struct {
	ID                 int64          `json:"id"`
	Cryptocurrency     CryptoRef      `json:"cryptocurrency"`
	TrendType          string         `json:"trendType"`
	Timeframe          string         `json:"timeframe"`
	Confidence         float64        `json:"confidence"`
	PriceChangePercent float64        `json:"priceChangePercent"`
	CurrentPrice       *float64       `json:"currentPrice,omitempty"`
	AnalysisPeriod     AnalysisPeriod `json:"analysisPeriod"`
	DetectedAt         time.Time      `json:"detectedAt"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// PriceRange summarizes the min/max/avg price observed over a
// volatility window.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// VolatilityResult is the high_volatility intent's row shape, computed
// on the fly from price_data rather than read off a stored table.
type VolatilityResult struct {
	Cryptocurrency   CryptoRef  `json:"cryptocurrency"`
	VolatilityPercent float64   `json:"volatilityPercent"`
	PriceRange       PriceRange `json:"priceRange"`
	CurrentPrice     *float64   `json:"currentPrice,omitempty"`
	DataPoints       int        `json:"dataPoints"`
	Timeframe        string     `json:"timeframe"`
}

// TrendingResult is the trending intent's row shape: an activity score
// combining recent signal and trend counts.
type TrendingResult struct {
	Cryptocurrency CryptoRef `json:"cryptocurrency"`
	ActivityScore  int       `json:"activityScore"`
	RecentSignals  int       `json:"recentSignals"`
	RecentTrends   int       `json:"recentTrends"`
	CurrentPrice   *float64  `json:"currentPrice,omitempty"`
	PriceChange24h *float64  `json:"priceChange24h,omitempty"`
	Timeframe      string    `json:"timeframe"`
}

// Performance is the set of percent-change windows reported for the
// performance intent.
type Performance struct {
	Change1h  *float64 `json:"change1h,omitempty"`
	Change24h *float64 `json:"change24h,omitempty"`
	Change7d  *float64 `json:"change7d,omitempty"`
}

// PerformanceResult is the performance intent's row shape, ordered by
// whichever change window the requested timeframe selects.
type PerformanceResult struct {
	Cryptocurrency CryptoRef   `json:"cryptocurrency"`
	CurrentPrice   *float64    `json:"currentPrice,omitempty"`
	Performance    Performance `json:"performance"`
	Volume24h      *float64    `json:"volume24h,omitempty"`
	MarketCap      *float64    `json:"marketCap,omitempty"`
	Timeframe      string      `json:"timeframe"`
}

// Result wraps whichever row slice matches the resolved intent; the
// API layer picks the non-nil field for the envelope's "results" array.
type Result struct {
	Intent             IntentType          `json:"-"`
	Signals            []SignalResult      `json:"signals,omitempty"`
	BottomedOut        []BottomedOutResult `json:"bottomedOut,omitempty"`
	Trends             []TrendResult       `json:"trends,omitempty"`
	Volatility         []VolatilityResult  `json:"volatility,omitempty"`
	Trending           []TrendingResult    `json:"trending,omitempty"`
	Performance        []PerformanceResult `json:"performance,omitempty"`
}

// Count returns how many rows the resolved result actually carries,
// regardless of which field holds them.
func (r Result) Count() int {
	switch r.Intent {
	case IntentPumpAndDump, IntentVolumeSpike:
		return len(r.Signals)
	case IntentBottomedOut:
		return len(r.BottomedOut)
	case IntentUptrend, IntentDowntrend:
		return len(r.Trends)
	case IntentHighVolatility:
		return len(r.Volatility)
	case IntentTrending:
		return len(r.Trending)
	case IntentPerformance:
		return len(r.Performance)
	default:
		return 0
	}
}
