// Package query interprets a classified intent into a retrieval
// policy over the persisted trend/signal data and runs it.
package query

import "time"

// IntentType is one of the fixed query intents the interpreter knows
// how to resolve. Anything else is UNSUPPORTED_INTENT at the API layer.
type IntentType string

const (
	IntentPumpAndDump    IntentType = "pump_and_dump"
	IntentBottomedOut    IntentType = "bottomed_out"
	IntentUptrend        IntentType = "uptrend"
	IntentDowntrend      IntentType = "downtrend"
	IntentHighVolatility IntentType = "high_volatility"
	IntentVolumeSpike    IntentType = "volume_spike"
	IntentTrending       IntentType = "trending"
	IntentPerformance    IntentType = "performance"
)

// Intent is a classified query, whether supplied directly by a caller
// or produced by Classify from free text.
type Intent struct {
	Type             IntentType `json:"type"`
	Confidence       float64    `json:"confidence"`
	Cryptocurrencies []string   `json:"cryptocurrencies"`
	Timeframe        string     `json:"timeframe"`
	OriginalQuery    string     `json:"originalQuery,omitempty"`
}

// Filters are the request-level overrides applied on top of Intent's
// own timeframe, capped by the API layer before reaching the
// interpreter.
type Filters struct {
	Timeframe     string
	MinConfidence float64
	Limit         int
}

// DefaultFilters mirrors the reference handler's defaults: 24h window,
// 0.7 minimum confidence, 10 results.
func DefaultFilters() Filters {
	return Filters{Timeframe: "24h", MinConfidence: 0.7, Limit: 10}
}

// MaxLimit is the hard cap the API layer enforces on Filters.Limit.
const MaxLimit = 50

// timeframeCutoff returns the time.Time an intent's timeframe string
// resolves to, relative to now. Unknown values fall back to 24h,
// matching the reference implementation's default branch.
func timeframeCutoff(now time.Time, timeframe string) time.Time {
	switch timeframe {
	case "1h":
		return now.Add(-1 * time.Hour)
	case "24h":
		return now.Add(-24 * time.Hour)
	case "7d":
		return now.AddDate(0, 0, -7)
	case "30d":
		return now.AddDate(0, 0, -30)
	default:
		return now.Add(-24 * time.Hour)
	}
}
