package trend

import "github.com/cryptrend/analytics/internal/domain"

// ReversalType names a detected short-vs-long-term trend reversal.
type ReversalType string

const (
	ReversalBullish ReversalType = "bullish_reversal"
	ReversalBearish ReversalType = "bearish_reversal"
)

// Reversal pairs a short-term trend against its long-term counterpart
// when the two disagree strongly enough to call it a reversal.
type Reversal struct {
	Type               ReversalType
	Confidence         float64
	ShortTermTrend     domain.TrendType
	LongTermTrend      domain.TrendType
	ShortTermConfidence float64
	LongTermConfidence  float64
}

// DetectReversal compares the 7d and 30d TrendRecords for the same
// asset and flags a reversal when the long-term trend is one
// direction and the short-term trend has swung away from it with
// enough confidence. Both records must come from the same classifier
// run; the orchestrator calls it only when both timeframes were
// classified.
func DetectReversal(shortTerm, longTerm domain.TrendRecord) (Reversal, bool) {
	const confidenceFloor = 0.6

	switch {
	case longTerm.TrendType == domain.TrendDowntrend &&
		(shortTerm.TrendType == domain.TrendUptrend || shortTerm.TrendType == domain.TrendSideways) &&
		shortTerm.Confidence > confidenceFloor:
		return Reversal{
			Type:                ReversalBullish,
			Confidence:          (shortTerm.Confidence + longTerm.Confidence) / 2,
			ShortTermTrend:      shortTerm.TrendType,
			LongTermTrend:       longTerm.TrendType,
			ShortTermConfidence: shortTerm.Confidence,
			LongTermConfidence:  longTerm.Confidence,
		}, true

	case longTerm.TrendType == domain.TrendUptrend &&
		shortTerm.TrendType == domain.TrendDowntrend &&
		shortTerm.Confidence > confidenceFloor:
		return Reversal{
			Type:                ReversalBearish,
			Confidence:          (shortTerm.Confidence + longTerm.Confidence) / 2,
			ShortTermTrend:      shortTerm.TrendType,
			LongTermTrend:       longTerm.TrendType,
			ShortTermConfidence: shortTerm.Confidence,
			LongTermConfidence:  longTerm.Confidence,
		}, true

	default:
		return Reversal{}, false
	}
}
