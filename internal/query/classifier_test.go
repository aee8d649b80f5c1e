package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRecognizesEachIntent(t *testing.T) {
	cases := map[string]IntentType{
		"is there a pump and dump scam happening with this coin": IntentPumpAndDump,
		"which coins have bottomed out and started a recovery":   IntentBottomedOut,
		"what cryptocurrencies are going up in a bullish trend":  IntentUptrend,
		"what coins are falling in a bearish downward trend":     IntentDowntrend,
		"show me the most volatile and unstable coins":           IntentHighVolatility,
		"which coins have unusual volume spike activity":         IntentVolumeSpike,
		"what is trending and most active right now":             IntentTrending,
		"what are the best performing top coins":                 IntentPerformance,
	}
	for q, want := range cases {
		intent, ok := Classify(q)
		assert.True(t, ok, "query %q should classify", q)
		assert.Equal(t, want, intent.Type, "query %q", q)
	}
}

func TestClassifyUnrecognizedQueryReturnsFalse(t *testing.T) {
	_, ok := Classify("what is the weather today")
	assert.False(t, ok)
}

func TestClassifyExtractsTimeframe(t *testing.T) {
	intent, ok := Classify("show me coins trending in the past week")
	assert.True(t, ok)
	assert.Equal(t, "7d", intent.Timeframe)
}

func TestClassifyDefaultsTimeframeTo24h(t *testing.T) {
	intent, ok := Classify("what is trending")
	assert.True(t, ok)
	assert.Equal(t, "24h", intent.Timeframe)
}

func TestClassifyExtractsCryptocurrencySymbols(t *testing.T) {
	intent, ok := Classify("is BTC pumping and dumping")
	assert.True(t, ok)
	assert.Contains(t, intent.Cryptocurrencies, "BTC")
}

func TestClassifyScoreIsBoundedAtOne(t *testing.T) {
	intent, ok := Classify("pump dump spike manipulation scam suspicious pump.dump price spike suspicious activity manipulate scam coin")
	assert.True(t, ok)
	assert.LessOrEqual(t, intent.Confidence, 1.0)
}

func TestInterpretIncludesSymbolsAndTimeframe(t *testing.T) {
	intent := Intent{Type: IntentUptrend, Cryptocurrencies: []string{"BTC", "ETH"}, Timeframe: "7d"}
	got := Interpret(intent)
	assert.Contains(t, got, "uptrend")
	assert.Contains(t, got, "BTC, ETH")
	assert.Contains(t, got, "last week")
}

func TestInterpretUnknownIntentFallsBack(t *testing.T) {
	intent := Intent{Type: IntentType("mystery"), Timeframe: "24h"}
	got := Interpret(intent)
	assert.Contains(t, got, "Unknown intent")
}
