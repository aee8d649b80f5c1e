package query

import (
	"regexp"
	"strings"
)

// intentPattern is one intent's keyword/regex scoring rule plus the
// human-readable description used by Interpret.
type intentPattern struct {
	keywords    []string
	patterns    []*regexp.Regexp
	description string
}

// keywordScore is added per matched keyword; patternScore per matched
// regex. Both cap the total intent score at 1.0.
const (
	keywordScore = 0.2
	patternScore = 0.3
)

var intentPatterns = map[IntentType]intentPattern{
	IntentPumpAndDump: {
		keywords: []string{"pump", "dump", "spike", "manipulation", "scam", "suspicious"},
		patterns: compilePatterns(
			`pump.{0,10}dump`, `price.{0,10}spike`, `suspicious.{0,10}activity`,
			`manipulat`, `scam.{0,10}coin`,
		),
		description: "Find potential pump and dump schemes",
	},
	IntentBottomedOut: {
		keywords: []string{"bottom", "bottomed", "low", "recovery", "rebound", "reversal"},
		patterns: compilePatterns(
			`bottom.{0,10}out`, `hit.{0,10}bottom`, `recover.{0,10}from.{0,10}low`,
			`trend.{0,10}reversal`, `bouncing.{0,10}back`,
		),
		description: "Find cryptocurrencies that may have bottomed out",
	},
	IntentUptrend: {
		keywords: []string{"up", "rising", "bullish", "increasing", "growing", "gain"},
		patterns: compilePatterns(
			`going.{0,10}up`, `price.{0,10}rising`, `bullish.{0,10}trend`,
			`upward.{0,10}trend`, `gaining.{0,10}momentum`,
		),
		description: "Find cryptocurrencies in uptrend",
	},
	IntentDowntrend: {
		keywords: []string{"down", "falling", "bearish", "declining", "losing", "drop"},
		patterns: compilePatterns(
			`going.{0,10}down`, `price.{0,10}falling`, `bearish.{0,10}trend`,
			`downward.{0,10}trend`, `losing.{0,10}value`,
		),
		description: "Find cryptocurrencies in downtrend",
	},
	IntentHighVolatility: {
		keywords: []string{"volatile", "volatility", "unstable", "swinging", "fluctuat"},
		patterns: compilePatterns(
			`high.{0,10}volatility`, `very.{0,10}volatile`, `price.{0,10}swings`,
			`unstable.{0,10}price`,
		),
		description: "Find highly volatile cryptocurrencies",
	},
	IntentVolumeSpike: {
		keywords: []string{"volume", "trading", "activity", "unusual"},
		patterns: compilePatterns(
			`volume.{0,10}spike`, `high.{0,10}volume`, `unusual.{0,10}activity`,
			`trading.{0,10}volume`,
		),
		description: "Find cryptocurrencies with unusual volume activity",
	},
	IntentTrending: {
		keywords: []string{"trend", "trending", "popular", "hot", "active"},
		patterns: compilePatterns(
			`what.{0,10}trending`, `most.{0,10}active`, `popular.{0,10}coin`,
			`hot.{0,10}crypto`,
		),
		description: "Find currently trending cryptocurrencies",
	},
	IntentPerformance: {
		keywords: []string{"perform", "best", "worst", "top", "leader"},
		patterns: compilePatterns(
			`best.{0,10}perform`, `worst.{0,10}perform`, `top.{0,10}coin`,
			`market.{0,10}leader`,
		),
		description: "Find best or worst performing cryptocurrencies",
	},
}

var timeframePatterns = map[string][]*regexp.Regexp{
	"1h":  compilePatterns(`1\s*hour?`, `past\s*hour`, `last\s*hour`),
	"24h": compilePatterns(`24\s*hours?`, `1\s*day`, `today`, `daily`),
	"7d":  compilePatterns(`7\s*days?`, `1\s*week`, `weekly`, `past\s*week`),
	"30d": compilePatterns(`30\s*days?`, `1\s*month`, `monthly`, `past\s*month`),
}

// cryptoSymbolPattern matches bare words the same way the reference
// parser's combined symbol/$-prefix/name patterns did: any 2-10 letter
// token, uppercased and deduplicated by extractCryptocurrencies. This
// over-matches common English words in free text exactly as the
// original did — callers are expected to pass a pre-classified Intent
// for anything beyond casual convenience parsing.
var cryptoSymbolPattern = regexp.MustCompile(`\$?\b[A-Za-z]{2,10}\b`)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// Classify scores queryText against every known intent's keywords and
// patterns, returning the highest-scoring intent. It returns ok=false
// when no keyword or pattern matched at all, mirroring the reference parser
// returning None for an unrecognized query.
func Classify(queryText string) (Intent, bool) {
	lower := strings.ToLower(queryText)

	var best IntentType
	var bestScore float64
	for t, p := range intentPatterns {
		score := scoreIntent(lower, p)
		if score > bestScore {
			bestScore = score
			best = t
		}
	}
	if bestScore == 0 {
		return Intent{}, false
	}

	return Intent{
		Type:             best,
		Confidence:       bestScore,
		Cryptocurrencies: extractCryptocurrencies(queryText),
		Timeframe:        extractTimeframe(lower),
		OriginalQuery:    queryText,
	}, true
}

func scoreIntent(lower string, p intentPattern) float64 {
	score := 0.0
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			score += keywordScore
		}
	}
	for _, re := range p.patterns {
		if re.MatchString(lower) {
			score += patternScore
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func extractCryptocurrencies(queryText string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range cryptoSymbolPattern.FindAllString(queryText, -1) {
		upper := strings.ToUpper(strings.TrimPrefix(m, "$"))
		if len(upper) < 2 || len(upper) > 10 {
			continue
		}
		if seen[upper] {
			continue
		}
		seen[upper] = true
		out = append(out, upper)
	}
	return out
}

func extractTimeframe(lower string) string {
	for _, tf := range []string{"1h", "24h", "7d", "30d"} {
		for _, re := range timeframePatterns[tf] {
			if re.MatchString(lower) {
				return tf
			}
		}
	}
	return "24h"
}

var timeframeDescriptions = map[string]string{
	"1h":  "in the last hour",
	"24h": "in the last 24 hours",
	"7d":  "in the last week",
	"30d": "in the last month",
}

// Interpret renders a human-readable summary of a classified intent,
// used by the API layer to echo back what it understood.
func Interpret(intent Intent) string {
	p, ok := intentPatterns[intent.Type]
	description := "Unknown intent"
	if ok {
		description = p.description
	}

	parts := []string{description}
	if len(intent.Cryptocurrencies) > 0 {
		parts = append(parts, "specifically for "+strings.Join(intent.Cryptocurrencies, ", "))
	}
	if d, ok := timeframeDescriptions[intent.Timeframe]; ok {
		parts = append(parts, d)
	} else {
		parts = append(parts, "in the "+intent.Timeframe+" timeframe")
	}
	return strings.Join(parts, " ")
}
