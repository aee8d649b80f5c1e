package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeQueryStore struct {
	gotSymbols     []string
	gotSince       time.Time
	gotMinConf     float64
	gotLimit       int
	gotTimeframe   string
	loggedQuery    string
	loggedIntent   Intent
	loggedCount    int
	signals        []SignalResult
	bottomedOut    []BottomedOutResult
	trends         []TrendResult
	volatility     []VolatilityResult
	trending       []TrendingResult
	performance    []PerformanceResult
}

func (f *fakeQueryStore) PumpAndDumpSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]SignalResult, error) {
	f.gotSymbols, f.gotSince, f.gotMinConf, f.gotLimit = symbols, since, minConfidence, limit
	return f.signals, nil
}
func (f *fakeQueryStore) VolumeAnomalySignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]SignalResult, error) {
	return f.signals, nil
}
func (f *fakeQueryStore) BottomedOutSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]BottomedOutResult, error) {
	return f.bottomedOut, nil
}
func (f *fakeQueryStore) TrendsByType(ctx context.Context, trendType string, timeframe string, symbols []string, since time.Time, minConfidence float64, limit int) ([]TrendResult, error) {
	f.gotTimeframe = timeframe
	return f.trends, nil
}
func (f *fakeQueryStore) HighVolatility(ctx context.Context, symbols []string, since time.Time, limit int) ([]VolatilityResult, error) {
	return f.volatility, nil
}
func (f *fakeQueryStore) Trending(ctx context.Context, since time.Time, limit int) ([]TrendingResult, error) {
	return f.trending, nil
}
func (f *fakeQueryStore) Performance(ctx context.Context, symbols []string, timeframe string, limit int) ([]PerformanceResult, error) {
	f.gotTimeframe = timeframe
	return f.performance, nil
}
func (f *fakeQueryStore) LogQuery(ctx context.Context, queryText string, intent Intent, resultCount int, executionTime time.Duration) error {
	f.loggedQuery, f.loggedIntent, f.loggedCount = queryText, intent, resultCount
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
}

func TestResolvePumpAndDumpAppliesDefaultFilters(t *testing.T) {
	store := &fakeQueryStore{signals: []SignalResult{{ID: 1}}}
	in := NewInterpreter(store, fixedNow)

	result, err := in.Resolve(context.Background(), Intent{Type: IntentPumpAndDump}, Filters{})
	assert.NoError(t, err)
	assert.Len(t, result.Signals, 1)
	assert.Equal(t, 0.7, store.gotMinConf)
	assert.Equal(t, 10, store.gotLimit)
	assert.Equal(t, fixedNow().Add(-24*time.Hour), store.gotSince)
}

func TestResolveClampsLimitToMax(t *testing.T) {
	store := &fakeQueryStore{}
	in := NewInterpreter(store, fixedNow)

	_, err := in.Resolve(context.Background(), Intent{Type: IntentPumpAndDump}, Filters{Limit: 500})
	assert.NoError(t, err)
	assert.Equal(t, MaxLimit, store.gotLimit)
}

func TestResolveFiltersTimeframeOverridesIntent(t *testing.T) {
	store := &fakeQueryStore{}
	in := NewInterpreter(store, fixedNow)

	_, err := in.Resolve(context.Background(), Intent{Type: IntentUptrend, Timeframe: "7d"}, Filters{Timeframe: "30d"})
	assert.NoError(t, err)
	assert.Equal(t, "30d", store.gotTimeframe)
}

func TestResolveUnsupportedIntentReturnsError(t *testing.T) {
	store := &fakeQueryStore{}
	in := NewInterpreter(store, fixedNow)

	_, err := in.Resolve(context.Background(), Intent{Type: IntentType("nonsense")}, Filters{})
	assert.ErrorIs(t, err, ErrUnsupportedIntent)
}

func TestResolveRoutesEveryIntentToItsResultField(t *testing.T) {
	store := &fakeQueryStore{
		signals:     []SignalResult{{ID: 1}},
		bottomedOut: []BottomedOutResult{{ID: 2}},
		trends:      []TrendResult{{ID: 3}},
		volatility:  []VolatilityResult{{Cryptocurrency: CryptoRef{Symbol: "BTC"}}},
		trending:    []TrendingResult{{Cryptocurrency: CryptoRef{Symbol: "ETH"}}},
		performance: []PerformanceResult{{Cryptocurrency: CryptoRef{Symbol: "SOL"}}},
	}
	in := NewInterpreter(store, fixedNow)
	ctx := context.Background()

	r, _ := in.Resolve(ctx, Intent{Type: IntentPumpAndDump}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentVolumeSpike}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentBottomedOut}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentUptrend}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentDowntrend}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentHighVolatility}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentTrending}, Filters{})
	assert.Equal(t, 1, r.Count())

	r, _ = in.Resolve(ctx, Intent{Type: IntentPerformance}, Filters{})
	assert.Equal(t, 1, r.Count())
}

func TestTimeframeCutoffUnknownFallsBackTo24h(t *testing.T) {
	now := fixedNow()
	assert.Equal(t, now.Add(-24*time.Hour), timeframeCutoff(now, "bogus"))
	assert.Equal(t, now.Add(-1*time.Hour), timeframeCutoff(now, "1h"))
	assert.Equal(t, now.AddDate(0, 0, -7), timeframeCutoff(now, "7d"))
	assert.Equal(t, now.AddDate(0, 0, -30), timeframeCutoff(now, "30d"))
}
