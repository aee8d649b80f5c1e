package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/stretchr/testify/assert"
)

// fakeStore is an in-memory Store used to drive the orchestrator
// without a database.
type fakeStore struct {
	mu sync.Mutex

	assets     []domain.Asset
	bars       map[int64][]domain.Bar
	barsErr    error
	activeErr  error
	recent     map[int64][]domain.SignalEvent
	failAsset  map[int64]bool

	trendsUpserted  []domain.TrendRecord
	signalsInserted []domain.SignalEvent

	runStarted   bool
	runCompleted bool
	runFailed    bool
	failMessage  string
	processed    int
	errCount     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bars:      make(map[int64][]domain.Bar),
		recent:    make(map[int64][]domain.SignalEvent),
		failAsset: make(map[int64]bool),
	}
}

func (f *fakeStore) ActiveAssets(ctx context.Context) ([]domain.Asset, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.assets, nil
}

func (f *fakeStore) Bars(ctx context.Context, assetID int64, since time.Time) ([]domain.Bar, error) {
	if f.barsErr != nil {
		return nil, f.barsErr
	}
	if f.failAsset[assetID] {
		return nil, errors.New("simulated bar load failure")
	}
	return f.bars[assetID], nil
}

func (f *fakeStore) RecentSignals(ctx context.Context, assetID int64, since time.Time) ([]domain.SignalEvent, error) {
	return f.recent[assetID], nil
}

func (f *fakeStore) UpsertTrend(ctx context.Context, rec domain.TrendRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendsUpserted = append(f.trendsUpserted, rec)
	return nil
}

func (f *fakeStore) InsertSignals(ctx context.Context, signals []domain.SignalEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signalsInserted = append(f.signalsInserted, signals...)
	return nil
}

func (f *fakeStore) StartRun(ctx context.Context, mode string) (int64, error) {
	f.runStarted = true
	return 1, nil
}

func (f *fakeStore) CompleteRun(ctx context.Context, runID int64, assetsProcessed, errorCount int) error {
	f.runCompleted = true
	f.processed = assetsProcessed
	f.errCount = errorCount
	return nil
}

func (f *fakeStore) FailRun(ctx context.Context, runID int64, assetsProcessed, errorCount int, message string) error {
	f.runFailed = true
	f.failMessage = message
	f.processed = assetsProcessed
	f.errCount = errorCount
	return nil
}

func barsFor(n int, start float64) []domain.Bar {
	base := time.Now().AddDate(0, 0, -n)
	bars := make([]domain.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = domain.Bar{Timestamp: base.AddDate(0, 0, i), Close: start + float64(i)}
	}
	return bars
}

func TestRunCompletesWithNoActiveAssets(t *testing.T) {
	store := newFakeStore()
	orch := New(store, DefaultConfig())
	err := orch.Run(context.Background())
	assert.NoError(t, err)
	assert.True(t, store.runStarted)
	assert.True(t, store.runCompleted)
	assert.Equal(t, 0, store.processed)
}

func TestRunProcessesEveryActiveAssetAndUpsertsTrends(t *testing.T) {
	store := newFakeStore()
	store.assets = []domain.Asset{
		{ID: 1, Symbol: "BTC", Rank: 1, IsActive: true},
		{ID: 2, Symbol: "ETH", Rank: 2, IsActive: true},
	}
	store.bars[1] = barsFor(200, 100)
	store.bars[2] = barsFor(200, 50)

	orch := New(store, Config{Mode: "legacy", WorkerCount: 2, BarLookbackDays: 180, DedupeWindow: 3 * 24 * time.Hour})
	err := orch.Run(context.Background())

	assert.NoError(t, err)
	assert.True(t, store.runCompleted)
	assert.Equal(t, 2, store.processed)
	assert.Equal(t, 0, store.errCount)
	assert.NotEmpty(t, store.trendsUpserted)
}

func TestRunSkipsAssetsWithTooFewBars(t *testing.T) {
	store := newFakeStore()
	store.assets = []domain.Asset{{ID: 1, Symbol: "BTC", Rank: 1, IsActive: true}}
	store.bars[1] = barsFor(5, 100)

	orch := New(store, DefaultConfig())
	err := orch.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, store.processed, "a skipped asset still counts as processed, not errored")
	assert.Empty(t, store.trendsUpserted)
}

func TestRunCountsPerAssetErrorsWithoutAbortingRun(t *testing.T) {
	store := newFakeStore()
	store.assets = []domain.Asset{
		{ID: 1, Symbol: "BTC", Rank: 1, IsActive: true},
		{ID: 2, Symbol: "ETH", Rank: 2, IsActive: true},
	}
	store.bars[1] = barsFor(200, 100)
	store.bars[2] = barsFor(200, 50)
	store.failAsset[2] = true

	orch := New(store, Config{Mode: "legacy", WorkerCount: 2, BarLookbackDays: 180, DedupeWindow: 3 * 24 * time.Hour})
	err := orch.Run(context.Background())

	assert.NoError(t, err)
	assert.True(t, store.runCompleted)
	assert.Equal(t, 1, store.processed)
	assert.Equal(t, 1, store.errCount)
}

func TestRunFailsWhenActiveAssetsLookupErrors(t *testing.T) {
	store := newFakeStore()
	store.activeErr = errors.New("db down")

	orch := New(store, DefaultConfig())
	err := orch.Run(context.Background())

	assert.Error(t, err)
	assert.True(t, store.runFailed)
}

func TestRunMarksCancelledOnContextCancellation(t *testing.T) {
	store := newFakeStore()
	for i := int64(1); i <= 20; i++ {
		store.assets = append(store.assets, domain.Asset{ID: i, Symbol: "X", Rank: int(i), IsActive: true})
		store.bars[i] = barsFor(200, 100)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(store, Config{Mode: "legacy", WorkerCount: 4, BarLookbackDays: 180, DedupeWindow: 3 * 24 * time.Hour})
	err := orch.Run(ctx)

	assert.Error(t, err)
	assert.True(t, store.runFailed)
	assert.Equal(t, "cancelled", store.failMessage)
}

func TestWorkerCountCapsAtAssetCountAndFloorsAtOne(t *testing.T) {
	orch := New(newFakeStore(), Config{WorkerCount: 0})
	assert.Equal(t, 0, orch.workerCount(0))

	orch2 := New(newFakeStore(), Config{WorkerCount: 50})
	assert.Equal(t, 3, orch2.workerCount(3))

	orch3 := New(newFakeStore(), Config{WorkerCount: -1})
	assert.GreaterOrEqual(t, orch3.workerCount(5), 1)
}
