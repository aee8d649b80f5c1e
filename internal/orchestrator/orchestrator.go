// Package orchestrator drives one analysis run: it loads the active
// asset set, fans work out across a bounded worker pool, and for each
// asset classifies trend on every timeframe, scans for signals, and
// persists the results. It owns the AnalysisRun lifecycle.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/cryptrend/analytics/internal/domain"
	"github.com/cryptrend/analytics/internal/indicators"
	"github.com/cryptrend/analytics/internal/signal"
	"github.com/cryptrend/analytics/internal/trend"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs one pass of trend classification and signal
// detection over every active asset.
type Orchestrator struct {
	store  Store
	cfg    Config
	trendC trend.Classifier
	sigD   signal.Detector
}

// New builds an Orchestrator against store, using cfg's mode for both
// the trend classifier and signal detector.
func New(store Store, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:  store,
		cfg:    cfg,
		trendC: trend.Classifier{Mode: cfg.trendMode()},
		sigD:   signal.Detector{Mode: cfg.signalMode()},
	}
}

func (o *Orchestrator) workerCount(numAssets int) int {
	if numAssets == 0 {
		return 0
	}
	n := o.cfg.WorkerCount
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > numAssets {
		n = numAssets
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes one full analysis pass: it opens an AnalysisRun record,
// processes every active asset across a worker pool, and closes the
// run as completed or failed. A per-asset error is logged and counted
// but never aborts the run; only ctx cancellation does, in which case
// the run is marked failed with "cancelled".
func (o *Orchestrator) Run(ctx context.Context) error {
	runID, err := o.store.StartRun(ctx, o.cfg.Mode)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	assets, err := o.store.ActiveAssets(ctx)
	if err != nil {
		_ = o.store.FailRun(ctx, runID, 0, 0, err.Error())
		return fmt.Errorf("load active assets: %w", err)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Rank < assets[j].Rank })

	processed, errCount, runErr := o.processAssets(ctx, assets)

	if runErr != nil {
		log.Error().Err(runErr).Int64("run_id", runID).Msg("analysis run cancelled")
		if failErr := o.store.FailRun(ctx, runID, processed, errCount, "cancelled"); failErr != nil {
			log.Error().Err(failErr).Int64("run_id", runID).Msg("failed to record cancelled run")
		}
		return runErr
	}

	if err := o.store.CompleteRun(ctx, runID, processed, errCount); err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	log.Info().Int64("run_id", runID).Int("assets_processed", processed).Int("errors", errCount).Msg("analysis run completed")
	return nil
}

// processAssets fans the asset list out across a bounded worker pool
// fed by a channel, each worker running the full trend-then-signal
// pipeline for one asset at a time so that, per asset, trends persist
// before signals are scanned and inserted.
func (o *Orchestrator) processAssets(ctx context.Context, assets []domain.Asset) (processed, errCount int, runErr error) {
	if len(assets) == 0 {
		return 0, 0, nil
	}

	jobs := make(chan domain.Asset)
	results := make(chan assetOutcome)

	var wg sync.WaitGroup
	workers := o.workerCount(len(assets))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for asset := range jobs {
				err := o.processAsset(ctx, asset)
				select {
				case results <- assetOutcome{assetID: asset.ID, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, a := range assets {
			select {
			case jobs <- a:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			errCount++
			log.Error().Err(r.err).Int64("asset_id", r.assetID).Msg("asset analysis failed")
			continue
		}
		processed++
	}

	if ctx.Err() != nil {
		runErr = ctx.Err()
	}
	return processed, errCount, runErr
}

// processAsset runs the full pipeline for one asset: load bars, skip
// if there isn't enough history, compute indicators, classify trend on
// every timeframe (upserting each before moving to signal detection),
// detect the 7d/30d reversal, scan for signals against the recent
// dedup window, and persist the survivors.
func (o *Orchestrator) processAsset(ctx context.Context, asset domain.Asset) error {
	since := time.Now().AddDate(0, 0, -o.cfg.BarLookbackDays)
	bars, err := o.store.Bars(ctx, asset.ID, since)
	if err != nil {
		return fmt.Errorf("load bars for asset %d: %w", asset.ID, err)
	}
	if len(bars) < minDataPoints {
		return nil
	}

	ind := indicators.Compute(bars, o.cfg.IndicatorConfig)

	trends := make(map[domain.Timeframe]domain.TrendRecord, len(domain.AllTimeframes))
	for _, tf := range domain.AllTimeframes {
		rec, ok := o.trendC.Classify(asset.ID, bars, ind, tf)
		if !ok {
			continue
		}
		trends[tf] = rec
	}

	if short, ok := trends[domain.Timeframe7d]; ok {
		if long, ok := trends[domain.Timeframe30d]; ok {
			if reversal, found := trend.DetectReversal(short, long); found {
				if long.Metadata == nil {
					long.Metadata = make(map[string]any)
				}
				long.Metadata["reversal"] = reversal
				trends[domain.Timeframe30d] = long
			}
		}
	}

	for _, tf := range domain.AllTimeframes {
		rec, ok := trends[tf]
		if !ok {
			continue
		}
		if err := o.store.UpsertTrend(ctx, rec); err != nil {
			return fmt.Errorf("upsert trend for asset %d timeframe %s: %w", asset.ID, tf, err)
		}
	}

	recent, err := o.store.RecentSignals(ctx, asset.ID, time.Now().Add(-o.cfg.DedupeWindow))
	if err != nil {
		return fmt.Errorf("load recent signals for asset %d: %w", asset.ID, err)
	}

	signals := o.sigD.Scan(bars, ind, asset.ID, recent)
	if len(signals) == 0 {
		return nil
	}
	if err := o.store.InsertSignals(ctx, signals); err != nil {
		return fmt.Errorf("insert signals for asset %d: %w", asset.ID, err)
	}
	return nil
}
