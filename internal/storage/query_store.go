package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptrend/analytics/internal/query"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// QueryStore implements query.Store against Postgres, one method per
// intent family, each ported 1:1 from
// lambda_functions/query_processor/database.py's `_get_*` methods —
// including the LEFT JOIN LATERAL current-price enrichment every
// result row carries there.
type QueryStore struct {
	db *sqlx.DB
}

// NewQueryStore creates a new query store.
func NewQueryStore(db *sqlx.DB) *QueryStore {
	return &QueryStore{db: db}
}

type signalResultRow struct {
	ID               int64    `db:"id"`
	Symbol           string   `db:"symbol"`
	Name             string   `db:"name"`
	SignalType       string   `db:"signal_type"`
	DetectedAt       time.Time `db:"detected_at"`
	Confidence       float64  `db:"confidence"`
	TriggerPrice     *float64 `db:"trigger_price"`
	VolumeSpikeRatio *float64 `db:"volume_spike_ratio"`
	Metadata         jsonMap  `db:"metadata"`
	CurrentPrice     *float64 `db:"current_price"`
}

func (row signalResultRow) toResult() query.SignalResult {
	return query.SignalResult{
		ID:               row.ID,
		Cryptocurrency:   query.CryptoRef{Symbol: row.Symbol, Name: row.Name},
		SignalType:       row.SignalType,
		DetectedAt:       row.DetectedAt,
		Confidence:       row.Confidence,
		TriggerPrice:     row.TriggerPrice,
		CurrentPrice:     row.CurrentPrice,
		VolumeSpikeRatio: row.VolumeSpikeRatio,
		Metadata:         map[string]any(row.Metadata),
	}
}

const signalQueryBase = `
	SELECT
		se.id, c.symbol, c.name, se.signal_type, se.detected_at,
		se.confidence, se.trigger_price, se.volume_spike_ratio, se.metadata,
		pd.price_usd AS current_price
	FROM signal_events se
	JOIN cryptocurrencies c ON se.crypto_id = c.id
	LEFT JOIN LATERAL (
		SELECT price_usd
		FROM price_data
		WHERE crypto_id = se.crypto_id
		ORDER BY timestamp DESC
		LIMIT 1
	) pd ON true
	WHERE se.signal_type = $1
	  AND se.confidence >= $2
	  AND se.detected_at >= $3
`

func (s *QueryStore) signalsByType(ctx context.Context, signalType string, symbols []string, since time.Time, minConfidence float64, limit int, orderBy string) ([]query.SignalResult, error) {
	q := signalQueryBase
	args := []any{signalType, minConfidence, since}
	if len(symbols) > 0 {
		q += " AND c.symbol = ANY($4)"
		args = append(args, pq.Array(symbols))
	}
	q += fmt.Sprintf(" ORDER BY %s LIMIT $%d", orderBy, len(args)+1)
	args = append(args, limit)

	var rows []signalResultRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select %s signals: %w", signalType, err)
	}
	out := make([]query.SignalResult, len(rows))
	for i, r := range rows {
		out[i] = r.toResult()
	}
	return out, nil
}

// PumpAndDumpSignals ports _get_pump_dump_signals.
func (s *QueryStore) PumpAndDumpSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.SignalResult, error) {
	return s.signalsByType(ctx, "pump_and_dump", symbols, since, minConfidence, limit, "se.detected_at DESC, se.confidence DESC")
}

// VolumeAnomalySignals ports _get_volume_anomalies.
func (s *QueryStore) VolumeAnomalySignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.SignalResult, error) {
	return s.signalsByType(ctx, "volume_anomaly", symbols, since, minConfidence, limit, "se.detected_at DESC, se.volume_spike_ratio DESC")
}

type bottomedOutRow struct {
	ID           int64     `db:"id"`
	Symbol       string    `db:"symbol"`
	Name         string    `db:"name"`
	SignalType   string    `db:"signal_type"`
	DetectedAt   time.Time `db:"detected_at"`
	Confidence   float64   `db:"confidence"`
	TriggerPrice *float64  `db:"trigger_price"`
	Metadata     jsonMap   `db:"metadata"`
	CurrentPrice *float64  `db:"current_price"`
}

// BottomedOutSignals ports _get_bottomed_out_signals, including its
// recovery_percent-from-metadata convenience field.
func (s *QueryStore) BottomedOutSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.BottomedOutResult, error) {
	q := `
		SELECT
			se.id, c.symbol, c.name, se.signal_type, se.detected_at,
			se.confidence, se.trigger_price, se.metadata,
			pd.price_usd AS current_price
		FROM signal_events se
		JOIN cryptocurrencies c ON se.crypto_id = c.id
		LEFT JOIN LATERAL (
			SELECT price_usd
			FROM price_data
			WHERE crypto_id = se.crypto_id
			ORDER BY timestamp DESC
			LIMIT 1
		) pd ON true
		WHERE se.signal_type = 'bottomed_out'
		  AND se.confidence >= $1
		  AND se.detected_at >= $2
	`
	args := []any{minConfidence, since}
	if len(symbols) > 0 {
		q += " AND c.symbol = ANY($3)"
		args = append(args, pq.Array(symbols))
	}
	q += fmt.Sprintf(" ORDER BY se.detected_at DESC, se.confidence DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	var rows []bottomedOutRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select bottomed out signals: %w", err)
	}
	out := make([]query.BottomedOutResult, len(rows))
	for i, row := range rows {
		metadata := map[string]any(row.Metadata)
		recovery, _ := metadata["recovery_percent"].(float64)
		out[i] = query.BottomedOutResult{
			ID:              row.ID,
			Cryptocurrency:  query.CryptoRef{Symbol: row.Symbol, Name: row.Name},
			SignalType:      row.SignalType,
			DetectedAt:      row.DetectedAt,
			Confidence:      row.Confidence,
			TriggerPrice:    row.TriggerPrice,
			CurrentPrice:    row.CurrentPrice,
			RecoveryPercent: recovery,
			Metadata:        metadata,
		}
	}
	return out, nil
}

type trendResultRow struct {
	ID                 int64     `db:"id"`
	Symbol             string    `db:"symbol"`
	Name               string    `db:"name"`
	TrendType          string    `db:"trend_type"`
	Timeframe          string    `db:"timeframe"`
	Confidence         float64   `db:"confidence"`
	PriceChangePercent float64   `db:"price_change_percent"`
	StartTime          time.Time `db:"start_time"`
	EndTime            time.Time `db:"end_time"`
	Metadata           jsonMap   `db:"metadata"`
	CreatedAt          time.Time `db:"created_at"`
	CurrentPrice       *float64  `db:"current_price"`
}

// TrendsByType ports _get_trend_analysis, including its literal filter
// of ta.timeframe against the caller's (query, not classification)
// timeframe string — see DESIGN.md for why that rarely matches a
// stored row under the default filter.
func (s *QueryStore) TrendsByType(ctx context.Context, trendType, timeframe string, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.TrendResult, error) {
	q := `
		SELECT
			ta.id, c.symbol, c.name, ta.trend_type, ta.timeframe, ta.confidence,
			ta.price_change_percent, ta.start_time, ta.end_time, ta.metadata,
			ta.created_at, pd.price_usd AS current_price
		FROM trend_analysis ta
		JOIN cryptocurrencies c ON ta.crypto_id = c.id
		LEFT JOIN LATERAL (
			SELECT price_usd
			FROM price_data
			WHERE crypto_id = ta.crypto_id
			ORDER BY timestamp DESC
			LIMIT 1
		) pd ON true
		WHERE ta.trend_type = $1
		  AND ta.confidence >= $2
		  AND ta.created_at >= $3
		  AND ta.timeframe = $4
	`
	args := []any{trendType, minConfidence, since, timeframe}
	if len(symbols) > 0 {
		q += " AND c.symbol = ANY($5)"
		args = append(args, pq.Array(symbols))
	}
	q += fmt.Sprintf(" ORDER BY ta.created_at DESC, ta.confidence DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	var rows []trendResultRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select %s trends: %w", trendType, err)
	}
	out := make([]query.TrendResult, len(rows))
	for i, row := range rows {
		out[i] = query.TrendResult{
			ID:                 row.ID,
			Cryptocurrency:     query.CryptoRef{Symbol: row.Symbol, Name: row.Name},
			TrendType:          row.TrendType,
			Timeframe:          row.Timeframe,
			Confidence:         row.Confidence,
			PriceChangePercent: row.PriceChangePercent,
			CurrentPrice:       row.CurrentPrice,
			AnalysisPeriod:     query.AnalysisPeriod{StartTime: row.StartTime, EndTime: row.EndTime},
			DetectedAt:         row.CreatedAt,
			Metadata:           map[string]any(row.Metadata),
		}
	}
	return out, nil
}

type volatilityRow struct {
	Symbol       string   `db:"symbol"`
	Name         string   `db:"name"`
	Volatility   float64  `db:"volatility"`
	AvgPrice     float64  `db:"avg_price"`
	MaxPrice     float64  `db:"max_price"`
	MinPrice     float64  `db:"min_price"`
	DataPoints   int      `db:"data_points"`
	CurrentPrice *float64 `db:"current_price"`
}

// HighVolatility ports _get_high_volatility_analysis's on-the-fly
// STDDEV/AVG computation over recent price_data (minimum 5 points,
// minimum 5% volatility).
func (s *QueryStore) HighVolatility(ctx context.Context, symbols []string, since time.Time, limit int) ([]query.VolatilityResult, error) {
	q := `
		WITH price_stats AS (
			SELECT
				pd.crypto_id, c.symbol, c.name,
				STDDEV(pd.price_usd) / AVG(pd.price_usd) * 100 AS volatility,
				AVG(pd.price_usd) AS avg_price,
				MAX(pd.price_usd) AS max_price,
				MIN(pd.price_usd) AS min_price,
				COUNT(*) AS data_points
			FROM price_data pd
			JOIN cryptocurrencies c ON pd.crypto_id = c.id
			WHERE pd.timestamp >= $1 AND c.is_active = true
	`
	args := []any{since}
	if len(symbols) > 0 {
		q += " AND c.symbol = ANY($2)"
		args = append(args, pq.Array(symbols))
	}
	q += `
			GROUP BY pd.crypto_id, c.symbol, c.name
			HAVING COUNT(*) >= 5
		)
		SELECT ps.*, pd.price_usd AS current_price
		FROM price_stats ps
		LEFT JOIN LATERAL (
			SELECT price_usd
			FROM price_data
			WHERE crypto_id = ps.crypto_id
			ORDER BY timestamp DESC
			LIMIT 1
		) pd ON true
		WHERE ps.volatility > 5
		ORDER BY ps.volatility DESC
	`
	q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)

	var rows []volatilityRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select high volatility assets: %w", err)
	}
	out := make([]query.VolatilityResult, len(rows))
	for i, row := range rows {
		out[i] = query.VolatilityResult{
			Cryptocurrency:    query.CryptoRef{Symbol: row.Symbol, Name: row.Name},
			VolatilityPercent: row.Volatility,
			PriceRange:        query.PriceRange{Min: row.MinPrice, Max: row.MaxPrice, Avg: row.AvgPrice},
			CurrentPrice:      row.CurrentPrice,
			DataPoints:        row.DataPoints,
		}
	}
	return out, nil
}

type trendingRow struct {
	Symbol         string   `db:"symbol"`
	Name           string   `db:"name"`
	ActivityScore  int      `db:"activity_score"`
	RecentSignals  int      `db:"recent_signals"`
	RecentTrends   int      `db:"recent_trends"`
	CurrentPrice   *float64 `db:"current_price"`
	PercentChange24h *float64 `db:"percent_change_24h"`
}

// Trending ports _get_trending_analysis's combined signal+trend
// activity score.
func (s *QueryStore) Trending(ctx context.Context, since time.Time, limit int) ([]query.TrendingResult, error) {
	const q = `
		WITH trending_scores AS (
			SELECT
				c.id, c.symbol, c.name,
				COALESCE(signal_count, 0) + COALESCE(trend_count, 0) AS activity_score,
				COALESCE(signal_count, 0) AS recent_signals,
				COALESCE(trend_count, 0) AS recent_trends
			FROM cryptocurrencies c
			LEFT JOIN (
				SELECT crypto_id, COUNT(*) AS signal_count
				FROM signal_events
				WHERE detected_at >= $1
				GROUP BY crypto_id
			) signals ON c.id = signals.crypto_id
			LEFT JOIN (
				SELECT crypto_id, COUNT(*) AS trend_count
				FROM trend_analysis
				WHERE created_at >= $1
				GROUP BY crypto_id
			) trends ON c.id = trends.crypto_id
			WHERE c.is_active = true
			  AND (COALESCE(signal_count, 0) + COALESCE(trend_count, 0)) > 0
		)
		SELECT ts.*, pd.price_usd AS current_price, pd.percent_change_24h
		FROM trending_scores ts
		LEFT JOIN LATERAL (
			SELECT price_usd, percent_change_24h
			FROM price_data
			WHERE crypto_id = ts.id
			ORDER BY timestamp DESC
			LIMIT 1
		) pd ON true
		ORDER BY ts.activity_score DESC, ts.recent_signals DESC
		LIMIT $2
	`
	var rows []trendingRow
	if err := s.db.SelectContext(ctx, &rows, q, since, limit); err != nil {
		return nil, fmt.Errorf("select trending assets: %w", err)
	}
	out := make([]query.TrendingResult, len(rows))
	for i, row := range rows {
		out[i] = query.TrendingResult{
			Cryptocurrency: query.CryptoRef{Symbol: row.Symbol, Name: row.Name},
			ActivityScore:  row.ActivityScore,
			RecentSignals:  row.RecentSignals,
			RecentTrends:   row.RecentTrends,
			CurrentPrice:   row.CurrentPrice,
			PriceChange24h: row.PercentChange24h,
		}
	}
	return out, nil
}

type performanceRow struct {
	Symbol           string   `db:"symbol"`
	Name             string   `db:"name"`
	CurrentPrice     *float64 `db:"current_price"`
	PercentChange1h  *float64 `db:"percent_change_1h"`
	PercentChange24h *float64 `db:"percent_change_24h"`
	PercentChange7d  *float64 `db:"percent_change_7d"`
	Volume24h        *float64 `db:"volume_24h"`
	MarketCap        *float64 `db:"market_cap"`
}

// Performance ports _get_performance_analysis's per-timeframe ORDER BY
// selection (1h/7d/else-24h).
func (s *QueryStore) Performance(ctx context.Context, symbols []string, timeframe string, limit int) ([]query.PerformanceResult, error) {
	q := `
		SELECT
			c.symbol, c.name, pd.price_usd AS current_price,
			pd.percent_change_1h, pd.percent_change_24h, pd.percent_change_7d,
			pd.volume_24h, pd.market_cap
		FROM cryptocurrencies c
		LEFT JOIN LATERAL (
			SELECT price_usd, percent_change_1h, percent_change_24h, percent_change_7d,
			       volume_24h, market_cap
			FROM price_data
			WHERE crypto_id = c.id
			ORDER BY timestamp DESC
			LIMIT 1
		) pd ON true
		WHERE c.is_active = true AND pd.price_usd IS NOT NULL
	`
	args := []any{}
	if len(symbols) > 0 {
		q += " AND c.symbol = ANY($1)"
		args = append(args, pq.Array(symbols))
	}
	switch timeframe {
	case "1h":
		q += " ORDER BY pd.percent_change_1h DESC NULLS LAST"
	case "7d":
		q += " ORDER BY pd.percent_change_7d DESC NULLS LAST"
	default:
		q += " ORDER BY pd.percent_change_24h DESC NULLS LAST"
	}
	q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)

	var rows []performanceRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select performance: %w", err)
	}
	out := make([]query.PerformanceResult, len(rows))
	for i, row := range rows {
		out[i] = query.PerformanceResult{
			Cryptocurrency: query.CryptoRef{Symbol: row.Symbol, Name: row.Name},
			CurrentPrice:   row.CurrentPrice,
			Performance: query.Performance{
				Change1h:  row.PercentChange1h,
				Change24h: row.PercentChange24h,
				Change7d:  row.PercentChange7d,
			},
			Volume24h: row.Volume24h,
			MarketCap: row.MarketCap,
			Timeframe: timeframe,
		}
	}
	return out, nil
}

// LogQuery records a resolved query for analytics, matching log_query.
// A logging failure never fails the caller's request.
func (s *QueryStore) LogQuery(ctx context.Context, queryText string, intent query.Intent, resultCount int, executionTime time.Duration) error {
	const q = `
		INSERT INTO query_logs (
			query_text, intent_type, intent_confidence, result_count,
			execution_time_ms, metadata
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	metadata := jsonMap{
		"type":             string(intent.Type),
		"confidence":       intent.Confidence,
		"cryptocurrencies": intent.Cryptocurrencies,
		"timeframe":        intent.Timeframe,
	}
	_, err := s.db.ExecContext(ctx, q, queryText, string(intent.Type), intent.Confidence,
		resultCount, executionTime.Milliseconds(), metadata)
	if err != nil {
		return fmt.Errorf("log query: %w", err)
	}
	return nil
}
