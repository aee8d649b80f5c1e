package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cryptrend/analytics/internal/query"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// fakeStore backs query.NewInterpreter and also satisfies the
// handler's own query.Store dependency for LogQuery.
type fakeStore struct {
	logged      bool
	trending    []query.TrendingResult
	resolveErr  error
}

func (f *fakeStore) PumpAndDumpSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.SignalResult, error) {
	return nil, f.resolveErr
}
func (f *fakeStore) VolumeAnomalySignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.SignalResult, error) {
	return nil, f.resolveErr
}
func (f *fakeStore) BottomedOutSignals(ctx context.Context, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.BottomedOutResult, error) {
	return nil, f.resolveErr
}
func (f *fakeStore) TrendsByType(ctx context.Context, trendType, timeframe string, symbols []string, since time.Time, minConfidence float64, limit int) ([]query.TrendResult, error) {
	return nil, f.resolveErr
}
func (f *fakeStore) HighVolatility(ctx context.Context, symbols []string, since time.Time, limit int) ([]query.VolatilityResult, error) {
	return nil, f.resolveErr
}
func (f *fakeStore) Trending(ctx context.Context, since time.Time, limit int) ([]query.TrendingResult, error) {
	return f.trending, f.resolveErr
}
func (f *fakeStore) Performance(ctx context.Context, symbols []string, timeframe string, limit int) ([]query.PerformanceResult, error) {
	return nil, f.resolveErr
}
func (f *fakeStore) LogQuery(ctx context.Context, queryText string, intent query.Intent, resultCount int, executionTime time.Duration) error {
	f.logged = true
	return nil
}

func doQuery(t *testing.T, h *QueryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, h.HandleQuery(c))
	return rec
}

func TestHandleQueryRejectsInvalidJSON(t *testing.T) {
	store := &fakeStore{}
	h := NewQueryHandler(query.NewInterpreter(store, nil), store)
	rec := doQuery(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")
}

func TestHandleQueryRejectsEmptyQuery(t *testing.T) {
	store := &fakeStore{}
	h := NewQueryHandler(query.NewInterpreter(store, nil), store)
	rec := doQuery(t, h, `{"query": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_QUERY")
}

func TestHandleQueryRejectsUnsupportedIntent(t *testing.T) {
	store := &fakeStore{}
	h := NewQueryHandler(query.NewInterpreter(store, nil), store)
	rec := doQuery(t, h, `{"query": "what is the weather"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_INTENT")
}

func TestHandleQueryReturnsInternalErrorOnResolveFailure(t *testing.T) {
	store := &fakeStore{resolveErr: errors.New("boom")}
	h := NewQueryHandler(query.NewInterpreter(store, nil), store)
	rec := doQuery(t, h, `{"query": "what is trending right now"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.False(t, store.logged, "a failed resolve should never reach query logging")
}

func TestHandleQuerySuccessLogsAndReturnsEnvelope(t *testing.T) {
	store := &fakeStore{trending: []query.TrendingResult{{Cryptocurrency: query.CryptoRef{Symbol: "BTC"}}}}
	h := NewQueryHandler(query.NewInterpreter(store, nil), store)
	rec := doQuery(t, h, `{"query": "what is trending right now"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.True(t, store.logged)
}
