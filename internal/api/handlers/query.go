package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/cryptrend/analytics/internal/query"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const apiVersion = "1.0.0"

// QueryHandler serves the natural-language query endpoint, porting
// lambda_functions/query_processor/handler.py's request parsing,
// error codes, and response envelope onto an echo handler.
type QueryHandler struct {
	interpreter query.Interpreter
	store       query.Store
	now         func() time.Time
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(interpreter query.Interpreter, store query.Store) *QueryHandler {
	return &QueryHandler{interpreter: interpreter, store: store, now: time.Now}
}

type queryRequest struct {
	Query   string        `json:"query"`
	Filters requestFilters `json:"filters"`
}

type requestFilters struct {
	Timeframe     string  `json:"timeframe"`
	MinConfidence float64 `json:"min_confidence"`
	Limit         int     `json:"limit"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type metaBlock struct {
	Timestamp       time.Time `json:"timestamp"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	Version         string    `json:"version"`
}

type filtersApplied struct {
	Timeframe     string  `json:"timeframe"`
	MinConfidence float64 `json:"min_confidence"`
	Limit         int     `json:"limit"`
}

type successData struct {
	Intent              query.Intent   `json:"intent"`
	QueryInterpretation string         `json:"query_interpretation"`
	Results             query.Result   `json:"results"`
	TotalMatches        int            `json:"total_matches"`
	FiltersApplied      filtersApplied `json:"filters_applied"`
}

type errorResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Meta    *metaBlock `json:"meta,omitempty"`
	Error   *apiError  `json:"error"`
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    successData `json:"data"`
	Meta    metaBlock   `json:"meta"`
	Error   *apiError   `json:"error"`
}

func (h *QueryHandler) fail(c echo.Context, status int, start time.Time, code, message string) error {
	return c.JSON(status, errorResponse{
		Success: false,
		Data:    nil,
		Meta:    &metaBlock{Timestamp: h.now(), ExecutionTimeMs: time.Since(start).Milliseconds(), Version: apiVersion},
		Error:   &apiError{Code: code, Message: message},
	})
}

// HandleQuery parses a {query, filters} body, classifies the intent
// from the query text, resolves it against the store, and
// returns the success/error envelope described by SPEC_FULL.md §6.
func (h *QueryHandler) HandleQuery(c echo.Context) error {
	start := h.now()

	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusBadRequest, start, "INVALID_JSON", "Invalid JSON in request body")
	}

	queryText := strings.TrimSpace(req.Query)
	if queryText == "" {
		return h.fail(c, http.StatusBadRequest, start, "EMPTY_QUERY", "Query text is required")
	}

	filters := query.DefaultFilters()
	if req.Filters.Timeframe != "" {
		filters.Timeframe = req.Filters.Timeframe
	}
	if req.Filters.MinConfidence != 0 {
		filters.MinConfidence = req.Filters.MinConfidence
	}
	if req.Filters.Limit != 0 {
		filters.Limit = req.Filters.Limit
	}
	if filters.Limit > query.MaxLimit {
		filters.Limit = query.MaxLimit
	}

	intent, ok := query.Classify(queryText)
	if !ok {
		return h.fail(c, http.StatusBadRequest, start, "UNSUPPORTED_INTENT", "Could not understand the query intent")
	}
	intent.OriginalQuery = queryText

	result, err := h.interpreter.Resolve(c.Request().Context(), intent, filters)
	if err != nil {
		log.Error().Err(err).Str("query", queryText).Msg("failed to resolve query")
		return h.fail(c, http.StatusInternalServerError, start, "INTERNAL_ERROR", "An error occurred while processing your query")
	}

	executionTime := time.Since(start)
	if err := h.store.LogQuery(c.Request().Context(), queryText, intent, result.Count(), executionTime); err != nil {
		log.Warn().Err(err).Msg("failed to log query")
	}

	return c.JSON(http.StatusOK, successResponse{
		Success: true,
		Data: successData{
			Intent:              intent,
			QueryInterpretation: query.Interpret(intent),
			Results:             result,
			TotalMatches:        result.Count(),
			FiltersApplied: filtersApplied{
				Timeframe:     filters.Timeframe,
				MinConfidence: filters.MinConfidence,
				Limit:         filters.Limit,
			},
		},
		Meta: metaBlock{Timestamp: h.now(), ExecutionTimeMs: executionTime.Milliseconds(), Version: apiVersion},
		Error: nil,
	})
}
