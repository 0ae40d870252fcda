// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Body limits.
const (
	maxSingleBodyBytes = 1 << 20
	maxBatchBodyBytes  = 10 << 20
	maxBatchSize       = 500
)

// Default page sizes for list endpoints.
const (
	defaultTopLimit     = 10
	defaultGroupedLimit = 50
	defaultSearchLimit  = 20
	defaultRecentLimit  = 50
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreDependencies
	BatchDependencies
	GroupDependencies
	IngestDependencies
	TopDependencies
	SearchDependencies
	RecentDependencies
	ArticleDependencies
	FeedDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	scoreHandler     *ScoreHandler
	batchHandler     *BatchHandler
	groupHandler     *GroupHandler
	ingestHandler    *IngestHandler
	topHandler       *TopHandler
	groupedHandler   *GroupedHandler
	searchHandler    *SearchHandler
	recentHandler    *RecentHandler
	articleHandler   *ArticleHandler
	feedsHandler     *FeedsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// limit parameter of the list endpoints.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultTopLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		scoreHandler:     NewScoreHandler(deps),
		batchHandler:     NewBatchHandler(deps),
		groupHandler:     NewGroupHandler(deps),
		ingestHandler:    NewIngestHandler(deps),
		topHandler:       NewTopHandler(deps, maxLimit),
		groupedHandler:   NewGroupedHandler(deps, maxLimit),
		searchHandler:    NewSearchHandler(deps, maxLimit),
		recentHandler:    NewRecentHandler(deps, maxLimit),
		articleHandler:   NewArticleHandler(deps),
		feedsHandler:     NewFeedsHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/score/batch", MetricsMiddleware(s.batchHandler.HandleBatch, "score_batch"))
	mux.HandleFunc("/group", MetricsMiddleware(s.groupHandler.HandleGroup, "group"))
	mux.HandleFunc("/articles", MetricsMiddleware(s.ingestHandler.HandlePostArticle, "articles"))
	mux.HandleFunc("/articles/top", MetricsMiddleware(s.topHandler.HandleGetTop, "articles_top"))
	mux.HandleFunc("/articles/grouped", MetricsMiddleware(s.groupedHandler.HandleGetGrouped, "articles_grouped"))
	mux.HandleFunc("/articles/search", MetricsMiddleware(s.searchHandler.HandleSearch, "articles_search"))
	mux.HandleFunc("/articles/recent", MetricsMiddleware(s.recentHandler.HandleGetRecent, "articles_recent"))
	mux.HandleFunc("/articles/", MetricsMiddleware(s.articleHandler.HandleGetArticle, "article"))
	mux.HandleFunc("/feeds", MetricsMiddleware(s.feedsHandler.HandleListFeeds, "feeds"))
	mux.HandleFunc("/feeds/fetch", MetricsMiddleware(s.feedsHandler.HandleFetch, "feeds_fetch"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads one JSON value of at most limit bytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		return err
	}
	return nil
}

// writeDecodeError maps a decodeBody failure to 413 or 400.
func writeDecodeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", Wrap(op, err))
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
}

// parseLimit reads ?limit. A missing value yields def, capped at maxLimit.
// On failure the returned string is the error code to report.
func parseLimit(r *http.Request, def, maxLimit int) (int, string) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return min(def, maxLimit), ""
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, "bad_request"
	}
	if n > maxLimit {
		return 0, "limit_exceeded"
	}
	return n, ""
}
