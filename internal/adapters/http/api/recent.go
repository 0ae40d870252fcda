package api

import (
	"context"
	"net/http"

	"github.com/okian/newsheat/internal/domain/model"
)

// RecentDependencies defines the interface for the recency listing.
type RecentDependencies interface {
	Recent(ctx context.Context, limit int) ([]model.ScoredArticle, error)
}

// RecentHandler handles the newest stored articles.
type RecentHandler struct {
	deps     RecentDependencies
	maxLimit int
}

// NewRecentHandler creates a new recent handler.
func NewRecentHandler(deps RecentDependencies, maxLimit int) *RecentHandler {
	return &RecentHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRecent handles GET /articles/recent?limit=N requests.
func (h *RecentHandler) HandleGetRecent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recent"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code := parseLimit(r, defaultRecentLimit, h.maxLimit)
	if code != "" {
		writeError(w, http.StatusBadRequest, code, NewKind(op, ErrBadRequest))
		return
	}
	items, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if items == nil {
		items = []model.ScoredArticle{}
	}
	writeJSON(w, http.StatusOK, items)
}
