package api

import (
	"context"
	"net/http"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/types"
)

// TopDependencies defines the interface for ranked reads.
type TopDependencies interface {
	TopN(ctx context.Context, n int) ([]model.ScoredArticle, error)
}

// TopHandler handles the ranked article list.
type TopHandler struct {
	deps     TopDependencies
	maxLimit int
}

// NewTopHandler creates a new top handler.
func NewTopHandler(deps TopDependencies, maxLimit int) *TopHandler {
	return &TopHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTop handles GET /articles/top?limit=N requests.
func (h *TopHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code := parseLimit(r, defaultTopLimit, h.maxLimit)
	if code != "" {
		writeError(w, http.StatusBadRequest, code, NewKind(op, ErrBadRequest))
		return
	}
	items, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.Rank(items))
}
