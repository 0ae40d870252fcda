package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/newsheat/internal/domain/model"
)

// SearchDependencies defines the interface for text search over stored articles.
type SearchDependencies interface {
	Search(ctx context.Context, query string, limit int) ([]model.ScoredArticle, error)
}

// SearchHandler handles article search.
type SearchHandler struct {
	deps     SearchDependencies
	maxLimit int
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, maxLimit int) *SearchHandler {
	return &SearchHandler{deps: deps, maxLimit: maxLimit}
}

// HandleSearch handles GET /articles/search?q=...&limit=N requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing_query", WrapKind(op, ErrBadRequest, errors.New("q is required")))
		return
	}
	n, code := parseLimit(r, defaultSearchLimit, h.maxLimit)
	if code != "" {
		writeError(w, http.StatusBadRequest, code, NewKind(op, ErrBadRequest))
		return
	}
	items, err := h.deps.Search(r.Context(), q, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if items == nil {
		items = []model.ScoredArticle{}
	}
	writeJSON(w, http.StatusOK, items)
}
