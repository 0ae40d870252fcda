package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/newsheat/internal/adapters/repository"
	"github.com/okian/newsheat/internal/domain/model"
)

// ArticleDependencies defines the interface for single article reads.
type ArticleDependencies interface {
	Get(ctx context.Context, id string) (model.ScoredArticle, error)
}

// ArticleHandler handles single article lookups.
type ArticleHandler struct {
	deps ArticleDependencies
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(deps ArticleDependencies) *ArticleHandler {
	return &ArticleHandler{deps: deps}
}

// HandleGetArticle handles GET /articles/{id} requests. IDs that contain a
// slash, such as feed links, must be sent path-escaped.
func (h *ArticleHandler) HandleGetArticle(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_article"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/articles/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	a, err := h.deps.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}
