package api

import (
	"fmt"
	"net/http"

	"github.com/okian/newsheat/internal/domain/categorize"
	"github.com/okian/newsheat/internal/domain/model"
)

// GroupDependencies buckets scored articles for display.
type GroupDependencies interface {
	Group(items []model.ScoredArticle) categorize.Groups
}

// GroupHandler handles bucketing of already scored articles.
type GroupHandler struct {
	deps GroupDependencies
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(deps GroupDependencies) *GroupHandler {
	return &GroupHandler{deps: deps}
}

type groupRequest struct {
	Articles []model.ScoredArticle `json:"articles"`
}

// HandleGroup handles POST /group requests. The response is a JSON object
// whose keys are bucket labels in display order.
func (h *GroupHandler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.group"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req groupRequest
	if err := decodeBody(w, r, maxBatchBodyBytes, &req); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if len(req.Articles) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch_too_large",
			WrapKind(op, ErrBadRequest, fmt.Errorf("%d articles, at most %d allowed", len(req.Articles), maxBatchSize)))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Group(req.Articles))
}
