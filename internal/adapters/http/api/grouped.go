package api

import "net/http"

// GroupedDependencies reads the top articles and buckets them.
type GroupedDependencies interface {
	TopDependencies
	GroupDependencies
}

// GroupedHandler serves the stored top articles grouped into buckets.
type GroupedHandler struct {
	deps     GroupedDependencies
	maxLimit int
}

// NewGroupedHandler creates a new grouped handler.
func NewGroupedHandler(deps GroupedDependencies, maxLimit int) *GroupedHandler {
	return &GroupedHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetGrouped handles GET /articles/grouped?limit=N requests.
func (h *GroupedHandler) HandleGetGrouped(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_grouped"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code := parseLimit(r, defaultGroupedLimit, h.maxLimit)
	if code != "" {
		writeError(w, http.StatusBadRequest, code, NewKind(op, ErrBadRequest))
		return
	}
	items, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Group(items))
}
