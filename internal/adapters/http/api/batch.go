package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/newsheat/internal/domain/model"
)

// BatchDependencies scores a list of articles, most relevant first.
type BatchDependencies interface {
	ScoreBatch(ctx context.Context, items []model.Article, useAI bool) []model.ScoredArticle
}

// BatchHandler handles batch scoring.
type BatchHandler struct {
	deps BatchDependencies
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps BatchDependencies) *BatchHandler {
	return &BatchHandler{deps: deps}
}

type batchRequest struct {
	Articles []model.Article `json:"articles"`
	UseAI    bool            `json:"use_ai"`
}

type batchResponse struct {
	Articles []model.ScoredArticle `json:"articles"`
	Summary  model.Summary         `json:"summary"`
}

// HandleBatch handles POST /score/batch requests.
func (h *BatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := decodeBody(w, r, maxBatchBodyBytes, &req); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if len(req.Articles) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch_too_large",
			WrapKind(op, ErrBadRequest, fmt.Errorf("%d articles, at most %d allowed", len(req.Articles), maxBatchSize)))
		return
	}

	scored := h.deps.ScoreBatch(r.Context(), req.Articles, req.UseAI)
	if scored == nil {
		scored = []model.ScoredArticle{}
	}
	writeJSON(w, http.StatusOK, batchResponse{Articles: scored, Summary: model.Summarize(scored)})
}
