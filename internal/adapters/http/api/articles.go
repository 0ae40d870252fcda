package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/newsheat/internal/domain/dedupe"
	"github.com/okian/newsheat/internal/domain/model"
)

// IngestDependencies defines the interface for asynchronous article ingest.
type IngestDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, a model.Article) bool
}

// IngestHandler handles article submissions.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	ID        string `json:"id,omitempty"`
}

// HandlePostArticle handles POST /articles requests. The article is scored
// and stored by the worker pool; the response only acknowledges it.
func (h *IngestHandler) HandlePostArticle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_article"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var a model.Article
	if err := decodeBody(w, r, maxSingleBodyBytes, &a); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if strings.TrimSpace(a.Title) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing title")))
		return
	}
	if strings.TrimSpace(a.ID) == "" {
		a.ID = ""
		// Without a URL the key is the id, so one is needed up front.
		if a.URL == "" {
			a.ID = uuid.NewString()
		}
	}

	key := a.Key()
	if h.deps.SeenAndRecord(r.Context(), key) {
		// Only an id the client sent is echoed; nothing new was stored.
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, ID: a.ID})
		return
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	if ok := h.deps.Enqueue(r.Context(), a); !ok {
		// Forget the key so the client can retry.
		h.deps.Unrecord(r.Context(), key)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: a.ID})
}
