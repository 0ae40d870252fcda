package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/newsheat/internal/adapters/feed"
)

// FeedDependencies defines the interface for feed listing and manual polls.
type FeedDependencies interface {
	Feeds() []string
	PollNow(ctx context.Context) (feed.PollStats, error)
}

// FeedsHandler handles the configured feeds.
type FeedsHandler struct {
	deps FeedDependencies
}

// NewFeedsHandler creates a new feeds handler.
func NewFeedsHandler(deps FeedDependencies) *FeedsHandler {
	return &FeedsHandler{deps: deps}
}

type feedsResponse struct {
	Feeds []string `json:"feeds"`
}

// HandleListFeeds handles GET /feeds requests.
func (h *FeedsHandler) HandleListFeeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	feeds := h.deps.Feeds()
	if feeds == nil {
		feeds = []string{}
	}
	writeJSON(w, http.StatusOK, feedsResponse{Feeds: feeds})
}

// HandleFetch handles POST /feeds/fetch requests. One polling round runs
// before the response is written.
func (h *FeedsHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	const op = "api.fetch_feeds"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.PollNow(r.Context())
	switch {
	case errors.Is(err, feed.ErrNoFeeds):
		writeError(w, http.StatusConflict, "no_feeds", Wrap(op, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
