package api

import (
	"net/http"

	"github.com/okian/newsheat/internal/domain/scoring"
)

// ScoreDependencies scores a single headline.
type ScoreDependencies interface {
	Score(in scoring.Input) scoring.Result
}

// ScoreHandler handles single headline scoring.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

type scoreRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// HandleScore handles POST /score requests. An empty title is valid and
// scores zero.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := decodeBody(w, r, maxSingleBodyBytes, &req); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Score(scoring.Input{Title: req.Title, Summary: req.Summary}))
}
