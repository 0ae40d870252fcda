// Package scoring rates headlines for attention-grabbing potential using a
// deterministic keyword heuristic driven by a swappable Profile.
package scoring

import (
	"regexp"
	"strings"
)

// Score bounds.
const (
	minScore = 0
	maxScore = 100
)

// shoutPattern matches a word of four or more ASCII capitals in the raw title.
// Any letter, digit or underscore next to the run, accented ones included,
// makes it part of a longer word.
var shoutPattern = regexp.MustCompile(`(?:^|[^\pL\pN_])[A-Z]{4,}(?:$|[^\pL\pN_])`)

// Input is the text the scorer looks at.
type Input struct {
	Title   string
	Summary string
}

// Result is the outcome of scoring one input.
type Result struct {
	// Score is always within [0, 100].
	Score int `json:"score"`
	// Categories holds every category whose keywords appear in the text.
	Categories CategorySet `json:"categories"`
	// EmotionalTriggers lists marquee keywords in detection order; repeats are kept.
	EmotionalTriggers []string `json:"emotional_triggers"`
	// HighValueCount counts high-tier hits before the points cap.
	HighValueCount int `json:"high_value_count"`
	// IsGeneric is true when Score falls below the profile's generic threshold.
	IsGeneric bool `json:"is_generic"`
}

// Heuristic is the keyword scorer. It holds no mutable state and is safe for
// concurrent use.
type Heuristic struct {
	profile *Profile
}

// Option applies a configuration option to the Heuristic.
type Option func(*Heuristic)

// WithProfile replaces the default emotional profile.
func WithProfile(p *Profile) Option {
	return func(h *Heuristic) {
		if p != nil {
			h.profile = p
		}
	}
}

// NewHeuristic builds a scorer, validating the profile if it was not yet.
func NewHeuristic(opts ...Option) (*Heuristic, error) {
	h := &Heuristic{profile: EmotionalProfile()}
	for _, opt := range opts {
		opt(h)
	}
	if !h.profile.compiled {
		if err := h.profile.Validate(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Default returns a scorer using the emotional profile.
func Default() *Heuristic {
	h, err := NewHeuristic()
	if err != nil {
		// The bundled profile is static data; failing here is a programming error.
		panic(err)
	}
	return h
}

// Profile returns the profile the scorer was built with.
func (h *Heuristic) Profile() *Profile { return h.profile }

// Score rates a title and optional summary. It never fails: empty or odd
// input simply yields a low score.
func (h *Heuristic) Score(in Input) Result {
	p := h.profile
	text := strings.ToLower(in.Title + " " + in.Summary)
	titleOnly := strings.ToLower(in.Title)

	res := Result{
		Categories:        make(CategorySet),
		EmotionalTriggers: []string{},
	}
	score := 0

	for _, kw := range p.High.Keywords {
		if !strings.Contains(text, kw) {
			continue
		}
		res.HighValueCount++
		if withinCap(res.HighValueCount, p.High.MaxMatches) {
			score += p.High.Points
		}
		if p.isMarquee(kw) {
			res.EmotionalTriggers = append(res.EmotionalTriggers, kw)
		}
	}

	score += tierPoints(text, p.Medium)
	score += tierPoints(text, p.Low)

	for _, phrase := range p.BoringPhrases {
		if strings.Contains(titleOnly, phrase) {
			score -= p.BoringPenalty
		}
	}
	if hasAnyPrefix(titleOnly, p.QuestionPrefixes) {
		score -= p.QuestionPenalty
	}
	if containsAny(titleOnly, p.FirstPersonMarkers) {
		score -= p.FirstPersonPenalty
	}

	for _, b := range p.PatternBonuses {
		if b.re != nil && b.re.MatchString(text) {
			score += b.Points
		}
	}
	if shoutPattern.MatchString(in.Title) {
		score += p.ShoutBonus
	}
	if strings.Contains(in.Title, "!") {
		score += p.ExclamationBonus
	}

	for _, c := range p.Categories {
		if containsAny(text, c.Keywords) {
			res.Categories.Add(c.ID)
			if p.isHighEngagement(c.ID) {
				score += p.CategoryBonus
			}
		}
	}

	res.Score = Clamp(score)
	res.IsGeneric = res.Score < p.GenericThreshold
	return res
}

// Clamp bounds a raw score to [0, 100].
func Clamp(score int) int {
	return max(minScore, min(maxScore, score))
}

func tierPoints(text string, t Tier) int {
	points, hits := 0, 0
	for _, kw := range t.Keywords {
		if !strings.Contains(text, kw) {
			continue
		}
		hits++
		if withinCap(hits, t.MaxMatches) {
			points += t.Points
		}
	}
	return points
}

func withinCap(hits, maxMatches int) bool {
	return maxMatches <= 0 || hits <= maxMatches
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
