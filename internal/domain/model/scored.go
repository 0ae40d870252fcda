package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/newsheat/internal/domain/scoring"
)

// Who produced a score.
const (
	ScoredByHeuristic = "heuristic"
	ScoredByModel     = "model"
)

// JSON keys added to an article once it is scored.
const (
	keyRelevanceScore    = "relevance_score"
	keyCategories        = "categories"
	keyEmotionalTriggers = "emotional_triggers"
	keyHighValueCount    = "high_value_count"
	keyIsGeneric         = "is_generic"
	keyHookPotential     = "hook_potential"
	keyCopyAngle         = "copy_angle"
	keyScoredBy          = "scored_by"
)

// ScoredArticle is an Article annotated with its relevance score. It
// serializes as the article's own fields plus the score fields.
type ScoredArticle struct {
	Article

	RelevanceScore    int
	Categories        scoring.CategorySet
	EmotionalTriggers []string
	HighValueCount    int
	IsGeneric         bool
	HookPotential     string
	CopyAngle         string
	ScoredBy          string
}

// FromResult annotates a with a heuristic scoring result.
func FromResult(a Article, r scoring.Result) ScoredArticle {
	return ScoredArticle{
		Article:           a,
		RelevanceScore:    r.Score,
		Categories:        r.Categories,
		EmotionalTriggers: r.EmotionalTriggers,
		HighValueCount:    r.HighValueCount,
		IsGeneric:         r.IsGeneric,
		ScoredBy:          ScoredByHeuristic,
	}
}

// MarshalJSON implements json.Marshaler.
func (s ScoredArticle) MarshalJSON() ([]byte, error) {
	m := s.Article.fields()
	m[keyRelevanceScore] = s.RelevanceScore
	cats := s.Categories
	if cats == nil {
		cats = scoring.NewCategorySet()
	}
	m[keyCategories] = cats
	triggers := s.EmotionalTriggers
	if triggers == nil {
		triggers = []string{}
	}
	m[keyEmotionalTriggers] = triggers
	m[keyHighValueCount] = s.HighValueCount
	m[keyIsGeneric] = s.IsGeneric
	m[keyHookPotential] = s.HookPotential
	m[keyCopyAngle] = s.CopyAngle
	if s.ScoredBy != "" {
		m[keyScoredBy] = s.ScoredBy
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler. Missing score fields keep their
// zero values, so a plain article decodes as an unscored one. A fractional
// relevance_score is rounded and clamped to [0, 100].
func (s *ScoredArticle) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ScoredArticle{}

	if v, ok := raw[keyRelevanceScore]; ok {
		delete(raw, keyRelevanceScore)
		if !isNull(v) {
			var f float64
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("%s: %w", keyRelevanceScore, err)
			}
			s.RelevanceScore = scoring.Clamp(int(math.Round(f)))
		}
	}

	for key, dst := range map[string]any{
		keyCategories:        &s.Categories,
		keyEmotionalTriggers: &s.EmotionalTriggers,
		keyHighValueCount:    &s.HighValueCount,
		keyIsGeneric:         &s.IsGeneric,
		keyHookPotential:     &s.HookPotential,
		keyCopyAngle:         &s.CopyAngle,
		keyScoredBy:          &s.ScoredBy,
	} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		if isNull(v) {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if s.Categories == nil {
		s.Categories = scoring.NewCategorySet()
	}
	s.Article.fromFields(raw)
	return nil
}
