package model

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/okian/newsheat/internal/domain/scoring"
)

// TriggerSet is the set of distinct emotional triggers seen in a batch.
type TriggerSet map[string]struct{}

// Add inserts t.
func (s TriggerSet) Add(t string) { s[t] = struct{}{} }

// Sorted returns the triggers in lexical order.
func (s TriggerSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON writes the set as a sorted array.
func (s TriggerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads an array of triggers.
func (s *TriggerSet) UnmarshalJSON(data []byte) error {
	var ts []string
	if err := json.Unmarshal(data, &ts); err != nil {
		return err
	}
	*s = make(TriggerSet, len(ts))
	for _, t := range ts {
		s.Add(t)
	}
	return nil
}

// Summary aggregates a scored batch.
type Summary struct {
	Count        int                        `json:"count"`
	MeanScore    float64                    `json:"mean_score"`
	MaxScore     int                        `json:"max_score"`
	GenericCount int                        `json:"generic_count"`
	Categories   map[scoring.CategoryID]int `json:"categories"`
	Triggers     TriggerSet                 `json:"triggers"`
}

// Summarize computes the Summary of items. MeanScore is rounded to two decimals.
func Summarize(items []ScoredArticle) Summary {
	sum := Summary{
		Count:      len(items),
		Categories: make(map[scoring.CategoryID]int),
		Triggers:   make(TriggerSet),
	}
	if len(items) == 0 {
		return sum
	}

	total := 0
	for _, it := range items {
		total += it.RelevanceScore
		sum.MaxScore = max(sum.MaxScore, it.RelevanceScore)
		if it.IsGeneric {
			sum.GenericCount++
		}
		for id := range it.Categories {
			sum.Categories[id]++
		}
		for _, t := range it.EmotionalTriggers {
			sum.Triggers.Add(t)
		}
	}
	sum.MeanScore = math.Round(float64(total)/float64(len(items))*100) / 100
	return sum
}
