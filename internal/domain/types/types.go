// Package types contains common types used across the application
package types

import (
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
)

// Entry is one row of a ranked article list.
type Entry struct {
	Rank       int                 `json:"rank"`
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	URL        string              `json:"url,omitempty"`
	Score      int                 `json:"score"`
	Categories scoring.CategorySet `json:"categories"`
}

// Rank numbers items from 1 in the order given; callers sort first.
func Rank(items []model.ScoredArticle) []Entry {
	out := make([]Entry, len(items))
	for i, it := range items {
		cats := it.Categories
		if cats == nil {
			cats = scoring.NewCategorySet()
		}
		out[i] = Entry{
			Rank:       i + 1,
			ID:         it.ID,
			Title:      it.Title,
			URL:        it.URL,
			Score:      it.RelevanceScore,
			Categories: cats,
		}
	}
	return out
}
