// Package repository persists scored articles.
package repository

import (
	"context"

	"github.com/okian/newsheat/internal/domain/model"
)

// Store provides read/write access to scored articles.
type Store interface {
	// Save inserts the article or replaces the stored copy with the same ID.
	Save(ctx context.Context, a model.ScoredArticle) error

	// Get returns the article with the given ID.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.ScoredArticle, error)

	// TopN returns the n highest scoring articles. Ties go to the article
	// scored first, then to the smaller ID.
	TopN(ctx context.Context, n int) ([]model.ScoredArticle, error)

	// Recent returns up to limit articles, most recently scored first.
	Recent(ctx context.Context, limit int) ([]model.ScoredArticle, error)

	// Search returns up to limit articles whose title or summary contains
	// query, ignoring case, newest first.
	Search(ctx context.Context, query string, limit int) ([]model.ScoredArticle, error)

	// Count returns the number of stored articles.
	Count(ctx context.Context) (int, error)

	Close() error
}
