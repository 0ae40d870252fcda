package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("article not found")
	ErrInvalidLimit   = errors.New("invalid limit")
	ErrInvalidArticle = errors.New("article has no id")
	ErrClosed         = errors.New("store closed")
)
