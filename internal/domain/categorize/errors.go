package categorize

import "errors"

// ErrInvalidLayout is returned when a Layout cannot place every article.
var ErrInvalidLayout = errors.New("invalid bucket layout")
