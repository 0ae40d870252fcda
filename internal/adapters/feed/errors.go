package feed

import "errors"

// Sentinel errors for feed fetching.
var (
	ErrFeedStatus      = errors.New("feed returned an error status")
	ErrFeedParse       = errors.New("feed could not be parsed")
	ErrContentStatus   = errors.New("article page returned an error status")
	ErrInvalidSchedule = errors.New("invalid feed schedule")
	ErrNoFeeds         = errors.New("no feeds configured")
)
