package llm

import "errors"

// Sentinel errors for the model scorer.
var (
	ErrUnknownProvider = errors.New("unknown model provider")
	ErrMissingAPIKey   = errors.New("model api key not set")
	ErrModelStatus     = errors.New("model api returned an error status")
	ErrModelResponse   = errors.New("model response not usable")
)
