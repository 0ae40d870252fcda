package scoring

import "errors"

// Sentinel error kinds for profile handling.
var (
	ErrInvalidProfile = errors.New("invalid scoring profile")
	ErrUnknownProfile = errors.New("unknown scoring profile")
	ErrLoadProfile    = errors.New("load scoring profile failed")
)
