package app

import "errors"

// Sentinel kinds for query errors.
var (
	// ErrPlayerNotFound means the query succeeded but no record matched:
	// a user-facing "no data" outcome, not a fetch failure.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrUnknownWeek means the requested week has no configured tab or period.
	ErrUnknownWeek = errors.New("unknown week")
)
