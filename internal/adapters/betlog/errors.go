package betlog

import "errors"

// Sentinel kinds for bet-summary API errors.
var (
	ErrFetch = errors.New("bet-summary fetch failed")
)
