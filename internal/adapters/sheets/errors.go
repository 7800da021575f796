package sheets

import "errors"

// Sentinel kinds for spreadsheet fetch errors.
var (
	ErrFetch = errors.New("spreadsheet fetch failed")
)
