package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotFound      = errors.New("cache key not found")
)
