// In file: internal/weather/errors.go
package weather

import "errors"

var (
	// ErrLocationNotFound means the coordinate provider answered but had no match.
	ErrLocationNotFound = errors.New("city not found")
	// ErrUpstreamUnavailable covers transport failures, timeouts, non-2xx statuses,
	// and provider bodies that cannot be read in the expected shape.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)
