package domain

import "errors"

// Per-event failures. They are returned before any map state is mutated.
var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidViewport   = errors.New("invalid viewport")
	ErrInvalidBounds     = errors.New("invalid bounds")
	ErrInvalidLatLng     = errors.New("invalid LatLng")
)

// Startup failures. Both abort initialization.
var (
	ErrMissingElement = errors.New("missing element")
	ErrSDKLoad        = errors.New("map sdk load failure")
)
