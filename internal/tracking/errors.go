package tracking

import "errors"

// Sentinel errors for the tracking core. Callers match with errors.Is and map
// them to HTTP statuses at the boundary.
var (
	ErrInvalidCoordinate  = errors.New("coordinate out of range")
	ErrInvalidRadius      = errors.New("radius must be greater than zero")
	ErrStorageUnavailable = errors.New("location store unavailable")
	ErrNotFound           = errors.New("not found")
)
