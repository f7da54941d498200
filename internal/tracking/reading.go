package tracking

import (
	"time"

	"github.com/garvv29/tmr-backend/internal/geo"
)

// Reading is one GPS sample for a vehicle: the flat record persisted in the
// location store, one entry per vehicle id, last write wins.
type Reading struct {
	VehicleID string `json:"vehicle_id"`
	RouteID   string `json:"route_id,omitempty"`

	geo.Coordinate

	Speed    float64 `json:"speed"`   // km/h
	Heading  float64 `json:"heading"` // degrees, [0,360)
	Accuracy float64 `json:"accuracy,omitempty"`

	CapturedAt time.Time `json:"captured_at"`
	RecordedAt time.Time `json:"recorded_at"`
}
