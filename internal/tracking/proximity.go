package tracking

import (
	"context"
	"fmt"
	"sort"

	"github.com/garvv29/tmr-backend/internal/geo"
	"github.com/garvv29/tmr-backend/internal/models"
)

// StopSource provides the stop reference data for proximity queries.
type StopSource interface {
	AllStops(ctx context.Context) ([]models.BusStop, error)
}

// StopProximityFinder answers "which stops are near me".
type StopProximityFinder struct {
	stops StopSource
}

// NewStopProximityFinder builds a finder over the given stop source.
func NewStopProximityFinder(stops StopSource) *StopProximityFinder {
	return &StopProximityFinder{stops: stops}
}

// StopDistance is a stop annotated with its distance from the query point.
type StopDistance struct {
	Stop       models.BusStop `json:"stop"`
	DistanceKm float64        `json:"distance_km"`
}

// Nearby returns stops within radiusKm of center, ascending by distance.
// A stop exactly at radiusKm is included.
func (f *StopProximityFinder) Nearby(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]StopDistance, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radiusKm)
	}
	if !center.Valid() {
		return nil, fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinate,
			center.Latitude, center.Longitude)
	}

	stops, err := f.stops.AllStops(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StopDistance, 0)
	for _, stop := range stops {
		d := geo.DistanceKm(center, stop.Coordinate())
		if d <= radiusKm {
			out = append(out, StopDistance{Stop: stop, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
