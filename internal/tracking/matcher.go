package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/garvv29/tmr-backend/internal/models"
)

// Catalog is the read-only view of the administrative reference data the
// matchers need.
type Catalog interface {
	ActiveRoutes(ctx context.Context) ([]models.Route, error)
	RouteByID(ctx context.Context, id string) (*models.Route, error)
	BusesByIDs(ctx context.Context, ids []string) ([]models.Bus, error)
}

// RouteMatcher answers "what buses run between A and B" by textual matching
// of place-name fragments against route endpoints and names.
type RouteMatcher struct {
	catalog Catalog
	tracker *Tracker
}

// NewRouteMatcher builds a matcher over the given catalog and tracker.
func NewRouteMatcher(catalog Catalog, tracker *Tracker) *RouteMatcher {
	return &RouteMatcher{catalog: catalog, tracker: tracker}
}

// RouteMatch is a matching route with its assigned buses resolved. Dangling
// bus ids are dropped silently.
type RouteMatch struct {
	Route models.Route `json:"route"`
	Buses []models.Bus `json:"buses"`
}

// FindRoutesBetween returns active routes whose endpoints or name contain
// both fragments, case-insensitively, in the store's natural order. A route
// name embedding both fragments matches regardless of travel direction; that
// matches what riders see today and a geocoded strategy can replace this
// implementation without touching ingestion.
//
// No match is an empty slice, never an error.
func (m *RouteMatcher) FindRoutesBetween(ctx context.Context, fromFragment, toFragment string) ([]RouteMatch, error) {
	routes, err := m.catalog.ActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}

	from := strings.ToLower(fromFragment)
	to := strings.ToLower(toFragment)

	matches := make([]RouteMatch, 0)
	for _, route := range routes {
		name := strings.ToLower(route.Name)
		fromOK := strings.Contains(strings.ToLower(route.FromLocation), from) ||
			strings.Contains(name, from)
		toOK := strings.Contains(strings.ToLower(route.ToLocation), to) ||
			strings.Contains(name, to)
		if !fromOK || !toOK {
			continue
		}

		buses, err := m.catalog.BusesByIDs(ctx, route.AssignedBusIDs)
		if err != nil {
			return nil, err
		}
		matches = append(matches, RouteMatch{Route: route, Buses: buses})
	}
	return matches, nil
}

// SearchByCity returns active routes with either endpoint containing the city
// name, case-insensitively.
func (m *RouteMatcher) SearchByCity(ctx context.Context, city string) ([]models.Route, error) {
	routes, err := m.catalog.ActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(city)
	out := make([]models.Route, 0)
	for _, route := range routes {
		if strings.Contains(strings.ToLower(route.FromLocation), needle) ||
			strings.Contains(strings.ToLower(route.ToLocation), needle) {
			out = append(out, route)
		}
	}
	return out, nil
}

// BusStatus joins an assigned bus with its current reading. Reading and
// Freshness are nil for a bus that is assigned but has never reported, so
// callers can tell "assigned but offline" from "not assigned".
type BusStatus struct {
	Bus       models.Bus    `json:"bus"`
	Reading   *Reading      `json:"reading,omitempty"`
	Freshness *FreshnessTag `json:"freshness,omitempty"`
}

// BusesForRoute resolves a route's assigned buses and joins each with its
// live reading.
func (m *RouteMatcher) BusesForRoute(ctx context.Context, routeID string) ([]BusStatus, error) {
	route, err := m.catalog.RouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("%w: route %s", ErrNotFound, routeID)
	}

	buses, err := m.catalog.BusesByIDs(ctx, route.AssignedBusIDs)
	if err != nil {
		return nil, err
	}

	out := make([]BusStatus, 0, len(buses))
	for _, bus := range buses {
		reading, tag, err := m.tracker.GetCurrent(ctx, bus.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BusStatus{Bus: bus, Reading: reading, Freshness: tag})
	}
	return out, nil
}
