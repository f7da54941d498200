package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garvv29/tmr-backend/internal/geo"
	"github.com/garvv29/tmr-backend/internal/models"
)

type fakeCatalog struct {
	routes []models.Route
	buses  map[string]models.Bus
}

func (f *fakeCatalog) ActiveRoutes(context.Context) ([]models.Route, error) {
	out := make([]models.Route, 0, len(f.routes))
	for _, r := range f.routes {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCatalog) RouteByID(_ context.Context, id string) (*models.Route, error) {
	for _, r := range f.routes {
		if r.ID == id {
			route := r
			return &route, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) BusesByIDs(_ context.Context, ids []string) ([]models.Bus, error) {
	out := make([]models.Bus, 0, len(ids))
	for _, id := range ids {
		if b, ok := f.buses[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func raipurCatalog() *fakeCatalog {
	return &fakeCatalog{
		routes: []models.Route{
			{
				Base:           models.Base{ID: "R1"},
				Name:           "Railway Station to Magneto Mall",
				FromLocation:   "Raipur Railway Station",
				ToLocation:     "Magneto Mall",
				AssignedBusIDs: []string{"B1", "B2", "ghost"},
				IsActive:       true,
			},
			{
				Base:         models.Base{ID: "R2"},
				Name:         "Telibandha to Pandri",
				FromLocation: "Telibandha",
				ToLocation:   "Pandri Bus Stand",
				IsActive:     true,
			},
			{
				Base:         models.Base{ID: "R3"},
				Name:         "Railway Station to Airport",
				FromLocation: "Raipur Railway Station",
				ToLocation:   "Swami Vivekananda Airport",
				IsActive:     false,
			},
		},
		buses: map[string]models.Bus{
			"B1": {Base: models.Base{ID: "B1"}, BusNumber: "CG-04-1001"},
			"B2": {Base: models.Base{ID: "B2"}, BusNumber: "CG-04-1002"},
		},
	}
}

func TestFindRoutesBetween(t *testing.T) {
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	matches, err := m.FindRoutesBetween(ctx, "Railway", "Magneto")
	if err != nil {
		t.Fatalf("FindRoutesBetween: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want exactly the Railway-Magneto route: %+v", len(matches), matches)
	}
	if matches[0].Route.ID != "R1" {
		t.Errorf("matched route %s, want R1", matches[0].Route.ID)
	}
	// ghost id is dangling and silently dropped.
	if len(matches[0].Buses) != 2 {
		t.Errorf("got %d buses, want 2 (dangling id dropped)", len(matches[0].Buses))
	}
}

func TestFindRoutesBetweenCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	matches, err := m.FindRoutesBetween(ctx, "railway", "MAGNETO")
	if err != nil {
		t.Fatalf("FindRoutesBetween: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("case-insensitive search found %d matches, want 1", len(matches))
	}
}

func TestFindRoutesBetweenMatchesRouteName(t *testing.T) {
	// Fragments present only in the route name still match, in either order of
	// travel. Direction ambiguity is preserved on purpose.
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	matches, err := m.FindRoutesBetween(ctx, "Magneto", "Railway")
	if err != nil {
		t.Fatalf("FindRoutesBetween: %v", err)
	}
	if len(matches) != 1 || matches[0].Route.ID != "R1" {
		t.Errorf("reversed fragments should still match via the route name, got %+v", matches)
	}
}

func TestFindRoutesBetweenNoMatchIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	matches, err := m.FindRoutesBetween(ctx, "Zzzz", "Yyyy")
	if err != nil {
		t.Fatalf("no-match search must not error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

func TestFindRoutesBetweenSkipsInactiveRoutes(t *testing.T) {
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	matches, err := m.FindRoutesBetween(ctx, "Railway", "Airport")
	if err != nil {
		t.Fatalf("FindRoutesBetween: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("inactive route should not match, got %+v", matches)
	}
}

func TestSearchByCity(t *testing.T) {
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	routes, err := m.SearchByCity(ctx, "pandri")
	if err != nil {
		t.Fatalf("SearchByCity: %v", err)
	}
	if len(routes) != 1 || routes[0].ID != "R2" {
		t.Errorf("SearchByCity(pandri) = %+v, want R2 only", routes)
	}
}

func TestBusesForRoute(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	tr := NewTracker(store, WithClock(fixedClock(now)))
	m := NewRouteMatcher(raipurCatalog(), tr)

	// B1 reported two minutes ago; B2 never reported.
	store.Put(ctx, Reading{
		VehicleID:  "B1",
		RouteID:    "R1",
		Coordinate: geo.Coordinate{Latitude: 21.25, Longitude: 81.63},
		CapturedAt: now.Add(-2 * time.Minute),
	})

	statuses, err := m.BusesForRoute(ctx, "R1")
	if err != nil {
		t.Fatalf("BusesForRoute: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2 (offline bus still listed)", len(statuses))
	}

	byID := map[string]BusStatus{}
	for _, s := range statuses {
		byID[s.Bus.ID] = s
	}
	if byID["B1"].Reading == nil || !byID["B1"].Freshness.IsRecent {
		t.Errorf("B1 should have a recent reading, got %+v", byID["B1"])
	}
	if byID["B2"].Reading != nil || byID["B2"].Freshness != nil {
		t.Errorf("offline B2 should have nil reading and tag, got %+v", byID["B2"])
	}
}

func TestBusesForRouteUnknownRoute(t *testing.T) {
	ctx := context.Background()
	m := NewRouteMatcher(raipurCatalog(), NewTracker(NewMemoryStore()))

	_, err := m.BusesForRoute(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
