package tracking

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/garvv29/tmr-backend/internal/geo"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIngestThenGetCurrent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryStore(), WithClock(fixedClock(now)))

	coord := geo.Coordinate{Latitude: 21.2514, Longitude: 81.6296}
	stored, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		RouteID:    "R1",
		Coordinate: coord,
		CapturedAt: now,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stored.Coordinate != coord {
		t.Errorf("stored coordinate = %+v, want %+v", stored.Coordinate, coord)
	}
	if stored.RecordedAt != now {
		t.Errorf("RecordedAt = %v, want %v", stored.RecordedAt, now)
	}

	got, tag, err := tr.GetCurrent(ctx, "V1")
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if got == nil || got.Coordinate != coord {
		t.Errorf("GetCurrent coordinate = %+v, want %+v", got, coord)
	}
	if tag == nil || !tag.IsRecent {
		t.Errorf("fresh reading should be tagged recent, got %+v", tag)
	}
}

func TestIngestRejectsInvalidCoordinate(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryStore())

	_, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		Coordinate: geo.Coordinate{Latitude: 91, Longitude: 0},
	})
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("err = %v, want ErrInvalidCoordinate", err)
	}

	_, err = tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		Coordinate: geo.Coordinate{Latitude: 0, Longitude: -181},
	})
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestIngestDerivesSpeedFromPreviousReading(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryStore(), WithClock(fixedClock(t0)))

	// Two points on a meridian almost exactly 1km apart.
	a := geo.Coordinate{Latitude: 21.2500, Longitude: 81.6300}
	b := geo.Coordinate{Latitude: 21.2500 + 1.0/111.195, Longitude: 81.6300}

	if _, err := tr.Ingest(ctx, Ping{VehicleID: "V1", Coordinate: a, CapturedAt: t0}); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	stored, err := tr.Ingest(ctx, Ping{VehicleID: "V1", Coordinate: b, CapturedAt: t0.Add(60 * time.Second)})
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	// 1km in 60s is 60 km/h.
	if math.Abs(stored.Speed-60) > 1 {
		t.Errorf("derived speed = %v, want ≈60", stored.Speed)
	}
	if math.Abs(stored.Heading-0) > 0.5 {
		t.Errorf("derived heading = %v, want ≈0 (due north)", stored.Heading)
	}
}

func TestIngestReportedValuesWin(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryStore(), WithClock(fixedClock(t0)))

	a := geo.Coordinate{Latitude: 21.25, Longitude: 81.63}
	b := geo.Coordinate{Latitude: 21.26, Longitude: 81.63}
	tr.Ingest(ctx, Ping{VehicleID: "V1", Coordinate: a, CapturedAt: t0})

	speed := 42.0
	heading := 123.0
	stored, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		Coordinate: b,
		Speed:      &speed,
		Heading:    &heading,
		CapturedAt: t0.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stored.Speed != 42 || stored.Heading != 123 {
		t.Errorf("reported values should win: speed=%v heading=%v", stored.Speed, stored.Heading)
	}
}

func TestIngestOutOfOrderPingAccepted(t *testing.T) {
	// The store is last-write-wins on RecordedAt: a ping carrying an earlier
	// CapturedAt than the reading it replaces is still accepted, and no motion
	// is derived from the backwards time delta. Accepted eventual-consistency
	// tradeoff, not a bug.
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryStore(), WithClock(fixedClock(t0)))

	a := geo.Coordinate{Latitude: 21.25, Longitude: 81.63}
	b := geo.Coordinate{Latitude: 21.30, Longitude: 81.63}
	tr.Ingest(ctx, Ping{VehicleID: "V1", Coordinate: a, CapturedAt: t0})

	stored, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		Coordinate: b,
		CapturedAt: t0.Add(-30 * time.Second),
	})
	if err != nil {
		t.Fatalf("out-of-order Ingest: %v", err)
	}
	if stored.Speed != 0 || stored.Heading != 0 {
		t.Errorf("no derivation expected for backwards timestamps, got speed=%v heading=%v",
			stored.Speed, stored.Heading)
	}

	got, _, _ := tr.GetCurrent(ctx, "V1")
	if got.Coordinate != b {
		t.Errorf("later write should win even with earlier CapturedAt, got %+v", got.Coordinate)
	}
}

func TestIngestFirstPingNoDerivation(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryStore())

	stored, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V9",
		Coordinate: geo.Coordinate{Latitude: 21.25, Longitude: 81.63},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stored.Speed != 0 || stored.Heading != 0 {
		t.Errorf("first ping should default motion to 0, got speed=%v heading=%v",
			stored.Speed, stored.Heading)
	}
	if stored.CapturedAt.IsZero() {
		t.Error("CapturedAt should default to now when omitted")
	}
}

func TestIngestNegativeReportedSpeedClamped(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryStore())

	speed := -12.0
	stored, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		Coordinate: geo.Coordinate{Latitude: 21.25, Longitude: 81.63},
		Speed:      &speed,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stored.Speed != 0 {
		t.Errorf("negative reported speed should clamp to 0, got %v", stored.Speed)
	}
}

func TestStopRemovesReading(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryStore())

	tr.Ingest(ctx, Ping{VehicleID: "V1", Coordinate: geo.Coordinate{Latitude: 21.25, Longitude: 81.63}})
	if err := tr.Stop(ctx, "V1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	got, tag, err := tr.GetCurrent(ctx, "V1")
	if err != nil || got != nil || tag != nil {
		t.Errorf("GetCurrent after Stop = %v, %v, %v; want nil, nil, nil", got, tag, err)
	}
	if err := tr.Stop(ctx, "V1"); err != nil {
		t.Errorf("Stop should be idempotent, got %v", err)
	}
}

func TestNearbyVehiclesFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	tr := NewTracker(store, WithClock(fixedClock(now)))

	center := geo.Coordinate{Latitude: 21.2514, Longitude: 81.6296}
	store.Put(ctx, Reading{
		VehicleID:  "near",
		Coordinate: geo.Coordinate{Latitude: 21.2530, Longitude: 81.6296},
		CapturedAt: now.Add(-time.Minute),
	})
	store.Put(ctx, Reading{
		VehicleID:  "nearer",
		Coordinate: geo.Coordinate{Latitude: 21.2516, Longitude: 81.6296},
		CapturedAt: now.Add(-time.Minute),
	})
	store.Put(ctx, Reading{
		VehicleID:  "far",
		Coordinate: geo.Coordinate{Latitude: 21.35, Longitude: 81.6296}, // ~11km north
		CapturedAt: now.Add(-time.Minute),
	})
	store.Put(ctx, Reading{
		VehicleID:  "stale",
		Coordinate: geo.Coordinate{Latitude: 21.2515, Longitude: 81.6296},
		CapturedAt: now.Add(-20 * time.Minute),
	})

	got, err := tr.NearbyVehicles(ctx, center, 2.0)
	if err != nil {
		t.Fatalf("NearbyVehicles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d vehicles, want 2 (far and stale excluded): %+v", len(got), got)
	}
	if got[0].Reading.VehicleID != "nearer" || got[1].Reading.VehicleID != "near" {
		t.Errorf("not sorted ascending by distance: %s then %s",
			got[0].Reading.VehicleID, got[1].Reading.VehicleID)
	}

	if _, err := tr.NearbyVehicles(ctx, center, 0); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("radius 0 should fail with ErrInvalidRadius, got %v", err)
	}
	if _, err := tr.NearbyVehicles(ctx, geo.Coordinate{Latitude: 95}, 1); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("bad center should fail with ErrInvalidCoordinate, got %v", err)
	}
}

func TestTrackingStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	tr := NewTracker(store, WithClock(fixedClock(now)))

	store.Put(ctx, Reading{VehicleID: "live1", CapturedAt: now.Add(-time.Minute)})
	store.Put(ctx, Reading{VehicleID: "live2", CapturedAt: now.Add(-8 * time.Minute)})
	store.Put(ctx, Reading{VehicleID: "gone", CapturedAt: now.Add(-time.Hour)})

	s, err := tr.TrackingStats(ctx)
	if err != nil {
		t.Fatalf("TrackingStats: %v", err)
	}
	if s.TotalTracked != 3 || s.Active != 2 || s.Inactive != 1 {
		t.Errorf("stats = %+v, want total=3 active=2 inactive=1", s)
	}
}

func TestEndToEndEastboundScenario(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryStore(), WithClock(fixedClock(t0)))

	if _, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		RouteID:    "R1",
		Coordinate: geo.Coordinate{Latitude: 21.2497, Longitude: 81.6947},
		CapturedAt: t0,
	}); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	if _, err := tr.Ingest(ctx, Ping{
		VehicleID:  "V1",
		RouteID:    "R1",
		Coordinate: geo.Coordinate{Latitude: 21.2497, Longitude: 81.7047},
		CapturedAt: t0.Add(60 * time.Second),
	}); err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	got, _, err := tr.GetCurrent(ctx, "V1")
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	// ~1.04km east in 60s ≈ 62 km/h, heading ≈ 90° (due east).
	if math.Abs(got.Speed-62) > 2 {
		t.Errorf("speed = %v, want ≈62", got.Speed)
	}
	if math.Abs(got.Heading-90) > 1 {
		t.Errorf("heading = %v, want ≈90", got.Heading)
	}
	if got.RouteID != "R1" {
		t.Errorf("route id = %q, want R1", got.RouteID)
	}
}

type failingStore struct{}

func (failingStore) Put(context.Context, Reading) error { return ErrStorageUnavailable }
func (failingStore) Get(context.Context, string) (*Reading, error) {
	return nil, ErrStorageUnavailable
}
func (failingStore) GetAll(context.Context) (map[string]Reading, error) {
	return nil, ErrStorageUnavailable
}
func (failingStore) Remove(context.Context, string) error { return ErrStorageUnavailable }

func TestStorageFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(failingStore{})

	_, err := tr.Ingest(ctx, Ping{VehicleID: "V1", Coordinate: geo.Coordinate{Latitude: 1, Longitude: 1}})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Ingest err = %v, want ErrStorageUnavailable", err)
	}
	_, _, err = tr.GetCurrent(ctx, "V1")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("GetCurrent err = %v, want ErrStorageUnavailable", err)
	}
}
