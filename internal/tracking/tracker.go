package tracking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/garvv29/tmr-backend/internal/geo"
)

// Publisher receives every stored reading, e.g. for websocket fan-out.
type Publisher interface {
	PublishReading(r Reading)
}

// Metrics is the subset of instrumentation the tracker reports into.
type Metrics interface {
	IngestInc()
	IngestErrInc()
	IngestObserve(d time.Duration)
	TrackedVehiclesSet(n int)
}

// Tracker turns raw pings into stored, motion-annotated readings and answers
// point queries against the location store.
type Tracker struct {
	store     LocationStore
	now       func() time.Time
	publisher Publisher
	metrics   Metrics

	// Optional hardening for the non-transactional read-modify-write in
	// Ingest: serialize pings per vehicle so speed/heading are never derived
	// from a previous reading that a concurrent ping just replaced. Off by
	// default; out-of-order motion data is advisory.
	lockPerVehicle bool
	locksMu        sync.Mutex
	locks          map[string]*sync.Mutex
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock substitutes the time source, used by tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithPublisher fans stored readings out to a live push channel.
func WithPublisher(p Publisher) TrackerOption {
	return func(t *Tracker) { t.publisher = p }
}

// WithMetrics wires ingest instrumentation.
func WithMetrics(m Metrics) TrackerOption {
	return func(t *Tracker) { t.metrics = m }
}

// WithPerVehicleLocking serializes ingests per vehicle id.
func WithPerVehicleLocking() TrackerOption {
	return func(t *Tracker) { t.lockPerVehicle = true }
}

// NewTracker builds a tracker on top of the given store.
func NewTracker(store LocationStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ping is one raw location update from a driver device. Reported speed,
// heading and accuracy are optional; nil means "derive from the previous
// reading" for speed and heading.
type Ping struct {
	VehicleID  string
	RouteID    string
	Coordinate geo.Coordinate
	Speed      *float64 // km/h
	Heading    *float64 // degrees
	Accuracy   *float64 // meters
	CapturedAt time.Time
}

// Ingest validates a ping, derives motion attributes from the previous stored
// reading, persists the result and returns it.
func (t *Tracker) Ingest(ctx context.Context, p Ping) (*Reading, error) {
	start := t.now()

	if p.VehicleID == "" {
		return nil, fmt.Errorf("%w: vehicle id is required", ErrNotFound)
	}
	if !p.Coordinate.Valid() {
		return nil, fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinate,
			p.Coordinate.Latitude, p.Coordinate.Longitude)
	}

	if t.lockPerVehicle {
		mu := t.vehicleLock(p.VehicleID)
		mu.Lock()
		defer mu.Unlock()
	}

	capturedAt := p.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = t.now()
	}

	prev, err := t.store.Get(ctx, p.VehicleID)
	if err != nil {
		t.ingestErr()
		return nil, err
	}

	var derivedSpeed, derivedHeading float64
	var derived bool
	if prev != nil && prev.CapturedAt.Before(capturedAt) {
		elapsed := capturedAt.Sub(prev.CapturedAt).Seconds()
		if elapsed > 0 {
			meters := geo.DistanceMeters(prev.Coordinate, p.Coordinate)
			derivedSpeed = meters / elapsed * 3.6
			derivedHeading = geo.BearingDegrees(prev.Coordinate, p.Coordinate)
			derived = true
		}
	}

	speed := 0.0
	switch {
	case p.Speed != nil:
		speed = math.Max(*p.Speed, 0)
	case derived:
		speed = derivedSpeed
	}

	heading := 0.0
	switch {
	case p.Heading != nil:
		heading = normalizeHeading(*p.Heading)
	case derived:
		heading = derivedHeading
	}

	reading := Reading{
		VehicleID:  p.VehicleID,
		RouteID:    p.RouteID,
		Coordinate: p.Coordinate,
		Speed:      speed,
		Heading:    heading,
		CapturedAt: capturedAt,
		RecordedAt: t.now(),
	}
	if p.Accuracy != nil {
		reading.Accuracy = math.Max(*p.Accuracy, 0)
	}

	if err := t.store.Put(ctx, reading); err != nil {
		t.ingestErr()
		return nil, err
	}

	if t.publisher != nil {
		t.publisher.PublishReading(reading)
	}
	if t.metrics != nil {
		t.metrics.IngestInc()
		t.metrics.IngestObserve(t.now().Sub(start))
	}

	logrus.WithFields(logrus.Fields{
		"vehicle_id": reading.VehicleID,
		"route_id":   reading.RouteID,
		"speed_kmh":  fmt.Sprintf("%.1f", reading.Speed),
		"heading":    fmt.Sprintf("%.1f", reading.Heading),
	}).Debug("location reading stored")

	return &reading, nil
}

// GetCurrent returns the latest reading for a vehicle together with its
// freshness tag, or (nil, nil, nil) when no live data exists. Stale readings
// are returned; the tag tells the caller how old they are.
func (t *Tracker) GetCurrent(ctx context.Context, vehicleID string) (*Reading, *FreshnessTag, error) {
	r, err := t.store.Get(ctx, vehicleID)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return nil, nil, nil
	}
	tag := TagFor(r.CapturedAt, t.now())
	return r, &tag, nil
}

// Stop removes the vehicle's reading from live tracking. Idempotent.
func (t *Tracker) Stop(ctx context.Context, vehicleID string) error {
	return t.store.Remove(ctx, vehicleID)
}

// VehicleDistance is a live reading annotated with the distance from a query
// point.
type VehicleDistance struct {
	Reading    Reading      `json:"reading"`
	Freshness  FreshnessTag `json:"freshness"`
	DistanceKm float64      `json:"distance_km"`
}

// NearbyVehicles returns all non-stale readings within radiusKm of center,
// ascending by distance. Inclusive boundary.
func (t *Tracker) NearbyVehicles(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]VehicleDistance, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radiusKm)
	}
	if !center.Valid() {
		return nil, fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinate,
			center.Latitude, center.Longitude)
	}

	all, err := t.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := t.now()
	out := make([]VehicleDistance, 0, len(all))
	for _, r := range all {
		tag := TagFor(r.CapturedAt, now)
		if tag.IsStale {
			continue
		}
		d := geo.DistanceKm(center, r.Coordinate)
		if d <= radiusKm {
			out = append(out, VehicleDistance{Reading: r, Freshness: tag, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// Stats summarizes the live tracking state.
type Stats struct {
	TotalTracked int       `json:"total_tracked"`
	Active       int       `json:"active"`
	Inactive     int       `json:"inactive"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// TrackingStats counts tracked vehicles and how many are still within the
// active window.
func (t *Tracker) TrackingStats(ctx context.Context) (*Stats, error) {
	all, err := t.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := t.now()
	s := &Stats{TotalTracked: len(all), GeneratedAt: now}
	for _, r := range all {
		if !TagFor(r.CapturedAt, now).IsStale {
			s.Active++
		}
	}
	s.Inactive = s.TotalTracked - s.Active

	if t.metrics != nil {
		t.metrics.TrackedVehiclesSet(s.TotalTracked)
	}
	return s, nil
}

func (t *Tracker) vehicleLock(vehicleID string) *sync.Mutex {
	t.locksMu.Lock()
	defer t.locksMu.Unlock()
	mu, ok := t.locks[vehicleID]
	if !ok {
		mu = &sync.Mutex{}
		t.locks[vehicleID] = mu
	}
	return mu
}

func (t *Tracker) ingestErr() {
	if t.metrics != nil {
		t.metrics.IngestErrInc()
	}
}

func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
