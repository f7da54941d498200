package tracking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/garvv29/tmr-backend/internal/geo"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.Get(ctx, "absent")
	if err != nil || got != nil {
		t.Fatalf("Get(absent) = %v, %v; want nil, nil", got, err)
	}

	r := Reading{
		VehicleID:  "V1",
		Coordinate: geo.Coordinate{Latitude: 21.25, Longitude: 81.63},
		CapturedAt: time.Now(),
	}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err = s.Get(ctx, "V1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Coordinate != r.Coordinate {
		t.Errorf("Get = %+v, want coordinate %+v", got, r.Coordinate)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := Reading{VehicleID: "V1", Speed: 10}
	second := Reading{VehicleID: "V1", Speed: 50}
	s.Put(ctx, first)
	s.Put(ctx, second)

	got, _ := s.Get(ctx, "V1")
	if got.Speed != 50 {
		t.Errorf("speed = %v, want the later write (50)", got.Speed)
	}
}

func TestMemoryStoreRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Put(ctx, Reading{VehicleID: "V1"})
	if err := s.Remove(ctx, "V1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "V1"); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}
	if err := s.Remove(ctx, "never-written"); err != nil {
		t.Fatalf("Remove of absent key should succeed, got %v", err)
	}

	got, _ := s.Get(ctx, "V1")
	if got != nil {
		t.Errorf("reading still present after Remove: %+v", got)
	}
}

func TestMemoryStoreGetAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, id := range []string{"V1", "V2", "V3"} {
		s.Put(ctx, Reading{VehicleID: id})
	}
	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("GetAll returned %d entries, want 3", len(all))
	}
	if _, ok := all["V2"]; !ok {
		t.Errorf("GetAll missing V2: %v", all)
	}

	// Mutating the snapshot must not leak into the store.
	delete(all, "V1")
	if r, _ := s.Get(ctx, "V1"); r == nil {
		t.Error("GetAll snapshot aliased the internal map")
	}
}

func TestMemoryStoreConcurrentDisjointKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('A' + n%26))
			for j := 0; j < 100; j++ {
				s.Put(ctx, Reading{VehicleID: id, Speed: float64(j)})
				s.Get(ctx, id)
				s.GetAll(ctx)
			}
		}(i)
	}
	wg.Wait()
}
