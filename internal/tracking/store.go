package tracking

import (
	"context"
	"sync"
)

// LocationStore is the real-time key-value channel holding the latest reading
// per vehicle. Implementations must be safe for concurrent use; writes to
// distinct keys are independent and concurrent writes to the same key resolve
// last-write-wins.
//
// Get returns (nil, nil) for a vehicle that was never written or was removed;
// backend failures surface as errors wrapping ErrStorageUnavailable.
type LocationStore interface {
	Put(ctx context.Context, r Reading) error
	Get(ctx context.Context, vehicleID string) (*Reading, error)
	GetAll(ctx context.Context) (map[string]Reading, error)
	Remove(ctx context.Context, vehicleID string) error
}

// MemoryStore is an in-process LocationStore for tests and single-node
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	readings map[string]Reading
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{readings: make(map[string]Reading)}
}

func (s *MemoryStore) Put(_ context.Context, r Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings[r.VehicleID] = r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, vehicleID string) (*Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.readings[vehicleID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *MemoryStore) GetAll(_ context.Context) (map[string]Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Reading, len(s.readings))
	for id, r := range s.readings {
		out[id] = r
	}
	return out, nil
}

// Remove is idempotent; removing an absent key is not an error.
func (s *MemoryStore) Remove(_ context.Context, vehicleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.readings, vehicleID)
	return nil
}
