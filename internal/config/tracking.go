package config

import (
	"fmt"
	"strconv"
	"time"
)

// TrackingConfig holds the live-tracking settings read from the environment.
type TrackingConfig struct {
	// NATSURL is the real-time store endpoint. Empty selects the in-process
	// store (tests, single-node deployments).
	NATSURL string
	// Bucket is the JetStream key-value bucket holding the latest reading
	// per vehicle.
	Bucket string
	// StoreTimeout bounds every round trip to the real-time store.
	StoreTimeout time.Duration
	// PerVehicleLocking serializes ingests per vehicle id.
	PerVehicleLocking bool
}

// LoadTrackingConfig reads the tracking settings, applying defaults.
func LoadTrackingConfig() (*TrackingConfig, error) {
	cfg := &TrackingConfig{
		NATSURL:      getEnv("NATS_URL", ""),
		Bucket:       getEnv("LOCATION_BUCKET", "bus-locations"),
		StoreTimeout: 5 * time.Second,
	}

	if v := getEnv("STORE_TIMEOUT_MS", ""); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid STORE_TIMEOUT_MS: %q", v)
		}
		cfg.StoreTimeout = time.Duration(ms) * time.Millisecond
	}

	switch getEnv("PER_VEHICLE_LOCKING", "") {
	case "1", "true", "yes", "on":
		cfg.PerVehicleLocking = true
	}

	return cfg, nil
}
