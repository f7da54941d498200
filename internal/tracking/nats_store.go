package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// DefaultStoreTimeout bounds every round trip to the backing service.
const DefaultStoreTimeout = 5 * time.Second

// NATSStore is a LocationStore backed by a JetStream key-value bucket. Each
// vehicle id maps to one key holding the latest serialized reading, so the
// bucket's own last-write-wins semantics resolve concurrent pings. Changes are
// observable by downstream consumers through the bucket's native watch
// support.
type NATSStore struct {
	nc      *nats.Conn
	kv      jetstream.KeyValue
	timeout time.Duration
}

// NewNATSStore connects to the NATS server and opens (creating if needed) the
// key-value bucket used for live locations.
func NewNATSStore(url, bucket string, timeout time.Duration) (*NATSStore, error) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}

	nc, err := nats.Connect(url,
		nats.Name("tmr-backend"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			logrus.Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logrus.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logrus.Warn("nats connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "latest GPS reading per vehicle",
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &NATSStore{nc: nc, kv: kv, timeout: timeout}, nil
}

// Close drains the underlying connection.
func (s *NATSStore) Close() {
	if s.nc != nil {
		s.nc.Drain()
		s.nc.Close()
	}
}

func (s *NATSStore) Put(ctx context.Context, r Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.kv.Put(ctx, storeKey(r.VehicleID), data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *NATSStore) Get(ctx context.Context, vehicleID string) (*Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry, err := s.kv.Get(ctx, storeKey(vehicleID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var r Reading
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal reading for %s: %w", vehicleID, err)
	}
	return &r, nil
}

func (s *NATSStore) GetAll(ctx context.Context) (map[string]Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	out := make(map[string]Reading)
	for key := range lister.Keys() {
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue // removed between list and get
			}
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		var r Reading
		if err := json.Unmarshal(entry.Value(), &r); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("skipping undecodable reading")
			continue
		}
		out[r.VehicleID] = r
	}
	return out, nil
}

func (s *NATSStore) Remove(ctx context.Context, vehicleID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.kv.Purge(ctx, storeKey(vehicleID)); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// storeKey sanitizes a vehicle id into a valid KV key. Keys cannot contain
// spaces, wildcards, or path separators.
func storeKey(vehicleID string) string {
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	key := repl.Replace(strings.TrimSpace(vehicleID))
	if key == "" {
		key = "_"
	}
	return key
}
