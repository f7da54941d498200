package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the tracking instrumentation on a private registry.
type Collector struct {
	reg *prometheus.Registry

	Ingests         prometheus.Counter
	IngestErrs      prometheus.Counter
	IngestDuration  prometheus.Histogram
	TrackedVehicles prometheus.Gauge
	WSClients       prometheus.Gauge
}

// NewCollector builds and registers the tracking metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Ingests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ingests_total",
			Help: "Total location pings accepted.",
		}),
		IngestErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ingest_errors_total",
			Help: "Total location pings rejected by the store.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_ingest_duration_seconds",
			Help:    "Duration of ingest including the store round trip.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		TrackedVehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_vehicles",
			Help: "Number of vehicles with a reading in the store.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_websocket_clients",
			Help: "Number of connected live-monitoring clients.",
		}),
	}

	reg.MustRegister(c.Ingests, c.IngestErrs, c.IngestDuration, c.TrackedVehicles, c.WSClients)
	return c
}

// Tracker metrics interface.
func (c *Collector) IngestInc()                      { c.Ingests.Inc() }
func (c *Collector) IngestErrInc()                   { c.IngestErrs.Inc() }
func (c *Collector) IngestObserve(d time.Duration)   { c.IngestDuration.Observe(d.Seconds()) }
func (c *Collector) TrackedVehiclesSet(n int)        { c.TrackedVehicles.Set(float64(n)) }

// Hub metrics interface.
func (c *Collector) WSClientsSet(n int) { c.WSClients.Set(float64(n)) }

// Handler exposes the registry for a /metrics route.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
