package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/hub"
	"github.com/garvv29/tmr-backend/internal/logger"
	"github.com/garvv29/tmr-backend/internal/metrics"
	"github.com/garvv29/tmr-backend/internal/middleware"
	"github.com/garvv29/tmr-backend/internal/routes"
	"github.com/garvv29/tmr-backend/internal/store"
	"github.com/garvv29/tmr-backend/internal/tracking"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	// Reference data lives in postgres
	config.InitDB()

	trackCfg, err := config.LoadTrackingConfig()
	if err != nil {
		logrus.WithError(err).Fatal("invalid tracking configuration")
	}

	// Latest reading per vehicle goes to NATS JetStream KV when configured,
	// otherwise to the in-process store.
	var locStore tracking.LocationStore
	if trackCfg.NATSURL != "" {
		natsStore, err := tracking.NewNATSStore(trackCfg.NATSURL, trackCfg.Bucket, trackCfg.StoreTimeout)
		if err != nil {
			logrus.WithError(err).Fatal("could not connect to NATS location store")
		}
		defer natsStore.Close()
		locStore = natsStore
		logrus.WithField("bucket", trackCfg.Bucket).Info("using NATS JetStream location store")
	} else {
		locStore = tracking.NewMemoryStore()
		logrus.Info("NATS_URL unset, using in-process location store")
	}

	collector := metrics.NewCollector()
	locationHub := hub.NewLocationHub(collector)

	trackerOpts := []tracking.TrackerOption{
		tracking.WithPublisher(locationHub),
		tracking.WithMetrics(collector),
	}
	if trackCfg.PerVehicleLocking {
		trackerOpts = append(trackerOpts, tracking.WithPerVehicleLocking())
	}
	tracker := tracking.NewTracker(locStore, trackerOpts...)

	catalog := store.NewCatalog(config.DB)
	matcher := tracking.NewRouteMatcher(catalog, tracker)
	finder := tracking.NewStopProximityFinder(catalog)

	controllers.RegisterValidators()

	r := routes.SetupRouter(routes.Controllers{
		Location: controllers.NewLocationController(tracker, matcher),
		Route:    controllers.NewRouteController(matcher),
		BusStop:  controllers.NewBusStopController(finder),
		WS:       controllers.NewWSController(locationHub),
		Metrics:  collector,
	})

	handler := middleware.EnableCORS(r)

	logrus.Info("server listening on :8080")
	if err := http.ListenAndServe("0.0.0.0:8080", handler); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
