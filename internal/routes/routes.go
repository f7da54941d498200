package routes

import (
	"net/http"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/metrics"
)

// Controllers bundles the handler sets that carry state. Plain CRUD handlers
// are package functions and need no wiring.
type Controllers struct {
	Location *controllers.LocationController
	Route    *controllers.RouteController
	BusStop  *controllers.BusStopController
	WS       *controllers.WSController
	Metrics  *metrics.Collector
}

// SetupRouter builds the gin engine with every route group registered.
// Callers own the listen call.
func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(ginlogger.SetLogger())
	r.Use(gin.Recovery())

	AuthRoutes(r)
	LocationRoutes(r, ctrl.Location)
	RouteRoutes(r, ctrl.Route)
	BusStopRoutes(r, ctrl.BusStop)
	BusRoutes(r)
	DriverRoutes(r)
	CityRoutes(r)
	OperatorRoutes(r)
	WebSocketRoutes(r, ctrl.WS)

	if ctrl.Metrics != nil {
		r.GET("/metrics", gin.WrapH(ctrl.Metrics.Handler()))
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	return r
}
