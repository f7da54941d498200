package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func LocationRoutes(r *gin.Engine, lc *controllers.LocationController) {
	loc := r.Group("/location")
	{
		loc.POST("/update", middleware.RequireAuth(), lc.UpdateLocation)
		loc.DELETE("/:vehicleId", middleware.RequireAuth(), lc.StopTracking)

		loc.GET("/live/:vehicleId", lc.GetLiveLocation)
		loc.GET("/route/:routeId/active", lc.RouteActiveBuses)
		loc.GET("/area", lc.AreaActiveBuses)
		loc.GET("/stats", lc.TrackingStats)
	}
}
