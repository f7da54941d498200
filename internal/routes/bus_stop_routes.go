package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func BusStopRoutes(r *gin.Engine, bc *controllers.BusStopController) {
	stops := r.Group("/bus-stops")
	{
		stops.GET("", controllers.ListBusStops)
		stops.GET("/nearby", bc.NearbyStops)
		stops.GET("/:id", controllers.GetBusStop)

		admin := stops.Group("", middleware.RequireAuthWithRole("admin"))
		{
			admin.POST("", controllers.CreateBusStop)
			admin.PATCH("/:id", controllers.UpdateBusStop)
			admin.DELETE("/:id", controllers.DeleteBusStop)
		}
	}
}
