package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func BusRoutes(r *gin.Engine) {
	buses := r.Group("/buses")
	{
		buses.GET("", controllers.ListBuses)
		buses.GET("/:id", controllers.GetBus)

		managed := buses.Group("", middleware.RequireAuthWithAnyRole("admin", "operator"))
		{
			managed.POST("", controllers.CreateBus)
			managed.PATCH("/:id", controllers.UpdateBus)
			managed.DELETE("/:id", controllers.DeleteBus)
			managed.POST("/assign", controllers.AssignBusToRoute)
			managed.POST("/:id/unassign", controllers.UnassignBus)
		}
	}
}
