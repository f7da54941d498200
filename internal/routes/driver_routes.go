package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func DriverRoutes(r *gin.Engine) {
	drivers := r.Group("/drivers")
	{
		drivers.GET("", controllers.ListDrivers)
		drivers.GET("/:id", controllers.GetDriver)

		managed := drivers.Group("", middleware.RequireAuthWithAnyRole("admin", "operator"))
		{
			managed.POST("", controllers.CreateDriver)
			managed.PATCH("/:id", controllers.UpdateDriver)
			managed.DELETE("/:id", controllers.DeleteDriver)
		}
	}
}
