package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func CityRoutes(r *gin.Engine) {
	cities := r.Group("/cities")
	{
		cities.GET("", controllers.ListCities)

		admin := cities.Group("", middleware.RequireAuthWithRole("admin"))
		{
			admin.POST("", controllers.CreateCity)
			admin.DELETE("/:id", controllers.DeleteCity)
		}
	}
}
