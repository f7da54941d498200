package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func RouteRoutes(r *gin.Engine, rc *controllers.RouteController) {
	routes := r.Group("/routes")
	{
		routes.GET("", controllers.ListRoutes)
		routes.GET("/search", rc.SearchRoutes)
		routes.GET("/city/:city", rc.SearchRoutesByCity)
		routes.GET("/:id", controllers.GetRoute)

		admin := routes.Group("", middleware.RequireAuthWithRole("admin"))
		{
			admin.POST("", controllers.CreateRoute)
			admin.PATCH("/:id", controllers.UpdateRoute)
			admin.DELETE("/:id", controllers.DeleteRoute)
		}
	}
}
