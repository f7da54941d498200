package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func OperatorRoutes(r *gin.Engine) {
	operators := r.Group("/operators")
	{
		operators.GET("", controllers.ListOperators)
		operators.GET("/:id", controllers.GetOperator)

		admin := operators.Group("", middleware.RequireAuthWithRole("admin"))
		{
			admin.POST("", controllers.CreateOperator)
			admin.PATCH("/:id", controllers.UpdateOperator)
			admin.DELETE("/:id", controllers.DeleteOperator)
		}
	}
}
