package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
	"github.com/garvv29/tmr-backend/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.GET("/me", middleware.RequireAuth(), controllers.Me)
	}
}
