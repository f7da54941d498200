package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, wc *controllers.WSController) {
	ws := r.Group("/ws")
	{
		ws.GET("/routes/:routeId", wc.MonitorRoute)
	}
}
