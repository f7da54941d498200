package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/hub"
	"github.com/garvv29/tmr-backend/internal/middleware"
	"github.com/garvv29/tmr-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients connect from app webviews, no fixed origin
	},
}

// WSController upgrades monitoring connections and hands them to the hub.
type WSController struct {
	Hub *hub.LocationHub
}

func NewWSController(h *hub.LocationHub) *WSController {
	return &WSController{Hub: h}
}

// MonitorRoute upgrades the request to a websocket and streams every stored
// reading for the route until the client disconnects. Auth rides on a
// ?token= query parameter since browsers cannot set headers on ws dials.
func (wc *WSController) MonitorRoute(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token query parameter"})
		return
	}
	token, err := middleware.ValidateToken(tokenStr)
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	routeID := c.Param("routeId")
	var route models.Route
	if err := config.DB.First(&route, "id = ?", routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("MonitorRoute: websocket upgrade failed")
		return
	}

	wc.Hub.RegisterClient(routeID, conn)
	defer func() {
		wc.Hub.UnregisterClient(routeID, conn)
		conn.Close()
	}()

	// Drain the connection; clients only listen, but the read loop is what
	// notices the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("route_id", routeID).
					Warn("MonitorRoute: unexpected websocket close")
			}
			return
		}
	}
}
