// Package hub fans stored readings out to websocket clients monitoring a
// route.
package hub

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/garvv29/tmr-backend/internal/tracking"
)

// ClientGauge reports the connected-client count, e.g. into prometheus.
type ClientGauge interface {
	WSClientsSet(n int)
}

// LocationHub manages active websocket connections per route id and
// broadcasts every stored reading to that route's watchers.
type LocationHub struct {
	routeClients map[string]map[*websocket.Conn]bool
	broadcast    chan tracking.Reading
	gauge        ClientGauge
	mu           sync.Mutex
}

// NewLocationHub creates a hub and starts its broadcast loop.
func NewLocationHub(gauge ClientGauge) *LocationHub {
	h := &LocationHub{
		routeClients: make(map[string]map[*websocket.Conn]bool),
		broadcast:    make(chan tracking.Reading, 100),
		gauge:        gauge,
	}
	go h.run()
	return h
}

func (h *LocationHub) run() {
	for r := range h.broadcast {
		if r.RouteID == "" {
			continue // unassigned vehicle, nobody to notify
		}
		h.mu.Lock()
		clients := h.routeClients[r.RouteID]
		for conn := range clients {
			if err := conn.WriteJSON(r); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithFields(logrus.Fields{
						"route_id": r.RouteID,
						"conn_ptr": fmt.Sprintf("%p", conn),
					}).Info("client closed during broadcast, dropping")
					delete(clients, conn)
				} else {
					logrus.WithError(err).WithField("route_id", r.RouteID).
						Warn("failed to send reading to client")
				}
			}
		}
		if len(clients) == 0 {
			delete(h.routeClients, r.RouteID)
		}
		h.mu.Unlock()
	}
}

// RegisterClient adds a watcher for a route.
func (h *LocationHub) RegisterClient(routeID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.routeClients[routeID]; !ok {
		h.routeClients[routeID] = make(map[*websocket.Conn]bool)
	}
	h.routeClients[routeID][conn] = true
	h.updateGauge()
	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("client registered for route monitoring")
}

// UnregisterClient removes a watcher.
func (h *LocationHub) UnregisterClient(routeID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.routeClients[routeID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.routeClients, routeID)
		}
	}
	h.updateGauge()
	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("client unregistered from route monitoring")
}

// PublishReading implements tracking.Publisher. Non-blocking: the message is
// dropped when the broadcast buffer is full.
func (h *LocationHub) PublishReading(r tracking.Reading) {
	select {
	case h.broadcast <- r:
	default:
		logrus.Warn("broadcast channel full, dropping reading")
	}
}

func (h *LocationHub) updateGauge() {
	if h.gauge == nil {
		return
	}
	n := 0
	for _, clients := range h.routeClients {
		n += len(clients)
	}
	h.gauge.WSClientsSet(n)
}
