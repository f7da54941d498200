package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/geo"
	"github.com/garvv29/tmr-backend/internal/models"
	"github.com/garvv29/tmr-backend/internal/tracking"
)

// LocationController exposes the live-tracking core over HTTP.
type LocationController struct {
	Tracker *tracking.Tracker
	Matcher *tracking.RouteMatcher
}

// NewLocationController wires the handlers to the tracking core.
func NewLocationController(tracker *tracking.Tracker, matcher *tracking.RouteMatcher) *LocationController {
	return &LocationController{Tracker: tracker, Matcher: matcher}
}

// locationInput is the ping payload sent by driver devices.
type locationInput struct {
	VehicleID string   `json:"vehicle_id" binding:"required"`
	RouteID   string   `json:"route_id"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
	Accuracy  *float64 `json:"accuracy"`
	Timestamp string   `json:"timestamp"`
}

// UpdateLocation ingests one GPS ping. Drivers may only report for the bus
// they are assigned to; admins may report for any bus.
func (lc *LocationController) UpdateLocation(c *gin.Context) {
	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location payload: " + err.Error()})
		return
	}

	var bus models.Bus
	if err := config.DB.First(&bus, "id = ?", input.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if role, _ := c.Get("role"); role == "driver" {
		userID, _ := c.Get("user_id")
		var driver models.Driver
		if err := config.DB.First(&driver, "user_id = ?", userID).Error; err != nil || driver.ID != bus.DriverID {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,
				"vehicle_id": input.VehicleID,
			}).Warn("driver attempted to report location for a bus they are not assigned to")
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Not assigned to this bus"})
			return
		}
	}

	routeID := input.RouteID
	if routeID == "" && bus.CurrentRouteID != nil {
		routeID = *bus.CurrentRouteID
	}

	ping := tracking.Ping{
		VehicleID: input.VehicleID,
		RouteID:   routeID,
		Coordinate: geo.Coordinate{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
		},
		Speed:    input.Speed,
		Heading:  input.Heading,
		Accuracy: input.Accuracy,
	}
	if input.Timestamp != "" {
		ts, err := parseTimestamp(input.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp: " + err.Error()})
			return
		}
		ping.CapturedAt = ts
	}

	reading, err := lc.Tracker.Ingest(c.Request.Context(), ping)
	if err != nil {
		respondTrackingError(c, err)
		return
	}

	// A bus that starts reporting is en route.
	if bus.Status == models.BusStatusInactive {
		config.DB.Model(&bus).Update("status", models.BusStatusEnRoute)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Location updated successfully",
		"location": reading,
	})
}

// GetLiveLocation returns the latest reading for a vehicle with its
// freshness tag. Stale readings are returned; the tag says how old.
func (lc *LocationController) GetLiveLocation(c *gin.Context) {
	vehicleID := c.Param("vehicleId")

	reading, tag, err := lc.Tracker.GetCurrent(c.Request.Context(), vehicleID)
	if err != nil {
		respondTrackingError(c, err)
		return
	}
	if reading == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Live location not available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicle_id": vehicleID,
		"location":   reading,
		"freshness":  tag,
	})
}

// StopTracking takes a vehicle offline: its reading is removed and the bus
// marked inactive. Idempotent.
func (lc *LocationController) StopTracking(c *gin.Context) {
	vehicleID := c.Param("vehicleId")

	if err := lc.Tracker.Stop(c.Request.Context(), vehicleID); err != nil {
		respondTrackingError(c, err)
		return
	}
	config.DB.Model(&models.Bus{}).Where("id = ?", vehicleID).
		Update("status", models.BusStatusInactive)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Location tracking stopped",
		"vehicle_id": vehicleID,
	})
}

// RouteActiveBuses lists the buses on a route that reported within the
// active window. Assigned-but-offline buses are filtered out here; clients
// that want them use the route search response instead.
func (lc *LocationController) RouteActiveBuses(c *gin.Context) {
	routeID := c.Param("routeId")

	statuses, err := lc.Matcher.BusesForRoute(c.Request.Context(), routeID)
	if err != nil {
		respondTrackingError(c, err)
		return
	}

	active := make([]tracking.BusStatus, 0, len(statuses))
	for _, s := range statuses {
		if s.Reading != nil && !s.Freshness.IsStale {
			active = append(active, s)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"route_id": routeID,
		"buses":    active,
		"count":    len(active),
	})
}

// AreaActiveBuses lists live readings within a radius of a point.
func (lc *LocationController) AreaActiveBuses(c *gin.Context) {
	center, radiusKm, err := parseAreaQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicles, err := lc.Tracker.NearbyVehicles(c.Request.Context(), center, radiusKm)
	if err != nil {
		respondTrackingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"center":   center,
		"radius":   radiusKm,
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// TrackingStats reports how many vehicles are tracked and how many are live.
func (lc *LocationController) TrackingStats(c *gin.Context) {
	stats, err := lc.Tracker.TrackingStats(c.Request.Context())
	if err != nil {
		respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// respondTrackingError maps core errors to HTTP statuses.
func respondTrackingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracking.ErrInvalidCoordinate),
		errors.Is(err, tracking.ErrInvalidRadius):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tracking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tracking.ErrStorageUnavailable):
		logrus.WithError(err).Error("location store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Location store unavailable, retry shortly"})
	default:
		logrus.WithError(err).Error("unexpected tracking error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseTimestamp accepts RFC3339 with or without a timezone suffix; a bare
// local-looking timestamp is taken as UTC. Driver devices are sloppy here.
func parseTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, ts+"Z")
}
