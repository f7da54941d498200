package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/models"
	"github.com/garvv29/tmr-backend/internal/tracking"
)

// BusStopController serves stop lookups, including the nearby search.
type BusStopController struct {
	Finder *tracking.StopProximityFinder
}

func NewBusStopController(finder *tracking.StopProximityFinder) *BusStopController {
	return &BusStopController{Finder: finder}
}

// NearbyStops returns stops within radius_km of the given point, closest first.
func (bc *BusStopController) NearbyStops(c *gin.Context) {
	center, radiusKm, err := parseAreaQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stops, err := bc.Finder.Nearby(c.Request.Context(), center, radiusKm)
	if err != nil {
		respondTrackingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"latitude":  center.Latitude,
		"longitude": center.Longitude,
		"radius_km": radiusKm,
		"stops":     stops,
		"count":     len(stops),
	})
}

// CreateBusStop registers a stop.
func CreateBusStop(c *gin.Context) {
	var input struct {
		Name      string   `json:"name" binding:"required"`
		City      string   `json:"city"`
		Latitude  *float64 `json:"latitude" binding:"required,latitude"`
		Longitude *float64 `json:"longitude" binding:"required,longitude"`
		Amenities []string `json:"amenities"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateBusStop: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	stop := models.BusStop{
		Name:      input.Name,
		City:      input.City,
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
		Amenities: input.Amenities,
	}
	if err := config.DB.Create(&stop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create bus stop failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bus_stop": stop})
}

// ListBusStops returns every stop, optionally filtered by ?city=.
func ListBusStops(c *gin.Context) {
	var stops []models.BusStop
	q := config.DB.Order("name")
	if city := c.Query("city"); city != "" {
		q = q.Where("city = ?", city)
	}
	if err := q.Find(&stops).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch bus stops"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus_stops": stops, "count": len(stops)})
}

// GetBusStop returns a single stop.
func GetBusStop(c *gin.Context) {
	var stop models.BusStop
	if err := config.DB.First(&stop, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus stop not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus_stop": stop})
}

// UpdateBusStop modifies a stop.
func UpdateBusStop(c *gin.Context) {
	var stop models.BusStop
	if err := config.DB.First(&stop, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus stop not found"})
		return
	}

	var input struct {
		Name      *string  `json:"name"`
		City      *string  `json:"city"`
		Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
		Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
		Amenities []string `json:"amenities"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		stop.Name = *input.Name
	}
	if input.City != nil {
		stop.City = *input.City
	}
	if input.Latitude != nil {
		stop.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		stop.Longitude = *input.Longitude
	}
	if input.Amenities != nil {
		stop.Amenities = input.Amenities
	}

	if err := config.DB.Save(&stop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus_stop": stop})
}

// DeleteBusStop removes a stop.
func DeleteBusStop(c *gin.Context) {
	var stop models.BusStop
	if err := config.DB.First(&stop, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus stop not found"})
		return
	}
	config.DB.Delete(&stop)
	c.JSON(http.StatusOK, gin.H{"message": "Bus stop deleted successfully"})
}
