package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/models"
	"github.com/garvv29/tmr-backend/internal/tracking"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteController serves route search and administration.
type RouteController struct {
	Matcher *tracking.RouteMatcher
}

func NewRouteController(matcher *tracking.RouteMatcher) *RouteController {
	return &RouteController{Matcher: matcher}
}

// RouteResponse mirrors models.Route with the polyline as a GeoJSON string.
type RouteResponse struct {
	models.Route
	Geometry string `json:"geometry,omitempty"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return RouteResponse{Route: route, Geometry: jsonGeom}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SearchRoutes finds routes between two place-name fragments, with the
// assigned buses resolved. No match is an empty list, not an error.
func (rc *RouteController) SearchRoutes(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "From and to locations are required",
			"example": "/routes/search?from=Railway&to=Magneto",
		})
		return
	}

	matches, err := rc.Matcher.FindRoutesBetween(c.Request.Context(), from, to)
	if err != nil {
		respondTrackingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":   from,
		"to":     to,
		"routes": matches,
		"count":  len(matches),
	})
}

// SearchRoutesByCity finds routes with either endpoint in the given city.
func (rc *RouteController) SearchRoutesByCity(c *gin.Context) {
	city := c.Param("city")

	routes, err := rc.Matcher.SearchByCity(c.Request.Context(), city)
	if err != nil {
		respondTrackingError(c, err)
		return
	}

	responses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "routes": responses, "count": len(responses)})
}

// CreateRoute registers a new route, optionally with a GeoJSON polyline.
func CreateRoute(c *gin.Context) {
	var input struct {
		RouteNumber      string   `json:"route_number"`
		Name             string   `json:"name" binding:"required"`
		FromLocation     string   `json:"from_location" binding:"required"`
		ToLocation       string   `json:"to_location" binding:"required"`
		City             string   `json:"city"`
		StartLatitude    *float64 `json:"start_latitude" binding:"omitempty,latitude"`
		StartLongitude   *float64 `json:"start_longitude" binding:"omitempty,longitude"`
		EndLatitude      *float64 `json:"end_latitude" binding:"omitempty,latitude"`
		EndLongitude     *float64 `json:"end_longitude" binding:"omitempty,longitude"`
		Geometry         string   `json:"geometry"`
		DistanceKm       float64  `json:"distance_km"`
		EstimatedMinutes int      `json:"estimated_minutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	route := models.Route{
		RouteNumber:      input.RouteNumber,
		Name:             input.Name,
		FromLocation:     input.FromLocation,
		ToLocation:       input.ToLocation,
		City:             input.City,
		StartLatitude:    input.StartLatitude,
		StartLongitude:   input.StartLongitude,
		EndLatitude:      input.EndLatitude,
		EndLongitude:     input.EndLongitude,
		Geometry:         wkbGeom,
		DistanceKm:       input.DistanceKm,
		EstimatedMinutes: input.EstimatedMinutes,
		IsActive:         true,
	}
	if err := config.DB.Create(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// ListRoutes returns all active routes.
func ListRoutes(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.Where("is_active = ?", true).Order("route_number").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch routes"})
		return
	}

	responses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": responses})
}

// GetRoute returns a single route.
func GetRoute(c *gin.Context) {
	var route models.Route
	if err := config.DB.First(&route, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// UpdateRoute modifies an existing route.
func UpdateRoute(c *gin.Context) {
	var route models.Route
	if err := config.DB.First(&route, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateRoute: database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Name             *string  `json:"name"`
		FromLocation     *string  `json:"from_location"`
		ToLocation       *string  `json:"to_location"`
		Geometry         *string  `json:"geometry"`
		DistanceKm       *float64 `json:"distance_km"`
		EstimatedMinutes *int     `json:"estimated_minutes"`
		IsActive         *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		route.Name = *input.Name
	}
	if input.FromLocation != nil {
		route.FromLocation = *input.FromLocation
	}
	if input.ToLocation != nil {
		route.ToLocation = *input.ToLocation
	}
	if input.Geometry != nil {
		wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
			return
		}
		route.Geometry = wkbGeom
	}
	if input.DistanceKm != nil {
		route.DistanceKm = *input.DistanceKm
	}
	if input.EstimatedMinutes != nil {
		route.EstimatedMinutes = *input.EstimatedMinutes
	}
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// DeleteRoute removes a route.
func DeleteRoute(c *gin.Context) {
	var route models.Route
	if err := config.DB.First(&route, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	config.DB.Delete(&route)
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
