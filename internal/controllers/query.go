package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/geo"
)

// parseAreaQuery reads latitude, longitude and radius query parameters.
// Radius defaults to 10km when omitted, mirroring the rider app's default
// zoom level.
func parseAreaQuery(c *gin.Context) (geo.Coordinate, float64, error) {
	latStr := c.Query("latitude")
	lngStr := c.Query("longitude")
	if latStr == "" || lngStr == "" {
		return geo.Coordinate{}, 0, errors.New("latitude and longitude are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return geo.Coordinate{}, 0, errors.New("invalid latitude value")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return geo.Coordinate{}, 0, errors.New("invalid longitude value")
	}

	radius := 10.0
	if v := c.Query("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return geo.Coordinate{}, 0, errors.New("invalid radius value")
		}
	}

	return geo.Coordinate{Latitude: lat, Longitude: lng}, radius, nil
}
