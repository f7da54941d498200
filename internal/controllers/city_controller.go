package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/models"
)

// CreateCity registers a city.
func CreateCity(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := config.DB.Create(&city).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create city failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"city": city})
}

// ListCities returns all cities.
func ListCities(c *gin.Context) {
	var cities []models.City
	if err := config.DB.Order("name").Find(&cities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch cities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities, "count": len(cities)})
}

// DeleteCity removes a city.
func DeleteCity(c *gin.Context) {
	var city models.City
	if err := config.DB.First(&city, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "City not found"})
		return
	}
	config.DB.Delete(&city)
	c.JSON(http.StatusOK, gin.H{"message": "City deleted successfully"})
}
