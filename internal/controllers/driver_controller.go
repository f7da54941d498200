package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/models"
)

// CreateDriver registers a driver profile for an existing user account.
func CreateDriver(c *gin.Context) {
	var input struct {
		UserID        string `json:"user_id" binding:"required"`
		Name          string `json:"name" binding:"required"`
		Phone         string `json:"phone"`
		LicenseNumber string `json:"license_number"`
		OperatorID    string `json:"operator_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateDriver: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", input.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	driver := models.Driver{
		UserID:        input.UserID,
		Name:          input.Name,
		Phone:         input.Phone,
		LicenseNumber: input.LicenseNumber,
		OperatorID:    input.OperatorID,
	}
	if err := config.DB.Create(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create driver failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

// ListDrivers returns all drivers, optionally filtered by ?operator_id=.
func ListDrivers(c *gin.Context) {
	var drivers []models.Driver
	q := config.DB.Order("name")
	if operatorID := c.Query("operator_id"); operatorID != "" {
		q = q.Where("operator_id = ?", operatorID)
	}
	if err := q.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers, "count": len(drivers)})
}

// GetDriver returns a single driver.
func GetDriver(c *gin.Context) {
	var driver models.Driver
	if err := config.DB.First(&driver, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// UpdateDriver modifies a driver profile.
func UpdateDriver(c *gin.Context) {
	var driver models.Driver
	if err := config.DB.First(&driver, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}

	var input struct {
		Name          *string `json:"name"`
		Phone         *string `json:"phone"`
		LicenseNumber *string `json:"license_number"`
		OperatorID    *string `json:"operator_id"`
		BusID         *string `json:"bus_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.Phone != nil {
		driver.Phone = *input.Phone
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = *input.LicenseNumber
	}
	if input.OperatorID != nil {
		driver.OperatorID = *input.OperatorID
	}
	if input.BusID != nil {
		driver.BusID = *input.BusID
	}

	if err := config.DB.Save(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// DeleteDriver removes a driver profile.
func DeleteDriver(c *gin.Context) {
	var driver models.Driver
	if err := config.DB.First(&driver, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}
	config.DB.Delete(&driver)
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted successfully"})
}
