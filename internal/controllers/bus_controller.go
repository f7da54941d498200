package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/models"
)

// CreateBus registers a vehicle under an operator.
func CreateBus(c *gin.Context) {
	var input struct {
		BusNumber     string `json:"bus_number"`
		VehicleNumber string `json:"vehicle_number" binding:"required"`
		Capacity      int    `json:"capacity"`
		OperatorID    string `json:"operator_id" binding:"required"`
		DriverID      string `json:"driver_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateBus: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var operator models.Operator
	if err := config.DB.First(&operator, "id = ?", input.OperatorID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Operator not found"})
		return
	}

	bus := models.Bus{
		BusNumber:     input.BusNumber,
		VehicleNumber: input.VehicleNumber,
		Capacity:      input.Capacity,
		OperatorID:    input.OperatorID,
		DriverID:      input.DriverID,
		Status:        models.BusStatusInactive,
	}
	if err := config.DB.Create(&bus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create bus failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

// ListBuses returns all buses, optionally filtered by ?status= or ?operator_id=.
func ListBuses(c *gin.Context) {
	var buses []models.Bus
	q := config.DB.Order("bus_number")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if operatorID := c.Query("operator_id"); operatorID != "" {
		q = q.Where("operator_id = ?", operatorID)
	}
	if err := q.Find(&buses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch buses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
}

// GetBus returns a single bus.
func GetBus(c *gin.Context) {
	var bus models.Bus
	if err := config.DB.First(&bus, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// UpdateBus modifies a bus.
func UpdateBus(c *gin.Context) {
	var bus models.Bus
	if err := config.DB.First(&bus, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		BusNumber *string `json:"bus_number"`
		Capacity  *int    `json:"capacity"`
		DriverID  *string `json:"driver_id"`
		Status    *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.BusNumber != nil {
		bus.BusNumber = *input.BusNumber
	}
	if input.Capacity != nil {
		bus.Capacity = *input.Capacity
	}
	if input.DriverID != nil {
		bus.DriverID = *input.DriverID
	}
	if input.Status != nil {
		bus.Status = *input.Status
	}

	if err := config.DB.Save(&bus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// DeleteBus removes a bus and detaches it from any route assignment.
func DeleteBus(c *gin.Context) {
	var bus models.Bus
	if err := config.DB.First(&bus, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	if bus.CurrentRouteID != nil {
		detachBusFromRoute(bus.ID, *bus.CurrentRouteID)
	}
	config.DB.Delete(&bus)
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted successfully"})
}

// AssignBusToRoute attaches a bus to a route, replacing any previous
// assignment. The bus id is appended to the route's assigned list and the
// bus records the route as current.
func AssignBusToRoute(c *gin.Context) {
	var input struct {
		BusID   string `json:"bus_id" binding:"required"`
		RouteID string `json:"route_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var bus models.Bus
	if err := config.DB.First(&bus, "id = ?", input.BusID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}
	var route models.Route
	if err := config.DB.First(&route, "id = ?", input.RouteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	if bus.CurrentRouteID != nil && *bus.CurrentRouteID != route.ID {
		detachBusFromRoute(bus.ID, *bus.CurrentRouteID)
	}

	if !containsID(route.AssignedBusIDs, bus.ID) {
		route.AssignedBusIDs = append(route.AssignedBusIDs, bus.ID)
		if err := config.DB.Save(&route).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment failed: " + err.Error()})
			return
		}
	}

	bus.CurrentRouteID = &route.ID
	if err := config.DB.Save(&bus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment failed: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"bus_id":   bus.ID,
		"route_id": route.ID,
	}).Info("AssignBusToRoute: bus assigned")
	c.JSON(http.StatusOK, gin.H{"message": "Bus assigned to route", "bus": bus})
}

// UnassignBus detaches a bus from its current route.
func UnassignBus(c *gin.Context) {
	var bus models.Bus
	if err := config.DB.First(&bus, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}
	if bus.CurrentRouteID == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Bus has no route assignment", "bus": bus})
		return
	}

	detachBusFromRoute(bus.ID, *bus.CurrentRouteID)
	bus.CurrentRouteID = nil
	if err := config.DB.Save(&bus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unassignment failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bus unassigned from route", "bus": bus})
}

func detachBusFromRoute(busID, routeID string) {
	var route models.Route
	if err := config.DB.First(&route, "id = ?", routeID).Error; err != nil {
		return
	}
	kept := make([]string, 0, len(route.AssignedBusIDs))
	for _, id := range route.AssignedBusIDs {
		if id != busID {
			kept = append(kept, id)
		}
	}
	route.AssignedBusIDs = kept
	if err := config.DB.Save(&route).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"bus_id":   busID,
			"route_id": routeID,
		}).Error("detachBusFromRoute: could not persist route")
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
