package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garvv29/tmr-backend/internal/config"
	"github.com/garvv29/tmr-backend/internal/models"
)

// CreateOperator registers an operator company.
func CreateOperator(c *gin.Context) {
	var operator models.Operator
	if err := c.ShouldBindJSON(&operator); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := config.DB.Create(&operator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create operator failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"operator": operator})
}

// ListOperators returns all operators, optionally filtered by ?city=.
func ListOperators(c *gin.Context) {
	var operators []models.Operator
	q := config.DB.Order("name")
	if city := c.Query("city"); city != "" {
		q = q.Where("city = ?", city)
	}
	if err := q.Find(&operators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch operators"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"operators": operators, "count": len(operators)})
}

// GetOperator returns a single operator.
func GetOperator(c *gin.Context) {
	var operator models.Operator
	if err := config.DB.First(&operator, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"operator": operator})
}

// UpdateOperator modifies an operator.
func UpdateOperator(c *gin.Context) {
	var operator models.Operator
	if err := config.DB.First(&operator, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		return
	}

	var input struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		City    *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		operator.Name = *input.Name
	}
	if input.Phone != nil {
		operator.Phone = *input.Phone
	}
	if input.Address != nil {
		operator.Address = *input.Address
	}
	if input.City != nil {
		operator.City = *input.City
	}

	if err := config.DB.Save(&operator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"operator": operator})
}

// DeleteOperator removes an operator.
func DeleteOperator(c *gin.Context) {
	var operator models.Operator
	if err := config.DB.First(&operator, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		return
	}
	config.DB.Delete(&operator)
	c.JSON(http.StatusOK, gin.H{"message": "Operator deleted successfully"})
}
