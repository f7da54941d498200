// Package store adapts the relational reference data to the read interfaces
// the tracking core consumes.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/garvv29/tmr-backend/internal/models"
)

// Catalog serves routes, buses and stops from the database.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog wraps a database handle.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// ActiveRoutes returns all routes flagged active, in route-number order.
func (c *Catalog) ActiveRoutes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := c.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("route_number").
		Find(&routes).Error
	return routes, err
}

// RouteByID returns the route or nil when absent.
func (c *Catalog) RouteByID(ctx context.Context, id string) (*models.Route, error) {
	var route models.Route
	err := c.db.WithContext(ctx).First(&route, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// BusesByIDs resolves bus records; ids with no record are simply absent from
// the result.
func (c *Catalog) BusesByIDs(ctx context.Context, ids []string) ([]models.Bus, error) {
	if len(ids) == 0 {
		return []models.Bus{}, nil
	}
	var buses []models.Bus
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&buses).Error
	return buses, err
}

// AllStops returns every bus stop.
func (c *Catalog) AllStops(ctx context.Context) ([]models.BusStop, error) {
	var stops []models.BusStop
	err := c.db.WithContext(ctx).Find(&stops).Error
	return stops, err
}
