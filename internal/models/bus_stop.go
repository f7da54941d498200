package models

import "github.com/garvv29/tmr-backend/internal/geo"

// BusStop is a named boarding point. Immutable once created except for
// administrative correction.
type BusStop struct {
	Base
	Name      string   `json:"name" binding:"required"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Address   string   `json:"address"`
	City      string   `json:"city" gorm:"index"`
	Amenities []string `json:"amenities" gorm:"serializer:json"`
}

// Coordinate returns the stop's position as a geo value.
func (s BusStop) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}
