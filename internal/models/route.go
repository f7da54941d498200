package models

// Route represents a service path between two named places.
// AssignedBusIDs references buses but integrity is not enforced here: a
// dangling id simply means no live data at read time.
type Route struct {
	Base
	RouteNumber  string `json:"route_number" gorm:"index"`
	Name         string `json:"name" binding:"required"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	City         string `json:"city" gorm:"index"`

	StartLatitude  *float64 `json:"start_latitude,omitempty"`
	StartLongitude *float64 `json:"start_longitude,omitempty"`
	EndLatitude    *float64 `json:"end_latitude,omitempty"`
	EndLongitude   *float64 `json:"end_longitude,omitempty"`

	// Polyline stored as WKB (LINESTRING, SRID 4326); accepted and served as
	// GeoJSON at the API boundary.
	Geometry []byte `json:"-" gorm:"type:bytea"`

	DistanceKm       float64  `json:"distance_km"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	AssignedBusIDs   []string `json:"assigned_bus_ids" gorm:"serializer:json"`
	IsActive         bool     `json:"is_active" gorm:"default:true"`
}
