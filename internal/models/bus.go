package models

// Bus statuses as written by the tracking endpoints.
const (
	BusStatusInactive = "inactive"
	BusStatusEnRoute  = "en_route"
)

type Bus struct {
	Base
	BusNumber      string  `json:"bus_number" binding:"required"`
	VehicleNumber  string  `json:"vehicle_number" binding:"required" gorm:"uniqueIndex"`
	Capacity       int     `json:"capacity"`
	OperatorID     string  `json:"operator_id" gorm:"index;size:36"`
	DriverID       string  `json:"driver_id" gorm:"index;size:36"`
	CurrentRouteID *string `json:"current_route_id,omitempty" gorm:"size:36"`
	Status         string  `json:"status" gorm:"default:inactive"`
}
