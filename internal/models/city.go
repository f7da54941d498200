package models

// City is reference data owned by the administrative subsystem.
type City struct {
	Base
	Name  string `json:"name" binding:"required" gorm:"uniqueIndex"`
	State string `json:"state"`
}
