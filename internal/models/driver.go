package models

type Driver struct {
	Base
	UserID        string `json:"user_id" gorm:"uniqueIndex;size:36"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	OperatorID    string `json:"operator_id" gorm:"index;size:36"`
	BusID         string `json:"bus_id" gorm:"index;size:36"`
}
