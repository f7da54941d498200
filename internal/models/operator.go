package models

// Operator is a company running buses on one or more routes.
type Operator struct {
	Base
	UserID  string `json:"user_id" gorm:"uniqueIndex;size:36"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" gorm:"unique;not null" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city" gorm:"index"`
}
