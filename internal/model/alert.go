package model

import "github.com/google/uuid"

type AlertType string

const (
	AlertLowStock    AlertType = "low_stock"
	AlertOutOfStock  AlertType = "out_of_stock"
	AlertHighExpense AlertType = "high_expense"
	AlertSystem      AlertType = "system"
)

type Alert struct {
	BaseModel
	AlertType AlertType `gorm:"type:varchar(20);not null;index" json:"alert_type"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`

	// Set on stock alerts; nil for system/expense alerts. The sweep dedups
	// on it, so substring-alike product names never shadow each other.
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
}
