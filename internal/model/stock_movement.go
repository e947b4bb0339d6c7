package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
	MovementDamaged    MovementType = "damaged"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementReturn, MovementDamaged:
		return true
	}
	return false
}

// StockMovement is one entry of the append-only inventory ledger. A sale
// writes one "out" entry per distinct product line with a negative quantity.
type StockMovement struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	MovementType MovementType    `gorm:"type:varchar(20);not null" json:"movement_type"`
	Quantity     int             `gorm:"not null" json:"quantity"` // signed delta
	UnitCost     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	Reference    string          `gorm:"type:varchar(100)" json:"reference"`
	Notes        string          `gorm:"type:text" json:"notes"`

	CashierID uuid.UUID `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier   *Cashier  `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

// StockOperationRequest covers the manual stock endpoints: receive, return,
// write-off and adjustment. Quantity is always submitted positive except for
// adjustments, where it is the signed correction.
type StockOperationRequest struct {
	SKU       string           `json:"sku" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference string           `json:"reference"`
	Notes     string           `json:"notes"`
}
