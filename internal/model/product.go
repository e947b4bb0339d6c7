package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`

	StockQuantity int  `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	ReorderLevel  int  `gorm:"not null;default:10" json:"reorder_level" validate:"gte=0"`
	IsActive      bool `gorm:"default:true" json:"is_active"`
}

// IsLowStock reports whether the quantity sits at or below the reorder level.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.ReorderLevel
}

func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity == 0
}

// StockValue is the quantity valued at cost.
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}

type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	ReorderLevel  int             `json:"reorder_level" validate:"gte=0"`
}
