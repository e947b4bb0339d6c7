package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReport is the per-calendar-day running rollup. It is created lazily
// on the first sale of a day and incremented by every later commit, never
// recomputed from scratch on the hot path.
type DailyReport struct {
	BaseModel
	Date              time.Time       `gorm:"type:date;uniqueIndex;not null" json:"date"`
	TotalSales        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_sales"`
	TotalTransactions int             `gorm:"not null;default:0" json:"total_transactions"`
	CashSales         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"cash_sales"`
	CardSales         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"card_sales"`
	MobileSales       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"mobile_sales"`

	TopSellingProductID *uuid.UUID `gorm:"type:uuid" json:"top_selling_product_id,omitempty"`
	TopSellingProduct   *Product   `gorm:"foreignKey:TopSellingProductID" json:"top_selling_product,omitempty"`
}
