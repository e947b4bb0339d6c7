package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// Valid reports whether the payment method is one of the closed set.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile:
		return true
	}
	return false
}

type Sale struct {
	BaseModel
	SaleNumber     string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"sale_number"`
	CashierID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier        *Cashier        `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Notes          string          `gorm:"type:text" json:"notes"`

	Items []SaleItem `json:"items,omitempty"`
}

type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	SKU        string          `gorm:"type:varchar(50);not null" json:"sku"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	// Cost price captured at sale time so later catalog changes do not
	// rewrite historical profit.
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_price"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Profit is the per-line margin against the cost snapshot.
func (i *SaleItem) Profit() decimal.Decimal {
	return i.UnitPrice.Sub(i.CostPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewSaleNumber allocates a human-readable sale reference before the sale
// row exists, so ledger entries can point at it inside the same transaction.
func NewSaleNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "SAL" + raw[:8]
}

// CompleteSaleRequest is the JSON payload the POS screen posts.
type CompleteSaleRequest struct {
	PaymentMethod  string            `json:"payment_method" validate:"required,oneof=cash card mobile"`
	Subtotal       decimal.Decimal   `json:"subtotal" validate:"required"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TotalAmount    decimal.Decimal   `json:"total_amount" validate:"required"`
	Notes          string            `json:"notes"`
	Items          []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
}

type SaleLineRequest struct {
	SKU       string           `json:"sku" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal  `json:"unit_price" validate:"required"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
}

// SaleReceipt is the receipt-shaped summary returned on success, including
// the display flags from receipt settings.
type SaleReceipt struct {
	SaleID         uuid.UUID         `json:"id"`
	SaleNumber     string            `json:"sale_id"`
	PaymentMethod  PaymentMethod     `json:"payment_method"`
	Subtotal       string            `json:"subtotal"`
	TaxAmount      string            `json:"tax_amount"`
	DiscountAmount string            `json:"discount_amount"`
	TotalAmount    string            `json:"total_amount"`
	CreatedAt      time.Time         `json:"created_at"`
	CashierName    string            `json:"cashier_name"`
	Items          []SaleReceiptLine `json:"items"`

	ShowThanks bool   `json:"showThanks"`
	ThanksNote string `json:"thanksNote"`
	ShowName   bool   `json:"showName"`
	ShowTime   bool   `json:"showTime"`
	ShowLogo   bool   `json:"showLogo"`
}

type SaleReceiptLine struct {
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	CostPrice   string `json:"cost_price"`
}
