package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesSummary mirrors the POS "today" widget: live totals computed from the
// committed sale rows.
type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int64           `json:"total_transactions"`
	CashSales         decimal.Decimal `json:"cash_sales"`
	CardSales         decimal.Decimal `json:"card_sales"`
	MobileSales       decimal.Decimal `json:"mobile_sales"`
	TopProducts       []TopProduct    `json:"top_products"`
}

type TopProduct struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	TotalQty     int64           `json:"total_qty"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	BulkCreateItems(tx *gorm.DB, items []model.SaleItem) error
	FindAll(limit int) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	SummaryForDate(date time.Time) (*SalesSummary, error)
	TopProductsForDate(date time.Time, limit int) ([]TopProduct, error)
	// TopProductIDForDate runs on the caller's transaction so the daily
	// rollup can refresh its top-seller pointer atomically with the sale.
	TopProductIDForDate(tx *gorm.DB, date time.Time) (*uuid.UUID, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) BulkCreateItems(tx *gorm.DB, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *saleRepo) FindAll(limit int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.Preload("Cashier").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Cashier").Preload("Items").Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) SummaryForDate(date time.Time) (*SalesSummary, error) {
	start, end := dayBounds(date)

	summary := &SalesSummary{
		TotalSales:  decimal.Zero,
		CashSales:   decimal.Zero,
		CardSales:   decimal.Zero,
		MobileSales: decimal.Zero,
	}

	rows, err := r.db.Model(&model.Sale{}).
		Select("payment_method, COUNT(*) as tx_count, COALESCE(SUM(total_amount), 0) as amount").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("payment_method").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var method model.PaymentMethod
		var txCount int64
		var amount decimal.Decimal
		if err := rows.Scan(&method, &txCount, &amount); err != nil {
			return nil, err
		}
		summary.TotalTransactions += txCount
		summary.TotalSales = summary.TotalSales.Add(amount)
		switch method {
		case model.PaymentCash:
			summary.CashSales = amount
		case model.PaymentCard:
			summary.CardSales = amount
		case model.PaymentMobile:
			summary.MobileSales = amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	top, err := r.TopProductsForDate(date, 5)
	if err != nil {
		return nil, err
	}
	summary.TopProducts = top

	return summary, nil
}

func (r *saleRepo) TopProductsForDate(date time.Time, limit int) ([]TopProduct, error) {
	start, end := dayBounds(date)

	var results []TopProduct
	err := r.db.Model(&model.SaleItem{}).
		Select(`sale_items.product_id,
			products.name as product_name,
			sale_items.sku,
			SUM(sale_items.quantity) as total_qty,
			SUM(sale_items.total_price) as total_revenue`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Group("sale_items.product_id, products.name, sale_items.sku").
		Order("total_qty DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *saleRepo) TopProductIDForDate(tx *gorm.DB, date time.Time) (*uuid.UUID, error) {
	start, end := dayBounds(date)

	var productID uuid.UUID
	err := tx.Model(&model.SaleItem{}).
		Select("sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Group("sale_items.product_id").
		Order("SUM(sale_items.quantity) DESC").
		Limit(1).
		Scan(&productID).Error
	if err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, nil
	}
	return &productID, nil
}

// dayBounds is the half-open [start, end) window of the instant's UTC
// calendar day, matching the DailyReport date key.
func dayBounds(date time.Time) (time.Time, time.Time) {
	start := truncateToDate(date)
	return start, start.AddDate(0, 0, 1)
}
