package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementData feeds the per-day in/out chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	BulkCreate(tx *gorm.DB, movements []model.StockMovement) error
	FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error)
	FindByReference(reference string) ([]model.StockMovement, error)
	GetDailyFlow(startDate, endDate time.Time) ([]StockMovementData, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) BulkCreate(tx *gorm.DB, movements []model.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return tx.Create(&movements).Error
}

func (r *stockMovementRepo) FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	q := r.db.Preload("Cashier").
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByReference(reference string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Product").
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

// GetDailyFlow aggregates ledger entries into inbound/outbound units per day.
// "in" and "return" count inbound; "out" and "damaged" count outbound;
// adjustments land on whichever side their sign points.
func (r *stockMovementRepo) GetDailyFlow(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
