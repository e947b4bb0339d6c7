package repository

import (
	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(categoryID *uuid.UUID, search string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	// LockBySKU acquires a FOR UPDATE row lock on an active product. Callers
	// must hold an open transaction; the lock is released on commit/rollback.
	LockBySKU(tx *gorm.DB, sku string) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	FindLowStock() ([]model.Product, error)
	CountActive() (int64, error)
	CountLowStock() (int64, error)
	TotalValuation() (decimal.Decimal, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(categoryID *uuid.UUID, search string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Preload("Category").Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) LockBySKU(tx *gorm.DB, sku string) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "sku = ? AND is_active = ?", sku, true).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock runs inside the caller's transaction so the write stays under
// the row lock taken by LockBySKU.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": newStock,
			"updated_by":     updatedBy,
		}).Error
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = ? AND stock_quantity <= reorder_level", true).
		Order("stock_quantity ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *productRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= reorder_level", true).
		Count(&count).Error
	return count, err
}

func (r *productRepo) TotalValuation() (decimal.Decimal, error) {
	var valuation decimal.Decimal
	err := r.db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(stock_quantity * cost_price), 0)").
		Scan(&valuation).Error
	return valuation, err
}
