package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(alert *model.Alert) error
	BulkCreate(tx *gorm.DB, alerts []model.Alert) error
	ListUnread(limit int) ([]model.Alert, error)
	MarkRead(id uuid.UUID) error
	// ExistsForProductSince reports whether any stock alert for the product
	// was already raised in the window. Used by the periodic sweep to avoid
	// spamming one alert per run.
	ExistsForProductSince(productID uuid.UUID, since time.Time) (bool, error)
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db}
}

func (r *alertRepo) Create(alert *model.Alert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepo) BulkCreate(tx *gorm.DB, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return tx.Create(&alerts).Error
}

func (r *alertRepo) ListUnread(limit int) ([]model.Alert, error) {
	var alerts []model.Alert
	q := r.db.Where("is_read = ?", false).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) MarkRead(id uuid.UUID) error {
	result := r.db.Model(&model.Alert{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *alertRepo) ExistsForProductSince(productID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.Alert{}).
		Where("alert_type IN ?", []model.AlertType{model.AlertLowStock, model.AlertOutOfStock}).
		Where("product_id = ?", productID).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count > 0, err
}
