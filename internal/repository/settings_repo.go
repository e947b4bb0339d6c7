package repository

import (
	"errors"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// GetReceiptSettings returns the singleton row, creating the default
	// on first access.
	GetReceiptSettings() (*model.ReceiptSettings, error)
	SaveReceiptSettings(settings *model.ReceiptSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) GetReceiptSettings() (*model.ReceiptSettings, error) {
	var settings model.ReceiptSettings
	err := r.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.DefaultReceiptSettings()
		settings.CreatedBy = "system"
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) SaveReceiptSettings(settings *model.ReceiptSettings) error {
	return r.db.Save(settings).Error
}
