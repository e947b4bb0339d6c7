package repository

import (
	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashierRepository interface {
	Create(cashier *model.Cashier) error
	FindByID(id uuid.UUID) (*model.Cashier, error)
	FindByEmail(email string) (*model.Cashier, error)
}

type cashierRepo struct {
	db *gorm.DB
}

func NewCashierRepo(db *gorm.DB) CashierRepository {
	return &cashierRepo{db}
}

func (r *cashierRepo) Create(cashier *model.Cashier) error {
	return r.db.Create(cashier).Error
}

func (r *cashierRepo) FindByID(id uuid.UUID) (*model.Cashier, error) {
	var cashier model.Cashier
	err := r.db.First(&cashier, "id = ?", id).Error
	return &cashier, err
}

func (r *cashierRepo) FindByEmail(email string) (*model.Cashier, error) {
	var cashier model.Cashier
	err := r.db.First(&cashier, "email = ?", email).Error
	return &cashier, err
}
