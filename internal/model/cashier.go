package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Cashier is the actor every sale and ledger entry is bound to. Session
// issuing lives outside this service; the API only consumes an
// already-authenticated token.
type Cashier struct {
	BaseModel
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// SetPassword hashes and sets the cashier's password
func (c *Cashier) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (c *Cashier) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password))
	return err == nil
}

// CashierResponse is used for API responses (without sensitive data)
type CashierResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	IsActive    bool      `json:"is_active"`
}

func (c *Cashier) ToResponse() CashierResponse {
	return CashierResponse{
		ID:          c.ID,
		Email:       c.Email,
		FullName:    c.FullName,
		PhoneNumber: c.PhoneNumber,
		IsActive:    c.IsActive,
	}
}
