package model

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentMobile.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestMovementTypeValid(t *testing.T) {
	for _, mt := range []MovementType{MovementIn, MovementOut, MovementAdjustment, MovementReturn, MovementDamaged} {
		assert.True(t, mt.Valid(), string(mt))
	}
	assert.False(t, MovementType("transfer").Valid())
}

func TestNewSaleNumber(t *testing.T) {
	n := NewSaleNumber()
	assert.True(t, strings.HasPrefix(n, "SAL"))
	assert.Len(t, n, 11)
	assert.Equal(t, strings.ToUpper(n), n)

	// The reference is allocated per sale and must not repeat.
	assert.NotEqual(t, n, NewSaleNumber())
}

func TestSaleItemProfit(t *testing.T) {
	item := SaleItem{
		Quantity:  4,
		UnitPrice: decimal.NewFromFloat(12.00),
		CostPrice: decimal.NewFromFloat(8.50),
	}
	assert.True(t, item.Profit().Equal(decimal.NewFromFloat(14.00)))
}
