package service

import (
	"errors"
	"fmt"
	"testing"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func validRequest() *model.CompleteSaleRequest {
	return &model.CompleteSaleRequest{
		PaymentMethod:  "cash",
		Subtotal:       money(25.00),
		TaxAmount:      money(2.50),
		DiscountAmount: money(0),
		TotalAmount:    money(27.50),
		Items: []model.SaleLineRequest{
			{SKU: "SKU-001", Quantity: 2, UnitPrice: money(10.00)},
			{SKU: "SKU-002", Quantity: 1, UnitPrice: money(5.00)},
		},
	}
}

func TestValidateSaleRequest(t *testing.T) {
	t.Run("accepts a consistent cart", func(t *testing.T) {
		assert.NoError(t, validateSaleRequest(validRequest()))
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		req := validRequest()
		req.Items = nil
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		req := validRequest()
		req.PaymentMethod = "barter"
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects zero quantity line", func(t *testing.T) {
		req := validRequest()
		req.Items[0].Quantity = 0
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		req := validRequest()
		req.Items[0].UnitPrice = money(-1.00)
		req.Subtotal = money(3.00)
		req.TotalAmount = money(5.50)
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "items.unit_price", vErr.Field)
	})

	t.Run("recomputes subtotal from lines", func(t *testing.T) {
		req := validRequest()
		req.Subtotal = money(30.00) // lines sum to 25.00
		req.TotalAmount = money(32.50)
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "subtotal", vErr.Field)
	})

	t.Run("recomputes total from subtotal tax and discount", func(t *testing.T) {
		req := validRequest()
		req.TotalAmount = money(26.00) // should be 27.50
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "total_amount", vErr.Field)
	})

	t.Run("tolerates sub-cent rounding drift", func(t *testing.T) {
		req := validRequest()
		req.Subtotal = money(25.004)
		req.TotalAmount = money(27.504)
		assert.NoError(t, validateSaleRequest(req))
	})

	t.Run("discount reduces the total", func(t *testing.T) {
		req := validRequest()
		req.DiscountAmount = money(5.00)
		req.TotalAmount = money(22.50)
		assert.NoError(t, validateSaleRequest(req))
	})

	t.Run("rejects negative tax or discount", func(t *testing.T) {
		req := validRequest()
		req.TaxAmount = money(-2.50)
		req.TotalAmount = money(22.50)
		err := validateSaleRequest(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestAlertForStockLevel(t *testing.T) {
	t.Run("no alert above reorder level", func(t *testing.T) {
		p := &model.Product{Name: "Beans", StockQuantity: 11, ReorderLevel: 10}
		assert.Nil(t, alertForStockLevel(p))
	})

	t.Run("low stock at the boundary", func(t *testing.T) {
		p := &model.Product{Name: "Beans", StockQuantity: 10, ReorderLevel: 10}
		p.ID = uuid.New()
		alert := alertForStockLevel(p)
		require.NotNil(t, alert)
		assert.Equal(t, model.AlertLowStock, alert.AlertType)
		assert.Contains(t, alert.Title, "Beans")
		assert.Contains(t, alert.Message, "10")
		require.NotNil(t, alert.ProductID)
		assert.Equal(t, p.ID, *alert.ProductID)
	})

	t.Run("out of stock wins over low stock", func(t *testing.T) {
		p := &model.Product{Name: "Beans", StockQuantity: 0, ReorderLevel: 10}
		alert := alertForStockLevel(p)
		require.NotNil(t, alert)
		assert.Equal(t, model.AlertOutOfStock, alert.AlertType)
	})
}

func TestBusinessErrorClassification(t *testing.T) {
	assert.True(t, IsBusinessError(&ValidationError{Field: "subtotal", Reason: "mismatch"}))
	assert.True(t, IsBusinessError(&ProductNotFoundError{SKU: "SKU-404"}))
	assert.True(t, IsBusinessError(&InsufficientStockError{ProductName: "Beans"}))
	assert.False(t, IsBusinessError(ErrCommitFailed))
	assert.False(t, IsBusinessError(errors.New("connection reset")))

	// Wrapped business errors still classify.
	wrapped := fmt.Errorf("checkout: %w", &InsufficientStockError{ProductName: "Beans"})
	assert.True(t, IsBusinessError(wrapped))
}
