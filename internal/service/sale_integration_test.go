package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// The engine's guarantees depend on FOR UPDATE row locks, so these tests
// need a real postgres. Set POS_TEST_DATABASE_URL to run them.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("POS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("POS_TEST_DATABASE_URL not set; skipping postgres integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Cashier{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.DailyReport{},
		&model.Alert{},
		&model.ReceiptSettings{},
	))

	t.Cleanup(func() {
		for _, table := range []string{
			"stock_movements", "sale_items", "sales", "alerts",
			"daily_reports", "products", "categories", "cashiers",
			"receipt_settings",
		} {
			db.Exec("DELETE FROM " + table)
		}
	})

	return db
}

type engineFixture struct {
	db      *gorm.DB
	service SaleService
	cashier *model.Cashier

	products  repository.ProductRepository
	sales     repository.SaleRepository
	movements repository.StockMovementRepository
	reports   repository.DailyReportRepository
	alerts    repository.AlertRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db := testDB(t)

	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	reportRepo := repository.NewDailyReportRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	cashierRepo := repository.NewCashierRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	cashier := &model.Cashier{
		Email:    fmt.Sprintf("cashier-%s@example.com", uuid.NewString()[:8]),
		FullName: "Integration Cashier",
		IsActive: true,
	}
	require.NoError(t, cashier.SetPassword("secret123"))
	require.NoError(t, cashierRepo.Create(cashier))

	svc := NewSaleService(db, productRepo, saleRepo, movementRepo, reportRepo, alertRepo, cashierRepo, settingsRepo, nil)

	return &engineFixture{
		db:        db,
		service:   svc,
		cashier:   cashier,
		products:  productRepo,
		sales:     saleRepo,
		movements: movementRepo,
		reports:   reportRepo,
		alerts:    alertRepo,
	}
}

func (f *engineFixture) seedProduct(t *testing.T, sku string, stock, reorder int, price float64) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:           sku,
		Name:          "Product " + sku,
		CostPrice:     decimal.NewFromFloat(price / 2),
		SellingPrice:  decimal.NewFromFloat(price),
		StockQuantity: stock,
		ReorderLevel:  reorder,
		IsActive:      true,
	}
	require.NoError(t, f.products.Create(p))
	return p
}

func cartFor(sku string, qty int, price float64) *model.CompleteSaleRequest {
	unit := decimal.NewFromFloat(price)
	subtotal := unit.Mul(decimal.NewFromInt(int64(qty)))
	return &model.CompleteSaleRequest{
		PaymentMethod: "cash",
		Subtotal:      subtotal,
		TotalAmount:   subtotal,
		Items: []model.SaleLineRequest{
			{SKU: sku, Quantity: qty, UnitPrice: unit},
		},
	}
}

func TestCompleteSalePersistsEverything(t *testing.T) {
	f := newEngineFixture(t)
	product := f.seedProduct(t, "INT-001", 5, 3, 10.00)

	receipt, err := f.service.CompleteSale(context.Background(), f.cashier.ID, cartFor("INT-001", 4, 10.00))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "40.00", receipt.TotalAmount)
	assert.Equal(t, "Integration Cashier", receipt.CashierName)

	// Stock decremented under the lock.
	reloaded, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQuantity)

	// Sale and items persisted.
	sale, err := f.sales.FindByID(receipt.SaleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 4, sale.Items[0].Quantity)
	assert.True(t, sale.Items[0].CostPrice.Equal(product.CostPrice))

	// Ledger entry references the sale number with a negative quantity.
	movements, err := f.movements.FindByReference(receipt.SaleNumber)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementOut, movements[0].MovementType)
	assert.Equal(t, -4, movements[0].Quantity)

	// Stock landed at 1, at or below the reorder level of 3.
	alerts, err := f.alerts.ListUnread(10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertLowStock, alerts[0].AlertType)

	// Daily rollup incremented in the same transaction.
	report, err := f.reports.FindByDate(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromFloat(40.00)))
	assert.True(t, report.CashSales.Equal(decimal.NewFromFloat(40.00)))
	require.NotNil(t, report.TopSellingProductID)
	assert.Equal(t, product.ID, *report.TopSellingProductID)
}

func TestCompleteSaleRollsBackOnInsufficientStock(t *testing.T) {
	f := newEngineFixture(t)
	f.seedProduct(t, "INT-OK", 10, 3, 5.00)
	product := f.seedProduct(t, "INT-LOW", 3, 3, 10.00)

	// First line would succeed; the second fails, so nothing may persist.
	unit1 := decimal.NewFromFloat(5.00)
	unit2 := decimal.NewFromFloat(10.00)
	subtotal := decimal.NewFromFloat(50.00)
	req := &model.CompleteSaleRequest{
		PaymentMethod: "card",
		Subtotal:      subtotal,
		TotalAmount:   subtotal,
		Items: []model.SaleLineRequest{
			{SKU: "INT-OK", Quantity: 2, UnitPrice: unit1},
			{SKU: "INT-LOW", Quantity: 4, UnitPrice: unit2},
		},
	}

	_, err := f.service.CompleteSale(context.Background(), f.cashier.ID, req)
	var insErr *InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, product.Name, insErr.ProductName)

	// Both products untouched.
	ok, err := f.products.FindBySKU("INT-OK")
	require.NoError(t, err)
	assert.Equal(t, 10, ok.StockQuantity)
	low, err := f.products.FindBySKU("INT-LOW")
	require.NoError(t, err)
	assert.Equal(t, 3, low.StockQuantity)

	// No sale, ledger entry, alert or report row leaked.
	var saleCount, movementCount, alertCount int64
	f.db.Model(&model.Sale{}).Count(&saleCount)
	f.db.Model(&model.StockMovement{}).Count(&movementCount)
	f.db.Model(&model.Alert{}).Count(&alertCount)
	assert.Zero(t, saleCount)
	assert.Zero(t, movementCount)
	assert.Zero(t, alertCount)
}

func TestCompleteSaleUnknownSKU(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.service.CompleteSale(context.Background(), f.cashier.ID, cartFor("INT-MISSING", 1, 10.00))
	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "INT-MISSING", nfErr.SKU)
}

// Concurrent carts compete for the same product row; the locks must prevent
// overselling and the rollup must count every committed sale exactly once.
func TestConcurrentSalesNeverOversell(t *testing.T) {
	f := newEngineFixture(t)
	product := f.seedProduct(t, "INT-RACE", 10, 0, 10.00)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CompleteSale(context.Background(), f.cashier.ID, cartFor("INT-RACE", 3, 10.00))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var insErr *InsufficientStockError
		require.ErrorAs(t, err, &insErr)
	}
	// 10 units, 3 per cart: exactly 3 carts can commit.
	assert.Equal(t, 3, succeeded)

	reloaded, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQuantity)

	report, err := f.reports.FindByDate(time.Now())
	require.NoError(t, err)
	assert.Equal(t, succeeded, report.TotalTransactions)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromFloat(90.00)))
}

// A commit stuck behind a peer's uncommitted row lock must abort within the
// bounded wait and roll back, not hang the request.
func TestCompleteSaleAbortsBehindStalledLock(t *testing.T) {
	f := newEngineFixture(t)
	product := f.seedProduct(t, "INT-STALL", 10, 0, 10.00)

	// Hold the product row lock in a transaction that never commits.
	blocker := f.db.Begin()
	require.NoError(t, blocker.Error)
	defer blocker.Rollback()

	var locked model.Product
	require.NoError(t, blocker.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, "sku = ?", "INT-STALL").Error)

	start := time.Now()
	_, err := f.service.CompleteSale(context.Background(), f.cashier.ID, cartFor("INT-STALL", 1, 10.00))
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrCommitFailed)
	assert.Less(t, elapsed, 30*time.Second)

	blocker.Rollback()

	// The aborted commit left nothing behind.
	reloaded, err := f.products.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.StockQuantity)

	var saleCount int64
	f.db.Model(&model.Sale{}).Count(&saleCount)
	assert.Zero(t, saleCount)
}
