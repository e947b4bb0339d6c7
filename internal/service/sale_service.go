package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// centTolerance absorbs client-side float rounding when recomputing the
// cart's money fields.
var centTolerance = decimal.NewFromFloat(0.01)

// lockWaitTimeout bounds how long a commit may sit behind a peer's row
// locks. Past it the transaction aborts and rolls back instead of hanging
// the request.
const lockWaitTimeout = 5 * time.Second

type SaleService interface {
	CompleteSale(ctx context.Context, cashierID uuid.UUID, req *model.CompleteSaleRequest) (*model.SaleReceipt, error)
	GetSales(limit int) ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
	GetSalesSummary(date time.Time) (*repository.SalesSummary, error)
}

type saleService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	movementRepo repository.StockMovementRepository
	reportRepo   repository.DailyReportRepository
	alertRepo    repository.AlertRepository
	cashierRepo  repository.CashierRepository
	settingsRepo repository.SettingsRepository
	wsHub        *ws.Hub
}

func NewSaleService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movementRepo repository.StockMovementRepository,
	reportRepo repository.DailyReportRepository,
	alertRepo repository.AlertRepository,
	cashierRepo repository.CashierRepository,
	settingsRepo repository.SettingsRepository,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		db:           db,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		reportRepo:   reportRepo,
		alertRepo:    alertRepo,
		cashierRepo:  cashierRepo,
		settingsRepo: settingsRepo,
		wsHub:        hub,
	}
}

// CompleteSale turns a cashier's cart into a durable sale: header, line
// items, stock decrements, ledger entries, threshold alerts and the daily
// rollup, all inside one transaction. Either everything lands or nothing
// does.
func (s *saleService) CompleteSale(ctx context.Context, cashierID uuid.UUID, req *model.CompleteSaleRequest) (*model.SaleReceipt, error) {
	if err := validateSaleRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, lockWaitTimeout)
	defer cancel()

	cashier, err := s.cashierRepo.FindByID(cashierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "cashier", Reason: "unknown cashier"}
		}
		return nil, fmt.Errorf("%w: resolving cashier: %v", ErrCommitFailed, err)
	}

	paymentMethod := model.PaymentMethod(req.PaymentMethod)
	saleNumber := model.NewSaleNumber()

	var sale model.Sale
	var pendingItems []model.SaleItem
	var pendingAlerts []model.Alert
	nameBySKU := make(map[string]string, len(req.Items))

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pendingItems = pendingItems[:0]
		pendingAlerts = pendingAlerts[:0]
		var pendingMovements []model.StockMovement

		// Lines are processed strictly in submission order; a failure on
		// any line unwinds every earlier decrement with the transaction.
		for _, line := range req.Items {
			product, err := s.productRepo.LockBySKU(tx, line.SKU)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{SKU: line.SKU}
				}
				return err
			}

			if product.StockQuantity < line.Quantity {
				return &InsufficientStockError{ProductName: product.Name}
			}

			nameBySKU[product.SKU] = product.Name

			costPrice := product.CostPrice
			if line.CostPrice != nil {
				costPrice = *line.CostPrice
			}

			pendingItems = append(pendingItems, model.SaleItem{
				ProductID:  product.ID,
				SKU:        product.SKU,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
				CostPrice:  costPrice,
			})

			newStock := product.StockQuantity - line.Quantity
			if err := s.productRepo.UpdateStock(tx, product.ID, newStock, cashier.Email); err != nil {
				return err
			}
			product.StockQuantity = newStock

			movement := model.StockMovement{
				ProductID:    product.ID,
				MovementType: model.MovementOut,
				Quantity:     -line.Quantity,
				UnitCost:     costPrice,
				Reference:    saleNumber,
				Notes:        "Sale to customer",
				CashierID:    cashier.ID,
			}
			movement.CreatedBy = cashier.Email
			pendingMovements = append(pendingMovements, movement)

			if alert := alertForStockLevel(product); alert != nil {
				pendingAlerts = append(pendingAlerts, *alert)
			}
		}

		sale = model.Sale{
			SaleNumber:     saleNumber,
			CashierID:      cashier.ID,
			PaymentMethod:  paymentMethod,
			Subtotal:       req.Subtotal,
			TaxAmount:      req.TaxAmount,
			DiscountAmount: req.DiscountAmount,
			TotalAmount:    req.TotalAmount,
			Notes:          req.Notes,
		}
		sale.CreatedBy = cashier.Email
		if err := s.saleRepo.Create(tx, &sale); err != nil {
			return err
		}

		for i := range pendingItems {
			pendingItems[i].SaleID = sale.ID
		}
		if err := s.saleRepo.BulkCreateItems(tx, pendingItems); err != nil {
			return err
		}
		if err := s.movementRepo.BulkCreate(tx, pendingMovements); err != nil {
			return err
		}
		if err := s.alertRepo.BulkCreate(tx, pendingAlerts); err != nil {
			return err
		}

		return s.applyDailyRollup(tx, &sale)
	})

	if txErr != nil {
		if IsBusinessError(txErr) {
			return nil, txErr
		}
		log.Printf("sale commit failed (cashier=%s, sale=%s): %v", cashier.Email, saleNumber, txErr)
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, txErr)
	}

	receipt := s.buildReceipt(&sale, pendingItems, cashier, nameBySKU)

	// Surfacing happens strictly after commit so a rollback can never leak
	// events for state that was not persisted.
	if s.wsHub != nil {
		go s.broadcastSale(receipt, pendingAlerts)
	}

	return receipt, nil
}

// applyDailyRollup increments the per-date aggregate on the sale's own
// transaction. The FOR UPDATE lock on the date row serializes concurrent
// sales landing on the same day.
func (s *saleService) applyDailyRollup(tx *gorm.DB, sale *model.Sale) error {
	report, err := s.reportRepo.LockOrCreate(tx, sale.CreatedAt)
	if err != nil {
		return err
	}

	report.TotalSales = report.TotalSales.Add(sale.TotalAmount)
	report.TotalTransactions++
	switch sale.PaymentMethod {
	case model.PaymentCash:
		report.CashSales = report.CashSales.Add(sale.TotalAmount)
	case model.PaymentCard:
		report.CardSales = report.CardSales.Add(sale.TotalAmount)
	case model.PaymentMobile:
		report.MobileSales = report.MobileSales.Add(sale.TotalAmount)
	}

	if err := s.reportRepo.Save(tx, report); err != nil {
		return err
	}

	topProductID, err := s.saleRepo.TopProductIDForDate(tx, sale.CreatedAt)
	if err != nil {
		return err
	}
	return s.reportRepo.SetTopSellingProduct(tx, report.ID, topProductID)
}

// alertForStockLevel decides the post-decrement threshold alert for one
// line: out_of_stock at zero, low_stock at or below the reorder level while
// still positive, never both.
func alertForStockLevel(product *model.Product) *model.Alert {
	productID := product.ID
	switch {
	case product.IsOutOfStock():
		return &model.Alert{
			AlertType: model.AlertOutOfStock,
			Title:     fmt.Sprintf("Out of Stock: %s", product.Name),
			Message:   fmt.Sprintf("%s is now out of stock.", product.Name),
			ProductID: &productID,
		}
	case product.IsLowStock():
		return &model.Alert{
			AlertType: model.AlertLowStock,
			Title:     fmt.Sprintf("Low Stock Alert: %s", product.Name),
			Message:   fmt.Sprintf("%s is running low. Current stock: %d", product.Name, product.StockQuantity),
			ProductID: &productID,
		}
	}
	return nil
}

// validateSaleRequest covers struct-level validation plus the recomputation
// of client-supplied totals: the subtotal must match the summed lines and
// the total must equal subtotal + tax - discount, both within a cent.
func validateSaleRequest(req *model.CompleteSaleRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{
			Field:  first.FailedField,
			Reason: fmt.Sprintf("failed on %q", first.Tag),
		}
	}

	if !model.PaymentMethod(req.PaymentMethod).Valid() {
		return &ValidationError{Field: "payment_method", Reason: "must be cash, card or mobile"}
	}
	if req.TaxAmount.IsNegative() || req.DiscountAmount.IsNegative() {
		return &ValidationError{Field: "tax_amount", Reason: "amounts must not be negative"}
	}

	lineSum := decimal.Zero
	for _, line := range req.Items {
		if line.UnitPrice.IsNegative() {
			return &ValidationError{Field: "items.unit_price", Reason: "must not be negative"}
		}
		lineSum = lineSum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if lineSum.Sub(req.Subtotal).Abs().GreaterThan(centTolerance) {
		return &ValidationError{Field: "subtotal", Reason: "does not match line items"}
	}

	expectedTotal := req.Subtotal.Add(req.TaxAmount).Sub(req.DiscountAmount)
	if expectedTotal.Sub(req.TotalAmount).Abs().GreaterThan(centTolerance) {
		return &ValidationError{Field: "total_amount", Reason: "does not match subtotal + tax - discount"}
	}

	return nil
}

func (s *saleService) buildReceipt(sale *model.Sale, items []model.SaleItem, cashier *model.Cashier, nameBySKU map[string]string) *model.SaleReceipt {
	receipt := &model.SaleReceipt{
		SaleID:         sale.ID,
		SaleNumber:     sale.SaleNumber,
		PaymentMethod:  sale.PaymentMethod,
		Subtotal:       sale.Subtotal.StringFixed(2),
		TaxAmount:      sale.TaxAmount.StringFixed(2),
		DiscountAmount: sale.DiscountAmount.StringFixed(2),
		TotalAmount:    sale.TotalAmount.StringFixed(2),
		CreatedAt:      sale.CreatedAt,
		CashierName:    cashier.FullName,
	}

	for _, item := range items {
		receipt.Items = append(receipt.Items, model.SaleReceiptLine{
			ProductName: nameBySKU[item.SKU],
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
			CostPrice:   item.CostPrice.StringFixed(2),
		})
	}

	if settings, err := s.settingsRepo.GetReceiptSettings(); err == nil {
		receipt.ShowThanks = settings.ShowThankYouNote
		receipt.ThanksNote = settings.ThankYouNote
		receipt.ShowName = settings.ShowCashierName
		receipt.ShowTime = settings.ShowSalesTime
		receipt.ShowLogo = settings.ShowLogo
	} else {
		log.Printf("failed to load receipt settings: %v", err)
	}

	return receipt
}

func (s *saleService) broadcastSale(receipt *model.SaleReceipt, alerts []model.Alert) {
	s.wsHub.PublishJSON(map[string]interface{}{
		"type":    "sale_completed",
		"sale":    receipt,
		"message": fmt.Sprintf("Sale %s completed by %s", receipt.SaleNumber, receipt.CashierName),
	})
	for _, alert := range alerts {
		s.wsHub.PublishJSON(map[string]interface{}{
			"type":  "alert",
			"alert": alert,
		})
	}
}

func (s *saleService) GetSales(limit int) ([]model.Sale, error) {
	return s.saleRepo.FindAll(limit)
}

func (s *saleService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}

func (s *saleService) GetSalesSummary(date time.Time) (*repository.SalesSummary, error) {
	return s.saleRepo.SummaryForDate(date)
}
