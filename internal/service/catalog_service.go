package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(actor string, req *model.CreateProductRequest) (*model.Product, error)
	GetProducts(categoryID *uuid.UUID, search string) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetProductBySKU(sku string) (*model.Product, error)
	CreateCategory(actor string, category *model.Category) error
	GetCategories() ([]model.CategoryResponse, error)

	ReceiveStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error)
	ReturnStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error)
	WriteOffStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error)
	AdjustStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error)
}

type catalogService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
}

func NewCatalogService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
) CatalogService {
	return &catalogService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
	}
}

func (s *catalogService) CreateProduct(actor string, req *model.CreateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, &ValidationError{Field: first.FailedField, Reason: fmt.Sprintf("failed on %q", first.Tag)}
	}
	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, &ValidationError{Field: "cost_price", Reason: "prices must not be negative"}
	}

	if _, err := s.productRepo.FindBySKU(req.SKU); err == nil {
		return nil, &ValidationError{Field: "sku", Reason: "sku already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Field: "category_id", Reason: "unknown category"}
			}
			return nil, err
		}
	}

	product := &model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		IsActive:      true,
	}
	if product.ReorderLevel == 0 {
		product.ReorderLevel = 10
	}
	product.CreatedBy = actor

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProducts(categoryID *uuid.UUID, search string) ([]model.Product, error) {
	return s.productRepo.FindAll(categoryID, search)
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

func (s *catalogService) GetProductBySKU(sku string) (*model.Product, error) {
	product, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{SKU: sku}
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) CreateCategory(actor string, category *model.Category) error {
	if category.Name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	category.IsActive = true
	category.CreatedBy = actor
	return s.categoryRepo.Create(category)
}

func (s *catalogService) GetCategories() ([]model.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllActive()
	if err != nil {
		return nil, err
	}

	responses := make([]model.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		count, err := s.categoryRepo.CountProducts(category.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, model.CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			ItemCount:   count,
		})
	}
	return responses, nil
}

// ReceiveStock records an inbound delivery: quantity added to the shelf and
// an "in" ledger entry referencing the supplier document.
func (s *catalogService) ReceiveStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return s.applyMovement(ctx, cashier, req, model.MovementIn, req.Quantity, "Stock received")
}

// ReturnStock puts customer-returned units back on the shelf.
func (s *catalogService) ReturnStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return s.applyMovement(ctx, cashier, req, model.MovementReturn, req.Quantity, "Customer return")
}

// WriteOffStock removes damaged or expired units from the shelf.
func (s *catalogService) WriteOffStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return s.applyMovement(ctx, cashier, req, model.MovementDamaged, -req.Quantity, "Damaged / written off")
}

// AdjustStock applies a signed correction from a physical count.
func (s *catalogService) AdjustStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	if req.Quantity == 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must not be zero"}
	}
	return s.applyMovement(ctx, cashier, req, model.MovementAdjustment, req.Quantity, "Stock count adjustment")
}

// applyMovement is the shared core of every manual stock operation: lock the
// product row, apply the signed delta, and append the ledger entry, all in
// one transaction. Lock waits are bounded; a timed-out wait rolls back and
// surfaces as ErrCommitFailed.
func (s *catalogService) applyMovement(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest, movementType model.MovementType, delta int, defaultNote string) (*model.Product, error) {
	if req.SKU == "" {
		return nil, &ValidationError{Field: "sku", Reason: "sku is required"}
	}

	ctx, cancel := context.WithTimeout(ctx, lockWaitTimeout)
	defer cancel()

	var product *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.productRepo.LockBySKU(tx, req.SKU)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductNotFoundError{SKU: req.SKU}
			}
			return err
		}

		newStock := product.StockQuantity + delta
		if newStock < 0 {
			return &InsufficientStockError{ProductName: product.Name}
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, cashier.Email); err != nil {
			return err
		}
		product.StockQuantity = newStock

		unitCost := product.CostPrice
		if req.UnitCost != nil {
			unitCost = *req.UnitCost
		}
		notes := req.Notes
		if notes == "" {
			notes = defaultNote
		}

		movement := model.StockMovement{
			ProductID:    product.ID,
			MovementType: movementType,
			Quantity:     delta,
			UnitCost:     unitCost,
			Reference:    req.Reference,
			Notes:        notes,
			CashierID:    cashier.ID,
		}
		movement.CreatedBy = cashier.Email
		return s.movementRepo.Create(tx, &movement)
	})
	if err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		log.Printf("stock %s failed (sku=%s): %v", movementType, req.SKU, err)
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return product, nil
}
