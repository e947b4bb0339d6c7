package handler

import (
	"context"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubCatalogService struct {
	product *model.Product
	err     error
	lastOp  string
}

func (s *stubCatalogService) CreateProduct(actor string, req *model.CreateProductRequest) (*model.Product, error) {
	return s.product, s.err
}
func (s *stubCatalogService) GetProducts(categoryID *uuid.UUID, search string) ([]model.Product, error) {
	return nil, s.err
}
func (s *stubCatalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	return s.product, s.err
}
func (s *stubCatalogService) GetProductBySKU(sku string) (*model.Product, error) {
	return s.product, s.err
}
func (s *stubCatalogService) CreateCategory(actor string, category *model.Category) error {
	return s.err
}
func (s *stubCatalogService) GetCategories() ([]model.CategoryResponse, error) {
	return nil, s.err
}
func (s *stubCatalogService) ReceiveStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	s.lastOp = "receive"
	return s.product, s.err
}
func (s *stubCatalogService) ReturnStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	s.lastOp = "return"
	return s.product, s.err
}
func (s *stubCatalogService) WriteOffStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	s.lastOp = "write-off"
	return s.product, s.err
}
func (s *stubCatalogService) AdjustStock(ctx context.Context, cashier *model.Cashier, req *model.StockOperationRequest) (*model.Product, error) {
	s.lastOp = "adjust"
	return s.product, s.err
}

func catalogApp(svc service.CatalogService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("cashier", &model.Cashier{Email: "cashier@example.com", IsActive: true})
		return c.Next()
	})
	h := NewCatalogHandler(svc)
	app.Post("/stock/receive", h.ReceiveStock)
	app.Post("/stock/return", h.ReturnStock)
	app.Post("/stock/write-off", h.WriteOffStock)
	app.Post("/stock/adjust", h.AdjustStock)
	return app
}

func TestStockOperationRouting(t *testing.T) {
	body := model.StockOperationRequest{SKU: "SKU-001", Quantity: 5}

	cases := []struct {
		path string
		op   string
	}{
		{"/stock/receive", "receive"},
		{"/stock/return", "return"},
		{"/stock/write-off", "write-off"},
		{"/stock/adjust", "adjust"},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			svc := &stubCatalogService{product: &model.Product{SKU: "SKU-001"}}
			app := catalogApp(svc)

			resp := postJSON(t, app, tc.path, body)
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, tc.op, svc.lastOp)
		})
	}
}

func TestStockOperationErrors(t *testing.T) {
	t.Run("unknown sku is 400", func(t *testing.T) {
		svc := &stubCatalogService{err: &service.ProductNotFoundError{SKU: "SKU-404"}}
		app := catalogApp(svc)

		resp := postJSON(t, app, "/stock/receive", model.StockOperationRequest{SKU: "SKU-404", Quantity: 5})
		assert.Equal(t, 400, resp.StatusCode)

		respBody := decodeBody(t, resp)
		assert.Contains(t, respBody["message"], "SKU-404")
	})

	t.Run("write-off below zero is 400", func(t *testing.T) {
		svc := &stubCatalogService{err: &service.InsufficientStockError{ProductName: "Beans"}}
		app := catalogApp(svc)

		resp := postJSON(t, app, "/stock/write-off", model.StockOperationRequest{SKU: "SKU-001", Quantity: 99})
		assert.Equal(t, 400, resp.StatusCode)
	})
}
