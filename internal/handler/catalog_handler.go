package handler

import (
	"context"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	cashier := currentCashier(c)
	if cashier == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req model.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(cashier.Email, &req)
	if err != nil {
		if service.IsBusinessError(err) {
			return c.Status(400).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to create product"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": product})
}

// GetProducts supports ?category_id= and ?search= filters; search matches
// name or SKU.
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
		}
		categoryID = &id
	}

	products, err := h.service.GetProducts(categoryID, c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *CatalogHandler) GetProductBySKU(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySKU(c.Params("sku"))
	if err != nil {
		if service.IsBusinessError(err) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	cashier := currentCashier(c)
	if cashier == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	if err := h.service.CreateCategory(cashier.Email, &category); err != nil {
		if service.IsBusinessError(err) {
			return c.Status(400).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to create category"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": category})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) ReceiveStock(c *fiber.Ctx) error {
	return h.stockOperation(c, h.service.ReceiveStock)
}

func (h *CatalogHandler) ReturnStock(c *fiber.Ctx) error {
	return h.stockOperation(c, h.service.ReturnStock)
}

func (h *CatalogHandler) WriteOffStock(c *fiber.Ctx) error {
	return h.stockOperation(c, h.service.WriteOffStock)
}

func (h *CatalogHandler) AdjustStock(c *fiber.Ctx) error {
	return h.stockOperation(c, h.service.AdjustStock)
}

func (h *CatalogHandler) stockOperation(c *fiber.Ctx, op func(context.Context, *model.Cashier, *model.StockOperationRequest) (*model.Product, error)) error {
	cashier := currentCashier(c)
	if cashier == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req model.StockOperationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	product, err := op(c.UserContext(), cashier, &req)
	if err != nil {
		if service.IsBusinessError(err) {
			return c.Status(400).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to update stock"})
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}
