package handler

import (
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// currentCashier pulls the authenticated cashier out of the request context
// (set by RequireAuth).
func currentCashier(c *fiber.Ctx) *model.Cashier {
	cashier, ok := c.Locals("cashier").(*model.Cashier)
	if !ok {
		return nil
	}
	return cashier
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// CompleteSale handles POST /api/v1/sales: the cart commit. Business
// failures (bad cart, unknown SKU, not enough stock) come back as 400 with
// the reason; anything else means the transaction rolled back and is a 500.
func (h *SaleHandler) CompleteSale(c *fiber.Ctx) error {
	cashier := currentCashier(c)
	if cashier == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req model.CompleteSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	receipt, err := h.service.CompleteSale(c.UserContext(), cashier.ID, &req)
	if err != nil {
		if service.IsBusinessError(err) {
			return c.Status(400).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to complete sale"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": receipt})
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	sales, err := h.service.GetSales(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSaleByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

// GetSalesSummary returns today's totals by default, or a specific day via
// ?date=2006-01-02.
func (h *SaleHandler) GetSalesSummary(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	summary, err := h.service.GetSalesSummary(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summary)
}
