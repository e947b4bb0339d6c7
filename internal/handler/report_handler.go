package handler

import (
	"errors"
	"time"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

// GetDailyReport returns the rollup row for one date (?date=YYYY-MM-DD,
// today when omitted). 404 before the first sale of that day.
func (h *ReportHandler) GetDailyReport(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	report, err := h.service.GetDailyReport(date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "No report for that date"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetRecentReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 30)
	reports, err := h.service.GetRecentReports(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reports)
}

func (h *ReportHandler) GetStockFlow(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	flow, err := h.service.GetStockFlow(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(flow)
}
