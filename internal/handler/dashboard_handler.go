package handler

import (
	"strconv"

	"go-equipment-loan/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func queryDays(c *fiber.Ctx) int {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

// GetLoanActivity returns per-day borrow/return counts for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetLoanActivity(c *fiber.Ctx) error {
	days := queryDays(c)

	data, err := h.service.GetLoanActivity(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch loan activity"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetFineSummary returns assessed vs collected fines in the window
// Query params: days (default 30)
func (h *DashboardHandler) GetFineSummary(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	summary, err := h.service.GetFineSummary(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch fine summary"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   summary,
	})
}
