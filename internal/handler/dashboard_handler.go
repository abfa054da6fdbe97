package handler

import (
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	repo repository.DashboardRepository
}

func NewDashboardHandler(repo repository.DashboardRepository) *DashboardHandler {
	return &DashboardHandler{repo: repo}
}

// GET /api/admin/dashboard
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.repo.GetDailyStats(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load dashboard stats"})
	}

	summary, err := h.repo.GetLocationRankSummary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load rank summary"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"stats":        stats,
			"rank_summary": summary,
		},
	})
}
