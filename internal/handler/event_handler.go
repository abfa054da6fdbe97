package handler

import (
	"github.com/caylanwilcox/qr-system-sub003/config"
	"github.com/caylanwilcox/qr-system-sub003/internal/qr"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// EventHandler serves the admin-side event reads that live outside the
// calendar snapshot: detail views, rosters, check-in lists and QR codes.
// Event writes go through the scheduler variant, not here.
type EventHandler struct {
	events      repository.EventRepository
	assignments repository.AssignmentRepository
	checkIns    repository.CheckInRepository
}

func NewEventHandler(events repository.EventRepository, assignments repository.AssignmentRepository, checkIns repository.CheckInRepository) *EventHandler {
	return &EventHandler{events: events, assignments: assignments, checkIns: checkIns}
}

// GET /api/admin/events/:id
func (h *EventHandler) GetDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	event, err := h.events.GetByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}

	roster, err := h.assignments.GetActiveForEvent(event.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load roster"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"event":  event,
			"roster": roster,
		},
	})
}

// GET /api/admin/events/:id/qr — the printable check-in code.
func (h *EventHandler) GetQR(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	event, err := h.events.GetByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}

	content := qr.CheckInContent(config.GetEnv("APP_BASE_URL", "http://localhost:3000"), event.CheckInToken)
	png, err := qr.EncodePNG(content, c.QueryInt("size", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render QR code"})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// GET /api/admin/events/:id/checkins
func (h *EventHandler) GetCheckIns(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	checkIns, err := h.checkIns.GetForEvent(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load check-ins"})
	}
	return c.JSON(fiber.Map{"data": checkIns})
}

// DELETE /api/admin/events/:id — soft delete; assignments stay for history.
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	if err := h.events.Delete(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete event"})
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}
