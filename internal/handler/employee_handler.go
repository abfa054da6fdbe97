package handler

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	employees repository.EmployeeRepository
	locations repository.LocationRepository
}

func NewEmployeeHandler(employees repository.EmployeeRepository, locations repository.LocationRepository) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, locations: locations}
}

// GET /api/admin/employees?location_id=2
func (h *EmployeeHandler) GetAll(c *fiber.Ctx) error {
	if locationID := c.QueryInt("location_id", 0); locationID > 0 {
		employees, err := h.employees.GetByLocation(uint(locationID))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load employees"})
		}
		return c.JSON(fiber.Map{"data": employees})
	}

	employees, err := h.employees.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load employees"})
	}
	return c.JSON(fiber.Map{"data": employees})
}

type UpdateRankRequest struct {
	Rank string `json:"rank"`
}

// PUT /api/admin/employees/:id/rank
func (h *EmployeeHandler) UpdateRank(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid employee id"})
	}

	var req UpdateRankRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	switch req.Rank {
	case model.RankJunior, model.RankIntermediate, model.RankSenior:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rank must be junior, intermediate or senior"})
	}

	if err := h.employees.UpdateRank(uint(id), req.Rank); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update rank"})
	}
	return c.JSON(fiber.Map{"message": "rank updated"})
}

// GET /api/locations — public, needed by the registration form.
func (h *EmployeeHandler) GetLocations(c *fiber.Ctx) error {
	locations, err := h.locations.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load locations"})
	}
	return c.JSON(fiber.Map{"data": locations})
}
