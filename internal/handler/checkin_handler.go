package handler

import (
	"errors"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Check-ins inside this window after start still count as on time.
const onTimeGrace = 5 * time.Minute

type CheckInHandler struct {
	events      repository.EventRepository
	assignments repository.AssignmentRepository
	checkIns    repository.CheckInRepository
}

func NewCheckInHandler(events repository.EventRepository, assignments repository.AssignmentRepository, checkIns repository.CheckInRepository) *CheckInHandler {
	return &CheckInHandler{events: events, assignments: assignments, checkIns: checkIns}
}

type CheckInRequest struct {
	Token string `json:"token"`
}

// POST /api/checkin — an authenticated employee scans an event QR code.
// Requires an active assignment for a currently running event; duplicate
// scans return the original record.
func (h *CheckInHandler) CheckIn(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token is missing the employee claim"})
	}

	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	event, err := h.events.GetByCheckInToken(req.Token)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown check-in code"})
	}

	now := time.Now()
	if now.Before(event.StartTime.Add(-onTimeGrace)) || !now.Before(event.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "event is not open for check-in"})
	}

	if _, err := h.assignments.GetActiveByEventAndEmployee(event.ID, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you are not assigned to this event"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to verify assignment"})
	}

	// Idempotent per (event, employee): a second scan is not an error.
	if existing, err := h.checkIns.GetByEventAndEmployee(event.ID, employeeID); err == nil {
		return c.JSON(fiber.Map{"message": "already checked in", "data": existing})
	}

	status := model.CheckInOnTime
	if now.After(event.StartTime.Add(onTimeGrace)) {
		status = model.CheckInLate
	}

	checkIn := model.CheckIn{
		EventID:     event.ID,
		EmployeeID:  employeeID,
		Token:       req.Token,
		Status:      status,
		CheckedInAt: now,
	}
	if err := h.checkIns.Create(&checkIn); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record check-in"})
	}

	return c.JSON(fiber.Map{"message": "checked in", "data": checkIn})
}
