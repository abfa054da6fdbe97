package handler

import (
	"errors"
	"time"

	"github.com/caylanwilcox/qr-system-sub003/internal/scheduler"

	"github.com/gofiber/fiber/v2"
)

// ScheduleHandler is the rendering collaborator's entry point: it turns
// HTTP calls into variant operations and returns snapshots for the
// calendar UI.
type ScheduleHandler struct {
	manager *scheduler.Manager
}

func NewScheduleHandler(manager *scheduler.Manager) *ScheduleHandler {
	return &ScheduleHandler{manager: manager}
}

func viewerClaims(c *fiber.Ctx) scheduler.Claims {
	claims := scheduler.Claims{}
	if id, ok := c.Locals("employee_id").(float64); ok {
		claims.EmployeeID = uint(id)
	}
	if role, ok := c.Locals("role").(string); ok {
		claims.Role = role
	}
	if loc, ok := c.Locals("location_id").(float64); ok {
		claims.LocationID = uint(loc)
	}
	return claims
}

// respondSchedulerError maps the error taxonomy onto HTTP statuses.
func respondSchedulerError(c *fiber.Ctx, err error) error {
	var authErr *scheduler.AuthorizationError
	var validationErr *scheduler.ValidationError
	var conflictErr *scheduler.ConflictError
	var storeErr *scheduler.StoreError

	switch {
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": authErr.Error()})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  conflictErr.Error(),
			"reason": conflictErr.Reason,
		})
	case errors.Is(err, scheduler.ErrOperationInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &storeErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": storeErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// variant returns the mounted variant for the viewer, mounting and
// initializing one on first use.
func (h *ScheduleHandler) variant(c *fiber.Ctx) (scheduler.Variant, error) {
	claims := viewerClaims(c)
	if v, ok := h.manager.Get(claims.EmployeeID); ok {
		return v, nil
	}
	v, err := h.manager.Mount(claims)
	if err != nil {
		return nil, err
	}
	if err := v.Initialize(); err != nil {
		// The variant stays mounted with its error field set; the client
		// retries by navigating.
		return v, nil
	}
	return v, nil
}

// GET /api/schedule
func (h *ScheduleHandler) GetSnapshot(c *fiber.Ctx) error {
	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	return c.JSON(fiber.Map{"data": v.Snapshot()})
}

type NavigateRequest struct {
	View string `json:"view"`
	Date string `json:"date"` // YYYY-MM-DD
}

// POST /api/schedule/navigate
func (h *ScheduleHandler) Navigate(c *fiber.Ctx) error {
	var req NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}
	view := scheduler.ViewMode(req.View)
	switch view {
	case scheduler.ViewDay, scheduler.ViewWeek, scheduler.ViewMonth:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "view must be day, week or month"})
	}

	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	if err := v.Navigate(view, date); err != nil {
		return respondSchedulerError(c, err)
	}
	return c.JSON(fiber.Map{"data": v.Snapshot()})
}

type EventDialogRequest struct {
	Open   bool  `json:"open"`
	Target *uint `json:"target"` // nil = create mode
}

// POST /api/schedule/dialog/event
func (h *ScheduleHandler) ToggleEventDialog(c *fiber.Ctx) error {
	var req EventDialogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	if req.Open {
		v.OpenEventDialog(req.Target)
	} else {
		v.CloseEventDialog()
	}
	return c.JSON(fiber.Map{"data": v.Snapshot().State})
}

type AssignmentDialogRequest struct {
	Open bool `json:"open"`
}

// POST /api/schedule/dialog/assignment
func (h *ScheduleHandler) ToggleAssignmentDialog(c *fiber.Ctx) error {
	var req AssignmentDialogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	if req.Open {
		v.OpenAssignmentDialog()
	} else {
		v.CloseAssignmentDialog()
	}
	return c.JSON(fiber.Map{"data": v.Snapshot().State})
}

// POST /api/schedule/events
func (h *ScheduleHandler) SubmitEvent(c *fiber.Ctx) error {
	var input scheduler.EventInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	event, err := v.SubmitEvent(input)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "event saved",
		"data":    event,
		"state":   v.Snapshot().State,
	})
}

type SubmitAssignmentRequest struct {
	EventID    uint `json:"event_id"`
	EmployeeID uint `json:"employee_id"` // employees may omit; admins must set
}

// POST /api/schedule/assignments
func (h *ScheduleHandler) SubmitAssignment(c *fiber.Ctx) error {
	var req SubmitAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	assignment, err := v.SubmitAssignment(req.EventID, req.EmployeeID)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "assignment committed",
		"data":    assignment,
	})
}

// DELETE /api/schedule/assignments/:id
func (h *ScheduleHandler) CancelAssignment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid assignment id"})
	}

	v, err := h.variant(c)
	if err != nil {
		return respondSchedulerError(c, err)
	}
	if err := v.CancelAssignment(uint(id)); err != nil {
		return respondSchedulerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "assignment cancelled"})
}

// DELETE /api/schedule/session
func (h *ScheduleHandler) Unmount(c *fiber.Ctx) error {
	claims := viewerClaims(c)
	h.manager.Unmount(claims.EmployeeID)
	return c.JSON(fiber.Map{"message": "session closed"})
}
