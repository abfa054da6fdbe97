package handler

import (
	"errors"

	"github.com/caylanwilcox/qr-system-sub003/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// employeeIDFromToken reads the employee claim the auth middleware stored.
// A validly signed token can still lack the claim, so the assertion is
// checked rather than trusted.
func employeeIDFromToken(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("employee_id").(float64)
	return uint(id), ok
}

type AuthHandler struct {
	usecase *usecase.AuthUsecase
}

func NewAuthHandler(u *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{usecase: u}
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	LocationID uint   `json:"location_id"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.LocationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email, password and location are required"})
	}

	employee, err := h.usecase.Register(req.Name, req.Email, req.Password, req.LocationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "registered",
		"data":    employee,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	token, employee, err := h.usecase.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrBadCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"token":   token,
		"data": fiber.Map{
			"id":          employee.ID,
			"name":        employee.Name,
			"role":        employee.Role,
			"rank":        employee.Rank,
			"location_id": employee.LocationID,
		},
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	employeeID, ok := employeeIDFromToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token is missing the employee claim"})
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.usecase.ChangePassword(employeeID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, usecase.ErrBadCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "old password is incorrect"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to change password"})
	}

	return c.JSON(fiber.Map{"message": "password changed"})
}
