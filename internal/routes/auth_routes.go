package routes

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/handler"
	"github.com/caylanwilcox/qr-system-sub003/internal/middleware"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"
	"github.com/caylanwilcox/qr-system-sub003/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewEmployeeRepository(db)
	uc := usecase.NewAuthUsecase(repo)
	hdl := handler.NewAuthHandler(uc)

	app.Post("/api/auth/register", hdl.Register)
	app.Post("/api/auth/login", hdl.Login)
	app.Put("/api/auth/password", middleware.Auth, hdl.ChangePassword)
}
