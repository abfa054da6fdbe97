package routes

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/handler"
	"github.com/caylanwilcox/qr-system-sub003/internal/middleware"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewDashboardRepository(db)
	hdl := handler.NewDashboardHandler(repo)

	api := app.Group("/api/admin", middleware.Auth, middleware.Role(model.RoleAdmin, model.RoleSuperAdmin))
	api.Get("/dashboard", hdl.GetStats)
}
