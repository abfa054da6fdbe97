package routes

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/handler"
	"github.com/caylanwilcox/qr-system-sub003/internal/middleware"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupEmployeeRoutes(app *fiber.App, db *gorm.DB) {
	employees := repository.NewEmployeeRepository(db)
	locations := repository.NewLocationRepository(db)
	hdl := handler.NewEmployeeHandler(employees, locations)

	app.Get("/api/locations", hdl.GetLocations)

	api := app.Group("/api/admin/employees", middleware.Auth, middleware.Role(model.RoleAdmin, model.RoleSuperAdmin))
	api.Get("/", hdl.GetAll)
	api.Put("/:id/rank", hdl.UpdateRank)
}
