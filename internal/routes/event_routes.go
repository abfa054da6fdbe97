package routes

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/handler"
	"github.com/caylanwilcox/qr-system-sub003/internal/middleware"
	"github.com/caylanwilcox/qr-system-sub003/internal/model"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupEventRoutes(app *fiber.App, db *gorm.DB) {
	events := repository.NewEventRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	checkIns := repository.NewCheckInRepository(db)
	hdl := handler.NewEventHandler(events, assignments, checkIns)

	api := app.Group("/api/admin/events", middleware.Auth, middleware.Role(model.RoleAdmin, model.RoleSuperAdmin))
	api.Get("/:id", hdl.GetDetail)
	api.Get("/:id/qr", hdl.GetQR)
	api.Get("/:id/checkins", hdl.GetCheckIns)
	api.Delete("/:id", hdl.Delete)
}
