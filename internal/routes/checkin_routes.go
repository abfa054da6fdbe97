package routes

import (
	"github.com/caylanwilcox/qr-system-sub003/internal/handler"
	"github.com/caylanwilcox/qr-system-sub003/internal/middleware"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCheckInRoutes(app *fiber.App, db *gorm.DB) {
	events := repository.NewEventRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	checkIns := repository.NewCheckInRepository(db)
	hdl := handler.NewCheckInHandler(events, assignments, checkIns)

	app.Post("/api/checkin", middleware.Auth, hdl.CheckIn)
}
