package routes

import (
	"github.com/caylanwilcox/qr-system-sub003/config"
	"github.com/caylanwilcox/qr-system-sub003/internal/handler"
	"github.com/caylanwilcox/qr-system-sub003/internal/middleware"
	"github.com/caylanwilcox/qr-system-sub003/internal/notification"
	"github.com/caylanwilcox/qr-system-sub003/internal/repository"
	"github.com/caylanwilcox/qr-system-sub003/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupScheduleRoutes(app *fiber.App, db *gorm.DB) {
	store := scheduler.NewGormStore(db)
	mailer := notification.NewMailer(repository.NewEmployeeRepository(db))
	manager := scheduler.NewManager(store, mailer, scheduler.Options{
		Timeout: config.GetEnvAsDuration("STORE_TIMEOUT", 0),
	})
	hdl := handler.NewScheduleHandler(manager)

	// Both variants mount through the same surface; role resolution picks
	// the implementation and the variants gate their own operations.
	api := app.Group("/api/schedule", middleware.Auth)
	api.Get("/", hdl.GetSnapshot)
	api.Post("/navigate", hdl.Navigate)
	api.Post("/dialog/event", hdl.ToggleEventDialog)
	api.Post("/dialog/assignment", hdl.ToggleAssignmentDialog)
	api.Post("/events", hdl.SubmitEvent)
	api.Post("/assignments", hdl.SubmitAssignment)
	api.Delete("/assignments/:id", hdl.CancelAssignment)
	api.Delete("/session", hdl.Unmount)
}
