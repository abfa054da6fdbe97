package main

import (
	"log"

	"github.com/caylanwilcox/qr-system-sub003/config"
	"github.com/caylanwilcox/qr-system-sub003/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: no .env file found, using system environment")
	}

	config.ConnectDB()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())

	routes.SetupAuthRoutes(app, config.DB)
	routes.SetupScheduleRoutes(app, config.DB)
	routes.SetupEventRoutes(app, config.DB)
	routes.SetupCheckInRoutes(app, config.DB)
	routes.SetupDashboardRoutes(app, config.DB)
	routes.SetupEmployeeRoutes(app, config.DB)

	addr := ":" + config.GetEnv("PORT", "3000")
	log.Printf("listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}
