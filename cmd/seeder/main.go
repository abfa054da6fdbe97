package main

import (
	"log"

	"github.com/caylanwilcox/qr-system-sub003/config"
	"github.com/caylanwilcox/qr-system-sub003/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: no .env file found, using system environment")
	}

	config.ConnectDB()
	database.SeedAll(config.DB)
}
