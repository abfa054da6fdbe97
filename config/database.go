package config

import (
	"fmt"

	"github.com/caylanwilcox/qr-system-sub003/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	// Format: user:password@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		GetEnv("DB_USER", "root"),
		GetEnv("DB_PASSWORD", ""),
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnv("DB_PORT", "3306"),
		GetEnv("DB_NAME", "qr_system"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect to database: " + err.Error())
	}

	// Auto Migration: creates tables from the structs in internal/model
	db.AutoMigrate(&model.Location{})
	db.AutoMigrate(&model.Employee{})
	db.AutoMigrate(&model.Event{})
	db.AutoMigrate(&model.Assignment{})
	db.AutoMigrate(&model.CheckIn{})

	DB = db
}
