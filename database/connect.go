package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"budgetwise-go-be/models"
)

// Connect opens the database and runs migrations. Callers decide whether a
// failure is fatal; the server treats it as one.
func Connect(dsn string) (*gorm.DB, error) {
	if !strings.Contains(dsn, "sslmode") {
		dsn += "?sslmode=require" // Fixes Supabase connection refusal
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Println("Connected to database successfully")

	log.Println("Running migrations...")
	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Println("Database migrated successfully")

	return db, nil
}
