//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hugh/care-package/internal/auth"
	"github.com/hugh/care-package/internal/database"
	"github.com/hugh/care-package/internal/database/models"
	"github.com/hugh/care-package/pkg/config"
	"github.com/hugh/care-package/pkg/util"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db, logger); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create admin user
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, nil)

	username := envOr("ADMIN_USERNAME", "admin")
	email := envOr("ADMIN_EMAIL", "admin@example.com")
	password := envOr("ADMIN_PASSWORD", "admin123!")
	name := envOr("ADMIN_NAME", "Admin")

	admin, err := authService.CreateAdmin(context.Background(), auth.CreateAdminInput{
		Username: username,
		Email:    email,
		Password: password,
		Name:     name,
	})
	switch {
	case errors.Is(err, auth.ErrAdminExists):
		fmt.Printf("Admin already exists: %s\n", username)
	case err != nil:
		log.Fatalf("failed to create admin: %v", err)
	default:
		fmt.Printf("Admin created successfully!\n")
		fmt.Printf("Username: %s\n", admin.Username)
		fmt.Printf("Email: %s\n", admin.Email)
	}

	if err := seedSampleCustomer(db); err != nil {
		log.Fatalf("failed to seed sample customer: %v", err)
	}
}

// seedSampleCustomer adds one customer with a contract and a store so the
// dashboard has something to show. It is skipped when the customer exists.
func seedSampleCustomer(db *gorm.DB) error {
	const sampleEmail = "owner@sample-bakery.example"

	var count int64
	if err := db.Model(&models.Customer{}).Where("email = ?", sampleEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Sample customer already exists")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		customer := models.Customer{Name: "Sample Bakery", Email: sampleEmail}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		contract := models.Contract{
			CustomerID: customer.ID,
			PlanID:     "standard",
			Status:     models.ContractStatusActive,
			MonthlyFee: decimal.RequireFromString("9800.00"),
		}
		if err := tx.Create(&contract).Error; err != nil {
			return err
		}

		address := "1-2-3 Main Street"
		store := models.Store{
			CustomerID: customer.ID,
			Name:       "Sample Bakery Main Street",
			Address:    &address,
			IsActive:   true,
		}
		hours := []models.BusinessHours{{DayOfWeek: 0, IsClosed: true}}
		for day := 1; day <= 6; day++ {
			hours = append(hours, models.BusinessHours{DayOfWeek: day, OpenTime: "08:00", CloseTime: "18:00"})
		}
		if err := store.SetWeeklyHours(hours); err != nil {
			return err
		}
		if err := tx.Create(&store).Error; err != nil {
			return err
		}

		fmt.Printf("Sample customer created: %s (store %s)\n", customer.Name, store.Name)
		return nil
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
