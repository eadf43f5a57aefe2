package database

import (
	"log"

	"lottery-backend/internal/config"
	"lottery-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Shop{},
		&models.User{},
		&models.Lottery{},
		&models.DailyRecord{},
		&models.DistributionRule{},
		&models.DailyOrder{},
		&models.LoanRecord{},
		&models.LoanAllocation{},
		&models.DailyProfit{},
		&models.ShopNote{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}
